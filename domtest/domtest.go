// Package domtest adapts golang.org/x/net/html parse trees to the
// dom.Element/dom.Document contract, for tests and example tooling that
// need a concrete document without embedding a real browser DOM.
package domtest

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/chrisuehlinger/plutocss/dom"
)

// Element wraps an *html.Node element node.
type Element struct {
	node *html.Node
	doc  *Document
}

var _ dom.Element = (*Element)(nil)

// Document wraps a parsed HTML document and a fixed viewport, for tests
// that need SupportsMediaQueries/ViewportWidthPx to behave deterministically.
type Document struct {
	root          *html.Node
	viewportW     float64
	viewportH     float64
	mediaType     string
	booleanFeats  map[string]bool
}

var _ dom.Document = (*Document)(nil)

// ParseDocument parses an HTML fragment into a Document with the given
// viewport dimensions (defaults to 800x600 if either is zero).
func ParseDocument(htmlText string, viewportW, viewportH float64) (*Document, error) {
	n, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return nil, err
	}
	if viewportW == 0 {
		viewportW = 800
	}
	if viewportH == 0 {
		viewportH = 600
	}
	return &Document{
		root:      n,
		viewportW: viewportW,
		viewportH: viewportH,
		mediaType: "screen",
		booleanFeats: map[string]bool{
			"color": true,
		},
	}, nil
}

// SetMediaType changes the simulated media type ("screen", "print", ...)
// used by SupportsMediaQueries.
func (d *Document) SetMediaType(mediaType string) { d.mediaType = mediaType }

// Root returns the document's root element (<html>).
func (d *Document) Root() dom.Element {
	el := findElement(d.root)
	if el == nil {
		return nil
	}
	return &Element{node: el, doc: d}
}

// ViewportWidthPx returns the simulated viewport width.
func (d *Document) ViewportWidthPx() float64 { return d.viewportW }

// ViewportHeightPx returns the simulated viewport height.
func (d *Document) ViewportHeightPx() float64 { return d.viewportH }

// SupportsMediaQueries evaluates a parsed media query list against this
// document's simulated media type and viewport, per the comma-separated
// any-match rule of the Media Queries grammar.
func (d *Document) SupportsMediaQueries(list dom.MediaQueryList) bool {
	if list == nil {
		return true
	}
	for _, q := range list.Queries() {
		if d.queryMatches(q) {
			return true
		}
	}
	return false
}

func (d *Document) queryMatches(q dom.MediaQuery) bool {
	matches := d.typeMatches(q.MediaType()) && d.featuresMatch(q.Features())
	if q.Negated() {
		return !matches
	}
	return matches
}

func (d *Document) typeMatches(mediaType string) bool {
	if mediaType == "" || strings.EqualFold(mediaType, "all") {
		return true
	}
	return strings.EqualFold(mediaType, d.mediaType)
}

func (d *Document) featuresMatch(features []dom.MediaFeature) bool {
	for _, f := range features {
		if !d.featureMatches(f) {
			return false
		}
	}
	return true
}

func (d *Document) featureMatches(f dom.MediaFeature) bool {
	name := strings.ToLower(f.Name)
	if f.Value == "" {
		return d.booleanFeats[name]
	}

	px, ok := parsePxValue(f.Value)
	if !ok {
		return false
	}

	switch name {
	case "width":
		return px == d.viewportW
	case "min-width":
		return d.viewportW >= px
	case "max-width":
		return d.viewportW <= px
	case "height":
		return px == d.viewportH
	case "min-height":
		return d.viewportH >= px
	case "max-height":
		return d.viewportH <= px
	}
	return false
}

func parsePxValue(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// findElement returns n if it's an element node, else the first element
// node reachable via depth-first traversal.
func findElement(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if el := findElement(c); el != nil {
			return el
		}
	}
	return nil
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func prevElementSibling(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func wrap(n *html.Node, doc *Document) dom.Element {
	if n == nil {
		return nil
	}
	return &Element{node: n, doc: doc}
}

func (e *Element) ParentElement() dom.Element {
	if e.node.Parent == nil || e.node.Parent.Type != html.ElementNode {
		return nil
	}
	return wrap(e.node.Parent, e.doc)
}

func (e *Element) FirstChildElement() dom.Element {
	return wrap(findElement(e.node.FirstChild), e.doc)
}

func (e *Element) NextSiblingElement() dom.Element {
	return wrap(nextElementSibling(e.node), e.doc)
}

func (e *Element) PreviousSiblingElement() dom.Element {
	return wrap(prevElementSibling(e.node), e.doc)
}

func (e *Element) TagName() string { return strings.ToUpper(e.node.Data) }

func (e *Element) NamespaceURI() string {
	switch e.node.Namespace {
	case "svg":
		return "http://www.w3.org/2000/svg"
	case "math":
		return "http://www.w3.org/1998/Math/MathML"
	default:
		return "http://www.w3.org/1999/xhtml"
	}
}

func (e *Element) ID() string {
	v, _ := e.GetAttribute("id")
	return v
}

func (e *Element) ClassNames() []string {
	v, ok := e.GetAttribute("class")
	if !ok || v == "" {
		return nil
	}
	return strings.Fields(v)
}

func (e *Element) Attributes() []dom.Attribute {
	out := make([]dom.Attribute, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		out = append(out, dom.Attribute{Name: a.Key, Value: a.Val})
	}
	return out
}

func (e *Element) IsHTMLDocument() bool { return true }

func (e *Element) IsSVGElement() bool { return e.node.Namespace == "svg" }

func (e *Element) IsCaseSensitive() bool { return e.node.Namespace != "" }

func (e *Element) IsRootNode() bool {
	return e.node.Parent == nil || e.node.Parent.Type != html.ElementNode
}

func (e *Element) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.node.Attr {
		if strings.ToLower(a.Key) == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) GetURLAttribute(name string) (string, bool) {
	return e.GetAttribute(name)
}

func (e *Element) Lang() string {
	for el := e; el != nil; {
		if v, ok := el.GetAttribute("lang"); ok {
			return v
		}
		parent := el.ParentElement()
		if parent == nil {
			return ""
		}
		el = parent.(*Element)
	}
	return ""
}

// PresentationAttributeStyle returns nil: this adapter doesn't model
// HTML presentation attributes (e.g. <font color>); tests that need them
// exercise the cascade's presentation-attribute origin directly.
func (e *Element) PresentationAttributeStyle() []dom.Declaration { return nil }

// InlineStyle parses the style="..." attribute into declarations using a
// plain semicolon/colon split, sufficient for test fixtures.
func (e *Element) InlineStyle() []dom.Declaration {
	styleAttr, ok := e.GetAttribute("style")
	if !ok || strings.TrimSpace(styleAttr) == "" {
		return nil
	}
	var out []dom.Declaration
	for _, decl := range strings.Split(styleAttr, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		idx := strings.IndexByte(decl, ':')
		if idx < 0 {
			continue
		}
		prop := strings.TrimSpace(decl[:idx])
		val := strings.TrimSpace(decl[idx+1:])
		important := false
		if lower := strings.ToLower(val); strings.Contains(lower, "!important") {
			important = true
			val = strings.TrimSpace(val[:strings.LastIndex(lower, "!important")])
		}
		out = append(out, dom.Declaration{Property: prop, Value: val, Important: important})
	}
	return out
}

// QueryID finds the first descendant element (including the root) with the
// given id, depth-first. Returns nil if none matches.
func QueryID(root dom.Element, id string) dom.Element {
	if root == nil {
		return nil
	}
	if root.ID() == id {
		return root
	}
	for c := root.FirstChildElement(); c != nil; c = c.NextSiblingElement() {
		if found := QueryID(c, id); found != nil {
			return found
		}
	}
	return nil
}

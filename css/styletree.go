// Package css provides styled tree construction: pairing every element in
// a dom.Document with its computed style, per §4.6's per-element cascade.
package css

import (
	"github.com/chrisuehlinger/plutocss/dom"
)

// StyledNode pairs a dom.Element with its computed style and styled
// children. The slim dom.Element contract only exposes element nodes, so
// a StyledNode tree mirrors the element tree (no text/comment nodes).
type StyledNode struct {
	Element  dom.Element
	Style    *ComputedStyle
	Children []*StyledNode
}

// StyleTree builds and caches computed styles across a document.
type StyleTree struct {
	Root     *StyledNode
	Resolver *StyleResolver

	styleCache map[dom.Element]*ComputedStyle
}

// NewStyleTree creates a new style tree for a document.
func NewStyleTree(doc dom.Document) *StyleTree {
	return &StyleTree{
		Resolver:   NewStyleResolver(doc),
		styleCache: make(map[dom.Element]*ComputedStyle),
	}
}

// BuildStyleTree constructs a styled tree rooted at doc.Root(), with the
// user agent stylesheet installed and author stylesheets already added via
// AddStylesheet.
func (st *StyleTree) BuildStyleTree(doc dom.Document) *StyledNode {
	st.styleCache = make(map[dom.Element]*ComputedStyle)
	st.Resolver.SetUserAgentStylesheet(GetUserAgentStylesheet())
	st.Root = st.buildStyledNode(doc.Root(), nil)
	return st.Root
}

// AddStylesheet parses and adds an author stylesheet to the resolver.
func (st *StyleTree) AddStylesheet(cssText string) *CSSStyleSheet {
	ss := NewCSSStyleSheet(cssText, nil)
	st.Resolver.AddAuthorStylesheet(ss)
	return ss
}

// AddParsedStylesheet adds a pre-parsed author stylesheet to the resolver.
func (st *StyleTree) AddParsedStylesheet(ss *CSSStyleSheet) {
	st.Resolver.AddAuthorStylesheet(ss)
}

// buildStyledNode recursively builds a styled node and its element children.
func (st *StyleTree) buildStyledNode(el dom.Element, parentStyle *ComputedStyle) *StyledNode {
	sn := &StyledNode{Element: el}
	sn.Style = st.computeElementStyle(el, parentStyle)

	for child := el.FirstChildElement(); child != nil; child = child.NextSiblingElement() {
		sn.Children = append(sn.Children, st.buildStyledNode(child, sn.Style))
	}

	return sn
}

// computeElementStyle computes (or returns the cached) style for an element.
func (st *StyleTree) computeElementStyle(el dom.Element, parentStyle *ComputedStyle) *ComputedStyle {
	if cached, ok := st.styleCache[el]; ok {
		return cached
	}
	style := st.Resolver.ResolveStyles(el, parentStyle)
	st.styleCache[el] = style
	return style
}

// GetComputedStyle returns the computed style for an element, resolving its
// ancestor chain first if not already cached.
func (st *StyleTree) GetComputedStyle(el dom.Element) *ComputedStyle {
	if cached, ok := st.styleCache[el]; ok {
		return cached
	}
	var parentStyle *ComputedStyle
	if parentEl := el.ParentElement(); parentEl != nil {
		parentStyle = st.GetComputedStyle(parentEl)
	}
	return st.computeElementStyle(el, parentStyle)
}

// InvalidateElement drops the cached style for an element and its
// descendants, forcing recomputation on next access.
func (st *StyleTree) InvalidateElement(el dom.Element) {
	delete(st.styleCache, el)
	for child := el.FirstChildElement(); child != nil; child = child.NextSiblingElement() {
		st.InvalidateElement(child)
	}
}

// InvalidateAll clears the entire style cache.
func (st *StyleTree) InvalidateAll() {
	st.styleCache = make(map[dom.Element]*ComputedStyle)
	st.Root = nil
}

// GetDisplay returns the computed display keyword for a styled node.
func (sn *StyledNode) GetDisplay() string {
	if sn.Style == nil {
		return "inline"
	}
	if val := sn.Style.GetPropertyValue("display"); val != nil && val.Kind == ValueIdent {
		return val.Ident
	}
	return "inline"
}

// IsBlock returns true if this node generates a block-level box.
func (sn *StyledNode) IsBlock() bool {
	switch sn.GetDisplay() {
	case "block", "flex", "grid", "table", "list-item",
		"table-row-group", "table-header-group", "table-footer-group",
		"table-row", "table-column-group", "table-column", "table-cell",
		"table-caption":
		return true
	default:
		return false
	}
}

// IsInline returns true if this node generates an inline-level box.
func (sn *StyledNode) IsInline() bool {
	switch sn.GetDisplay() {
	case "inline", "inline-block", "inline-flex", "inline-grid", "inline-table":
		return true
	default:
		return false
	}
}

// IsHidden returns true if this node should not be rendered at all.
func (sn *StyledNode) IsHidden() bool {
	if sn.GetDisplay() == "none" {
		return true
	}
	if sn.Style != nil {
		if val := sn.Style.GetPropertyValue("visibility"); val != nil && val.Kind == ValueIdent {
			if val.Ident == "hidden" || val.Ident == "collapse" {
				return true
			}
		}
	}
	return false
}

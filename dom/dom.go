// Package dom declares the element-interrogation contract the CSS engine
// consumes. The document/DOM tree itself is an external collaborator (the
// engine never constructs or mutates one) — only this narrow read-only
// surface matters to selector matching and the cascade.
package dom

// Attribute is a single name/value pair exposed by Element.Attributes.
type Attribute struct {
	Name  string
	Value string
}

// Element is the read-only view of a document element the selector matcher
// and cascade need. Implementations back this with whatever concrete DOM
// representation an embedder owns; nothing in the css package constructs an
// Element itself.
type Element interface {
	// Tree navigation, element-only (text/comment nodes are skipped).
	ParentElement() Element
	FirstChildElement() Element
	NextSiblingElement() Element
	PreviousSiblingElement() Element

	// Identity.
	TagName() string
	NamespaceURI() string
	ID() string
	ClassNames() []string
	Attributes() []Attribute

	// Per-subtree flags.
	IsHTMLDocument() bool
	IsSVGElement() bool
	IsCaseSensitive() bool // attribute-name case sensitivity, per §4.4
	IsRootNode() bool

	// Value access.
	GetAttribute(name string) (string, bool)
	GetURLAttribute(name string) (string, bool)
	Lang() string

	// Style sources outside the cascade's rule indexes.
	PresentationAttributeStyle() []Declaration
	InlineStyle() []Declaration
}

// Declaration is a single parsed property:value pair, used for an
// element's presentation-attribute style and inline `style="..."` — both
// origins feed the cascade at a fixed specificity (§4.6 step 4) rather than
// through the selector-indexed rule buckets.
type Declaration struct {
	Property  string
	Value     string // unparsed CSS text; the cascade parses it with the property-directed parser
	Important bool
}

// MediaQueryList is the parsed AST a Document is asked to evaluate one leaf
// feature at a time; see css.ParseMediaQueryList.
type MediaQueryList interface {
	// Queries returns the top-level comma-separated query list.
	Queries() []MediaQuery
}

// MediaQuery is one comma-separated entry of a media query list.
type MediaQuery interface {
	Negated() bool
	MediaType() string // "all", "print", "screen", "" (omitted => all)
	Features() []MediaFeature
}

// MediaFeature is a single `(name: value)` or range feature test.
type MediaFeature struct {
	Name  string
	Value string // empty for boolean features like `(color)`
}

// Document is the per-document collaborator: it knows the environment the
// engine cannot (viewport, supported media features) and owns element
// identity for ID/attribute lookups the matcher needs.
type Document interface {
	Root() Element
	// SupportsMediaQueries evaluates a parsed media query list against the
	// current rendering environment (viewport, color scheme, etc.). The
	// engine treats this as opaque per §6.
	SupportsMediaQueries(list MediaQueryList) bool
	ViewportWidthPx() float64
	ViewportHeightPx() float64
}

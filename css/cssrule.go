// Package css provides CSS rule types for CSSOM.
package css

import (
	"strings"
)

// CSSRuleType represents the type of a CSS rule.
type CSSRuleType int

const (
	// UnknownRule - unknown rule type
	UnknownRule CSSRuleType = 0
	// StyleRule - CSSStyleRule
	StyleRule CSSRuleType = 1
	// ImportRule - CSSImportRule
	ImportRule CSSRuleType = 3
	// MediaRule - CSSMediaRule
	MediaRule CSSRuleType = 4
	// FontFaceRule - CSSFontFaceRule
	FontFaceRule CSSRuleType = 5
	// PageRule - CSSPageRule
	PageRule CSSRuleType = 6
	// MarginRule - CSSMarginRule
	MarginRule CSSRuleType = 9
	// NamespaceRule - CSSNamespaceRule
	NamespaceRule CSSRuleType = 10
	// CounterStyleRule - CSSCounterStyleRule
	CounterStyleRule CSSRuleType = 11
)

func (t CSSRuleType) String() string {
	switch t {
	case StyleRule:
		return "style"
	case ImportRule:
		return "import"
	case MediaRule:
		return "media"
	case FontFaceRule:
		return "font-face"
	case PageRule:
		return "page"
	case MarginRule:
		return "margin"
	case NamespaceRule:
		return "namespace"
	case CounterStyleRule:
		return "counter-style"
	default:
		return "unknown"
	}
}

// CSSRuleInterface is the interface for all CSS rules.
type CSSRuleInterface interface {
	Type() CSSRuleType
	CSSText() string
	ParentStyleSheet() *CSSStyleSheet
	ParentRule() CSSRuleInterface
	SetParentStyleSheet(*CSSStyleSheet)
	SetParentRule(CSSRuleInterface)
}

// baseCSSRule provides common fields for all CSS rules.
type baseCSSRule struct {
	ruleType         CSSRuleType
	parentStyleSheet *CSSStyleSheet
	parentRule       CSSRuleInterface
}

func (r *baseCSSRule) Type() CSSRuleType {
	return r.ruleType
}

func (r *baseCSSRule) ParentStyleSheet() *CSSStyleSheet {
	return r.parentStyleSheet
}

func (r *baseCSSRule) ParentRule() CSSRuleInterface {
	return r.parentRule
}

func (r *baseCSSRule) SetParentStyleSheet(sheet *CSSStyleSheet) {
	r.parentStyleSheet = sheet
}

func (r *baseCSSRule) SetParentRule(rule CSSRuleInterface) {
	r.parentRule = rule
}

// CSSRuleList represents a list of CSS rules.
type CSSRuleList struct {
	rules []CSSRuleInterface
}

// NewCSSRuleList creates a new CSSRuleList.
func NewCSSRuleList() *CSSRuleList {
	return &CSSRuleList{
		rules: make([]CSSRuleInterface, 0),
	}
}

// Length returns the number of rules.
func (l *CSSRuleList) Length() int {
	return len(l.rules)
}

// Item returns the rule at the given index.
func (l *CSSRuleList) Item(index int) CSSRuleInterface {
	if index < 0 || index >= len(l.rules) {
		return nil
	}
	return l.rules[index]
}

// Rules returns all rules (for internal use).
func (l *CSSRuleList) Rules() []CSSRuleInterface {
	return l.rules
}

// CSSStyleRule represents a style rule (e.g., "div { color: red }").
type CSSStyleRule struct {
	baseCSSRule
	selectorText string
	selector     *CSSSelector // parsed once at rule creation; nil if invalid
	style        *CSSRuleStyleDeclaration
}

// SelectorText returns the selector text.
func (r *CSSStyleRule) SelectorText() string {
	return r.selectorText
}

// SetSelectorText reparses and replaces the selector.
func (r *CSSStyleRule) SetSelectorText(text string) {
	sel, err := ParseSelector(text)
	if err == nil {
		r.selectorText = text
		r.selector = sel
	}
}

// Selector returns the parsed selector list, or nil if it failed to parse
// (an invalid selector drops the whole rule from matching, per §4.4).
func (r *CSSStyleRule) Selector() *CSSSelector {
	return r.selector
}

// Style returns the style declaration.
func (r *CSSStyleRule) Style() *CSSRuleStyleDeclaration {
	return r.style
}

// CSSText returns the serialized rule.
func (r *CSSStyleRule) CSSText() string {
	cssText := r.style.CSSText()
	if cssText == "" {
		return r.selectorText + " { }"
	}
	return r.selectorText + " { " + cssText + " }"
}

// CSSMediaRule represents a @media rule.
type CSSMediaRule struct {
	baseCSSRule
	media    *MediaList
	query    *ParsedMediaQueryList // nil if the prelude failed to parse
	cssRules *CSSRuleList
}

// Media returns the media list.
func (r *CSSMediaRule) Media() *MediaList {
	return r.media
}

// Query returns the parsed media query list used for evaluation.
func (r *CSSMediaRule) Query() *ParsedMediaQueryList {
	return r.query
}

// CSSRules returns the nested rules.
func (r *CSSMediaRule) CSSRules() *CSSRuleList {
	return r.cssRules
}

// ConditionText returns the media condition text.
func (r *CSSMediaRule) ConditionText() string {
	return r.media.MediaText()
}

// CSSText returns the serialized rule.
func (r *CSSMediaRule) CSSText() string {
	var sb strings.Builder
	sb.WriteString("@media ")
	sb.WriteString(r.media.MediaText())
	sb.WriteString(" { ")
	for i, rule := range r.cssRules.rules {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(rule.CSSText())
	}
	sb.WriteString(" }")
	return sb.String()
}

// CSSImportRule represents an @import rule.
type CSSImportRule struct {
	baseCSSRule
	href       string
	media      *MediaList
	query      *ParsedMediaQueryList
	styleSheet *CSSStyleSheet
}

// Href returns the URL of the imported stylesheet.
func (r *CSSImportRule) Href() string {
	return r.href
}

// Media returns the media list.
func (r *CSSImportRule) Media() *MediaList {
	return r.media
}

// Query returns the parsed media query list gating this import.
func (r *CSSImportRule) Query() *ParsedMediaQueryList {
	return r.query
}

// StyleSheet returns the imported stylesheet (set once resource.Fetcher
// resolves it).
func (r *CSSImportRule) StyleSheet() *CSSStyleSheet {
	return r.styleSheet
}

// SetStyleSheet attaches the fetched and parsed imported stylesheet.
func (r *CSSImportRule) SetStyleSheet(sheet *CSSStyleSheet) {
	r.styleSheet = sheet
}

// CSSText returns the serialized rule.
func (r *CSSImportRule) CSSText() string {
	var sb strings.Builder
	sb.WriteString("@import url(\"")
	sb.WriteString(r.href)
	sb.WriteString("\")")
	if r.media.MediaText() != "" {
		sb.WriteString(" ")
		sb.WriteString(r.media.MediaText())
	}
	sb.WriteString(";")
	return sb.String()
}

// CSSFontFaceRule represents a @font-face rule.
type CSSFontFaceRule struct {
	baseCSSRule
	style *CSSRuleStyleDeclaration
}

// Style returns the style declaration (font-family/src/unicode-range/
// font-weight/font-stretch/font-style descriptors).
func (r *CSSFontFaceRule) Style() *CSSRuleStyleDeclaration {
	return r.style
}

// CSSText returns the serialized rule.
func (r *CSSFontFaceRule) CSSText() string {
	cssText := r.style.CSSText()
	if cssText == "" {
		return "@font-face { }"
	}
	return "@font-face { " + cssText + " }"
}

// CSSNamespaceRule represents a @namespace rule.
type CSSNamespaceRule struct {
	baseCSSRule
	prefix       string
	namespaceURI string
}

// NamespaceURI returns the namespace URI.
func (r *CSSNamespaceRule) NamespaceURI() string {
	return r.namespaceURI
}

// Prefix returns the namespace prefix.
func (r *CSSNamespaceRule) Prefix() string {
	return r.prefix
}

// CSSText returns the serialized rule.
func (r *CSSNamespaceRule) CSSText() string {
	var sb strings.Builder
	sb.WriteString("@namespace ")
	if r.prefix != "" {
		sb.WriteString(r.prefix)
		sb.WriteString(" ")
	}
	sb.WriteString("url(\"")
	sb.WriteString(r.namespaceURI)
	sb.WriteString("\");")
	return sb.String()
}

// CSSCounterStyleRule represents an @counter-style rule (§4.9).
type CSSCounterStyleRule struct {
	baseCSSRule
	name  string
	style *CSSRuleStyleDeclaration // system/symbols/additive-symbols/negative/prefix/suffix/range/pad/fallback/speak-as
}

// Name returns the counter-style's custom-ident name.
func (r *CSSCounterStyleRule) Name() string {
	return r.name
}

// Style returns the descriptor declaration block.
func (r *CSSCounterStyleRule) Style() *CSSRuleStyleDeclaration {
	return r.style
}

// CSSText returns the serialized rule.
func (r *CSSCounterStyleRule) CSSText() string {
	return "@counter-style " + r.name + " { " + r.style.CSSText() + " }"
}

// CSSPageRule represents an @page rule (§4.5): an optional page-name,
// pseudo-classes (:first/:left/:right/:blank), size/margin declarations,
// and nested margin-box rules.
type CSSPageRule struct {
	baseCSSRule
	selectorText string
	pageName     string
	pseudoClasses []string
	selectors    []*PageSelector
	style        *CSSRuleStyleDeclaration
	marginRules  []*CSSMarginRule
}

// SelectorText returns the raw page selector text.
func (r *CSSPageRule) SelectorText() string { return r.selectorText }

// PageName returns the page-name component, or "" if the selector is unnamed.
func (r *CSSPageRule) PageName() string { return r.pageName }

// PseudoClasses returns the page pseudo-classes (first/left/right/blank)
// present on this rule's selector, lowercase and without the leading colon.
func (r *CSSPageRule) PseudoClasses() []string { return r.pseudoClasses }

// Style returns the page-context property declarations.
func (r *CSSPageRule) Style() *CSSRuleStyleDeclaration { return r.style }

// MarginRules returns the nested margin-box rules (@top-center, etc).
func (r *CSSPageRule) MarginRules() []*CSSMarginRule { return r.marginRules }

// CSSText returns the serialized rule.
func (r *CSSPageRule) CSSText() string {
	return "@page " + r.selectorText + " { " + r.style.CSSText() + " }"
}

// CSSMarginRule represents a single margin-box rule nested in @page, e.g.
// @top-center { content: "Page " counter(page); }.
type CSSMarginRule struct {
	baseCSSRule
	name  string // one of the 16 margin-box names, e.g. "top-center"
	style *CSSRuleStyleDeclaration
}

// Name returns the margin-box name.
func (r *CSSMarginRule) Name() string { return r.name }

// Style returns the margin-box property declarations.
func (r *CSSMarginRule) Style() *CSSRuleStyleDeclaration { return r.style }

// CSSText returns the serialized rule.
func (r *CSSMarginRule) CSSText() string {
	return "@" + r.name + " { " + r.style.CSSText() + " }"
}

// CSSGenericAtRule represents an unrecognized or out-of-scope at-rule
// (e.g. @keyframes, @supports — animation and feature-query evaluation are
// non-goals). Its body is preserved only as inert text.
type CSSGenericAtRule struct {
	baseCSSRule
	name    string
	prelude string
}

// CSSText returns the serialized rule.
func (r *CSSGenericAtRule) CSSText() string {
	return "@" + r.name
}

// marginBoxNames is the fixed set of margin-box at-rule names §4.5 defines,
// used by the page-block rule parser to distinguish a margin rule from a
// plain declaration.
var marginBoxNames = map[string]bool{
	"top-left-corner": true, "top-left": true, "top-center": true,
	"top-right": true, "top-right-corner": true,
	"left-top": true, "left-middle": true, "left-bottom": true,
	"right-top": true, "right-middle": true, "right-bottom": true,
	"bottom-left-corner": true, "bottom-left": true, "bottom-center": true,
	"bottom-right": true, "bottom-right-corner": true,
}

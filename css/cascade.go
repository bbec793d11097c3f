// Package css provides CSS cascade and style computation.
// Reference: https://www.w3.org/TR/css-cascade-4/
package css

import (
	"strings"

	"github.com/chrisuehlinger/plutocss/dom"
)

// CascadeOrigin represents the provenance of a declaration, per §4.6 and the
// glossary's five origins.
type CascadeOrigin int

const (
	OriginUserAgent CascadeOrigin = iota
	OriginUser
	OriginPresentationAttribute
	OriginAuthor
	OriginInline
)

// MatchedDeclaration is one (property, value) pair contributed by a matched
// rule or by an element's inline/presentation-attribute style, carrying
// everything the merge step needs to resolve conflicts.
type MatchedDeclaration struct {
	Property    string // longhand or custom-property name
	Value       *Value
	Origin      CascadeOrigin
	Important   bool
	Specificity Specificity
	Position    int // global monotonic order across all matched rules
}

// StyleResolver resolves computed styles for elements using the CSS cascade.
type StyleResolver struct {
	userAgentSheet *CSSStyleSheet
	userSheets     []*CSSStyleSheet
	authorSheets   []*CSSStyleSheet
	doc            dom.Document
	diagnostics    []Diagnostic
}

// Diagnostics returns every bucket-2 resolution failure recorded while
// computing styles through this resolver.
func (sr *StyleResolver) Diagnostics() []Diagnostic {
	return sr.diagnostics
}

// NewStyleResolver creates a new style resolver.
func NewStyleResolver(doc dom.Document) *StyleResolver {
	return &StyleResolver{doc: doc}
}

// SetUserAgentStylesheet sets the user agent stylesheet.
func (sr *StyleResolver) SetUserAgentStylesheet(ss *CSSStyleSheet) {
	sr.userAgentSheet = ss
}

// AddUserStylesheet adds a user stylesheet.
func (sr *StyleResolver) AddUserStylesheet(ss *CSSStyleSheet) {
	sr.userSheets = append(sr.userSheets, ss)
}

// AddAuthorStylesheet adds an author stylesheet.
func (sr *StyleResolver) AddAuthorStylesheet(ss *CSSStyleSheet) {
	sr.authorSheets = append(sr.authorSheets, ss)
}

// ClearAuthorStylesheets clears all author stylesheets.
func (sr *StyleResolver) ClearAuthorStylesheets() {
	sr.authorSheets = nil
}

// collectMatchingRules walks every stylesheet in cascade order (user agent,
// user, author), descending into @media rules whose query the document
// supports, and emits one MatchedDeclaration per matched longhand.
func (sr *StyleResolver) collectMatchingRules(el dom.Element) []MatchedDeclaration {
	var matched []MatchedDeclaration
	position := 0

	collectFromSheet := func(sheet *CSSStyleSheet, origin CascadeOrigin) {
		if sheet == nil {
			return
		}
		sr.walkRules(sheet.CSSRules(), el, origin, &position, &matched)
	}

	collectFromSheet(sr.userAgentSheet, OriginUserAgent)
	for _, ss := range sr.userSheets {
		collectFromSheet(ss, OriginUser)
	}
	for _, ss := range sr.authorSheets {
		collectFromSheet(ss, OriginAuthor)
	}

	return matched
}

func (sr *StyleResolver) walkRules(rules *CSSRuleList, el dom.Element, origin CascadeOrigin, position *int, matched *[]MatchedDeclaration) {
	if rules == nil {
		return
	}
	for _, rule := range rules.Rules() {
		switch r := rule.(type) {
		case *CSSStyleRule:
			if r.Selector() == nil || !r.Selector().MatchElement(el) {
				continue
			}
			spec := r.Selector().CalculateSpecificity()
			*matched = append(*matched, declarationsFromStyle(r.Style(), origin, spec, *position)...)
			*position++
		case *CSSMediaRule:
			if sr.doc == nil || r.Query() == nil || sr.doc.SupportsMediaQueries(r.Query()) {
				sr.walkRules(r.CSSRules(), el, origin, position, matched)
			}
		case *CSSImportRule:
			if r.StyleSheet() == nil {
				continue
			}
			if r.Query() == nil || sr.doc == nil || sr.doc.SupportsMediaQueries(r.Query()) {
				sr.walkRules(r.StyleSheet().CSSRules(), el, origin, position, matched)
			}
		}
	}
}

// declarationsFromStyle expands a style rule's declarations into longhands,
// via ExpandShorthand for recognized shorthands and one-to-one for
// longhands and custom properties.
func declarationsFromStyle(style *CSSRuleStyleDeclaration, origin CascadeOrigin, spec Specificity, position int) []MatchedDeclaration {
	var out []MatchedDeclaration
	for _, name := range style.PropertyNames() {
		components := style.PropertyComponents(name)
		val := ParsePropertyValue(components)
		if val == nil {
			continue
		}
		important := style.IsImportant(name)

		if IsCustomPropertyName(name) {
			out = append(out, MatchedDeclaration{
				Property: name, Value: val, Origin: origin,
				Important: important, Specificity: spec, Position: position,
			})
			continue
		}

		id, ok := LookupProperty(name)
		if !ok {
			continue
		}
		if IsWideKeyword(val) {
			out = append(out, MatchedDeclaration{
				Property: name, Value: val, Origin: origin,
				Important: important, Specificity: spec, Position: position,
			})
			continue
		}
		if id.IsShorthand() {
			expanded, ok := ExpandShorthand(name, val)
			if !ok {
				continue
			}
			for longhand, lv := range expanded {
				out = append(out, MatchedDeclaration{
					Property: longhand, Value: lv, Origin: origin,
					Important: important, Specificity: spec, Position: position,
				})
			}
			continue
		}
		out = append(out, MatchedDeclaration{
			Property: name, Value: val, Origin: origin,
			Important: important, Specificity: spec, Position: position,
		})
	}
	return out
}

// cascadeLayer orders the five origins for normal and !important
// declarations: normal ascends user-agent < user < presentation-attribute
// < author < inline; !important reverses user-agent/user/author relative
// to each other while keeping presentation-attribute and inline pinned
// near the bottom and top respectively, per §4.6's "flips both senses".
func cascadeLayer(origin CascadeOrigin, important bool) int {
	if !important {
		switch origin {
		case OriginUserAgent:
			return 0
		case OriginUser:
			return 1
		case OriginPresentationAttribute:
			return 2
		case OriginAuthor:
			return 3
		case OriginInline:
			return 4
		}
	}
	switch origin {
	case OriginAuthor:
		return 5
	case OriginPresentationAttribute:
		return 6
	case OriginUser:
		return 7
	case OriginUserAgent:
		return 8
	case OriginInline:
		return 9
	}
	return 0
}

// lessDeclaration implements the (important, origin, specificity, position)
// ascending order from §4.6 step 3.
func lessDeclaration(a, b MatchedDeclaration) bool {
	al, bl := cascadeLayer(a.Origin, a.Important), cascadeLayer(b.Origin, b.Important)
	if al != bl {
		return al < bl
	}
	if cmp := a.Specificity.Compare(b.Specificity); cmp != 0 {
		return cmp < 0
	}
	return a.Position < b.Position
}

// ComputedStyle represents the final computed style values for an element.
type ComputedStyle struct {
	element dom.Element
	values  map[string]*Value
	parent  *ComputedStyle
	ctx     EvalContext
}

// NewComputedStyle creates a new computed style for an element.
func NewComputedStyle(el dom.Element, parent *ComputedStyle) *ComputedStyle {
	return &ComputedStyle{
		element: el,
		values:  make(map[string]*Value),
		parent:  parent,
	}
}

// GetPropertyValue returns the computed value for a property.
func (cs *ComputedStyle) GetPropertyValue(property string) *Value {
	return cs.values[strings.ToLower(property)]
}

// SetPropertyValue sets a computed value for a property.
func (cs *ComputedStyle) SetPropertyValue(property string, value *Value) {
	cs.values[strings.ToLower(property)] = value
}

// ResolveStyles computes the final style for an element, per §4.6.
func (sr *StyleResolver) ResolveStyles(el dom.Element, parent *ComputedStyle) *ComputedStyle {
	return sr.resolveStylesCore(el, parent, PseudoNone)
}

// ResolvePseudoStyles computes the style for a generated pseudo-element
// (::before, ::after, ::first-letter, ::first-line, ::marker) of el, per
// §4.6/§4.7. Matching rules are still drawn from el's own matched
// selectors (declarationsFromStyle has already expanded any shorthand),
// with the pseudo identity feeding the §4.7 fix-up pass.
func (sr *StyleResolver) ResolvePseudoStyles(el dom.Element, pseudo PseudoType, parent *ComputedStyle) *ComputedStyle {
	return sr.resolveStylesCore(el, parent, pseudo)
}

func (sr *StyleResolver) resolveStylesCore(el dom.Element, parent *ComputedStyle, pseudo PseudoType) *ComputedStyle {
	computed := NewComputedStyle(el, parent)

	applyInitialValues(computed)
	if parent != nil {
		applyInheritedProperties(computed, parent)
	}

	matched := sr.collectMatchingRules(el)
	ownDecls := elementOwnDeclarations(el)
	noDeclarations := len(matched) == 0 && len(ownDecls) == 0
	matched = append(matched, ownDecls...)

	customProps := mergeCustomProperties(matched, parent)
	merged := mergeDeclarations(matched)

	for prop, decl := range merged {
		sr.applyMergedDeclaration(computed, prop, decl, parent, customProps)
	}

	computed.ctx = buildEvalContext(computed, parent, sr.doc)
	resolveLengthsAndPercentages(computed, parent)
	applyDisplayFixups(computed, el, parent, pseudo, noDeclarations)

	return computed
}

// elementOwnDeclarations turns an element's presentation-attribute and
// inline styles into zero-specificity MatchedDeclarations, per §4.6 step 4.
func elementOwnDeclarations(el dom.Element) []MatchedDeclaration {
	var out []MatchedDeclaration
	add := func(decls []dom.Declaration, origin CascadeOrigin) {
		for _, d := range decls {
			parser := NewCSSParser(d.Property + ":" + d.Value)
			declList := parser.ParseDeclarationList()
			if len(declList) == 0 {
				continue
			}
			val := ParsePropertyValue(declList[0].Value)
			if val == nil {
				continue
			}
			out = append(out, MatchedDeclaration{
				Property: strings.ToLower(d.Property), Value: val,
				Origin: origin, Important: d.Important,
			})
		}
	}
	add(el.PresentationAttributeStyle(), OriginPresentationAttribute)
	add(el.InlineStyle(), OriginInline)
	return out
}

// mergeDeclarations applies the (important, origin, specificity, position)
// merge rule per property, expanding wide keywords and shorthands having
// already happened in declarationsFromStyle.
func mergeDeclarations(matched []MatchedDeclaration) map[string]MatchedDeclaration {
	merged := make(map[string]MatchedDeclaration)
	for _, d := range matched {
		if IsCustomPropertyName(d.Property) {
			continue
		}
		existing, ok := merged[d.Property]
		if !ok || !lessDeclaration(d, existing) {
			merged[d.Property] = d
		}
	}
	return merged
}

// mergeCustomProperties runs the same merge rule over custom properties,
// seeded by inherited values from the parent (custom properties inherit by
// default per the Custom Properties spec).
func mergeCustomProperties(matched []MatchedDeclaration, parent *ComputedStyle) CustomPropertyStore {
	store := CustomPropertyStore{}
	if parent != nil {
		for name, v := range parent.values {
			if IsCustomPropertyName(name) {
				store[name] = v
			}
		}
	}

	best := make(map[string]MatchedDeclaration)
	for _, d := range matched {
		if !IsCustomPropertyName(d.Property) {
			continue
		}
		existing, ok := best[d.Property]
		if !ok || !lessDeclaration(d, existing) {
			best[d.Property] = d
		}
	}
	for name, d := range best {
		store[name] = d.Value
	}
	return store
}

func (sr *StyleResolver) applyMergedDeclaration(cs *ComputedStyle, prop string, decl MatchedDeclaration, parent *ComputedStyle, customProps CustomPropertyStore) {
	val := decl.Value

	switch val.Kind {
	case ValueInherit:
		if parent != nil {
			if pv := parent.values[prop]; pv != nil {
				cs.values[prop] = pv
			}
		}
		return
	case ValueInitial, ValueRevert:
		if id, ok := LookupProperty(prop); ok {
			cs.values[prop] = id.InitialValue()
		}
		return
	case ValueUnset:
		if id, ok := LookupProperty(prop); ok {
			if id.Inherited() && parent != nil {
				if pv := parent.values[prop]; pv != nil {
					cs.values[prop] = pv
					return
				}
			}
			cs.values[prop] = id.InitialValue()
		}
		return
	}

	if ContainsVariableReference(val) {
		resolved, ok := ResolveValue(val, customProps)
		if !ok {
			// Substitution failure: the declaration is invalid at computed-value
			// time, so the property keeps whatever initial/inherited value
			// applyInitialValues/applyInheritedProperties already set.
			sr.diagnostics = append(sr.diagnostics, Diagnostic{
				Bucket: BucketResolution, Message: "var() substitution failed", Source: prop,
			})
			return
		}
		val = resolved
	}

	cs.values[prop] = val
}

// applyInitialValues sets initial values for all known properties.
func applyInitialValues(cs *ComputedStyle) {
	for _, entry := range propertyTable {
		cs.values[entry.Name] = entry.Initial()
	}
}

// applyInheritedProperties inherits values (including custom properties)
// from parent.
func applyInheritedProperties(cs *ComputedStyle, parent *ComputedStyle) {
	for _, entry := range propertyTable {
		if entry.Inherited {
			if pv := parent.values[entry.Name]; pv != nil {
				cs.values[entry.Name] = pv
			}
		}
	}
	for name, v := range parent.values {
		if IsCustomPropertyName(name) {
			cs.values[name] = v
		}
	}
}

// buildEvalContext materializes the length-resolution context (§4.6): font
// metrics for em/ex/ch, root font-size for rem, and viewport size for
// vw/vh/vmin/vmax. Font selection itself (picking a concrete Font from the
// computed font description) is out of scope here; x-height/zero-width
// default to the size-based approximations length.go already falls back to.
func buildEvalContext(cs *ComputedStyle, parent *ComputedStyle, doc dom.Document) EvalContext {
	fontSize := resolveOwnFontSizePx(cs, parent)

	root := cs
	for root.parent != nil {
		root = root.parent
	}
	rootFontSize := fontSize
	if root != cs {
		rootFontSize = resolveOwnFontSizePx(root, root.parent)
	}

	ctx := EvalContext{
		FontSizePx:   fontSize,
		RootFontSize: rootFontSize,
	}
	if doc != nil {
		ctx.ViewportW = doc.ViewportWidthPx()
		ctx.ViewportH = doc.ViewportHeightPx()
	}
	return ctx
}

var absoluteFontSizesPx = map[string]float64{
	"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
	"large": 18, "x-large": 24, "xx-large": 32, "xxx-large": 48,
}

// resolveOwnFontSizePx computes font-size in px: absolute keywords map to
// a fixed table, smaller/larger scale the parent by 1/1.2 and 1.2, and
// lengths/percentages resolve against the parent's font-size.
func resolveOwnFontSizePx(cs *ComputedStyle, parent *ComputedStyle) float64 {
	v := cs.values["font-size"]
	parentSize := 16.0
	if parent != nil {
		if pv := parent.values["font-size"]; pv != nil {
			parentSize = resolveOwnFontSizePx(parent, parent.parent)
		}
	}
	if v == nil {
		return parentSize
	}
	switch v.Kind {
	case ValueIdent:
		if px, ok := absoluteFontSizesPx[v.Ident]; ok {
			return px
		}
		switch v.Ident {
		case "smaller":
			return parentSize / 1.2
		case "larger":
			return parentSize * 1.2
		}
		return parentSize
	case ValueLength:
		ctx := EvalContext{FontSizePx: parentSize, RootFontSize: parentSize}
		return resolveLengthPx(v, ctx)
	case ValuePercent:
		return v.Num / 100 * parentSize
	}
	return parentSize
}

// resolveLengthsAndPercentages rewrites every Length/Calc value to px using
// cs.ctx, and resolves percentages against the property-appropriate basis.
func resolveLengthsAndPercentages(cs *ComputedStyle, parent *ComputedStyle) {
	for prop, val := range cs.values {
		if val == nil {
			continue
		}
		switch val.Kind {
		case ValueLength:
			px := resolveLengthPx(val, cs.ctx)
			cs.values[prop] = &Value{Kind: ValueLength, Num: px, Unit: UnitPx}
		case ValueCalc:
			resolved, ok := ResolveCalc(val.Calc, cs.ctx)
			if ok {
				cs.values[prop] = resolved
			}
		case ValuePercent:
			cs.values[prop] = resolvePercentageValue(val, prop, parent)
		}
	}
}

// resolvePercentageValue resolves a percentage based on the property it
// applies to; width/height-relative percentages depend on layout and are
// left unresolved (as a percentage) for the layout stage to consume.
func resolvePercentageValue(val *Value, property string, parent *ComputedStyle) *Value {
	switch property {
	case "font-size":
		parentSize := 16.0
		if parent != nil {
			if pv := parent.values["font-size"]; pv != nil && pv.Kind == ValueLength {
				parentSize = pv.Num
			}
		}
		return &Value{Kind: ValueLength, Num: val.Num / 100 * parentSize, Unit: UnitPx}
	case "line-height":
		return val
	default:
		return val
	}
}

// GetComputedStyleProperty is a helper to get a specific property's
// serialized value.
func (cs *ComputedStyle) GetComputedStyleProperty(property string) string {
	val := cs.GetPropertyValue(property)
	if val == nil {
		return ""
	}
	return val.String()
}

// GetLength returns the computed length value for a property in pixels.
func (cs *ComputedStyle) GetLength(property string) float64 {
	val := cs.GetPropertyValue(property)
	if val == nil {
		return 0
	}
	return ResolveValueLengthPx(val, cs.ctx)
}

// GetColor returns the computed color value for a property.
func (cs *ComputedStyle) GetColor(property string) Color {
	val := cs.GetPropertyValue(property)
	if val == nil {
		return Color{}
	}
	switch val.Kind {
	case ValueColor:
		return val.ColorV
	case ValueIdent:
		if c, ok := ParseColor(val.Ident); ok {
			return c
		}
	}
	return Color{}
}

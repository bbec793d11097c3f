package css

import "strings"

// PageSelector is one comma-separated alternative of an @page selector list
// (§4.5), e.g. "chapter:first" or ":nth(3n+1)". The simple selectors in an
// alternative are ANDed together; a page matches the rule if it matches at
// least one alternative.
type PageSelector struct {
	Name  string
	First bool
	Left  bool
	Right bool
	Blank bool
	Nth   *ANPlusB
}

// Specificity computes the page-rule specificity contribution of this
// selector: a page-name contributes 0x10000, :first/:blank contribute 0x100,
// and :left/:right/:nth() contribute 0x1, summed per simple selector present.
func (p *PageSelector) Specificity() uint32 {
	var s uint32
	if p.Name != "" {
		s += 0x10000
	}
	if p.First || p.Blank {
		s += 0x100
	}
	if p.Left || p.Right {
		s += 0x1
	}
	if p.Nth != nil {
		s += 0x1
	}
	return s
}

// PageContext describes the page being styled: its 0-based index in the
// document's page sequence and whether it is blank (a forced page-break
// filler with no box content).
type PageContext struct {
	Name      string
	Index     int
	Blank     bool
	IsFirst   bool // Index == 0, passed explicitly since callers may paginate from a non-zero start
	Left      bool // recto/verso: false = right (recto), true = left (verso)
}

// Matches reports whether the page context satisfies every simple selector
// in this alternative.
func (p *PageSelector) Matches(ctx PageContext) bool {
	if p.Name != "" && p.Name != ctx.Name {
		return false
	}
	if p.First && !ctx.IsFirst {
		return false
	}
	if p.Blank && !ctx.Blank {
		return false
	}
	if p.Left && ctx.Left != true {
		return false
	}
	if p.Right && ctx.Left != false {
		return false
	}
	if p.Nth != nil && !p.Nth.Matches(ctx.Index+1) {
		return false
	}
	return true
}

// parsePageSelectorList splits a comma-separated @page prelude into its
// PageSelector alternatives, mirroring the original engine's
// consumePageSelectorList/consumePageSelector grammar: an optional leading
// page-name ident followed by zero or more ":pseudo" or ":nth(pattern)"
// simple selectors.
func parsePageSelectorList(prelude []ComponentValue) []*PageSelector {
	var groups [][]ComponentValue
	var cur []ComponentValue
	for _, cv := range prelude {
		if pt, ok := cv.(PreservedToken); ok && pt.Token.Type == TokenComma {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, cv)
	}
	groups = append(groups, cur)

	var out []*PageSelector
	for _, g := range groups {
		if sel := parsePageSelector(g); sel != nil {
			out = append(out, sel)
		}
	}
	return out
}

func parsePageSelector(group []ComponentValue) *PageSelector {
	sel := &PageSelector{}
	i := 0
	for i < len(group) {
		cv := group[i]
		if pt, ok := cv.(PreservedToken); ok {
			switch pt.Token.Type {
			case TokenIdent:
				sel.Name = pt.Token.Value
			case TokenColon:
				if i+1 < len(group) {
					if next, ok := group[i+1].(PreservedToken); ok && next.Token.Type == TokenIdent {
						switch strings.ToLower(next.Token.Value) {
						case "first":
							sel.First = true
						case "left":
							sel.Left = true
						case "right":
							sel.Right = true
						case "blank":
							sel.Blank = true
						}
						i++
					}
				}
			}
			i++
			continue
		}
		if fn, ok := cv.(*Function); ok && strings.EqualFold(fn.Name, "nth") {
			sel.Nth = parseANPlusB(writeComponentValuesToString(fn.Values))
			i++
			continue
		}
		i++
	}
	return sel
}

func writeComponentValuesToString(cvs []ComponentValue) string {
	var sb strings.Builder
	writeComponentValue(&sb, cvs)
	return sb.String()
}

// MatchPage reports whether this page rule applies to the given page
// context, and if so returns the highest specificity among the matching
// selector alternatives (or 0 for an unconditional, selector-less @page
// rule, which always matches).
func (r *CSSPageRule) MatchPage(ctx PageContext) (bool, uint32) {
	if len(r.selectors) == 0 {
		return true, 0
	}
	matched := false
	var best uint32
	for _, sel := range r.selectors {
		if sel.Matches(ctx) {
			matched = true
			if s := sel.Specificity(); s > best {
				best = s
			}
		}
	}
	return matched, best
}

// Selectors returns the parsed page-selector alternatives.
func (r *CSSPageRule) Selectors() []*PageSelector {
	return r.selectors
}

// collectPageRules walks a stylesheet's top-level rules (descending into
// @media rules whose query the document supports) collecting every
// CSSPageRule that matches ctx, paired with its specificity and document
// position.
func (sr *StyleResolver) collectPageRules(rules *CSSRuleList, ctx PageContext, origin CascadeOrigin, position *int, out *[]matchedPageRule) {
	if rules == nil {
		return
	}
	for _, rule := range rules.Rules() {
		switch r := rule.(type) {
		case *CSSPageRule:
			if ok, spec := r.MatchPage(ctx); ok {
				*out = append(*out, matchedPageRule{rule: r, specificity: spec, origin: origin, position: *position})
			}
			*position++
		case *CSSMediaRule:
			if sr.doc == nil || r.Query() == nil || sr.doc.SupportsMediaQueries(r.Query()) {
				sr.collectPageRules(r.CSSRules(), ctx, origin, position, out)
			}
		case *CSSImportRule:
			if r.StyleSheet() != nil && (r.Query() == nil || sr.doc == nil || sr.doc.SupportsMediaQueries(r.Query())) {
				sr.collectPageRules(r.StyleSheet().CSSRules(), ctx, origin, position, out)
			}
		}
	}
}

type matchedPageRule struct {
	rule        *CSSPageRule
	specificity uint32
	origin      CascadeOrigin
	position    int
}

// ResolvePageStyle computes the computed style for a page box (§4.5): every
// @page rule across the user-agent/user/author sheets that matches ctx
// contributes its declarations, merged in (specificity, position) order
// the same way element styles merge, then cascaded onto parent (normally
// the document root's computed style) and length-resolved.
func (sr *StyleResolver) ResolvePageStyle(ctx PageContext, parent *ComputedStyle) *ComputedStyle {
	computed := NewComputedStyle(nil, parent)
	applyInitialValues(computed)
	if parent != nil {
		applyInheritedProperties(computed, parent)
	}

	var matches []matchedPageRule
	position := 0
	collect := func(sheet *CSSStyleSheet, origin CascadeOrigin) {
		if sheet == nil {
			return
		}
		sr.collectPageRules(sheet.CSSRules(), ctx, origin, &position, &matches)
	}
	collect(sr.userAgentSheet, OriginUserAgent)
	for _, ss := range sr.userSheets {
		collect(ss, OriginUser)
	}
	for _, ss := range sr.authorSheets {
		collect(ss, OriginAuthor)
	}

	var matched []MatchedDeclaration
	for _, m := range matches {
		spec := Specificity{C: int(m.specificity)}
		matched = append(matched, declarationsFromStyle(m.rule.Style(), m.origin, spec, m.position)...)
	}

	customProps := mergeCustomProperties(matched, parent)
	merged := mergeDeclarations(matched)
	for prop, decl := range merged {
		sr.applyMergedDeclaration(computed, prop, decl, parent, customProps)
	}

	computed.ctx = buildEvalContext(computed, parent, sr.doc)
	resolveLengthsAndPercentages(computed, parent)
	return computed
}

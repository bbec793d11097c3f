package css

import "testing"

// TestVarCalcShorthandExpandsToAllFourMarginSides exercises §8 scenario
// 3: a var() reference to a calc() custom property, assigned through the
// margin shorthand, must expand to all four longhands and resolve calc's
// mixed px/em addition against the element's own font-size.
func TestVarCalcShorthandExpandsToAllFourMarginSides(t *testing.T) {
	doc := mustParseTestDoc(t, `<html><body>
		<p id="el" style="--size: calc(10px + 2em); font-size: 20px; margin: var(--size)"></p>
	</body></html>`)
	el := byID(t, doc, "el")

	resolver := NewStyleResolver(doc)
	cs := resolver.ResolveStyles(el, nil)

	for _, side := range []string{"margin-top", "margin-right", "margin-bottom", "margin-left"} {
		if got := cs.GetLength(side); got != 50 {
			t.Errorf("%s = %vpx, want 50px (10px + 2 * 20px font-size)", side, got)
		}
	}
}

// TestNotHasChildCombinator exercises §8 scenario 5: a child combinator
// (>) at the start of a :has() body starts from the matched element's
// direct children.
func TestNotHasChildCombinator(t *testing.T) {
	sel, err := ParseSelector("a:not(:has(> span))")
	if err != nil {
		t.Fatalf("ParseSelector: %v", err)
	}

	matches := mustParseTestDoc(t, `<html><body><a id="el"><b></b></a></body></html>`)
	if el := byID(t, matches, "el"); !sel.MatchElement(el) {
		t.Error("expected a:not(:has(> span)) to match <a><b/></a>")
	}

	noMatch := mustParseTestDoc(t, `<html><body><a id="el"><span></span></a></body></html>`)
	if el := byID(t, noMatch, "el"); sel.MatchElement(el) {
		t.Error("expected a:not(:has(> span)) not to match <a><span/></a>")
	}
}

package css

import "testing"

func TestPageSelectorMatchesName(t *testing.T) {
	ss := NewCSSStyleSheet(`@page chapter { size: a4; }`, nil)
	rule := ss.CSSRules().Item(0).(*CSSPageRule)

	ok, spec := rule.MatchPage(PageContext{Name: "chapter"})
	if !ok {
		t.Fatal("expected page named chapter to match")
	}
	if spec != 0x10000 {
		t.Errorf("specificity = %#x, want 0x10000", spec)
	}

	if ok, _ := rule.MatchPage(PageContext{Name: "appendix"}); ok {
		t.Error("expected page named appendix not to match a chapter-named rule")
	}
}

func TestPageSelectorMatchesFirst(t *testing.T) {
	ss := NewCSSStyleSheet(`@page :first { margin-top: 2in; }`, nil)
	rule := ss.CSSRules().Item(0).(*CSSPageRule)

	if ok, spec := rule.MatchPage(PageContext{IsFirst: true}); !ok || spec != 0x100 {
		t.Errorf("expected first page to match with specificity 0x100, got ok=%v spec=%#x", ok, spec)
	}
	if ok, _ := rule.MatchPage(PageContext{IsFirst: false}); ok {
		t.Error("expected non-first page not to match :first")
	}
}

func TestPageSelectorMatchesLeftRight(t *testing.T) {
	ss := NewCSSStyleSheet(`@page :left { margin-left: 3cm; } @page :right { margin-right: 3cm; }`, nil)
	left := ss.CSSRules().Item(0).(*CSSPageRule)
	right := ss.CSSRules().Item(1).(*CSSPageRule)

	if ok, _ := left.MatchPage(PageContext{Left: true}); !ok {
		t.Error("expected :left to match a left-hand page")
	}
	if ok, _ := left.MatchPage(PageContext{Left: false}); ok {
		t.Error("expected :left not to match a right-hand page")
	}
	if ok, _ := right.MatchPage(PageContext{Left: false}); !ok {
		t.Error("expected :right to match a right-hand page")
	}
}

func TestPageSelectorMatchesBlank(t *testing.T) {
	ss := NewCSSStyleSheet(`@page :blank { content: none; }`, nil)
	rule := ss.CSSRules().Item(0).(*CSSPageRule)

	if ok, _ := rule.MatchPage(PageContext{Blank: true}); !ok {
		t.Error("expected :blank to match a blank page")
	}
	if ok, _ := rule.MatchPage(PageContext{Blank: false}); ok {
		t.Error("expected :blank not to match a non-blank page")
	}
}

func TestPageSelectorNth(t *testing.T) {
	ss := NewCSSStyleSheet(`@page :nth(3n+1) { color: red; }`, nil)
	rule := ss.CSSRules().Item(0).(*CSSPageRule)

	for _, idx := range []int{0, 3, 6} {
		if ok, _ := rule.MatchPage(PageContext{Index: idx}); !ok {
			t.Errorf("expected page index %d to match :nth(3n+1)", idx)
		}
	}
	if ok, _ := rule.MatchPage(PageContext{Index: 1}); ok {
		t.Error("expected page index 1 not to match :nth(3n+1)")
	}
}

func TestPageSelectorListAlternatives(t *testing.T) {
	ss := NewCSSStyleSheet(`@page chapter:first, chapter:blank { size: a5; }`, nil)
	rule := ss.CSSRules().Item(0).(*CSSPageRule)

	if len(rule.Selectors()) != 2 {
		t.Fatalf("expected 2 selector alternatives, got %d", len(rule.Selectors()))
	}
	if ok, _ := rule.MatchPage(PageContext{Name: "chapter", IsFirst: true}); !ok {
		t.Error("expected chapter first page to match")
	}
	if ok, _ := rule.MatchPage(PageContext{Name: "chapter", Blank: true}); !ok {
		t.Error("expected chapter blank page to match")
	}
	if ok, _ := rule.MatchPage(PageContext{Name: "chapter"}); ok {
		t.Error("expected a plain chapter page (neither first nor blank) not to match either alternative")
	}
}

func TestResolvePageStyleCascadesBySpecificity(t *testing.T) {
	ss := NewCSSStyleSheet(`
		@page { margin: 1in; }
		@page :first { margin: 2in; }
	`, nil)

	resolver := NewStyleResolver(nil)
	resolver.AddAuthorStylesheet(ss)

	first := resolver.ResolvePageStyle(PageContext{IsFirst: true}, nil)
	if got := first.GetLength("margin-top"); got != 192 {
		t.Errorf("first page margin-top = %vpx, want 192px (2in; the more specific :first rule should win)", got)
	}

	other := resolver.ResolvePageStyle(PageContext{IsFirst: false}, nil)
	if got := other.GetLength("margin-top"); got != 96 {
		t.Errorf("non-first page margin-top = %vpx, want 96px (1in)", got)
	}
}

func TestResolvePageStyleFallsBackToUserAgentMargin(t *testing.T) {
	resolver := NewStyleResolver(nil)
	resolver.SetUserAgentStylesheet(GetUserAgentStylesheet())

	page := resolver.ResolvePageStyle(PageContext{}, nil)
	if got := page.GetLength("margin-top"); got != genericCmToPx(2) {
		t.Errorf("margin-top = %vpx, want the UA default of 2cm with no author @page rule", got)
	}
}

func genericCmToPx(cm float64) float64 {
	return cm * 96 / 2.54
}

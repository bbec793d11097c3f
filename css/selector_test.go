package css

import (
	"testing"

	"github.com/chrisuehlinger/plutocss/dom"
	"github.com/chrisuehlinger/plutocss/domtest"
)

func mustParseTestDoc(t *testing.T, htmlText string) dom.Document {
	t.Helper()
	doc, err := domtest.ParseDocument(htmlText, 0, 0)
	if err != nil {
		t.Fatalf("ParseDocument error: %v", err)
	}
	return doc
}

func byID(t *testing.T, doc dom.Document, id string) dom.Element {
	t.Helper()
	el := domtest.QueryID(doc.Root(), id)
	if el == nil {
		t.Fatalf("no element with id %q", id)
	}
	return el
}

func TestParseSelectorSimple(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"div", false},
		{".class", false},
		{"#id", false},
		{"*", false},
		{"div.class", false},
		{"div#id", false},
		{"div.class#id", false},
		{"div.class1.class2", false},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSelector(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && sel == nil {
			t.Errorf("ParseSelector(%q) returned nil selector", tt.input)
		}
	}
}

func TestParseSelectorCombinators(t *testing.T) {
	tests := []struct {
		input       string
		numCompound int
	}{
		{"div p", 2},
		{"div > p", 2},
		{"div + p", 2},
		{"div ~ p", 2},
		{"ul li a", 3},
		{"div > ul > li", 3},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.input)
		if err != nil {
			t.Errorf("ParseSelector(%q) error = %v", tt.input, err)
			continue
		}

		if len(sel.ComplexSelectors) != 1 {
			t.Errorf("ParseSelector(%q) expected 1 complex selector, got %d", tt.input, len(sel.ComplexSelectors))
			continue
		}

		if len(sel.ComplexSelectors[0].Compounds) != tt.numCompound {
			t.Errorf("ParseSelector(%q) expected %d compounds, got %d", tt.input, tt.numCompound, len(sel.ComplexSelectors[0].Compounds))
		}
	}
}

func TestParseSelectorList(t *testing.T) {
	tests := []struct {
		input      string
		numComplex int
	}{
		{"div", 1},
		{"div, p", 2},
		{"h1, h2, h3", 3},
		{"div.class, p#id, span", 3},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.input)
		if err != nil {
			t.Errorf("ParseSelector(%q) error = %v", tt.input, err)
			continue
		}

		if len(sel.ComplexSelectors) != tt.numComplex {
			t.Errorf("ParseSelector(%q) expected %d complex selectors, got %d", tt.input, tt.numComplex, len(sel.ComplexSelectors))
		}
	}
}

func TestParseSelectorAttribute(t *testing.T) {
	tests := []struct {
		input    string
		attrName string
		operator AttributeOperator
		value    string
	}{
		{"[href]", "href", AttrExists, ""},
		{`[type="text"]`, "type", AttrEquals, "text"},
		{`[class~="foo"]`, "class", AttrIncludes, "foo"},
		{`[lang|="en"]`, "lang", AttrDashMatch, "en"},
		{`[href^="https"]`, "href", AttrPrefix, "https"},
		{`[href$=".pdf"]`, "href", AttrSuffix, ".pdf"},
		{`[title*="hello"]`, "title", AttrSubstring, "hello"},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.input)
		if err != nil {
			t.Errorf("ParseSelector(%q) error = %v", tt.input, err)
			continue
		}

		if len(sel.ComplexSelectors) != 1 {
			t.Fatalf("ParseSelector(%q) expected 1 complex selector", tt.input)
		}

		compound := sel.ComplexSelectors[0].Compounds[0]
		if len(compound.AttributeMatchers) != 1 {
			t.Fatalf("ParseSelector(%q) expected 1 attribute matcher", tt.input)
		}

		attr := compound.AttributeMatchers[0]
		if attr.Name != tt.attrName {
			t.Errorf("ParseSelector(%q) attr name = %q, want %q", tt.input, attr.Name, tt.attrName)
		}
		if attr.Operator != tt.operator {
			t.Errorf("ParseSelector(%q) attr operator = %v, want %v", tt.input, attr.Operator, tt.operator)
		}
		if attr.Value != tt.value {
			t.Errorf("ParseSelector(%q) attr value = %q, want %q", tt.input, attr.Value, tt.value)
		}
	}
}

func TestParseSelectorPseudoClass(t *testing.T) {
	tests := []struct {
		input string
		name  string
	}{
		{":hover", "hover"},
		{":first-child", "first-child"},
		{":last-child", "last-child"},
		{":not(div)", "not"},
		{":nth-child(2n+1)", "nth-child"},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.input)
		if err != nil {
			t.Errorf("ParseSelector(%q) error = %v", tt.input, err)
			continue
		}

		if len(sel.ComplexSelectors) != 1 {
			t.Fatalf("ParseSelector(%q) expected 1 complex selector", tt.input)
		}

		compound := sel.ComplexSelectors[0].Compounds[0]
		if len(compound.PseudoClasses) != 1 {
			t.Fatalf("ParseSelector(%q) expected 1 pseudo-class", tt.input)
		}

		pc := compound.PseudoClasses[0]
		if pc.Name != tt.name {
			t.Errorf("ParseSelector(%q) pseudo-class name = %q, want %q", tt.input, pc.Name, tt.name)
		}
	}
}

func TestSpecificityCalculation(t *testing.T) {
	tests := []struct {
		selector string
		a, b, c  int
	}{
		{"*", 0, 0, 0},
		{"li", 0, 0, 1},
		{"ul li", 0, 0, 2},
		{"ul ol+li", 0, 0, 3},
		{"h1 + *[rel=up]", 0, 1, 1},
		{"ul ol li.red", 0, 1, 3},
		{"li.red.level", 0, 2, 1},
		{"#x34y", 1, 0, 0},
		// :not() contributes the specificity of its argument: FOO adds 1 to C.
		{"#s12:not(FOO)", 1, 0, 1},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.selector)
		if err != nil {
			t.Errorf("ParseSelector(%q) error = %v", tt.selector, err)
			continue
		}

		spec := sel.CalculateSpecificity()
		if spec.A != tt.a || spec.B != tt.b || spec.C != tt.c {
			t.Errorf("Specificity(%q) = (%d,%d,%d), want (%d,%d,%d)",
				tt.selector, spec.A, spec.B, spec.C, tt.a, tt.b, tt.c)
		}
	}
}

func TestSelectorMatchElement(t *testing.T) {
	doc := mustParseTestDoc(t, `
		<div id="container" class="main">
			<p id="p1" class="intro">Hello</p>
			<ul id="ul1">
				<li id="li1" class="item">Item 1</li>
				<li id="li2" class="item active">Item 2</li>
			</ul>
		</div>
	`)

	div := byID(t, doc, "container")
	p := byID(t, doc, "p1")
	ul := byID(t, doc, "ul1")
	li1 := byID(t, doc, "li1")
	li2 := byID(t, doc, "li2")

	tests := []struct {
		selector string
		element  dom.Element
		expected bool
	}{
		// Type selectors
		{"div", div, true},
		{"p", p, true},
		{"p", div, false},

		// ID selectors
		{"#container", div, true},
		{"#container", p, false},

		// Class selectors
		{".main", div, true},
		{".intro", p, true},
		{".item", li1, true},
		{".active", li2, true},
		{".active", li1, false},

		// Multiple classes
		{".item.active", li2, true},
		{".item.active", li1, false},

		// Compound selectors
		{"div.main", div, true},
		{"div#container", div, true},
		{"p.intro", p, true},
		{"li.item", li1, true},

		// Universal selector
		{"*", div, true},
		{"*", p, true},

		// Descendant combinator
		{"div p", p, true},
		{"div li", li1, true},
		{"#container li", li1, true},

		// Child combinator
		{"div > p", p, true},
		{"div > li", li1, false}, // li is not a direct child of div
		{"ul > li", li1, true},

		// Adjacent sibling
		{"p + ul", ul, true},
		{"li + li", li2, true},
		{"li + li", li1, false}, // li1 has no previous sibling

		// General sibling
		{"p ~ ul", ul, true},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.selector)
		if err != nil {
			t.Errorf("ParseSelector(%q) error = %v", tt.selector, err)
			continue
		}

		result := sel.MatchElement(tt.element)
		if result != tt.expected {
			t.Errorf("selector %q on element %s: got %v, want %v",
				tt.selector, tt.element.TagName(), result, tt.expected)
		}
	}
}

func TestPseudoClassMatching(t *testing.T) {
	doc := mustParseTestDoc(t, `
		<ul id="ul1"><li id="li1">1</li><li id="li2">2</li><li id="li3">3</li></ul>
	`)

	li1 := byID(t, doc, "li1")
	li2 := byID(t, doc, "li2")
	li3 := byID(t, doc, "li3")

	tests := []struct {
		selector string
		element  dom.Element
		expected bool
	}{
		{":first-child", li1, true},
		{":first-child", li2, false},
		{":last-child", li3, true},
		{":last-child", li1, false},
		{":only-child", li1, false},
		{"li:first-child", li1, true},
		{"li:last-child", li3, true},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.selector)
		if err != nil {
			t.Errorf("ParseSelector(%q) error = %v", tt.selector, err)
			continue
		}

		result := sel.MatchElement(tt.element)
		if result != tt.expected {
			t.Errorf("selector %q: got %v, want %v", tt.selector, result, tt.expected)
		}
	}
}

func TestNthChildMatching(t *testing.T) {
	doc := mustParseTestDoc(t, `
		<ul id="ul1">
			<li id="li1">1</li><li id="li2">2</li><li id="li3">3</li>
			<li id="li4">4</li><li id="li5">5</li>
		</ul>
	`)

	lis := make([]dom.Element, 5)
	for i := range lis {
		lis[i] = byID(t, doc, "li"+string(rune('1'+i)))
	}

	tests := []struct {
		selector string
		element  dom.Element
		expected bool
	}{
		{":nth-child(1)", lis[0], true},
		{":nth-child(2)", lis[1], true},
		{":nth-child(3)", lis[2], true},
		{":nth-child(1)", lis[1], false},

		// odd (2n+1)
		{":nth-child(odd)", lis[0], true},
		{":nth-child(odd)", lis[1], false},
		{":nth-child(odd)", lis[2], true},
		{":nth-child(odd)", lis[3], false},
		{":nth-child(odd)", lis[4], true},

		// even (2n)
		{":nth-child(even)", lis[0], false},
		{":nth-child(even)", lis[1], true},
		{":nth-child(even)", lis[2], false},
		{":nth-child(even)", lis[3], true},

		// 2n+1
		{":nth-child(2n+1)", lis[0], true},
		{":nth-child(2n+1)", lis[1], false},

		// 3n
		{":nth-child(3n)", lis[0], false},
		{":nth-child(3n)", lis[2], true},

		// nth-last-child
		{":nth-last-child(1)", lis[4], true},
		{":nth-last-child(2)", lis[3], true},
	}

	for i, tt := range tests {
		sel, err := ParseSelector(tt.selector)
		if err != nil {
			t.Errorf("ParseSelector(%q) error = %v", tt.selector, err)
			continue
		}

		result := sel.MatchElement(tt.element)
		if result != tt.expected {
			t.Errorf("case %d: selector %q: got %v, want %v", i, tt.selector, result, tt.expected)
		}
	}
}

func TestNotPseudoClass(t *testing.T) {
	doc := mustParseTestDoc(t, `
		<body><div id="div1" class="foo"></div><p id="p1"></p></body>
	`)

	div := byID(t, doc, "div1")
	p := byID(t, doc, "p1")

	tests := []struct {
		selector string
		element  dom.Element
		expected bool
	}{
		{":not(p)", div, true},
		{":not(p)", p, false},
		{":not(.foo)", p, true},
		{":not(.foo)", div, false},
		{"div:not(.bar)", div, true},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.selector)
		if err != nil {
			t.Errorf("ParseSelector(%q) error = %v", tt.selector, err)
			continue
		}

		result := sel.MatchElement(tt.element)
		if result != tt.expected {
			t.Errorf("selector %q on %s: got %v, want %v", tt.selector, tt.element.TagName(), result, tt.expected)
		}
	}
}

func TestAttributeMatching(t *testing.T) {
	doc := mustParseTestDoc(t, `
		<a id="a1" href="https://example.com/page.html" class="link external" lang="en-US" data-id="123">x</a>
	`)

	a := byID(t, doc, "a1")

	tests := []struct {
		selector string
		expected bool
	}{
		// Presence
		{"[href]", true},
		{"[title]", false},

		// Exact match
		{`[data-id="123"]`, true},
		{`[data-id="456"]`, false},

		// Whitespace-separated list (~=)
		{`[class~="link"]`, true},
		{`[class~="external"]`, true},
		{`[class~="foo"]`, false},

		// Dash-separated prefix (|=)
		{`[lang|="en"]`, true},
		{`[lang|="en-US"]`, true},
		{`[lang|="fr"]`, false},

		// Prefix (^=)
		{`[href^="https"]`, true},
		{`[href^="http"]`, true},
		{`[href^="ftp"]`, false},

		// Suffix ($=)
		{`[href$=".html"]`, true},
		{`[href$=".pdf"]`, false},

		// Substring (*=)
		{`[href*="example"]`, true},
		{`[href*="page"]`, true},
		{`[href*="foo"]`, false},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.selector)
		if err != nil {
			t.Errorf("ParseSelector(%q) error = %v", tt.selector, err)
			continue
		}

		result := sel.MatchElement(a)
		if result != tt.expected {
			t.Errorf("selector %q: got %v, want %v", tt.selector, result, tt.expected)
		}
	}
}

func TestParseANPlusB(t *testing.T) {
	tests := []struct {
		input string
		a, b  int
	}{
		{"odd", 2, 1},
		{"even", 2, 0},
		{"2n", 2, 0},
		{"2n+1", 2, 1},
		{"3n+2", 3, 2},
		{"3n-1", 3, -1},
		{"-n+3", -1, 3},
		{"n", 1, 0},
		{"n+1", 1, 1},
		{"5", 0, 5},
		{"-2n+3", -2, 3},
	}

	for _, tt := range tests {
		anb := parseANPlusB(tt.input)
		if anb == nil {
			t.Errorf("parseANPlusB(%q) = nil, want (%d, %d)", tt.input, tt.a, tt.b)
			continue
		}
		if anb.A != tt.a || anb.B != tt.b {
			t.Errorf("parseANPlusB(%q) = (%d, %d), want (%d, %d)", tt.input, anb.A, anb.B, tt.a, tt.b)
		}
	}
}

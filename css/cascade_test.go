package css

import (
	"strings"
	"testing"

	"github.com/chrisuehlinger/plutocss/dom"
)

func TestCascadeSpecificityCalculation(t *testing.T) {
	tests := []struct {
		selector  string
		expectedA int
		expectedB int
		expectedC int
	}{
		{"*", 0, 0, 0},
		{"p", 0, 0, 1},
		{"div p", 0, 0, 2},
		{".class", 0, 1, 0},
		{"p.class", 0, 1, 1},
		{"#id", 1, 0, 0},
		{"#id.class", 1, 1, 0},
		{"#id .class p", 1, 1, 1},
		{"p[attr]", 0, 1, 1},
		{"p:first-child", 0, 1, 1},
		{"p::before", 0, 0, 2},
		{"#a #b .c .d p span", 2, 2, 2},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.selector)
		if err != nil {
			t.Errorf("ParseSelector(%q) error: %v", tt.selector, err)
			continue
		}

		spec := sel.CalculateSpecificity()
		if spec.A != tt.expectedA || spec.B != tt.expectedB || spec.C != tt.expectedC {
			t.Errorf("Specificity(%q) = (%d,%d,%d), want (%d,%d,%d)",
				tt.selector, spec.A, spec.B, spec.C, tt.expectedA, tt.expectedB, tt.expectedC)
		}
	}
}

func TestSpecificityComparison(t *testing.T) {
	tests := []struct {
		sel1     string
		sel2     string
		expected int // -1: sel1 < sel2, 0: equal, 1: sel1 > sel2
	}{
		{"p", "p", 0},
		{"p", ".class", -1},
		{".class", "#id", -1},
		{"#id", "#id.class", -1},
		{"p p p", ".class", -1},
		{"#id", "p p p p p p p p p p p", 1},
	}

	for _, tt := range tests {
		sel1, _ := ParseSelector(tt.sel1)
		sel2, _ := ParseSelector(tt.sel2)

		spec1 := sel1.CalculateSpecificity()
		spec2 := sel2.CalculateSpecificity()

		cmp := spec1.Compare(spec2)
		if cmp != tt.expected {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.sel1, tt.sel2, cmp, tt.expected)
		}
	}
}

func TestCascadeOriginOrder(t *testing.T) {
	tests := []struct {
		origin1    CascadeOrigin
		important1 bool
		origin2    CascadeOrigin
		important2 bool
		expected   bool // true if origin1 should come before (lower precedence) than origin2
	}{
		// Normal declarations: UA < User < Author
		{OriginUserAgent, false, OriginUser, false, true},
		{OriginUser, false, OriginAuthor, false, true},
		{OriginUserAgent, false, OriginAuthor, false, true},

		// Important declarations: Author < User < UA (inverted)
		{OriginAuthor, true, OriginUser, true, true},
		{OriginUser, true, OriginUserAgent, true, true},
		{OriginAuthor, true, OriginUserAgent, true, true},

		// Normal < Important
		{OriginAuthor, false, OriginAuthor, true, true},
		{OriginAuthor, false, OriginUser, true, true},
	}

	for _, tt := range tests {
		layer1 := cascadeLayer(tt.origin1, tt.important1)
		layer2 := cascadeLayer(tt.origin2, tt.important2)

		result := layer1 < layer2
		if result != tt.expected {
			t.Errorf("cascadeLayer(%v, %v) < cascadeLayer(%v, %v) = %v, want %v",
				tt.origin1, tt.important1, tt.origin2, tt.important2, result, tt.expected)
		}
	}
}

func docElementByTag(root dom.Element, tag string) dom.Element {
	if root == nil {
		return nil
	}
	if root.TagName() == tag {
		return root
	}
	for c := root.FirstChildElement(); c != nil; c = c.NextSiblingElement() {
		if found := docElementByTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func keywordOf(v *Value) string {
	if v == nil || v.Kind != ValueIdent {
		return ""
	}
	return v.Ident
}

func TestStyleResolver(t *testing.T) {
	doc := mustParseTestDoc(t, `<div class="test" id="main">Hello</div>`)

	resolver := NewStyleResolver(doc)

	cssText := `
		div { color: red; }
		.test { color: blue; }
		#main { color: green; }
	`
	resolver.AddAuthorStylesheet(NewCSSStyleSheet(cssText, nil))

	div := docElementByTag(doc.Root(), "DIV")
	if div == nil {
		t.Fatal("no div element found")
	}

	style := resolver.ResolveStyles(div, nil)

	colorVal := style.GetPropertyValue("color")
	if colorVal == nil {
		t.Fatal("color property not found")
	}
	if keywordOf(colorVal) != "green" {
		t.Errorf("color = %q, want %q", keywordOf(colorVal), "green")
	}
}

func TestImportantDeclarations(t *testing.T) {
	doc := mustParseTestDoc(t, `<div class="test">Hello</div>`)

	resolver := NewStyleResolver(doc)

	cssText := `
		.test { color: blue !important; }
		div { color: red; }
	`
	resolver.AddAuthorStylesheet(NewCSSStyleSheet(cssText, nil))

	div := docElementByTag(doc.Root(), "DIV")
	style := resolver.ResolveStyles(div, nil)
	colorVal := style.GetPropertyValue("color")

	if keywordOf(colorVal) != "blue" {
		t.Errorf("color = %v, want blue (with !important)", colorVal)
	}
}

func TestInheritedProperties(t *testing.T) {
	doc := mustParseTestDoc(t, `<div><span>Hello</span></div>`)

	resolver := NewStyleResolver(doc)

	cssText := `div { color: red; font-size: 20px; }`
	resolver.AddAuthorStylesheet(NewCSSStyleSheet(cssText, nil))

	div := docElementByTag(doc.Root(), "DIV")
	span := docElementByTag(doc.Root(), "SPAN")

	parentStyle := resolver.ResolveStyles(div, nil)
	childStyle := resolver.ResolveStyles(span, parentStyle)

	colorVal := childStyle.GetPropertyValue("color")
	if keywordOf(colorVal) != "red" {
		t.Errorf("span color = %v, want red (inherited)", colorVal)
	}
}

func TestCSSWideKeywords(t *testing.T) {
	doc := mustParseTestDoc(t, `<div><span>Hello</span></div>`)

	resolver := NewStyleResolver(doc)

	cssText := `
		div { color: red; display: block; }
		span { color: inherit; display: initial; }
	`
	resolver.AddAuthorStylesheet(NewCSSStyleSheet(cssText, nil))

	div := docElementByTag(doc.Root(), "DIV")
	span := docElementByTag(doc.Root(), "SPAN")

	parentStyle := resolver.ResolveStyles(div, nil)
	childStyle := resolver.ResolveStyles(span, parentStyle)

	colorVal := childStyle.GetPropertyValue("color")
	if keywordOf(colorVal) != "red" {
		t.Errorf("span color with inherit = %v, want red", colorVal)
	}

	displayVal := childStyle.GetPropertyValue("display")
	if keywordOf(displayVal) != "inline" {
		t.Errorf("span display with initial = %v, want inline", displayVal)
	}
}

func TestInlineStyles(t *testing.T) {
	doc := mustParseTestDoc(t, `<div style="color: purple; font-size: 24px;">Hello</div>`)

	resolver := NewStyleResolver(doc)

	cssText := `div { color: red; }`
	resolver.AddAuthorStylesheet(NewCSSStyleSheet(cssText, nil))

	div := docElementByTag(doc.Root(), "DIV")
	style := resolver.ResolveStyles(div, nil)

	colorVal := style.GetPropertyValue("color")
	if keywordOf(colorVal) != "purple" {
		t.Errorf("color = %v, want purple (from inline style)", colorVal)
	}
}

func TestLengthUnits(t *testing.T) {
	ctx := EvalContext{FontSizePx: 16, RootFontSize: 16}
	tests := []struct {
		value    float64
		unit     LengthUnit
		expected float64
	}{
		{16, UnitPx, 16},
		{1, UnitEm, 16},  // 1em = 16px (default font size)
		{1, UnitRem, 16}, // 1rem = 16px (root font size)
		{12, UnitPt, 16}, // 12pt ~ 16px
		{1, UnitIn, 96},  // 1in = 96px
		{2.54, UnitCm, 96},
	}

	for _, tt := range tests {
		result := resolveLengthPx(&Value{Kind: ValueLength, Num: tt.value, Unit: tt.unit}, ctx)
		if diff := result - tt.expected; diff > 0.1 || diff < -0.1 {
			t.Errorf("resolveLengthPx(%v, %v) = %v, want %v", tt.value, tt.unit, result, tt.expected)
		}
	}
}

func TestUserAgentStylesheet(t *testing.T) {
	ua := GetUserAgentStylesheet()

	if ua == nil {
		t.Fatal("User agent stylesheet is nil")
	}
	rules := ua.CSSRules().Rules()
	if len(rules) == 0 {
		t.Fatal("User agent stylesheet has no rules")
	}

	foundDiv := false
	foundBody := false
	for _, rule := range rules {
		sr, ok := rule.(*CSSStyleRule)
		if !ok {
			continue
		}
		if containsSelector(sr.SelectorText(), "div") {
			foundDiv = true
		}
		if containsSelector(sr.SelectorText(), "body") {
			foundBody = true
		}
	}

	if !foundDiv {
		t.Error("User agent stylesheet missing div rule")
	}
	if !foundBody {
		t.Error("User agent stylesheet missing body rule")
	}
}

func TestStyleTree(t *testing.T) {
	doc := mustParseTestDoc(t, `<div><span>Hello</span></div>`)

	st := NewStyleTree(doc)
	st.AddStylesheet(`
		div { color: red; display: block; }
		span { color: blue; }
	`)
	root := st.BuildStyleTree(doc)

	if root == nil {
		t.Fatal("Style tree root is nil")
	}

	divNode := findStyledNodeByTag(root, "DIV")
	if divNode == nil {
		t.Fatal("Could not find div in style tree")
	}

	if divNode.Style == nil {
		t.Fatal("div has no computed style")
	}

	displayVal := divNode.Style.GetPropertyValue("display")
	if keywordOf(displayVal) != "block" {
		t.Errorf("div display = %v, want block", displayVal)
	}

	if !divNode.IsBlock() {
		t.Error("div should be a block element")
	}
}

func TestPropertyInheritance(t *testing.T) {
	inheritedProps := []string{"color", "font-family", "font-size", "line-height", "text-align"}
	nonInheritedProps := []string{"display", "margin", "padding", "border", "width", "height"}

	for _, prop := range inheritedProps {
		id, ok := LookupProperty(prop)
		if !ok {
			t.Errorf("Property %q not found", prop)
			continue
		}
		if !id.Inherited() {
			t.Errorf("Property %q should be inherited", prop)
		}
	}

	for _, prop := range nonInheritedProps {
		id, ok := LookupProperty(prop)
		if !ok {
			t.Errorf("Property %q not found", prop)
			continue
		}
		if id.Inherited() {
			t.Errorf("Property %q should not be inherited", prop)
		}
	}
}

func TestColorParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected Color
		ok       bool
	}{
		{"red", Color{R: 255, G: 0, B: 0, A: 255}, true},
		{"blue", Color{R: 0, G: 0, B: 255, A: 255}, true},
		{"transparent", Color{R: 0, G: 0, B: 0, A: 0}, true},
		{"#fff", Color{R: 255, G: 255, B: 255, A: 255}, true},
		{"#ff0000", Color{R: 255, G: 0, B: 0, A: 255}, true},
		{"#00ff00ff", Color{R: 0, G: 255, B: 0, A: 255}, true},
		{"invalidcolor", Color{}, false},
	}

	for _, tt := range tests {
		color, ok := ParseColor(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseColor(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && color != tt.expected {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.input, color, tt.expected)
		}
	}
}

// Helper functions

func containsSelector(selectorText, selector string) bool {
	if selectorText == selector {
		return true
	}
	for _, part := range strings.Split(selectorText, ",") {
		part = strings.TrimSpace(part)
		if part == selector {
			return true
		}
		if len(part) > len(selector) && part[:len(selector)] == selector {
			next := part[len(selector)]
			if next == ' ' || next == '.' || next == '#' || next == '[' || next == ':' || next == ',' {
				return true
			}
		}
	}
	return false
}

func findStyledNodeByTag(node *StyledNode, tag string) *StyledNode {
	if node.Element != nil && node.Element.TagName() == tag {
		return node
	}
	for _, child := range node.Children {
		if found := findStyledNodeByTag(child, tag); found != nil {
			return found
		}
	}
	return nil
}

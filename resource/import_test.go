package resource

import (
	"context"
	"testing"

	"github.com/chrisuehlinger/plutocss/css"
)

type stubFetcher struct {
	sheets map[string]string
	calls  int
}

func (f *stubFetcher) Fetch(ctx context.Context, rawURL string) (*Resource, error) {
	f.calls++
	content, ok := f.sheets[rawURL]
	if !ok {
		return nil, ErrFetch
	}
	return &Resource{URL: rawURL, Content: []byte(content), ContentType: "text/css"}, nil
}

func TestImportResolverFetchesAndParsesImport(t *testing.T) {
	fetcher := &stubFetcher{sheets: map[string]string{
		"https://example.com/fonts.css": `body { color: red; }`,
	}}
	sheet := css.NewCSSStyleSheet(`@import url("fonts.css");`, nil)

	NewImportResolver(fetcher).Resolve(context.Background(), sheet, "https://example.com/base.css")

	rules := sheet.CSSRules().Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	imp, ok := rules[0].(*css.CSSImportRule)
	if !ok {
		t.Fatalf("expected a CSSImportRule, got %T", rules[0])
	}
	if imp.StyleSheet() == nil {
		t.Fatal("expected the import to be resolved to a parsed stylesheet")
	}
	if len(imp.StyleSheet().CSSRules().Rules()) != 1 {
		t.Errorf("expected the imported sheet to have parsed its one style rule")
	}
}

func TestImportResolverRecordsFetchFailureAsDiagnostic(t *testing.T) {
	fetcher := &stubFetcher{sheets: map[string]string{}}
	sheet := css.NewCSSStyleSheet(`@import url("missing.css");`, nil)

	NewImportResolver(fetcher).Resolve(context.Background(), sheet, "https://example.com/base.css")

	diags := sheet.Diagnostics()
	if len(diags) != 1 || diags[0].Bucket != css.BucketFetch {
		t.Fatalf("expected one fetch diagnostic, got %+v", diags)
	}
}

func TestImportResolverNestedImportsRecurse(t *testing.T) {
	fetcher := &stubFetcher{sheets: map[string]string{
		"https://example.com/a.css": `@import url("b.css"); .a { color: blue; }`,
		"https://example.com/b.css": `.b { color: green; }`,
	}}
	sheet := css.NewCSSStyleSheet(`@import url("a.css");`, nil)

	NewImportResolver(fetcher).Resolve(context.Background(), sheet, "https://example.com/base.css")

	a := sheet.CSSRules().Rules()[0].(*css.CSSImportRule).StyleSheet()
	if a == nil {
		t.Fatal("expected a.css to resolve")
	}
	var bImport *css.CSSImportRule
	for _, r := range a.CSSRules().Rules() {
		if imp, ok := r.(*css.CSSImportRule); ok {
			bImport = imp
		}
	}
	if bImport == nil || bImport.StyleSheet() == nil {
		t.Fatal("expected a.css's nested @import of b.css to resolve too")
	}
}

package resource

import (
	"context"
	"fmt"

	"github.com/chrisuehlinger/plutocss/css"
)

// MaxImportDepth bounds @import recursion, matching the original
// engine's kMaxImportDepth (cssstylesheet.cpp's addImportRule) — a
// stylesheet importing itself, directly or through a chain, stops
// fetching rather than recursing forever.
const MaxImportDepth = 256

// errImportDepthExceeded is the diagnostic message recorded (not returned) once MaxImportDepth
// is hit; the offending @import is left unresolved and the rest of the
// stylesheet parses normally, per §7's "no exceptions propagate."
var errImportDepthExceeded = "import depth exceeded (max 256)"

// ImportResolver walks a stylesheet's rule tree (including nested
// @media) and fetches every @import target it finds, recursively, up to
// MaxImportDepth. Fetch failures and depth-limit hits are recorded as
// css.Diagnostic values on the importing stylesheet rather than
// returned, matching the rest of the engine's bucket-3 handling.
type ImportResolver struct {
	Fetcher Fetcher
}

// NewImportResolver builds an ImportResolver around the given Fetcher.
func NewImportResolver(fetcher Fetcher) *ImportResolver {
	return &ImportResolver{Fetcher: fetcher}
}

// Resolve fetches and parses every @import rule reachable from sheet
// (recursing into imported sheets' own @import rules), resolving hrefs
// against baseURL. It mutates sheet in place via CSSImportRule.SetStyleSheet.
func (r *ImportResolver) Resolve(ctx context.Context, sheet *css.CSSStyleSheet, baseURL string) {
	r.resolve(ctx, sheet, baseURL, 0)
}

func (r *ImportResolver) resolve(ctx context.Context, sheet *css.CSSStyleSheet, baseURL string, depth int) {
	if sheet == nil {
		return
	}
	r.walkRules(ctx, sheet, sheet.CSSRules(), baseURL, depth)
}

func (r *ImportResolver) walkRules(ctx context.Context, sheet *css.CSSStyleSheet, rules *css.CSSRuleList, baseURL string, depth int) {
	if rules == nil {
		return
	}
	for _, rule := range rules.Rules() {
		switch rl := rule.(type) {
		case *css.CSSMediaRule:
			r.walkRules(ctx, sheet, rl.CSSRules(), baseURL, depth)
		case *css.CSSImportRule:
			r.resolveImport(ctx, sheet, rl, baseURL, depth)
		}
	}
}

func (r *ImportResolver) resolveImport(ctx context.Context, sheet *css.CSSStyleSheet, rule *css.CSSImportRule, baseURL string, depth int) {
	if rule.StyleSheet() != nil {
		return
	}
	if depth >= MaxImportDepth {
		sheet.RecordFetchDiagnostic(errImportDepthExceeded, rule.Href())
		return
	}

	resolvedURL, err := ResolveURL(baseURL, rule.Href())
	if err != nil {
		sheet.RecordFetchDiagnostic(fmt.Sprintf("resolving @import href: %v", err), rule.Href())
		return
	}

	res, err := r.Fetcher.Fetch(ctx, resolvedURL)
	if err != nil {
		sheet.RecordFetchDiagnostic(fmt.Sprintf("fetching @import: %v", err), resolvedURL)
		return
	}

	imported := css.NewCSSStyleSheet(string(res.Content), nil)
	imported.SetHref(resolvedURL)
	rule.SetStyleSheet(imported)

	r.resolve(ctx, imported, resolvedURL, depth+1)
}

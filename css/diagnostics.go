package css

import "errors"

// diagnostics.go implements §7's three-bucket error model: recoverable
// parse errors and resolution failures are recorded as data rather than
// propagated as Go errors, so a malformed rule or declaration never aborts
// the rest of a stylesheet; only bucket-3 fetch failures are real errors.

// Sentinel errors for the three failure buckets. Bucket 1 and 2 sentinels
// are wrapped into Diagnostic values rather than returned; bucket 3 is
// returned by resource.Fetcher and converted to a Diagnostic by the
// @import resolver.
var (
	ErrRecoverableParse  = errors.New("css: recoverable parse error")
	ErrResolutionFailure = errors.New("css: resolution failure")
)

// DiagnosticBucket classifies a Diagnostic per §7's three buckets.
type DiagnosticBucket int

const (
	// BucketParse: a rule, selector, or declaration couldn't be parsed and
	// was dropped; parsing continues with the next rule.
	BucketParse DiagnosticBucket = iota
	// BucketResolution: a value failed to resolve at computed-value time
	// (e.g. an unresolvable var() cycle); the property falls back to its
	// initial or inherited value.
	BucketResolution
	// BucketFetch: an external resource (an @import target, a font source)
	// could not be fetched.
	BucketFetch
)

func (b DiagnosticBucket) String() string {
	switch b {
	case BucketParse:
		return "parse"
	case BucketResolution:
		return "resolution"
	case BucketFetch:
		return "fetch"
	default:
		return "unknown"
	}
}

// Diagnostic records one non-fatal failure encountered while parsing or
// resolving a stylesheet, per §7's "no exceptions propagate" invariant.
type Diagnostic struct {
	Bucket  DiagnosticBucket
	Message string
	// Source is the offending text (a selector, a declaration value, a
	// URL), kept for error reporting; empty when not applicable.
	Source string
}

func (d Diagnostic) Error() string {
	if d.Source == "" {
		return d.Bucket.String() + ": " + d.Message
	}
	return d.Bucket.String() + ": " + d.Message + ": " + d.Source
}

// addDiagnostic appends a Diagnostic to the stylesheet's log.
func (s *CSSStyleSheet) addDiagnostic(bucket DiagnosticBucket, message, source string) {
	s.diagnostics = append(s.diagnostics, Diagnostic{Bucket: bucket, Message: message, Source: source})
}

// RecordFetchDiagnostic appends a bucket-3 fetch failure to this
// stylesheet's diagnostics. Exported so resource.Fetcher callers (outside
// this package) can record a failed @import/url() fetch without exposing
// the full diagnostics-mutation surface.
func (s *CSSStyleSheet) RecordFetchDiagnostic(message, source string) {
	s.addDiagnostic(BucketFetch, message, source)
}

// Diagnostics returns every non-fatal failure recorded while parsing this
// stylesheet (and, transitively, nothing from @import targets — each
// imported CSSStyleSheet carries its own Diagnostics independently).
func (s *CSSStyleSheet) Diagnostics() []Diagnostic {
	return s.diagnostics
}

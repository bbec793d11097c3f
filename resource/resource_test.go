package resource

import (
	"context"
	"testing"
)

func TestResolveURLRelativeAgainstBase(t *testing.T) {
	got, err := ResolveURL("https://example.com/css/base.css", "fonts.css")
	if err != nil {
		t.Fatalf("ResolveURL: %v", err)
	}
	if got != "https://example.com/css/fonts.css" {
		t.Errorf("ResolveURL = %q, want https://example.com/css/fonts.css", got)
	}
}

func TestResolveURLAbsoluteReturnedAsIs(t *testing.T) {
	got, err := ResolveURL("https://example.com/base.css", "https://cdn.example.com/x.css")
	if err != nil {
		t.Fatalf("ResolveURL: %v", err)
	}
	if got != "https://cdn.example.com/x.css" {
		t.Errorf("ResolveURL = %q, want the absolute reference unchanged", got)
	}
}

func TestResolveURLDataURLUnresolved(t *testing.T) {
	ref := "data:text/css,body{color:red}"
	got, err := ResolveURL("https://example.com/base.css", ref)
	if err != nil {
		t.Fatalf("ResolveURL: %v", err)
	}
	if got != ref {
		t.Errorf("ResolveURL = %q, want the data URL returned unresolved", got)
	}
}

func TestSchemeClassification(t *testing.T) {
	cases := map[string]string{
		"https://example.com/a.css": "https",
		"file:///tmp/a.css":         "file",
		"data:text/css,x":           "data",
	}
	for raw, want := range cases {
		got, err := Scheme(raw)
		if err != nil {
			t.Fatalf("Scheme(%q): %v", raw, err)
		}
		if got != want {
			t.Errorf("Scheme(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestSchemeFetcherFetchesDataURL(t *testing.T) {
	f := NewSchemeFetcher("", false)
	res, err := f.Fetch(context.Background(), "data:text/css;base64,Ym9keXtjb2xvcjpyZWR9")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(res.Content) != "body{color:red}" {
		t.Errorf("Content = %q, want decoded base64 body", res.Content)
	}
}

func TestSchemeFetcherRejectsHTTPWhenDisallowed(t *testing.T) {
	f := NewSchemeFetcher("", false)
	if _, err := f.Fetch(context.Background(), "https://example.com/a.css"); err == nil {
		t.Error("expected an error fetching http(s) with AllowHTTP false")
	}
}

package css

import "testing"

func TestFontFaceCacheSelectsExactWeightMatch(t *testing.T) {
	ss := NewCSSStyleSheet(`
		@font-face { font-family: "Roboto"; font-weight: 400; src: local("Roboto Regular"); }
		@font-face { font-family: "Roboto"; font-weight: 700; src: local("Roboto Bold"); }
	`, nil)
	cache := NewCSSFontFaceCache([]*CSSStyleSheet{ss})

	face := cache.Get("Roboto", FontSelectionRequest{Weight: 700, Stretch: 100, Slope: 0})
	if face == nil || len(face.Sources) == 0 || face.Sources[0].Local != "Roboto Bold" {
		t.Fatalf("expected the 700-weight face for a 700 request, got %+v", face)
	}
}

func TestFontFaceCacheWeightFallbackBelow400PrefersLower(t *testing.T) {
	ss := NewCSSStyleSheet(`
		@font-face { font-family: "X"; font-weight: 100; src: local("light"); }
		@font-face { font-family: "X"; font-weight: 600; src: local("semibold"); }
	`, nil)
	cache := NewCSSFontFaceCache([]*CSSStyleSheet{ss})

	face := cache.Get("X", FontSelectionRequest{Weight: 300, Stretch: 100, Slope: 0})
	if face == nil || face.Sources[0].Local != "light" {
		t.Fatalf("requesting weight 300 (<400) should prefer the lighter 100-weight face, got %+v", face)
	}
}

func TestFontFaceCacheWeightFallbackAbove500PrefersHigher(t *testing.T) {
	ss := NewCSSStyleSheet(`
		@font-face { font-family: "X"; font-weight: 300; src: local("light"); }
		@font-face { font-family: "X"; font-weight: 900; src: local("black"); }
	`, nil)
	cache := NewCSSFontFaceCache([]*CSSStyleSheet{ss})

	face := cache.Get("X", FontSelectionRequest{Weight: 800, Stretch: 100, Slope: 0})
	if face == nil || face.Sources[0].Local != "black" {
		t.Fatalf("requesting weight 800 (>500) should prefer the heavier 900-weight face, got %+v", face)
	}
}

func TestFontFaceCacheWeightRangeMatchesWithinSpan(t *testing.T) {
	ss := NewCSSStyleSheet(`@font-face { font-family: "Variable"; font-weight: 100 900; src: local("variable"); }`, nil)
	cache := NewCSSFontFaceCache([]*CSSStyleSheet{ss})

	face := cache.Get("Variable", FontSelectionRequest{Weight: 550, Stretch: 100, Slope: 0})
	if face == nil {
		t.Fatal("expected a variable-range face to match any weight within its span")
	}
}

func TestFontFaceSourcesSkipUnsupportedFormat(t *testing.T) {
	sources := parseFontFaceSources(`url("font.svg") format("svg"), url("font.woff2") format("woff2")`)
	if len(sources) != 2 {
		t.Fatalf("expected 2 parsed sources, got %d", len(sources))
	}
	if SupportsSource(sources[0]) {
		t.Error("svg format should not be supported")
	}
	if !SupportsSource(sources[1]) {
		t.Error("woff2 format should be supported")
	}
}

func TestFontFaceLocalSourceParsing(t *testing.T) {
	sources := parseFontFaceSources(`local("Helvetica Neue")`)
	if len(sources) != 1 || sources[0].Local != "Helvetica Neue" {
		t.Fatalf("expected a single local source, got %+v", sources)
	}
}

func TestUnicodeRangeListContains(t *testing.T) {
	ranges := parseUnicodeRangeList("U+0025-00FF, U+4??")
	if !ranges.Contains(0x41) {
		t.Error("expected 0x41 to fall in U+0025-00FF")
	}
	if !ranges.Contains(0x4AB) {
		t.Error("expected 0x4AB to fall in the U+4?? wildcard range")
	}
	if ranges.Contains(0x1000) {
		t.Error("expected 0x1000 not to be covered")
	}
}

func TestUnicodeRangeListEmptyCoversEverything(t *testing.T) {
	var ranges UnicodeRangeList
	if !ranges.Contains(0x41) {
		t.Error("an empty unicode-range list should cover every code point")
	}
}

func TestFontStretchKeywordRanges(t *testing.T) {
	r := parseFontStretchRange("condensed")
	if r.Low != 75 || r.High != 75 {
		t.Errorf("condensed = %+v, want fixed range at 75", r)
	}
}

func TestFontStyleObliqueAngleRange(t *testing.T) {
	r := parseFontStyleRange("oblique 10deg 20deg")
	if r.Low != 10 || r.High != 20 {
		t.Errorf("oblique 10deg 20deg = %+v, want [10, 20]", r)
	}
}

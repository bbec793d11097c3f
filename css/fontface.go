package css

import (
	"strconv"
	"strings"
)

// Font selection constants, per CSS Fonts Module Level 4's weight/stretch/
// slope ranges (the original engine's kNormalFontWeight/kBoldFontWeight/
// kNormalFontWidth/kNormalFontSlope constants referenced from
// CSSFontFaceBuilder::weight/stretch/style).
const (
	minFontWeight    = 1.0
	maxFontWeight    = 1000.0
	normalFontWeight = 400.0
	boldFontWeight   = 700.0

	normalFontWidth = 100.0 // percent

	normalFontSlope  = 0.0
	italicFontSlope  = 14.0
	minFontSlope     = -90.0
	maxFontSlope     = 90.0
)

// FontSelectionRange is an inclusive [Low, High] range a @font-face
// descriptor occupies along one selection axis (weight, stretch, or
// slope). A descriptor with a single value (e.g. "font-weight: bold")
// produces a degenerate range where Low == High.
type FontSelectionRange struct {
	Low, High float64
}

func fixedRange(v float64) FontSelectionRange { return FontSelectionRange{Low: v, High: v} }

// Contains reports whether v falls within the inclusive range.
func (r FontSelectionRange) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// FontSelectionDescription is the per-family map key §4.8 describes: the
// weight/stretch/slope ranges a @font-face rule declared.
type FontSelectionDescription struct {
	Weight  FontSelectionRange
	Stretch FontSelectionRange
	Slope   FontSelectionRange
}

// FontSelectionRequest is a concrete, single-valued lookup request: an
// element's computed font-weight/font-stretch/font-style feeding §4.8
// selection for a given family.
type FontSelectionRequest struct {
	Weight  float64
	Stretch float64
	Slope   float64
}

// UnicodeRange is one inclusive Unicode code point range from a
// unicode-range descriptor.
type UnicodeRange struct {
	From, To rune
}

// UnicodeRangeList is the set of code point ranges a FontFaceSource
// declares coverage for; an empty list covers every code point.
type UnicodeRangeList []UnicodeRange

// Contains reports whether cp falls in any declared range, or true
// unconditionally when the list is empty (the default, whole-range
// coverage).
func (l UnicodeRangeList) Contains(cp rune) bool {
	if len(l) == 0 {
		return true
	}
	for _, r := range l {
		if cp >= r.From && cp <= r.To {
			return true
		}
	}
	return false
}

// FontFaceSource is one candidate source from a @font-face rule's `src`
// descriptor: either a local(name) reference or a url(...) with an
// optional format() hint.
type FontFaceSource struct {
	Local  string // non-empty for a local() source
	URL    string // non-empty for a url() source
	Format string // optional format() hint, lowercased
}

// supportedFontFormats mirrors FontResource::supportsFormat's accepted
// set: formats the renderer can actually decode.
var supportedFontFormats = map[string]bool{
	"truetype":    true,
	"opentype":    true,
	"woff":        true,
	"woff2":       true,
	"svg":         false,
	"embedded-opentype": false,
}

// SegmentedFontFace is the built @font-face entry for one family and one
// FontSelectionDescription: its declared sources and unicode-range
// restriction.
type SegmentedFontFace struct {
	Description   FontSelectionDescription
	Sources       []FontFaceSource
	UnicodeRanges UnicodeRangeList
}

// CSSFontFaceCache is the per-document @font-face registry (§4.8): every
// rule's family contributes one SegmentedFontFace per distinct
// FontSelectionDescription, grounded on the original engine's
// CSSFontFaceCache (cssstylesheet.h/.cpp), whose m_table is a
// map[family]map[FontSelectionDescription]SegmentedFontFace.
type CSSFontFaceCache struct {
	table map[string]map[FontSelectionDescription]*SegmentedFontFace
}

// NewCSSFontFaceCache builds a font-face cache from every @font-face rule
// in the given stylesheets, in document order (later rules for the same
// family/description overwrite earlier ones' sources, matching
// CSSFontFaceCache::add's "get-or-create, then append" behavior collapsed
// to last-wins, since this cache does not model source composition).
func NewCSSFontFaceCache(sheets []*CSSStyleSheet) *CSSFontFaceCache {
	c := &CSSFontFaceCache{table: make(map[string]map[FontSelectionDescription]*SegmentedFontFace)}
	for _, sheet := range sheets {
		if sheet == nil {
			continue
		}
		collectFontFaceRules(sheet.CSSRules(), c)
	}
	return c
}

func collectFontFaceRules(rules *CSSRuleList, c *CSSFontFaceCache) {
	if rules == nil {
		return
	}
	for _, rule := range rules.Rules() {
		switch r := rule.(type) {
		case *CSSFontFaceRule:
			c.add(r)
		case *CSSMediaRule:
			collectFontFaceRules(r.CSSRules(), c)
		case *CSSImportRule:
			if r.StyleSheet() != nil {
				collectFontFaceRules(r.StyleSheet().CSSRules(), c)
			}
		}
	}
}

// add builds a SegmentedFontFace from a @font-face rule's declaration
// block and registers it under the rule's family and description,
// mirroring CSSFontFaceBuilder plus CSSStyleSheet::addFontFaceRule.
func (c *CSSFontFaceCache) add(rule *CSSFontFaceRule) {
	style := rule.Style()
	family := strings.ToLower(strings.Trim(style.GetPropertyValue("font-family"), `"'`))
	if family == "" {
		return
	}

	desc := FontSelectionDescription{
		Weight:  parseFontWeightRange(style.GetPropertyValue("font-weight")),
		Stretch: parseFontStretchRange(style.GetPropertyValue("font-stretch")),
		Slope:   parseFontStyleRange(style.GetPropertyValue("font-style")),
	}

	face := &SegmentedFontFace{
		Description:   desc,
		Sources:       parseFontFaceSources(style.GetPropertyValue("src")),
		UnicodeRanges: parseUnicodeRangeList(style.GetPropertyValue("unicode-range")),
	}

	families, ok := c.table[family]
	if !ok {
		families = make(map[FontSelectionDescription]*SegmentedFontFace)
		c.table[family] = families
	}
	families[desc] = face
}

// Get selects the best-matching SegmentedFontFace for family given a
// concrete request, per §4.8's "ask every candidate for a distance score,
// keep the minimum". Returns nil if the family has no @font-face rules.
func (c *CSSFontFaceCache) Get(family string, req FontSelectionRequest) *SegmentedFontFace {
	families, ok := c.table[strings.ToLower(family)]
	if !ok || len(families) == 0 {
		return nil
	}

	var best *SegmentedFontFace
	bestDistance := float64(0)
	first := true
	for desc, face := range families {
		d := selectionDistance(desc, req)
		if first || d < bestDistance {
			best = face
			bestDistance = d
			first = false
		}
	}
	return best
}

// selectionDistance computes §4.8's distance score for one candidate
// description against a request: 0 along an axis whose range contains the
// requested value, otherwise a bias that prefers narrower, nearer, and
// (for weight) direction-specific candidates.
func selectionDistance(desc FontSelectionDescription, req FontSelectionRequest) float64 {
	return weightDistance(desc.Weight, req.Weight) +
		axisDistance(desc.Stretch, req.Stretch) +
		axisDistance(desc.Slope, req.Slope)
}

// weightDistance implements the CSS Fonts weight-matching bias: below 400,
// prefer lower weights; above 500, prefer higher weights; in [400, 500],
// prefer the nearer side before falling back to the other direction.
func weightDistance(r FontSelectionRange, v float64) float64 {
	if r.Contains(v) {
		return 0
	}
	switch {
	case v < 400:
		if r.High < v {
			return v - r.High
		}
		return (r.Low - v) * 2
	case v > 500:
		if r.Low > v {
			return r.Low - v
		}
		return (v - r.High) * 2
	default: // 400..500
		if r.Low > v {
			return r.Low - v
		}
		return (v - r.High) * 2
	}
}

// axisDistance is the symmetric small-distance rule §4.8 specifies for
// stretch and slope: the gap to whichever range edge is nearer.
func axisDistance(r FontSelectionRange, v float64) float64 {
	if r.Contains(v) {
		return 0
	}
	if v < r.Low {
		return r.Low - v
	}
	return v - r.High
}

func parseFontWeightRange(raw string) FontSelectionRange {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "normal":
		return fixedRange(normalFontWeight)
	case "bold":
		return fixedRange(boldFontWeight)
	}
	return parseNumericPairRange(raw, minFontWeight, maxFontWeight, normalFontWeight)
}

func parseFontStretchRange(raw string) FontSelectionRange {
	raw = strings.TrimSpace(raw)
	if kw, ok := fontStretchKeywords[strings.ToLower(raw)]; ok {
		return fixedRange(kw)
	}
	if raw == "" {
		return fixedRange(normalFontWidth)
	}
	return parsePercentPairRange(raw, normalFontWidth)
}

var fontStretchKeywords = map[string]float64{
	"ultra-condensed": 50, "extra-condensed": 62.5, "condensed": 75,
	"semi-condensed": 87.5, "normal": 100, "semi-expanded": 112.5,
	"expanded": 125, "extra-expanded": 150, "ultra-expanded": 200,
}

func parseFontStyleRange(raw string) FontSelectionRange {
	raw = strings.TrimSpace(raw)
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return fixedRange(normalFontSlope)
	}
	switch strings.ToLower(fields[0]) {
	case "normal":
		return fixedRange(normalFontSlope)
	case "italic":
		return fixedRange(italicFontSlope)
	case "oblique":
		if len(fields) == 1 {
			return fixedRange(italicFontSlope)
		}
		if len(fields) >= 3 {
			a := clampFloat(parseAngleDeg(fields[1]), minFontSlope, maxFontSlope)
			b := clampFloat(parseAngleDeg(fields[2]), minFontSlope, maxFontSlope)
			if a > b {
				a, b = b, a
			}
			return FontSelectionRange{Low: a, High: b}
		}
		v := clampFloat(parseAngleDeg(fields[1]), minFontSlope, maxFontSlope)
		return fixedRange(v)
	}
	return fixedRange(normalFontSlope)
}

func parseAngleDeg(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "deg")
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func parseNumericPairRange(raw string, lo, hi, fallback float64) FontSelectionRange {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return fixedRange(fallback)
	}
	a, err1 := strconv.ParseFloat(fields[0], 64)
	if err1 != nil {
		return fixedRange(fallback)
	}
	a = clampFloat(a, lo, hi)
	if len(fields) == 1 {
		return fixedRange(a)
	}
	b, err2 := strconv.ParseFloat(fields[1], 64)
	if err2 != nil {
		return fixedRange(a)
	}
	b = clampFloat(b, lo, hi)
	if a > b {
		a, b = b, a
	}
	return FontSelectionRange{Low: a, High: b}
}

func parsePercentPairRange(raw string, fallback float64) FontSelectionRange {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return fixedRange(fallback)
	}
	a, ok1 := parsePercent(fields[0])
	if !ok1 {
		return fixedRange(fallback)
	}
	if len(fields) == 1 {
		return fixedRange(a)
	}
	b, ok2 := parsePercent(fields[1])
	if !ok2 {
		return fixedRange(a)
	}
	if a > b {
		a, b = b, a
	}
	return FontSelectionRange{Low: a, High: b}
}

func parsePercent(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// parseFontFaceSources parses the src descriptor's comma-separated
// local()/url() list, keeping the format() hint (if present) for
// format-support filtering.
func parseFontFaceSources(raw string) []FontFaceSource {
	var out []FontFaceSource
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if name, ok := extractFunctionArg(part, "local"); ok {
			out = append(out, FontFaceSource{Local: strings.Trim(name, `"'`)})
			continue
		}

		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		urlPart := fields[0]
		url, ok := extractFunctionArg(urlPart, "url")
		if !ok {
			continue
		}
		src := FontFaceSource{URL: strings.Trim(url, `"'`)}
		if len(fields) > 1 {
			if format, ok := extractFunctionArg(strings.Join(fields[1:], " "), "format"); ok {
				src.Format = strings.ToLower(strings.Trim(format, `"'`))
			}
		}
		out = append(out, src)
	}
	return out
}

// extractFunctionArg pulls the argument out of "name(arg)" (case
// insensitive on the function name), returning ok=false if s isn't a call
// to that function.
func extractFunctionArg(s, name string) (string, bool) {
	lower := strings.ToLower(s)
	prefix := name + "("
	if !strings.HasPrefix(lower, prefix) || !strings.HasSuffix(s, ")") {
		return "", false
	}
	return strings.TrimSpace(s[len(prefix) : len(s)-1]), true
}

// SupportsSource reports whether src should be considered: local()
// sources always qualify (availability is a renderer/OS concern outside
// this package's scope), and url() sources qualify unless they declare a
// format() hint the engine doesn't support.
func SupportsSource(src FontFaceSource) bool {
	if src.Format == "" {
		return true
	}
	supported, known := supportedFontFormats[src.Format]
	return !known || supported
}

func parseUnicodeRangeList(raw string) UnicodeRangeList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out UnicodeRangeList
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(strings.ToLower(part), "u+")
		if part == "" {
			continue
		}
		if idx := strings.Index(part, "-"); idx >= 0 {
			from := parseHexRune(part[:idx])
			to := parseHexRune(part[idx+1:])
			out = append(out, UnicodeRange{From: from, To: to})
			continue
		}
		if strings.Contains(part, "?") {
			from, to := parseWildcardHexRange(part)
			out = append(out, UnicodeRange{From: from, To: to})
			continue
		}
		v := parseHexRune(part)
		out = append(out, UnicodeRange{From: v, To: v})
	}
	return out
}

func parseWildcardHexRange(s string) (rune, rune) {
	lo := strings.ReplaceAll(s, "?", "0")
	hi := strings.ReplaceAll(s, "?", "f")
	return parseHexRune(lo), parseHexRune(hi)
}

func parseHexRune(s string) rune {
	v, _ := strconv.ParseInt(strings.TrimSpace(s), 16, 32)
	return rune(v)
}

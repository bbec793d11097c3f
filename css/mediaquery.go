// Package css provides media query list parsing (Media Queries Level 4
// grammar). Feature evaluation itself is left to the embedding
// dom.Document — this file only turns `@media`/`@import` prelude text into
// the structured form the cascade hands to Document.SupportsMediaQueries.
package css

import (
	"strings"

	"github.com/chrisuehlinger/plutocss/dom"
)

// ParsedMediaQuery is one comma-separated entry of a media query list.
// It implements dom.MediaQuery.
type ParsedMediaQuery struct {
	negated   bool
	mediaType string
	features  []dom.MediaFeature
}

// Negated reports whether the query was prefixed with "not".
func (q *ParsedMediaQuery) Negated() bool { return q.negated }

// MediaType returns the media type ("all" if none was given).
func (q *ParsedMediaQuery) MediaType() string { return q.mediaType }

// Features returns the `and (...)` feature tests, in source order.
func (q *ParsedMediaQuery) Features() []dom.MediaFeature { return q.features }

// ParsedMediaQueryList is a comma-separated list of media queries. It
// implements dom.MediaQueryList.
type ParsedMediaQueryList struct {
	text    string
	queries []*ParsedMediaQuery
}

// Queries returns the top-level comma-separated query list.
func (l *ParsedMediaQueryList) Queries() []dom.MediaQuery {
	out := make([]dom.MediaQuery, len(l.queries))
	for i, q := range l.queries {
		out[i] = q
	}
	return out
}

// Text returns the original, unparsed media query list text.
func (l *ParsedMediaQueryList) Text() string { return l.text }

// ParseMediaQueryList parses a comma-separated media query list. Empty
// entries are skipped, unrecognized tokens inside an entry are ignored (so
// its media type stays "all"), and an empty list becomes a single "all"
// query; a malformed entry never aborts the whole list.
func ParseMediaQueryList(text string) *ParsedMediaQueryList {
	list := &ParsedMediaQueryList{text: strings.TrimSpace(text)}

	p := NewCSSParser(list.text)
	var all []ComponentValue
	for p.current().Type != TokenEOF {
		all = append(all, p.consumeComponentValue())
	}

	for _, group := range splitTopLevelCommas(all) {
		var sb strings.Builder
		writeComponentValue(&sb, group)
		part := strings.TrimSpace(sb.String())
		if part == "" {
			continue
		}
		list.queries = append(list.queries, parseOneMediaQuery(part))
	}

	if len(list.queries) == 0 {
		list.queries = append(list.queries, &ParsedMediaQuery{mediaType: "all"})
	}

	return list
}

// parseOneMediaQuery parses a single <media-query>: an optional not/only
// prefix, an optional media type, and zero or more `and (feature)` tests.
func parseOneMediaQuery(text string) *ParsedMediaQuery {
	p := NewCSSParser(text)
	q := &ParsedMediaQuery{mediaType: "all"}
	p.skipWhitespace()

	if p.current().Type == TokenIdent {
		switch strings.ToLower(p.current().Value) {
		case "not":
			q.negated = true
			p.consume()
			p.skipWhitespace()
		case "only":
			p.consume()
			p.skipWhitespace()
		}
		if p.current().Type == TokenIdent && !strings.EqualFold(p.current().Value, "and") {
			q.mediaType = strings.ToLower(p.current().Value)
			p.consume()
			p.skipWhitespace()
		}
	}

	for {
		if p.current().Type == TokenIdent && strings.EqualFold(p.current().Value, "and") {
			p.consume()
			p.skipWhitespace()
			continue
		}
		if p.current().Type == TokenOpenParen {
			if feature, ok := parseMediaFeatureBlock(p); ok {
				q.features = append(q.features, feature)
			}
			p.skipWhitespace()
			continue
		}
		break
	}

	return q
}

// parseMediaFeatureBlock parses one parenthesized `(name: value)`, boolean
// `(name)`, or range `(300px <= width <= 600px)` feature test. The name is
// the first identifier found in the block; the full parenthesized content
// is preserved as Value so a range feature's bounds aren't lost.
func parseMediaFeatureBlock(p *CSSParser) (dom.MediaFeature, bool) {
	cv := p.consumeComponentValue()
	block, ok := cv.(*Block)
	if !ok || block.Token.Type != TokenOpenParen {
		return dom.MediaFeature{}, false
	}

	var name string
	for _, v := range block.Values {
		if pt, ok := v.(PreservedToken); ok && pt.Token.Type == TokenIdent {
			name = strings.ToLower(pt.Token.Value)
			break
		}
	}

	var sb strings.Builder
	writeComponentValue(&sb, block.Values)
	return dom.MediaFeature{Name: name, Value: strings.TrimSpace(sb.String())}, true
}

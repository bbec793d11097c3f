package css

// TokenStream offers cursor operations over an already-tokenized slice, used
// by the property-directed value parsers (longhands, shorthands, calc, var())
// which need to look ahead and sometimes abandon a speculative parse.
type TokenStream struct {
	tokens []Token
	pos    int
}

// NewTokenStream wraps a token slice for value-level parsing.
func NewTokenStream(tokens []Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// Current returns the token at the cursor without advancing.
func (s *TokenStream) Current() Token {
	if s.pos >= len(s.tokens) {
		return Token{Type: TokenEOF}
	}
	return s.tokens[s.pos]
}

// Peek returns the token at offset from the cursor without advancing.
func (s *TokenStream) Peek(offset int) Token {
	pos := s.pos + offset
	if pos < 0 || pos >= len(s.tokens) {
		return Token{Type: TokenEOF}
	}
	return s.tokens[pos]
}

// Next consumes and returns the current token.
func (s *TokenStream) Next() Token {
	tok := s.Current()
	if s.pos < len(s.tokens) {
		s.pos++
	}
	return tok
}

// AtEnd reports whether the cursor has reached EOF.
func (s *TokenStream) AtEnd() bool {
	return s.pos >= len(s.tokens)
}

// SkipWhitespace advances past any whitespace tokens.
func (s *TokenStream) SkipWhitespace() {
	for s.Current().Type == TokenWhitespace {
		s.pos++
	}
}

// SkipCommaWhitespace advances past whitespace, at most one comma, and the
// whitespace after it, used between comma-separated value list items. It
// reports whether a comma was consumed.
func (s *TokenStream) SkipCommaWhitespace() bool {
	s.SkipWhitespace()
	if s.Current().Type == TokenComma {
		s.pos++
		s.SkipWhitespace()
		return true
	}
	return false
}

// Guard is a snapshot of the cursor that can be rewound. Speculative parses
// (url-function bodies, calc, attr(), rgb(), an+b patterns) take a guard,
// attempt the parse, and either Release it on success or let it go out of
// scope — the caller then calls Rewind to restore the pre-attempt cursor.
type Guard struct {
	stream *TokenStream
	pos    int
}

// Mark snapshots the current cursor position.
func (s *TokenStream) Mark() Guard {
	return Guard{stream: s, pos: s.pos}
}

// Rewind restores the cursor to the marked position.
func (g Guard) Rewind() {
	g.stream.pos = g.pos
}

// Release is a no-op marker meaning the speculative parse succeeded and the
// cursor should be left where it is; it exists to make call sites read as
// `g := s.Mark(); ...; if ok { g.Release() } else { g.Rewind() }`.
func (g Guard) Release() {}

// Package css provides CSS parsing functionality following CSS Syntax Module Level 3.
// Reference: https://www.w3.org/TR/css-syntax-3/
package css

import (
	"strings"
)

// Parser is a thin entry point over the tokenizer/CSSOM pipeline: it
// parses a stylesheet's text and hands back the canonical rule tree.
type Parser struct {
	input string
}

// NewParser creates a new CSS parser for the given input.
func NewParser(input string) *Parser {
	return &Parser{input: input}
}

// Parse parses the CSS input into a CSSOM stylesheet.
func (p *Parser) Parse() *CSSStyleSheet {
	return NewCSSStyleSheet(p.input, nil)
}

// writeComponentValue serializes component values back to CSS text, used
// wherever a prelude or declaration value needs to round-trip (selector
// text, media query text, cssText serialization).
func writeComponentValue(sb *strings.Builder, cvs []ComponentValue) {
	for _, cv := range cvs {
		switch v := cv.(type) {
		case PreservedToken:
			switch v.Token.Type {
			case TokenIdent:
				sb.WriteString(v.Token.Value)
			case TokenFunction:
				sb.WriteString(v.Token.Value)
				sb.WriteString("(")
			case TokenHash:
				sb.WriteString("#")
				sb.WriteString(v.Token.Value)
			case TokenDelim:
				sb.WriteRune(v.Token.Delim)
			case TokenWhitespace:
				sb.WriteString(" ")
			case TokenColon:
				sb.WriteString(":")
			case TokenOpenSquare:
				sb.WriteString("[")
			case TokenCloseSquare:
				sb.WriteString("]")
			case TokenOpenParen:
				sb.WriteString("(")
			case TokenCloseParen:
				sb.WriteString(")")
			case TokenString:
				sb.WriteString("\"")
				sb.WriteString(v.Token.Value)
				sb.WriteString("\"")
			case TokenComma:
				sb.WriteString(",")
			case TokenNumber:
				sb.WriteString(v.Token.Value)
			case TokenDimension:
				sb.WriteString(v.Token.Value)
				sb.WriteString(v.Token.Unit)
			case TokenPercentage:
				sb.WriteString(v.Token.Value)
				sb.WriteString("%")
			case TokenURL:
				sb.WriteString("url(")
				sb.WriteString(v.Token.Value)
				sb.WriteString(")")
			}
		case *Block:
			switch v.Token.Type {
			case TokenOpenSquare:
				sb.WriteString("[")
			case TokenOpenParen:
				sb.WriteString("(")
			case TokenOpenCurly:
				sb.WriteString("{")
			}
			writeComponentValue(sb, v.Values)
			switch v.Token.Type {
			case TokenOpenSquare:
				sb.WriteString("]")
			case TokenOpenParen:
				sb.WriteString(")")
			case TokenOpenCurly:
				sb.WriteString("}")
			}
		case *Function:
			sb.WriteString(v.Name)
			sb.WriteString("(")
			writeComponentValue(sb, v.Values)
			sb.WriteString(")")
		}
	}
}

package schema

import "strings"

// TokenKind classifies a lexed token.
type TokenKind int

const (
	TokenPunct TokenKind = iota
	TokenVariable
	TokenIdent
	TokenString
	TokenNumber
	TokenArrow
	TokenDoubleColon
	TokenFatArrow
)

// Token is one lexical unit of migration source. Text holds the identifier or
// variable name (without "$"), the unescaped value of a string, or the
// literal text of anything else. Pos and End are byte offsets into the source.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
	End  int
}

func (t Token) is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// Tokenize splits migration source into tokens. Whitespace and comments are
// dropped; unknown bytes become single-byte punctuation.
func Tokenize(src string) []Token {
	var toks []Token
	n := len(src)
	i := 0

	for i < n {
		c := src[i]
		switch {
		case isSpace(c):
			i++
		case c == '#' || (c == '/' && peek(src, i+1) == '/'):
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '/' && peek(src, i+1) == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				i = n
			} else {
				i += end + 4
			}
		case c == '$' && isIdentStart(peek(src, i+1)):
			start := i
			i++
			for i < n && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, Token{Kind: TokenVariable, Text: src[start+1 : i], Pos: start, End: i})
		case isIdentStart(c) || c == '\\':
			start := i
			for i < n && (isIdentPart(src[i]) || src[i] == '\\') {
				i++
			}
			toks = append(toks, Token{Kind: TokenIdent, Text: src[start:i], Pos: start, End: i})
		case isDigit(c):
			start := i
			for i < n && (isIdentPart(src[i]) || src[i] == '.') {
				i++
			}
			toks = append(toks, Token{Kind: TokenNumber, Text: src[start:i], Pos: start, End: i})
		case c == '\'' || c == '"':
			tok, next := lexString(src, i)
			toks = append(toks, tok)
			i = next
		case c == '-' && peek(src, i+1) == '>':
			toks = append(toks, Token{Kind: TokenArrow, Text: "->", Pos: i, End: i + 2})
			i += 2
		case c == '?' && peek(src, i+1) == '-' && peek(src, i+2) == '>':
			toks = append(toks, Token{Kind: TokenArrow, Text: "->", Pos: i, End: i + 3})
			i += 3
		case c == ':' && peek(src, i+1) == ':':
			toks = append(toks, Token{Kind: TokenDoubleColon, Text: "::", Pos: i, End: i + 2})
			i += 2
		case c == '=' && peek(src, i+1) == '>':
			toks = append(toks, Token{Kind: TokenFatArrow, Text: "=>", Pos: i, End: i + 2})
			i += 2
		default:
			toks = append(toks, Token{Kind: TokenPunct, Text: src[i : i+1], Pos: i, End: i + 1})
			i++
		}
	}

	return toks
}

// lexString reads the quoted literal starting at src[start]. An unterminated
// literal runs to the end of the input.
func lexString(src string, start int) (Token, int) {
	quoteChar := src[start]
	var sb strings.Builder
	i := start + 1

	for i < len(src) {
		c := src[i]
		if c == quoteChar {
			return Token{Kind: TokenString, Text: sb.String(), Pos: start, End: i + 1}, i + 1
		}
		if c == '\\' && i+1 < len(src) {
			next := src[i+1]
			if r, ok := unescape(quoteChar, next); ok {
				sb.WriteByte(r)
				i += 2
				continue
			}
		}
		sb.WriteByte(c)
		i++
	}

	return Token{Kind: TokenString, Text: sb.String(), Pos: start, End: len(src)}, len(src)
}

func unescape(quoteChar, c byte) (byte, bool) {
	if c == '\\' || c == quoteChar {
		return c, true
	}
	if quoteChar == '\'' {
		return 0, false
	}
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '$':
		return '$', true
	}
	return 0, false
}

func peek(src string, i int) byte {
	if i < len(src) {
		return src[i]
	}
	return 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

package formula

import (
	"strings"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// character constants, slightly easier to read than raw literals.
const (
	charQuote    = '"'
	charLParen   = '('
	charRParen   = ')'
	charLBracket = '['
	charRBracket = ']'
	charComma    = ','
	charPeriod   = '.'
	charEqual    = '='
	charLess     = '<'
	charGreater  = '>'
)

type lexer struct {
	src string
	pos int
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// lex scans the whole source into tokens. The trailing EOF token carries
// the source length as its position.
func lex(src string) ([]Token, error) {
	l := &lexer{src: src}
	var tokens []Token
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			tokens = append(tokens, Token{Type: TokenEOF, Pos: len(src)})
			return tokens, nil
		}
		start := l.pos
		c := l.src[l.pos]
		switch {
		case isDigit(c) || (c == charPeriod && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
			tokens = append(tokens, l.lexNumber())
		case c == charQuote:
			tok, err := l.lexString()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case isIdentStart(c):
			tokens = append(tokens, l.lexWord())
		case c == charLParen:
			l.pos++
			tokens = append(tokens, Token{Type: TokenLeftParen, Text: "(", Pos: start})
		case c == charRParen:
			l.pos++
			tokens = append(tokens, Token{Type: TokenRightParen, Text: ")", Pos: start})
		case c == charLBracket:
			l.pos++
			tokens = append(tokens, Token{Type: TokenLeftBracket, Text: "[", Pos: start})
		case c == charRBracket:
			l.pos++
			tokens = append(tokens, Token{Type: TokenRightBracket, Text: "]", Pos: start})
		case c == charComma:
			l.pos++
			tokens = append(tokens, Token{Type: TokenComma, Text: ",", Pos: start})
		case c == charPeriod:
			l.pos++
			tokens = append(tokens, Token{Type: TokenDot, Text: ".", Pos: start})
		case strings.IndexByte("+-*/^%&", c) >= 0:
			l.pos++
			tokens = append(tokens, Token{Type: TokenOp, Text: string(c), Pos: start})
		case c == charEqual:
			l.pos++
			tokens = append(tokens, Token{Type: TokenOp, Text: "=", Pos: start})
		case c == charLess:
			l.pos++
			op := "<"
			if l.peek() == charEqual {
				op = "<="
				l.pos++
			} else if l.peek() == charGreater {
				op = "<>"
				l.pos++
			}
			tokens = append(tokens, Token{Type: TokenOp, Text: op, Pos: start})
		case c == charGreater:
			l.pos++
			op := ">"
			if l.peek() == charEqual {
				op = ">="
				l.pos++
			}
			tokens = append(tokens, Token{Type: TokenOp, Text: op, Pos: start})
		default:
			return nil, &model.ParseError{Formula: src, Pos: start,
				Msg: "unexpected character " + string(c)}
		}
	}
}

func (l *lexer) lexNumber() Token {
	start := l.pos
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == charPeriod) {
		l.pos++
	}
	// scientific notation
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		mark := l.pos
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = mark
		}
	}
	return Token{Type: TokenNumber, Text: l.src[start:l.pos], Pos: start}
}

func (l *lexer) lexString() (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == charQuote {
			// doubled quote is an escaped quote
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == charQuote {
				sb.WriteByte(charQuote)
				l.pos += 2
				continue
			}
			l.pos++
			return Token{Type: TokenString, Text: sb.String(), Pos: start}, nil
		}
		sb.WriteByte(c)
		l.pos++
	}
	return Token{}, &model.ParseError{Formula: l.src, Pos: start, Msg: "unterminated string"}
}

// lexWord scans an identifier, boolean literal, or function name. A word is
// a function name when it is all upper-case and immediately followed by an
// opening parenthesis; TRUE/FALSE are boolean literals regardless.
func (l *lexer) lexWord() Token {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	word := l.src[start:l.pos]
	switch word {
	case "TRUE", "FALSE", "true", "false":
		return Token{Type: TokenBool, Text: strings.ToUpper(word), Pos: start}
	}
	if word == strings.ToUpper(word) && l.peek() == charLParen && word != strings.ToLower(word) {
		return Token{Type: TokenFunc, Text: word, Pos: start}
	}
	return Token{Type: TokenIdent, Text: word, Pos: start}
}

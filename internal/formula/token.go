package formula

import "fmt"

// TokenType classifies a lexed token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenString
	TokenBool
	TokenIdent
	TokenFunc
	TokenOp
	TokenComma
	TokenLeftParen
	TokenRightParen
	TokenLeftBracket
	TokenRightBracket
	TokenDot
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenBool:
		return "bool"
	case TokenIdent:
		return "identifier"
	case TokenFunc:
		return "function"
	case TokenOp:
		return "operator"
	case TokenComma:
		return ","
	case TokenLeftParen:
		return "("
	case TokenRightParen:
		return ")"
	case TokenLeftBracket:
		return "["
	case TokenRightBracket:
		return "]"
	case TokenDot:
		return "."
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token is one lexed unit. Pos is the byte offset into the formula source,
// carried through to ParseError.
type Token struct {
	Type TokenType
	Text string
	Pos  int
}

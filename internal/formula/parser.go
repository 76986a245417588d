package formula

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// binaryPrecedence orders infix operators, loosest first. Comparison binds
// loosest, then concatenation, then arithmetic; exponentiation is handled
// right-associatively below this table.
var binaryPrecedence = map[string]int{
	"=": 1, "<>": 1, "<": 1, "<=": 1, ">": 1, ">=": 1,
	"&": 2,
	"+": 3, "-": 3,
	"*": 4, "/": 4,
	"^": 5,
}

type parser struct {
	src    string
	tokens []Token
	pos    int
}

// Parse parses a complete formula, requiring the leading "=".
func Parse(src string) (Node, error) {
	body, ok := strings.CutPrefix(src, "=")
	if !ok {
		return nil, &model.ParseError{Formula: src, Pos: 0, Msg: `formula must start with "="`}
	}
	return ParseExpr(body, src)
}

// ParseExpr parses a bare expression. errSrc is the text reported in parse
// errors; callers pass the original formula including its "=" prefix.
func ParseExpr(body, errSrc string) (Node, error) {
	tokens, err := lex(body)
	if err != nil {
		if pe, ok := err.(*model.ParseError); ok {
			pe.Formula = errSrc
		}
		return nil, err
	}
	p := &parser{src: errSrc, tokens: tokens}
	node, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if p.peek().Type != TokenEOF {
		return nil, p.errorf(p.peek().Pos, "unexpected %s", p.peek().Type)
	}
	return node, nil
}

func (p *parser) peek() Token { return p.tokens[p.pos] }

func (p *parser) next() Token {
	t := p.tokens[p.pos]
	if t.Type != TokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(tt TokenType) (Token, error) {
	t := p.peek()
	if t.Type != tt {
		return t, p.errorf(t.Pos, "expected %s, got %s", tt, t.Type)
	}
	return p.next(), nil
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &model.ParseError{Formula: p.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// parseBinary climbs operator precedence. Exponentiation associates right,
// everything else left.
func (p *parser) parseBinary(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.Type != TokenOp {
			return left, nil
		}
		prec, ok := binaryPrecedence[t.Text]
		if !ok || prec < minPrec {
			return left, nil
		}
		p.next()
		nextMin := prec + 1
		if t.Text == "^" {
			nextMin = prec
		}
		right, err := p.parseBinary(nextMin)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: t.Text, L: left, R: right, Pos: t.Pos}
	}
}

func (p *parser) parseUnary() (Node, error) {
	t := p.peek()
	if t.Type == TokenOp && (t.Text == "-" || t.Text == "+") {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: t.Text, X: x, Pos: t.Pos}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Node, error) {
	x, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Type == TokenOp && t.Text == "%" {
		p.next()
		return &Unary{Op: "%", Postfix: true, X: x, Pos: t.Pos}, nil
	}
	return x, nil
}

func (p *parser) parseAtom() (Node, error) {
	t := p.peek()
	switch t.Type {
	case TokenNumber:
		p.next()
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return nil, p.errorf(t.Pos, "invalid number %q", t.Text)
		}
		return &NumberLit{Value: f, Pos: t.Pos}, nil
	case TokenString:
		p.next()
		return &StringLit{Value: t.Text, Pos: t.Pos}, nil
	case TokenBool:
		p.next()
		return &BoolLit{Value: t.Text == "TRUE", Pos: t.Pos}, nil
	case TokenFunc:
		return p.parseCall()
	case TokenIdent:
		return p.parseRef()
	case TokenLeftParen:
		p.next()
		inner, err := p.parseBinary(1)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return &Paren{X: inner, Pos: t.Pos}, nil
	default:
		return nil, p.errorf(t.Pos, "unexpected %s", t.Type)
	}
}

func (p *parser) parseCall() (Node, error) {
	name := p.next()
	if _, err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}
	call := &Call{Name: name.Text, Pos: name.Pos}
	if p.peek().Type == TokenRightParen {
		p.next()
		return call, nil
	}
	for {
		arg, err := p.parseBinary(1)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		t := p.next()
		switch t.Type {
		case TokenComma:
			continue
		case TokenRightParen:
			return call, nil
		default:
			return nil, p.errorf(t.Pos, "expected , or ) in %s arguments, got %s", name.Text, t.Type)
		}
	}
}

// parseRef consumes a dotted identifier of up to three parts with an
// optional 0-based index: name, table.column, alias.table.column, name[2].
func (p *parser) parseRef() (Node, error) {
	first := p.next()
	ref := &Ref{Parts: []string{first.Text}, Index: -1, Pos: first.Pos}
	for p.peek().Type == TokenDot {
		p.next()
		part, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		ref.Parts = append(ref.Parts, part.Text)
		if len(ref.Parts) > 3 {
			return nil, p.errorf(first.Pos, "identifier %q has too many segments", ref.Key())
		}
	}
	if p.peek().Type == TokenLeftBracket {
		p.next()
		idx, err := p.expect(TokenNumber)
		if err != nil {
			return nil, err
		}
		n, err2 := strconv.Atoi(idx.Text)
		if err2 != nil || n < 0 {
			return nil, p.errorf(idx.Pos, "index must be a non-negative integer, got %q", idx.Text)
		}
		if _, err := p.expect(TokenRightBracket); err != nil {
			return nil, err
		}
		ref.Index = n
	}
	return ref, nil
}

// Package calc evaluates arithmetic expressions over numbers and
// + - * / ( ) without executing any user supplied code.
package calc

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

const (
	DefaultMaxLength = 1024
	DefaultMaxDepth  = 64
)

// SyntaxError reports where parsing stopped. It matches
// domain.ErrInvalidExpression with errors.Is.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

func (e *SyntaxError) Unwrap() error {
	return domain.ErrInvalidExpression
}

type Evaluator struct {
	MaxLength int
	MaxDepth  int
}

func NewEvaluator(maxLength int) *Evaluator {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Evaluator{MaxLength: maxLength, MaxDepth: DefaultMaxDepth}
}

// Evaluate uses the default limits.
func Evaluate(expr string) (Value, error) {
	return NewEvaluator(DefaultMaxLength).Evaluate(expr)
}

func (e *Evaluator) Evaluate(expr string) (Value, error) {
	if len(expr) > e.MaxLength {
		return Value{}, fmt.Errorf("%w: expression longer than %d characters", domain.ErrInvalidExpression, e.MaxLength)
	}
	if strings.TrimSpace(expr) == "" {
		return Value{}, fmt.Errorf("%w: expression is empty", domain.ErrInvalidExpression)
	}

	tokens, err := tokenize(expr)
	if err != nil {
		return Value{}, err
	}

	maxDepth := e.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &parser{tokens: tokens, maxDepth: maxDepth}
	v, err := p.expr()
	if err != nil {
		return Value{}, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return Value{}, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", tok)}
	}
	return v, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}

func tokenize(s string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			tokens = append(tokens, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case isDigit(c) || c == '.':
			end, err := scanNumber(s, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokNumber, text: s[i:end], pos: i})
			i = end
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", rune(c))}
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(s)}), nil
}

func scanNumber(s string, start int) (int, error) {
	i := start
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, &SyntaxError{Pos: start, Msg: "malformed number"}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return 0, &SyntaxError{Pos: start, Msg: "malformed exponent"}
		}
	}
	return i, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

type parser struct {
	tokens   []token
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// expr := term (('+'|'-') term)*
func (p *parser) expr() (Value, error) {
	left, err := p.term()
	if err != nil {
		return Value{}, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.text != "+" && tok.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return Value{}, err
		}
		if tok.text == "+" {
			left, err = add(left, right)
		} else {
			left, err = sub(left, right)
		}
		if err != nil {
			return Value{}, err
		}
	}
}

// term := unary (('*'|'/') unary)*
func (p *parser) term() (Value, error) {
	left, err := p.unary()
	if err != nil {
		return Value{}, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.text != "*" && tok.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return Value{}, err
		}
		if tok.text == "*" {
			left, err = mul(left, right)
		} else {
			left, err = div(left, right)
		}
		if err != nil {
			return Value{}, err
		}
	}
}

// unary := ('+'|'-') unary | primary
func (p *parser) unary() (Value, error) {
	if err := p.enter(); err != nil {
		return Value{}, err
	}
	defer p.leave()

	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "+" || tok.text == "-") {
		p.next()
		v, err := p.unary()
		if err != nil {
			return Value{}, err
		}
		if tok.text == "-" {
			return neg(v), nil
		}
		return v, nil
	}
	return p.primary()
}

// primary := number | '(' expr ')'
func (p *parser) primary() (Value, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return parseNumber(tok)
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return Value{}, err
		}
		closing := p.next()
		if closing.kind != tokRParen {
			return Value{}, &SyntaxError{Pos: closing.pos, Msg: fmt.Sprintf("expected \")\", got %s", closing)}
		}
		return v, nil
	default:
		return Value{}, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", tok)}
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return &SyntaxError{Pos: p.peek().pos, Msg: fmt.Sprintf("expression nested deeper than %d levels", p.maxDepth)}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func parseNumber(tok token) (Value, error) {
	if !strings.ContainsAny(tok.text, ".eE") {
		if len(tok.text) > 1 && tok.text[0] == '0' && strings.Trim(tok.text, "0") != "" {
			return Value{}, &SyntaxError{Pos: tok.pos, Msg: "leading zeros in integer literals are not permitted"}
		}
		i, ok := new(big.Int).SetString(tok.text, 10)
		if !ok {
			return Value{}, &SyntaxError{Pos: tok.pos, Msg: "malformed number"}
		}
		return Value{i: i}, nil
	}

	f, err := strconv.ParseFloat(tok.text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Value{}, &SyntaxError{Pos: tok.pos, Msg: "malformed number"}
	}
	return FloatValue(f), nil
}

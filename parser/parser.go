package parser

import (
	"github.com/adaptiveexpr/adaptiveexpr"
)

// Parse turns source into an Expression tree. It runs bind-time validation
// as it goes (each function-call node is built via MakeExpression, which
// invokes the function's registered validator immediately), so a malformed
// call is reported as a *adaptiveexpr.EvalError of kind ValidationError
// rather than surfacing only at evaluation time.
func Parse(src string) (adaptiveexpr.Expression, error) {
	toks, err := newLexer(src).tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.at(EOF) {
		return nil, newSyntaxError(p.cur().Pos, "unexpected trailing %s", p.cur().Kind)
	}
	return expr, nil
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) cur() Token { return p.toks[p.pos] }

func (p *parser) at(k Kind) bool { return p.cur().Kind == k }

// kindAt looks ahead offset tokens from the current position without
// consuming anything; out-of-range offsets report EOF.
func (p *parser) kindAt(offset int) Kind {
	i := p.pos + offset
	if i >= len(p.toks) {
		return EOF
	}
	return p.toks[i].Kind
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Kind != EOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k Kind) (Token, error) {
	if !p.at(k) {
		return Token{}, newSyntaxError(p.cur().Pos, "expected %s, found %s", k, p.cur().Kind)
	}
	return p.advance(), nil
}

func (p *parser) parseExpr() (adaptiveexpr.Expression, error) { return p.parseOr() }

func (p *parser) parseOr() (adaptiveexpr.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(OrOr) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		if left, err = adaptiveexpr.MakeExpression("or", left, right); err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) parseAnd() (adaptiveexpr.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(AndAnd) {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		if left, err = adaptiveexpr.MakeExpression("and", left, right); err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) parseEquality() (adaptiveexpr.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.at(Eq) || p.at(Neq) {
		neg := p.at(Neq)
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		eq, err := adaptiveexpr.MakeExpression("equals", left, right)
		if err != nil {
			return nil, err
		}
		if neg {
			if eq, err = adaptiveexpr.MakeExpression("not", eq); err != nil {
				return nil, err
			}
		}
		left = eq
	}
	return left, nil
}

func (p *parser) parseComparison() (adaptiveexpr.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var name string
		switch p.cur().Kind {
		case Lt:
			name = "less"
		case Le:
			name = "lessOrEquals"
		case Gt:
			name = "greater"
		case Ge:
			name = "greaterOrEquals"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if left, err = adaptiveexpr.MakeExpression(name, left, right); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseAdditive() (adaptiveexpr.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var name string
		switch p.cur().Kind {
		case Plus:
			name = "add"
		case Minus:
			name = "sub"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		if left, err = adaptiveexpr.MakeExpression(name, left, right); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseMultiplicative() (adaptiveexpr.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var name string
		switch p.cur().Kind {
		case Star:
			name = "mul"
		case Slash:
			name = "div"
		case Percent:
			name = "mod"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if left, err = adaptiveexpr.MakeExpression(name, left, right); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseUnary() (adaptiveexpr.Expression, error) {
	switch p.cur().Kind {
	case Bang:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return adaptiveexpr.MakeExpression("not", operand)
	case Minus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return adaptiveexpr.MakeExpression("sub", adaptiveexpr.NewConstant(int64(0)), operand)
	default:
		return p.parsePostfix()
	}
}

func (p *parser) parsePostfix() (adaptiveexpr.Expression, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case Dot:
			p.advance()
			name, err := p.expect(Ident)
			if err != nil {
				return nil, err
			}
			if base, err = adaptiveexpr.MakeExpression("accessor", base, adaptiveexpr.NewConstant(name.Text)); err != nil {
				return nil, err
			}
		case LBracket:
			p.advance()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBracket); err != nil {
				return nil, err
			}
			if base, err = adaptiveexpr.MakeExpression("element", base, index); err != nil {
				return nil, err
			}
		default:
			return base, nil
		}
	}
}

// isLambdaAhead reports whether the tokens starting at the current "("
// spell out a "(name) => ..." lambda parameter rather than a parenthesized
// expression.
func (p *parser) isLambdaAhead() bool {
	return p.kindAt(0) == LParen && p.kindAt(1) == Ident && p.kindAt(2) == RParen && p.kindAt(3) == Arrow
}

func (p *parser) parsePrimary() (adaptiveexpr.Expression, error) {
	tok := p.cur()
	switch tok.Kind {
	case Number:
		p.advance()
		if tok.IsInt {
			return adaptiveexpr.NewConstant(int64(tok.Num)), nil
		}
		return adaptiveexpr.NewConstant(tok.Num), nil
	case String:
		p.advance()
		return adaptiveexpr.NewConstant(tok.Str), nil
	case Template:
		p.advance()
		return p.buildTemplate(tok.Segments)
	case True:
		p.advance()
		return adaptiveexpr.NewConstant(true), nil
	case False:
		p.advance()
		return adaptiveexpr.NewConstant(false), nil
	case Null:
		p.advance()
		return adaptiveexpr.NewConstant(nil), nil
	case LBracket:
		return p.parseListLiteral()
	case LBrace:
		return p.parseObjectLiteral()
	case LParen:
		if p.isLambdaAhead() {
			return p.parseLambda()
		}
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RParen); err != nil {
			return nil, err
		}
		return expr, nil
	case Ident:
		p.advance()
		if p.at(LParen) {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return adaptiveexpr.MakeExpression(tok.Text, args...)
		}
		return adaptiveexpr.MakeExpression("accessor", adaptiveexpr.NewConstant(tok.Text))
	default:
		return nil, newSyntaxError(tok.Pos, "unexpected token %s", tok.Kind)
	}
}

func (p *parser) parseLambda() (adaptiveexpr.Expression, error) {
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}
	name, err := p.expect(Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(Arrow); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return adaptiveexpr.NewLambda(name.Text, body), nil
}

func (p *parser) parseArgList() ([]adaptiveexpr.Expression, error) {
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}
	var args []adaptiveexpr.Expression
	if p.at(RParen) {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.at(Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseListLiteral() (adaptiveexpr.Expression, error) {
	if _, err := p.expect(LBracket); err != nil {
		return nil, err
	}
	var elems []adaptiveexpr.Expression
	if p.at(RBracket) {
		p.advance()
		return adaptiveexpr.NewConstant([]any{}), nil
	}
	for {
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if p.at(Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(RBracket); err != nil {
		return nil, err
	}
	return adaptiveexpr.MakeExpression("createArray", elems...)
}

// parseObjectLiteral reads "{ key: expr, ... }", keys either bare
// identifiers or quoted strings, and builds an "object" node (see
// builtins_object.go) from the interleaved key-constant/value-expression
// children.
func (p *parser) parseObjectLiteral() (adaptiveexpr.Expression, error) {
	if _, err := p.expect(LBrace); err != nil {
		return nil, err
	}
	var pairs []adaptiveexpr.Expression
	if p.at(RBrace) {
		p.advance()
		return adaptiveexpr.MakeExpression("object")
	}
	for {
		var key string
		switch p.cur().Kind {
		case Ident:
			key = p.advance().Text
		case String:
			key = p.advance().Str
		default:
			return nil, newSyntaxError(p.cur().Pos, "expected object key, found %s", p.cur().Kind)
		}
		if _, err := p.expect(Colon); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, adaptiveexpr.NewConstant(key), value)
		if p.at(Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(RBrace); err != nil {
		return nil, err
	}
	return adaptiveexpr.MakeExpression("object", pairs...)
}

// buildTemplate turns a backtick template's literal/splice segments into a
// concat(...) call: literal segments become string constants, and each
// splice is parsed as a nested expression then wrapped in string(...) so a
// non-string result renders through FormatInterpolatedValue's Python-repr
// form.
func (p *parser) buildTemplate(segments []templateSegment) (adaptiveexpr.Expression, error) {
	if len(segments) == 0 {
		return adaptiveexpr.NewConstant(""), nil
	}
	pieces := make([]adaptiveexpr.Expression, 0, len(segments))
	for _, seg := range segments {
		if !seg.isExpr {
			pieces = append(pieces, adaptiveexpr.NewConstant(seg.text))
			continue
		}
		inner, err := Parse(seg.text)
		if err != nil {
			return nil, err
		}
		stringified, err := adaptiveexpr.MakeExpression("string", inner)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, stringified)
	}
	if len(pieces) == 1 && pieces[0].ExprType() == "constant" {
		return pieces[0], nil
	}
	return adaptiveexpr.MakeExpression("concat", pieces...)
}

package parser

import (
	"github.com/kaubo-lang/kaubo/lang/ast"
	"github.com/kaubo-lang/kaubo/lang/token"
)

// parseExpr parses the lowest-precedence level: assignment.
func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.check(token.ASSIGN) {
		if !ast.IsAssignableForParser(left) {
			return nil, p.errorf(UnexpectedToken, "left-hand side of assignment is not assignable")
		}
		p.advance()
		right, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: token.ASSIGN, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.OR) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: token.OR, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.check(token.AND) {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: token.AND, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expr, error) {
	if p.check(token.NOT) {
		opTok := p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{OpPos: opTok.Span.Start, Op: token.NOT, Right: right}, nil
	}
	return p.parseEquality()
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.check(token.EQ) || p.check(token.NEQ) {
		op := p.advance().Kind
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.check(token.LT) || p.check(token.GT) || p.check(token.LE) || p.check(token.GE) {
		op := p.advance().Kind
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.advance().Kind
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(token.STAR) || p.check(token.SLASH) || p.check(token.PERCENT) {
		op := p.advance().Kind
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.check(token.MINUS) {
		opTok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{OpPos: opTok.Span.Start, Op: token.MINUS, Right: right}, nil
	}
	return p.parsePipeline()
}

// parsePipeline handles `x | f` as sugar for `f(x)`, binding tighter than
// unary minus but looser than call/index/member.
func (p *Parser) parsePipeline() (ast.Expr, error) {
	left, err := p.parseCallIndexMember()
	if err != nil {
		return nil, err
	}
	for p.check(token.PIPE) {
		pos := p.advance().Span
		fn, err := p.parseCallIndexMember()
		if err != nil {
			return nil, err
		}
		left = &ast.CallExpr{Pos: pos, Fn: fn, Args: []ast.Expr{left}}
	}
	return left, nil
}

func (p *Parser) parseCallIndexMember() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(token.LPAREN):
			p.advance()
			var args []ast.Expr
			for !p.check(token.RPAREN) {
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if !p.match(token.COMMA) {
					break
				}
			}
			rp, err := p.expect(token.RPAREN, MissingRightParen)
			if err != nil {
				return nil, err
			}
			start := e.Span().Start
			e = &ast.CallExpr{Pos: token.Span{Start: start, End: rp.Span.End}, Fn: e, Args: args}
		case p.check(token.DOT):
			p.advance()
			name, err := p.expect(token.IDENT, ExpectedIdentifierAfterDot)
			if err != nil {
				return nil, err
			}
			start := e.Span().Start
			e = &ast.MemberExpr{Pos: token.Span{Start: start, End: name.Span.End}, Target: e, Name: name.Text}
		case p.check(token.LBRACK):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			rb, err := p.expect(token.RBRACK, MissingRightBracket)
			if err != nil {
				return nil, err
			}
			start := e.Span().Start
			e = &ast.IndexExpr{Pos: token.Span{Start: start, End: rb.Span.End}, Target: e, Index: idx}
		default:
			return e, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.INT:
		p.advance()
		return &ast.IntLit{Pos: tok.Span, Val: tok.IntVal}, nil
	case token.FLOAT:
		p.advance()
		return &ast.FloatLit{Pos: tok.Span, Val: tok.FloatVal}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLit{Pos: tok.Span, Val: tok.StringVal}, nil
	case token.TRUE:
		p.advance()
		return &ast.BoolLit{Pos: tok.Span, Val: true}, nil
	case token.FALSE:
		p.advance()
		return &ast.BoolLit{Pos: tok.Span, Val: false}, nil
	case token.NULL:
		p.advance()
		return &ast.NullLit{Pos: tok.Span}, nil
	case token.YIELD:
		p.advance()
		if p.check(token.SEMI) || p.check(token.RBRACE) || p.check(token.RPAREN) || p.check(token.COMMA) {
			return &ast.YieldExpr{Pos: tok.Span}, nil
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.YieldExpr{Pos: token.Span{Start: tok.Span.Start, End: v.Span().End}, Value: v}, nil
	case token.LPAREN:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		rp, err := p.expect(token.RPAREN, MissingRightParen)
		if err != nil {
			return nil, err
		}
		return &ast.GroupingExpr{Pos: token.Span{Start: tok.Span.Start, End: rp.Span.End}, Expr: e}, nil
	case token.LBRACK:
		return p.parseListLit()
	case token.JSON:
		return p.parseJSONLit()
	case token.PIPE:
		return p.parseLambda()
	case token.IDENT:
		// struct literal: Ident { field: expr, ... } -- only when a '{' with
		// a field-looking layout directly follows the identifier.
		if p.peekAt(1).Kind == token.LBRACE && p.peekAt(2).Kind == token.IDENT && p.peekAt(3).Kind == token.COLON {
			return p.parseStructLitMaybe()
		}
		p.advance()
		return &ast.Ident{Pos: tok.Span, Name: tok.Text}, nil
	default:
		return nil, p.errorf(UnexpectedToken, "unexpected token %s in expression", tok.Kind.GoString())
	}
}

func (p *Parser) parseListLit() (ast.Expr, error) {
	lb := p.advance()
	var items []ast.Expr
	for !p.check(token.RBRACK) {
		it, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, it)
		if !p.match(token.COMMA) {
			break
		}
	}
	rb, err := p.expect(token.RBRACK, MissingRightBracket)
	if err != nil {
		return nil, err
	}
	return &ast.ListLit{Pos: token.Span{Start: lb.Span.Start, End: rb.Span.End}, Items: items}, nil
}

func (p *Parser) parseJSONLit() (ast.Expr, error) {
	start := p.advance().Span.Start
	if _, err := p.expect(token.LBRACE, MissingRightCurly); err != nil {
		return nil, err
	}
	var entries []ast.JSONEntry
	for !p.check(token.RBRACE) {
		key, err := p.expect(token.STRING, UnexpectedToken)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON, UnexpectedToken); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.JSONEntry{Key: key.StringVal, Value: val})
		if !p.match(token.COMMA) {
			break
		}
	}
	rb, err := p.expect(token.RBRACE, MissingRightCurly)
	if err != nil {
		return nil, err
	}
	return &ast.JSONLit{Pos: token.Span{Start: start, End: rb.Span.End}, Entries: entries}, nil
}

func (p *Parser) parseStructLitMaybe() (ast.Expr, error) {
	name := p.advance()
	lb := p.advance() // '{'
	var fields []ast.StructFieldInit
	for !p.check(token.RBRACE) {
		fname, err := p.expect(token.IDENT, ExpectedIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON, UnexpectedToken); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.StructFieldInit{Name: fname.Text, Value: val})
		if !p.match(token.COMMA) {
			break
		}
	}
	rb, err := p.expect(token.RBRACE, MissingRightCurly)
	if err != nil {
		return nil, err
	}
	_ = lb
	return &ast.StructLit{Pos: token.Span{Start: name.Span.Start, End: rb.Span.End}, Name: name.Text, Fields: fields}, nil
}

func (p *Parser) parseLambda() (*ast.LambdaExpr, error) {
	start := p.expectPipe()
	var params []ast.Param
	for !p.check(token.PIPE) {
		pname, err := p.expect(token.IDENT, ExpectedIdentifier)
		if err != nil {
			return nil, err
		}
		param := ast.Param{Name: pname.Text}
		if p.match(token.COLON) {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			param.Type = t
		}
		params = append(params, param)
		if p.check(token.PIPE) {
			break
		}
		if !p.match(token.COMMA) {
			return nil, p.errorf(ExpectedCommaOrPipeInLambda, "expected ',' or '|' in lambda parameter list")
		}
	}
	if _, err := p.expect(token.PIPE, ExpectedCommaOrPipeInLambda); err != nil {
		return nil, err
	}
	var ret *ast.Type
	if p.match(token.ARROW) {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ret = t
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.LambdaExpr{Pos: token.Span{Start: start, End: body.End}, Params: params, Return: ret, Body: body}, nil
}

func (p *Parser) expectPipe() token.Pos {
	return p.advance().Span.Start
}

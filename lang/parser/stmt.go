package parser

import (
	"github.com/kaubo-lang/kaubo/lang/ast"
	"github.com/kaubo-lang/kaubo/lang/token"
)

func (p *Parser) parseStmts(until token.Kind) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(until) && !p.check(token.EOF) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	lb, err := p.expect(token.LBRACE, MissingRightCurly)
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStmts(token.RBRACE)
	if err != nil {
		return nil, err
	}
	rb, err := p.expect(token.RBRACE, MissingRightCurly)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Start: lb.Span.Start, End: rb.Span.End, Stmts: stmts}, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.cur().Kind {
	case token.SEMI:
		t := p.advance()
		return &ast.EmptyStmt{Pos: t.Span}, nil
	case token.LBRACE:
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Block: b}, nil
	case token.PUB, token.VAR:
		return p.parseVarDecl()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseForIn()
	case token.RETURN:
		return p.parseReturn()
	case token.PRINT:
		return p.parsePrint()
	case token.IDENT:
		return p.parseExprStmt()
	case token.BREAK:
		t := p.advance()
		if _, err := p.expect(token.SEMI, UnexpectedToken); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Pos: t.Span}, nil
	case token.CONTINUE:
		t := p.advance()
		if _, err := p.expect(token.SEMI, UnexpectedToken); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Pos: t.Span}, nil
	case token.MODULE:
		return p.parseModule()
	case token.IMPORT:
		return p.parseImport()
	case token.FROM:
		return p.parseFromImport()
	case token.STRUCT:
		return p.parseStructDef()
	case token.IMPL:
		return p.parseImpl()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	start := p.cur().Span.Start
	pub := p.match(token.PUB)
	if _, err := p.expect(token.VAR, UnexpectedToken); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT, ExpectedIdentifier)
	if err != nil {
		return nil, err
	}
	var typ *ast.Type
	if p.match(token.COLON) {
		typ, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	var init ast.Expr
	if p.match(token.ASSIGN) {
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	semi, err := p.expect(token.SEMI, UnexpectedToken)
	if err != nil {
		return nil, err
	}
	return &ast.VarDecl{
		Pos:  token.Span{Start: start, End: semi.Span.End},
		Pub:  pub,
		Name: name.Text,
		Type: typ,
		Init: init,
	}, nil
}

func (p *Parser) parseType() (*ast.Type, error) {
	if p.check(token.LPAREN) {
		p.advance()
		var params []*ast.Type
		for !p.check(token.RPAREN) {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, t)
			if !p.match(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN, MissingRightParen); err != nil {
			return nil, err
		}
		var ret *ast.Type
		if p.match(token.ARROW) {
			var err error
			ret, err = p.parseType()
			if err != nil {
				return nil, err
			}
		}
		return &ast.Type{Func: &ast.FuncType{Params: params, Return: ret}}, nil
	}
	if p.check(token.LBRACK) {
		p.advance()
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACK, MissingRightBracket); err != nil {
			return nil, err
		}
		return &ast.Type{Name: "list", Elem: elem}, nil
	}
	name, err := p.expect(token.IDENT, ExpectedIdentifier)
	if err != nil {
		return nil, err
	}
	return &ast.Type{Name: name.Text}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.advance().Span.Start
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Cond: cond, Then: then}
	for p.check(token.ELIF) {
		p.advance()
		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Elifs = append(stmt.Elifs, ast.ElifClause{Cond: c, Body: b})
	}
	end := then.End
	if len(stmt.Elifs) > 0 {
		end = stmt.Elifs[len(stmt.Elifs)-1].Body.End
	}
	if p.match(token.ELSE) {
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = b
		end = b.End
	}
	stmt.Pos = token.Span{Start: start, End: end}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	start := p.advance().Span.Start
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Pos: token.Span{Start: start, End: body.End}, Cond: cond, Body: body}, nil
}

func (p *Parser) parseForIn() (ast.Stmt, error) {
	start := p.advance().Span.Start
	if _, err := p.expect(token.VAR, UnexpectedToken); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT, ExpectedIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN, UnexpectedToken); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForInStmt{
		Pos:      token.Span{Start: start, End: body.End},
		Name:     name.Text,
		Iterable: iterable,
		Body:     body,
	}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	start := p.advance().Span.Start
	if p.check(token.SEMI) {
		end := p.advance().Span.End
		return &ast.ReturnStmt{Pos: token.Span{Start: start, End: end}}, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(token.SEMI, UnexpectedToken)
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Pos: token.Span{Start: start, End: semi.Span.End}, Value: val}, nil
}

func (p *Parser) parsePrint() (ast.Stmt, error) {
	start := p.advance().Span.Start
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(token.SEMI, UnexpectedToken)
	if err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Pos: token.Span{Start: start, End: semi.Span.End}, Value: val}, nil
}

func (p *Parser) parseExprStmt() (ast.Stmt, error) {
	start := p.cur().Span.Start
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(token.SEMI, UnexpectedToken)
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Pos: token.Span{Start: start, End: semi.Span.End}, Expr: e}, nil
}

func (p *Parser) dottedPath() (string, error) {
	name, err := p.expect(token.IDENT, ExpectedIdentifier)
	if err != nil {
		return "", err
	}
	path := name.Text
	for p.check(token.DOT) {
		p.advance()
		part, err := p.expect(token.IDENT, ExpectedIdentifierAfterDot)
		if err != nil {
			return "", err
		}
		path += "." + part.Text
	}
	return path, nil
}

func (p *Parser) parseModule() (ast.Stmt, error) {
	start := p.advance().Span.Start
	name, err := p.expect(token.IDENT, ExpectedIdentifier)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ModuleDef{Pos: token.Span{Start: start, End: body.End}, Name: name.Text, Body: body}, nil
}

func (p *Parser) parseImport() (ast.Stmt, error) {
	start := p.advance().Span.Start
	path, err := p.dottedPath()
	if err != nil {
		return nil, err
	}
	stmt := &ast.ImportStmt{Kind: ast.ImportPlain, Path: path}
	if p.match(token.AS) {
		alias, err := p.expect(token.IDENT, ExpectedIdentifier)
		if err != nil {
			return nil, err
		}
		stmt.Kind = ast.ImportAs
		stmt.Alias = alias.Text
	}
	semi, err := p.expect(token.SEMI, UnexpectedToken)
	if err != nil {
		return nil, err
	}
	stmt.Pos = token.Span{Start: start, End: semi.Span.End}
	return stmt, nil
}

func (p *Parser) parseFromImport() (ast.Stmt, error) {
	start := p.advance().Span.Start
	path, err := p.dottedPath()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IMPORT, UnexpectedToken); err != nil {
		return nil, err
	}
	var names []string
	for {
		n, err := p.expect(token.IDENT, ExpectedIdentifier)
		if err != nil {
			return nil, err
		}
		names = append(names, n.Text)
		if !p.match(token.COMMA) {
			break
		}
	}
	semi, err := p.expect(token.SEMI, UnexpectedToken)
	if err != nil {
		return nil, err
	}
	return &ast.ImportStmt{
		Pos:   token.Span{Start: start, End: semi.Span.End},
		Kind:  ast.ImportFrom,
		Path:  path,
		Names: names,
	}, nil
}

func (p *Parser) parseStructDef() (ast.Stmt, error) {
	start := p.advance().Span.Start
	name, err := p.expect(token.IDENT, ExpectedIdentifier)
	if err != nil {
		return nil, err
	}
	lb, err := p.expect(token.LBRACE, MissingRightCurly)
	if err != nil {
		return nil, err
	}
	var fields []ast.StructField
	for !p.check(token.RBRACE) {
		fname, err := p.expect(token.IDENT, ExpectedIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON, UnexpectedToken); err != nil {
			return nil, err
		}
		ftype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.StructField{Name: fname.Text, Type: ftype})
		if !p.match(token.COMMA) {
			break
		}
	}
	rb, err := p.expect(token.RBRACE, MissingRightCurly)
	if err != nil {
		return nil, err
	}
	_ = lb
	return &ast.StructDef{Pos: token.Span{Start: start, End: rb.Span.End}, Name: name.Text, Fields: fields}, nil
}

func (p *Parser) parseImpl() (ast.Stmt, error) {
	start := p.advance().Span.Start
	name, err := p.expect(token.IDENT, ExpectedIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE, MissingRightCurly); err != nil {
		return nil, err
	}
	var methods []ast.MethodDef
	for !p.check(token.RBRACE) {
		methodName, err := p.parseMethodName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ASSIGN, UnexpectedToken); err != nil {
			return nil, err
		}
		lam, err := p.parseLambda()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI, UnexpectedToken); err != nil {
			return nil, err
		}
		methods = append(methods, ast.MethodDef{Name: methodName, Lambda: lam})
	}
	rb, err := p.expect(token.RBRACE, MissingRightCurly)
	if err != nil {
		return nil, err
	}
	return &ast.ImplBlock{Pos: token.Span{Start: start, End: rb.Span.End}, Struct: name.Text, Methods: methods}, nil
}

// parseMethodName returns the method name, prefixing it with "operator " when
// the method is declared as `operator <op>`.
func (p *Parser) parseMethodName() (string, error) {
	if p.check(token.OPERATOR) {
		p.advance()
		opTok := p.advance()
		return "operator " + opTok.Kind.String(), nil
	}
	name, err := p.expect(token.IDENT, ExpectedIdentifier)
	if err != nil {
		return "", err
	}
	return name.Text, nil
}

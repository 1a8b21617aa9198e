package parser

import (
	"fmt"

	"github.com/kaubo-lang/kaubo/lang/ast"
	"github.com/kaubo-lang/kaubo/lang/lexer"
	"github.com/kaubo-lang/kaubo/lang/token"
)

// Parser turns a token slice into an AST.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse tokenizes src and parses it into a Chunk. name is used only to
// populate Chunk.Name for diagnostics.
func Parse(name string, src []byte) (*ast.Chunk, error) {
	toks, err := lexer.ScanAll(src, nil)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseChunk(name)
}

// ParseTokens parses an already-tokenized stream, e.g. one produced by an
// incremental lexer driver loop.
func ParseTokens(name string, toks []lexer.Token) (*ast.Chunk, error) {
	p := &Parser{toks: toks}
	return p.parseChunk(name)
}

func (p *Parser) parseChunk(name string) (*ast.Chunk, error) {
	start := p.cur().Span.Start
	stmts, err := p.parseStmts(token.EOF)
	if err != nil {
		return nil, err
	}
	end := p.cur().Span.End
	return &ast.Chunk{
		Name:  name,
		Block: &ast.Block{Start: start, End: end, Stmts: stmts},
	}, nil
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return lexer.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, errKind ErrorKind) (lexer.Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorf(errKind, "expected %s, found %s", k.GoString(), p.cur().Kind.GoString())
}

func (p *Parser) errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	cur := p.cur()
	loc := Location{Kind: At, Pos: cur.Span.Start}
	if cur.Kind == token.EOF {
		loc.Kind = Eof
	}
	return &Error{
		Kind:     kind,
		Location: loc,
		Found:    cur.Kind.GoString(),
		Msg:      fmt.Sprintf(format, args...),
	}
}

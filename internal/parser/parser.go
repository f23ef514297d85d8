package parser

import (
	"log/slog"

	"tan/internal/ast"
	"tan/internal/diag"
	"tan/internal/token"
)

const maxArgs = 255

// parseError unwinds the parser back to the nearest declaration boundary.
// It never escapes Parse.
type parseError struct{}

type Parser struct {
	tokens  []token.Token
	current int
	diag    *diag.Collector
}

func New(tokens []token.Token, d *diag.Collector) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, token.Token{Type: token.EOF, Line: line})
	}
	return &Parser{tokens: tokens, diag: d}
}

// Parse returns every statement that parsed cleanly. Malformed statements
// are reported to diagnostics and skipped.
func (p *Parser) Parse() []ast.Statement {
	statements := []ast.Statement{}

	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}

	slog.Debug("parsed program",
		slog.Int("statements", len(statements)),
		slog.Int("tokens", len(p.tokens)))
	return statements
}

func (p *Parser) declaration() (stmt ast.Statement) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUNCTION):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) classDeclaration() ast.Statement {
	name := p.consume(token.IDENT, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.LT) {
		superclass = &ast.Variable{Name: p.consume(token.IDENT, "Expect superclass name.")}
	}

	p.consume(token.LBRACE, "Expect '{' before class body.")

	methods := []*ast.Function{}
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}

	p.consume(token.RBRACE, "Expect '}' after class body.")

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.IDENT, "Expect "+kind+" name.")
	p.consume(token.LPAREN, "Expect '(' after "+kind+" name.")

	params := []token.Token{}
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= maxArgs {
				p.diag.ErrorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.IDENT, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after parameters.")

	p.consume(token.LBRACE, "Expect '{' before "+kind+" body.")
	body := p.block()

	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Statement {
	name := p.consume(token.IDENT, "Expect variable name.")

	var initializer ast.Expression
	if p.match(token.ASSIGN) {
		initializer = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Statement {
	switch {
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LBRACE):
		brace := p.previous()
		return &ast.Block{Token: brace, Statements: p.block()}
	}
	return p.expressionStatement()
}

// forStatement desugars `for (init; cond; incr) body` into
//
//	{ init; while (cond) { body; incr; } }
func (p *Parser) forStatement() ast.Statement {
	keyword := p.previous()
	p.consume(token.LPAREN, "Expect '(' after 'for'.")

	var initializer ast.Statement
	switch {
	case p.match(token.SEMICOLON):
	case p.match(token.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expression
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expression
	if !p.check(token.RPAREN) {
		increment = p.expression()
	}
	p.consume(token.RPAREN, "Expect ')' after for clauses.")

	var body ast.Statement
	if !p.match(token.SEMICOLON) {
		body = p.statement()
	}

	if increment != nil {
		if body == nil {
			// no block, so an empty body does not open a scope of its own
			body = &ast.ExpressionStmt{Expression: increment}
		} else {
			body = &ast.Block{
				Token:      keyword,
				Statements: []ast.Statement{body, &ast.ExpressionStmt{Expression: increment}},
			}
		}
	}

	if condition == nil {
		condition = &ast.Literal{Token: keyword, Value: true}
	}
	body = &ast.While{Token: keyword, Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.Block{Token: keyword, Statements: []ast.Statement{initializer, body}}
	}

	return body
}

func (p *Parser) ifStatement() ast.Statement {
	stmt := &ast.If{Token: p.previous()}

	p.consume(token.LPAREN, "Expect '(' after 'if'.")
	stmt.Condition = p.expression()
	p.consume(token.RPAREN, "Expect ')' after if condition.")

	stmt.Then = p.statement()
	if p.match(token.ELSE) {
		stmt.Else = p.statement()
	}
	return stmt
}

func (p *Parser) printStatement() ast.Statement {
	stmt := &ast.Print{Token: p.previous()}
	stmt.Expression = p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return stmt
}

func (p *Parser) returnStatement() ast.Statement {
	stmt := &ast.Return{Keyword: p.previous()}
	if !p.check(token.SEMICOLON) {
		stmt.Value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return stmt
}

func (p *Parser) whileStatement() ast.Statement {
	stmt := &ast.While{Token: p.previous()}

	p.consume(token.LPAREN, "Expect '(' after 'while'.")
	stmt.Condition = p.expression()
	p.consume(token.RPAREN, "Expect ')' after condition.")

	stmt.Body = p.statement()
	return stmt
}

func (p *Parser) block() []ast.Statement {
	statements := []ast.Statement{}

	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}

	p.consume(token.RBRACE, "Expect '}' after block.")
	return statements
}

func (p *Parser) expressionStatement() ast.Statement {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.ExpressionStmt{Expression: expr}
}

package parser

import (
	"tan/internal/ast"
	"tan/internal/token"
)

func (p *Parser) expression() ast.Expression {
	return p.assignment()
}

// assignment validates the target after the fact: the left side is parsed
// as an ordinary expression and only then rewritten into Assign or Set.
func (p *Parser) assignment() ast.Expression {
	expr := p.ternary()

	if p.match(token.ASSIGN) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		}

		// reported at '=' and not thrown: the parser is not confused
		p.diag.ErrorAt(equals, "Invalid assignment target.")
	}

	return expr
}

// ternary is right-associative: a ? b : c ? d : e == a ? b : (c ? d : e)
func (p *Parser) ternary() ast.Expression {
	expr := p.or()

	if p.match(token.QUESTION) {
		question := p.previous()
		then := p.ternary()
		p.consume(token.COLON, "Expect ':' after then branch of ternary expression.")
		otherwise := p.ternary()
		return &ast.Ternary{Condition: expr, Token: question, Then: then, Else: otherwise}
	}

	return expr
}

func (p *Parser) or() ast.Expression {
	expr := p.and()

	for p.match(token.OR) {
		operator := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) and() ast.Expression {
	expr := p.equality()

	for p.match(token.AND) {
		operator := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) equality() ast.Expression {
	return p.binary(p.comparison, token.NOT_EQ, token.EQ)
}

func (p *Parser) comparison() ast.Expression {
	return p.binary(p.term, token.GT, token.GT_EQ, token.LT, token.LT_EQ)
}

func (p *Parser) term() ast.Expression {
	return p.binary(p.factor, token.MINUS, token.PLUS)
}

func (p *Parser) factor() ast.Expression {
	return p.binary(p.unary, token.SLASH, token.ASTERISK)
}

// binary parses a left-associative chain of operands produced by next.
func (p *Parser) binary(next func() ast.Expression, operators ...token.TokenType) ast.Expression {
	expr := next()

	for p.match(operators...) {
		operator := p.previous()
		right := next()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) unary() ast.Expression {
	if p.match(token.BANG, token.MINUS) {
		operator := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: operator, Right: right}
	}
	if p.check(token.PLUS) {
		panic(p.error(p.peek(), "Unary '+' expressions are not supported."))
	}

	return p.call()
}

func (p *Parser) call() ast.Expression {
	expr := p.primary()

	for {
		if p.match(token.LPAREN) {
			expr = p.finishCall(expr)
		} else if p.match(token.PERIOD) {
			name := p.consume(token.IDENT, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		} else {
			break
		}
	}

	return expr
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	args := []ast.Expression{}

	if !p.check(token.RPAREN) {
		for {
			if len(args) >= maxArgs {
				p.diag.ErrorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	paren := p.consume(token.RPAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expression {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Token: p.previous(), Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Token: p.previous(), Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Token: p.previous(), Value: nil}
	case p.match(token.NUMBER, token.STRING):
		return &ast.Literal{Token: p.previous(), Value: p.previous().Literal}
	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous()}
	case p.match(token.IDENT):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LPAREN):
		paren := p.previous()
		expr := p.expression()
		p.consume(token.RPAREN, "Expect ')' after expression.")
		return &ast.Grouping{Token: paren, Expression: expr}
	}

	panic(p.error(p.peek(), "Expect expression."))
}

package ast

import (
	"bytes"
	"strconv"
	"strings"

	"tan/internal/token"
)

// The base Node interface
type Node interface {
	String() string
	Line() int
}

// Statement is the closed set of statement nodes. Only types in this
// package implement it.
type Statement interface {
	Node
	statementNode()
}

// Expression is the closed set of expression nodes. Nodes are always used
// by pointer; the pointer identity is what the resolver keys on.
type Expression interface {
	Node
	expressionNode()
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

type Literal struct {
	Token token.Token // the token the value came from
	Value any         // nil, bool, float64 or string
}

func (l *Literal) expressionNode() {}
func (l *Literal) Line() int       { return l.Token.Line }
func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	}
	return l.Token.Lexeme
}

type Grouping struct {
	Token      token.Token // the ( token
	Expression Expression
}

func (g *Grouping) expressionNode() {}
func (g *Grouping) Line() int       { return g.Token.Line }
func (g *Grouping) String() string  { return "(group " + g.Expression.String() + ")" }

type Unary struct {
	Operator token.Token
	Right    Expression
}

func (u *Unary) expressionNode() {}
func (u *Unary) Line() int       { return u.Operator.Line }
func (u *Unary) String() string {
	return "(" + u.Operator.Lexeme + " " + u.Right.String() + ")"
}

type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b *Binary) expressionNode() {}
func (b *Binary) Line() int       { return b.Operator.Line }
func (b *Binary) String() string {
	return "(" + b.Operator.Lexeme + " " + b.Left.String() + " " + b.Right.String() + ")"
}

type Ternary struct {
	Condition Expression
	Token     token.Token // the ? token
	Then      Expression
	Else      Expression
}

func (t *Ternary) expressionNode() {}
func (t *Ternary) Line() int       { return t.Token.Line }
func (t *Ternary) String() string {
	return "(?: " + t.Condition.String() + " " + t.Then.String() + " " + t.Else.String() + ")"
}

// Logical is a short-circuiting `and` / `or`.
type Logical struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (l *Logical) expressionNode() {}
func (l *Logical) Line() int       { return l.Operator.Line }
func (l *Logical) String() string {
	return "(" + l.Operator.Lexeme + " " + l.Left.String() + " " + l.Right.String() + ")"
}

type Variable struct {
	Name token.Token
}

func (v *Variable) expressionNode() {}
func (v *Variable) Line() int       { return v.Name.Line }
func (v *Variable) String() string  { return v.Name.Lexeme }

type Assign struct {
	Name  token.Token
	Value Expression
}

func (a *Assign) expressionNode() {}
func (a *Assign) Line() int       { return a.Name.Line }
func (a *Assign) String() string {
	return "(= " + a.Name.Lexeme + " " + a.Value.String() + ")"
}

type Call struct {
	Callee    Expression
	Paren     token.Token // the closing ) token, used for error locations
	Arguments []Expression
}

func (c *Call) expressionNode() {}
func (c *Call) Line() int       { return c.Paren.Line }
func (c *Call) String() string {
	var out bytes.Buffer

	args := []string{}
	for _, a := range c.Arguments {
		args = append(args, a.String())
	}

	out.WriteString("(call ")
	out.WriteString(c.Callee.String())
	if len(args) > 0 {
		out.WriteString(" ")
		out.WriteString(strings.Join(args, " "))
	}
	out.WriteString(")")

	return out.String()
}

type Get struct {
	Object Expression
	Name   token.Token
}

func (g *Get) expressionNode() {}
func (g *Get) Line() int       { return g.Name.Line }
func (g *Get) String() string  { return "(. " + g.Object.String() + " " + g.Name.Lexeme + ")" }

type Set struct {
	Object Expression
	Name   token.Token
	Value  Expression
}

func (s *Set) expressionNode() {}
func (s *Set) Line() int       { return s.Name.Line }
func (s *Set) String() string {
	return "(.= " + s.Object.String() + " " + s.Name.Lexeme + " " + s.Value.String() + ")"
}

type This struct {
	Keyword token.Token
}

func (t *This) expressionNode() {}
func (t *This) Line() int       { return t.Keyword.Line }
func (t *This) String() string  { return "this" }

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

type Block struct {
	Token      token.Token // the { token
	Statements []Statement
}

func (bs *Block) statementNode() {}
func (bs *Block) Line() int      { return bs.Token.Line }
func (bs *Block) String() string {
	var out bytes.Buffer

	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

type ExpressionStmt struct {
	Expression Expression
}

func (es *ExpressionStmt) statementNode() {}
func (es *ExpressionStmt) Line() int      { return es.Expression.Line() }
func (es *ExpressionStmt) String() string { return es.Expression.String() + ";" }

type Print struct {
	Token      token.Token // the 'print' token
	Expression Expression
}

func (p *Print) statementNode() {}
func (p *Print) Line() int      { return p.Token.Line }
func (p *Print) String() string { return "print " + p.Expression.String() + ";" }

// Var declares a variable. A nil Initializer means the declaration had no
// `= expr` part, which is not the same as an explicit `= nil`.
type Var struct {
	Name        token.Token
	Initializer Expression
}

func (vs *Var) statementNode() {}
func (vs *Var) Line() int      { return vs.Name.Line }
func (vs *Var) String() string {
	if vs.Initializer == nil {
		return "var " + vs.Name.Lexeme + ";"
	}
	return "var " + vs.Name.Lexeme + " = " + vs.Initializer.String() + ";"
}

type If struct {
	Token     token.Token // the 'if' token
	Condition Expression
	Then      Statement
	Else      Statement // optional
}

func (is *If) statementNode() {}
func (is *If) Line() int      { return is.Token.Line }
func (is *If) String() string {
	var out bytes.Buffer

	out.WriteString("if ")
	out.WriteString(is.Condition.String())
	out.WriteString(" ")
	out.WriteString(is.Then.String())

	if is.Else != nil {
		out.WriteString(" else ")
		out.WriteString(is.Else.String())
	}

	return out.String()
}

type While struct {
	Token     token.Token // the 'while' or 'for' token
	Condition Expression
	Body      Statement // nil for `for (...);`
}

func (ws *While) statementNode() {}
func (ws *While) Line() int      { return ws.Token.Line }
func (ws *While) String() string {
	body := ";"
	if ws.Body != nil {
		body = ws.Body.String()
	}
	return "while " + ws.Condition.String() + " " + body
}

// Function is a function or method prototype.
type Function struct {
	Name   token.Token
	Params []token.Token
	Body   []Statement
}

func (fs *Function) statementNode() {}
func (fs *Function) Line() int      { return fs.Name.Line }
func (fs *Function) String() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range fs.Params {
		params = append(params, p.Lexeme)
	}

	out.WriteString("function ")
	out.WriteString(fs.Name.Lexeme)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") { ")
	for _, s := range fs.Body {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

type Return struct {
	Keyword token.Token
	Value   Expression // optional
}

func (rs *Return) statementNode() {}
func (rs *Return) Line() int      { return rs.Keyword.Line }
func (rs *Return) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return "return " + rs.Value.String() + ";"
}

type Class struct {
	Name       token.Token
	Superclass *Variable // optional
	Methods    []*Function
}

func (cs *Class) statementNode() {}
func (cs *Class) Line() int      { return cs.Name.Line }
func (cs *Class) String() string {
	var out bytes.Buffer

	out.WriteString("class ")
	out.WriteString(cs.Name.Lexeme)
	if cs.Superclass != nil {
		out.WriteString(" < ")
		out.WriteString(cs.Superclass.String())
	}
	out.WriteString(" { ")
	for _, m := range cs.Methods {
		out.WriteString(strings.TrimPrefix(m.String(), "function "))
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

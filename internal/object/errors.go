package object

import (
	"fmt"

	"tan/internal/ast"
	"tan/internal/token"
)

// RuntimeError is a language-level error raised while executing code. It
// points at the offending token or, when there is none, at a node.
type RuntimeError struct {
	Token   *token.Token
	Node    ast.Node
	Message string
}

func NewRuntimeError(tok token.Token, format string, a ...any) *RuntimeError {
	return &RuntimeError{Token: &tok, Message: fmt.Sprintf(format, a...)}
}

func NewNodeError(node ast.Node, format string, a ...any) *RuntimeError {
	return &RuntimeError{Node: node, Message: fmt.Sprintf(format, a...)}
}

func (e *RuntimeError) Error() string { return e.Message }

func (e *RuntimeError) Location() (*token.Token, int) {
	switch {
	case e.Token != nil:
		return e.Token, e.Token.Line
	case e.Node != nil:
		return nil, e.Node.Line()
	}
	return nil, 0
}

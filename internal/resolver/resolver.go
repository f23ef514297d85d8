// Package resolver binds every local variable reference to the number of
// scopes between the reference and its declaration.
//
// Resolution is a static pre-pass. It never touches runtime environments;
// it simulates them with a stack of scope frames and records one distance
// per resolved expression node. References that are not found in any
// frame are left out of the result and looked up in the global scope at
// run time.
package resolver

import (
	"log/slog"

	"tan/internal/ast"
	"tan/internal/diag"
	"tan/internal/token"
)

// Locals maps an expression node to its scope distance (0 = innermost).
type Locals map[ast.Expression]int

type functionType int

const (
	functionNone functionType = iota
	functionPlain
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classPlain
	classSubclass
)

// scope maps a name to whether its initializer has finished resolving.
type scope map[string]bool

type Resolver struct {
	diag   *diag.Collector
	scopes []scope
	locals Locals

	currentFunction functionType
	currentClass    classType
}

func New(d *diag.Collector) *Resolver {
	return &Resolver{diag: d}
}

// Resolve walks the program and returns a fresh distance map. Errors are
// reported to diagnostics and resolution continues so that every problem
// in the program is surfaced in one pass.
func (r *Resolver) Resolve(statements []ast.Statement) Locals {
	r.locals = Locals{}
	r.scopes = r.scopes[:0]
	r.currentFunction = functionNone
	r.currentClass = classNone

	r.resolveStatements(statements)

	slog.Debug("resolved program", slog.Int("locals", len(r.locals)))
	return r.locals
}

func (r *Resolver) resolveStatements(statements []ast.Statement) {
	for _, stmt := range statements {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement) {
	switch node := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStatements(node.Statements)
		r.endScope()

	case *ast.Var:
		r.declare(node.Name)
		if node.Initializer != nil {
			r.resolveExpression(node.Initializer)
		}
		r.define(node.Name)

	case *ast.Function:
		// defined before the body so the function can call itself
		r.declare(node.Name)
		r.define(node.Name)
		r.resolveFunction(node, functionPlain)

	case *ast.Class:
		r.resolveClass(node)

	case *ast.If:
		r.resolveExpression(node.Condition)
		r.resolveStatement(node.Then)
		if node.Else != nil {
			r.resolveStatement(node.Else)
		}

	case *ast.While:
		r.resolveExpression(node.Condition)
		if node.Body != nil {
			r.resolveStatement(node.Body)
		}

	case *ast.Return:
		if r.currentFunction == functionNone {
			r.diag.ErrorAt(node.Keyword, "Can't return from top-level code.")
		}
		if node.Value != nil {
			r.resolveExpression(node.Value)
		}

	case *ast.Print:
		r.resolveExpression(node.Expression)

	case *ast.ExpressionStmt:
		r.resolveExpression(node.Expression)
	}
}

func (r *Resolver) resolveClass(node *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosingClass }()

	r.declare(node.Name)
	r.define(node.Name)

	if node.Superclass != nil {
		if node.Superclass.Name.Lexeme == node.Name.Lexeme {
			r.diag.ErrorAt(node.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpression(node.Superclass)
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range node.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()
}

// resolveFunction resolves parameters and body in a single frame, the same
// frame the call will bind arguments into at run time.
func (r *Resolver) resolveFunction(fn *ast.Function, kind functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpression(expr ast.Expression) {
	switch node := expr.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][node.Name.Lexeme]; declared && !defined {
				r.diag.ErrorAt(node.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(node, node.Name)

	case *ast.Assign:
		r.resolveExpression(node.Value)
		r.resolveLocal(node, node.Name)

	case *ast.This:
		if r.currentClass == classNone {
			r.diag.ErrorAt(node.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(node, node.Keyword)

	case *ast.Binary:
		r.resolveExpression(node.Left)
		r.resolveExpression(node.Right)

	case *ast.Logical:
		r.resolveExpression(node.Left)
		r.resolveExpression(node.Right)

	case *ast.Ternary:
		r.resolveExpression(node.Condition)
		r.resolveExpression(node.Then)
		r.resolveExpression(node.Else)

	case *ast.Unary:
		r.resolveExpression(node.Right)

	case *ast.Grouping:
		r.resolveExpression(node.Expression)

	case *ast.Call:
		r.resolveExpression(node.Callee)
		for _, arg := range node.Arguments {
			r.resolveExpression(arg)
		}

	// property names are looked up on the instance at run time
	case *ast.Get:
		r.resolveExpression(node.Object)

	case *ast.Set:
		r.resolveExpression(node.Value)
		r.resolveExpression(node.Object)

	case *ast.Literal:
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	current := r.scopes[len(r.scopes)-1]
	if _, exists := current[name.Lexeme]; exists {
		r.diag.ErrorAt(name, "Already a variable with this name in this scope.")
	}
	current[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) resolveLocal(expr ast.Expression, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

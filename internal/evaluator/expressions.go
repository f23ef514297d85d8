package evaluator

import (
	"errors"

	"tan/internal/ast"
	"tan/internal/diag"
	"tan/internal/object"
	"tan/internal/token"
)

func (i *Interpreter) evaluate(expr ast.Expression) (object.Object, error) {
	switch node := expr.(type) {
	case *ast.Literal:
		return object.FromValue(node.Value), nil

	case *ast.Grouping:
		return i.evaluate(node.Expression)

	case *ast.Unary:
		right, err := i.evaluate(node.Right)
		if err != nil {
			return nil, err
		}
		return i.evalPrefixExpression(node.Operator, right)

	case *ast.Binary:
		left, err := i.evaluate(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := i.evaluate(node.Right)
		if err != nil {
			return nil, err
		}
		return i.evalInfixExpression(node.Operator, left, right)

	case *ast.Logical:
		return i.evalLogicalExpression(node)

	case *ast.Ternary:
		condition, err := i.evaluate(node.Condition)
		if err != nil {
			return nil, err
		}
		if object.Truthy(condition) {
			return i.evaluate(node.Then)
		}
		return i.evaluate(node.Else)

	case *ast.Variable:
		return i.lookUpVariable(node.Name, node)

	case *ast.This:
		return i.lookUpVariable(node.Keyword, node)

	case *ast.Assign:
		value, err := i.evaluate(node.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := i.locals[node]; ok {
			i.env.AssignAt(distance, node.Name, value)
			return value, nil
		}
		if err := i.globals.Assign(node.Name, value); err != nil {
			return nil, err
		}
		return value, nil

	case *ast.Call:
		return i.evalCallExpression(node)

	case *ast.Get:
		obj, err := i.evaluate(node.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, object.NewRuntimeError(node.Name, "Only instances have properties.")
		}
		return instance.Get(node.Name)

	case *ast.Set:
		obj, err := i.evaluate(node.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, object.NewRuntimeError(node.Name, "Only instances have fields.")
		}
		value, err := i.evaluate(node.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(node.Name, value)
		return value, nil
	}

	return nil, object.NewNodeError(expr, "Unknown expression %T.", expr)
}

// lookUpVariable reads a resolved local by distance and falls back to the
// globals for anything the resolver left unbound.
func (i *Interpreter) lookUpVariable(name token.Token, expr ast.Expression) (object.Object, error) {
	if distance, ok := i.locals[expr]; ok {
		return i.env.GetAt(distance, name.Lexeme), nil
	}
	return i.globals.Get(name)
}

func (i *Interpreter) evalLogicalExpression(node *ast.Logical) (object.Object, error) {
	left, err := i.evaluate(node.Left)
	if err != nil {
		return nil, err
	}

	if node.Operator.Type == token.OR {
		if object.Truthy(left) {
			return left, nil
		}
	} else if !object.Truthy(left) {
		return left, nil
	}

	return i.evaluate(node.Right)
}

func (i *Interpreter) evalPrefixExpression(operator token.Token, right object.Object) (object.Object, error) {
	switch operator.Type {
	case token.BANG:
		return object.NativeBool(!object.Truthy(right)), nil
	case token.MINUS:
		return i.evalMinusPrefixOperatorExpression(operator, right)
	}
	return nil, object.NewRuntimeError(operator, "Unknown operator '%s'.", operator.Lexeme)
}

func (i *Interpreter) evalMinusPrefixOperatorExpression(operator token.Token, right object.Object) (object.Object, error) {
	number, ok := right.(*object.Number)
	if !ok {
		return nil, object.NewRuntimeError(operator, "Operand must be a number.")
	}
	return &object.Number{Value: -number.Value}, nil
}

func (i *Interpreter) evalInfixExpression(operator token.Token, left, right object.Object) (object.Object, error) {
	switch operator.Type {
	case token.EQ:
		return object.NativeBool(object.Equal(left, right)), nil
	case token.NOT_EQ:
		return object.NativeBool(!object.Equal(left, right)), nil
	case token.PLUS:
		return i.evalPlusExpression(operator, left, right)
	}

	l, lok := left.(*object.Number)
	r, rok := right.(*object.Number)
	if !lok || !rok {
		return nil, object.NewRuntimeError(operator, "Operands must be numbers.")
	}
	return i.evalNumberInfixExpression(operator, l.Value, r.Value)
}

// evalPlusExpression adds two numbers or concatenates two strings. Mixed
// operands are rejected; str() converts explicitly.
func (i *Interpreter) evalPlusExpression(operator token.Token, left, right object.Object) (object.Object, error) {
	switch l := left.(type) {
	case *object.Number:
		if r, ok := right.(*object.Number); ok {
			return &object.Number{Value: l.Value + r.Value}, nil
		}
	case *object.String:
		if r, ok := right.(*object.String); ok {
			return &object.String{Value: l.Value + r.Value}, nil
		}
	}
	return nil, object.NewRuntimeError(operator, "Operands must be two numbers or two strings.")
}

func (i *Interpreter) evalNumberInfixExpression(operator token.Token, l, r float64) (object.Object, error) {
	switch operator.Type {
	case token.MINUS:
		return &object.Number{Value: l - r}, nil
	case token.ASTERISK:
		return &object.Number{Value: l * r}, nil
	case token.SLASH:
		if r == 0 {
			return nil, object.NewRuntimeError(operator, "Division by zero.")
		}
		return &object.Number{Value: l / r}, nil
	case token.GT:
		return object.NativeBool(l > r), nil
	case token.GT_EQ:
		return object.NativeBool(l >= r), nil
	case token.LT:
		return object.NativeBool(l < r), nil
	case token.LT_EQ:
		return object.NativeBool(l <= r), nil
	}
	return nil, object.NewRuntimeError(operator, "Unknown operator '%s'.", operator.Lexeme)
}

func (i *Interpreter) evalExpressions(exps []ast.Expression) ([]object.Object, error) {
	result := make([]object.Object, 0, len(exps))

	for _, exp := range exps {
		evaluated, err := i.evaluate(exp)
		if err != nil {
			return nil, err
		}
		result = append(result, evaluated)
	}

	return result, nil
}

func (i *Interpreter) evalCallExpression(node *ast.Call) (object.Object, error) {
	callee, err := i.evaluate(node.Callee)
	if err != nil {
		return nil, err
	}

	args, err := i.evalExpressions(node.Arguments)
	if err != nil {
		return nil, err
	}

	fn, ok := callee.(object.Callable)
	if !ok {
		return nil, object.NewRuntimeError(node.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, object.NewRuntimeError(node.Paren,
			"Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	return i.applyFunction(fn, args, node.Paren)
}

func (i *Interpreter) applyFunction(fn object.Callable, args []object.Object, paren token.Token) (object.Object, error) {
	if i.depth >= i.maxDepth {
		return nil, &stackOverflowError{paren: paren}
	}
	i.depth++
	defer func() { i.depth-- }()

	result, err := fn.Call(i, args)
	if err != nil {
		// native failures carry no location; pin them to the call
		var located diag.Located
		if !errors.As(err, &located) {
			return nil, object.NewRuntimeError(paren, "%s", err.Error())
		}
		return nil, err
	}
	return result, nil
}

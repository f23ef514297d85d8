package object

import (
	"strconv"

	"tan/internal/ast"
)

const (
	NIL_OBJ      = "NIL"
	BOOLEAN_OBJ  = "BOOLEAN"
	NUMBER_OBJ   = "NUMBER"
	STRING_OBJ   = "STRING"
	FUNCTION_OBJ = "FUNCTION"
	NATIVE_OBJ   = "NATIVE"
	CLASS_OBJ    = "CLASS"
	INSTANCE_OBJ = "INSTANCE"
)

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

// Executor runs a function body. The evaluator implements it; values only
// need it to invoke user code.
type Executor interface {
	ExecuteBlock(statements []ast.Statement, env *Environment) (Completion, error)
}

// Callable is implemented by every value that can appear on the left of a
// call expression.
type Callable interface {
	Object
	Arity() int
	Call(exec Executor, args []Object) (Object, error)
}

// Completion reports how a statement finished. Returning is set by a
// `return` statement and travels up to the nearest function call, which
// consumes it. It is never an error.
type Completion struct {
	Returning bool
	Value     Object
}

// Normal is the completion of a statement that ran to its end.
var Normal = Completion{}

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }

// Inspect prints integral values without a fractional part: 3.0 is "3".
func (n *Number) Inspect() string { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// NativeFunction is the Go side of a built-in. Returned errors are turned
// into runtime errors located at the call site.
type NativeFunction func(args []Object) (Object, error)

type Native struct {
	Name   string
	Params int
	Fn     NativeFunction
}

func (n *Native) Type() ObjectType { return NATIVE_OBJ }
func (n *Native) Inspect() string  { return "<native fn " + n.Name + ">" }
func (n *Native) Arity() int       { return n.Params }
func (n *Native) Call(_ Executor, args []Object) (Object, error) {
	result, err := n.Fn(args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return NIL, nil
	}
	return result, nil
}

func NativeBool(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// FromValue converts a literal value produced by the lexer into an Object.
func FromValue(v any) Object {
	switch v := v.(type) {
	case bool:
		return NativeBool(v)
	case float64:
		return &Number{Value: v}
	case string:
		return &String{Value: v}
	}
	return NIL
}

// Truthy reports whether obj counts as true in a condition. Only nil and
// false are falsy.
func Truthy(obj Object) bool {
	switch obj := obj.(type) {
	case nil, *Nil:
		return false
	case *Boolean:
		return obj.Value
	}
	return true
}

// Equal compares two values. nil only equals nil, scalars compare by value
// and everything else compares by identity.
func Equal(a, b Object) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	switch a := a.(type) {
	case *Boolean:
		if b, ok := b.(*Boolean); ok {
			return a.Value == b.Value
		}
		return false
	case *Number:
		if b, ok := b.(*Number); ok {
			return a.Value == b.Value
		}
		return false
	case *String:
		if b, ok := b.(*String); ok {
			return a.Value == b.Value
		}
		return false
	}
	return a == b
}

// Stringify is the text `print` writes for obj.
func Stringify(obj Object) string {
	if obj == nil {
		return "nil"
	}
	return obj.Inspect()
}

func isNil(obj Object) bool {
	if obj == nil {
		return true
	}
	_, ok := obj.(*Nil)
	return ok
}

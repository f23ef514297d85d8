package object

import (
	"sync/atomic"

	"tan/internal/token"
)

var nextID atomic.Uint64

// Environment is one lexical scope. Scopes are shared by pointer between
// the interpreter and every closure that captured them, so an assignment
// made through one holder is seen by all of them.
type Environment struct {
	ID     uint64
	Values map[string]Object
	Outer  *Environment
}

func nextEnvID() uint64 {
	return nextID.Add(1)
}

func NewEnvironment() *Environment {
	return &Environment{
		ID:     nextEnvID(),
		Values: make(map[string]Object),
	}
}

// NewEnclosedEnvironment creates a scope whose parent is outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	return env
}

// Define binds name in this scope, replacing any earlier binding of the
// same name here. Outer scopes are not touched.
func (e *Environment) Define(name string, value Object) {
	e.Values[name] = value
}

// Get looks name up in this scope and then its ancestors.
func (e *Environment) Get(name token.Token) (Object, error) {
	for env := e; env != nil; env = env.Outer {
		if value, ok := env.Values[name.Lexeme]; ok {
			return value, nil
		}
	}
	return nil, NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Assign updates the nearest existing binding of name. It never creates a
// binding.
func (e *Environment) Assign(name token.Token, value Object) error {
	for env := e; env != nil; env = env.Outer {
		if _, ok := env.Values[name.Lexeme]; ok {
			env.Values[name.Lexeme] = value
			return nil
		}
	}
	return NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Ancestor walks exactly distance parent links; 0 is e itself.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.Outer
	}
	return env
}

// GetAt reads name from the scope distance links up without searching
// further. Distances come from the resolver, which only records names that
// exist in that scope.
func (e *Environment) GetAt(distance int, name string) Object {
	if value, ok := e.Ancestor(distance).Values[name]; ok {
		return value
	}
	return NIL
}

func (e *Environment) AssignAt(distance int, name token.Token, value Object) {
	e.Ancestor(distance).Values[name.Lexeme] = value
}

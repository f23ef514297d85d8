package object

import (
	"tan/internal/ast"
	"tan/internal/token"
)

// Function is a user-defined function or method together with the
// environment it was declared in.
type Function struct {
	Declaration   *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "<fn " + f.Declaration.Name.Lexeme + ">" }
func (f *Function) Arity() int       { return len(f.Declaration.Params) }

// Bind returns a copy of f whose closure has `this` bound to instance. The
// new scope sits directly above the original closure.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnclosedEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}

// Call binds args to the parameters in a fresh scope and runs the body.
// Initializers always produce the bound instance.
func (f *Function) Call(exec Executor, args []Object) (Object, error) {
	env := NewEnclosedEnvironment(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	completion, err := exec.ExecuteBlock(f.Declaration.Body, env)
	if err != nil {
		return nil, err
	}

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	if completion.Returning && completion.Value != nil {
		return completion.Value, nil
	}
	return NIL, nil
}

type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return "<class " + c.Name + ">" }

// FindMethod looks name up on c and then along the superclass chain.
func (c *Class) FindMethod(name string) *Function {
	for class := c; class != nil; class = class.Superclass {
		if method, ok := class.Methods[name]; ok {
			return method
		}
	}
	return nil
}

func (c *Class) Arity() int {
	if initializer := c.FindMethod("init"); initializer != nil {
		return initializer.Arity()
	}
	return 0
}

// Call instantiates the class and runs its initializer, if any.
func (c *Class) Call(exec Executor, args []Object) (Object, error) {
	instance := NewInstance(c)

	if initializer := c.FindMethod("init"); initializer != nil {
		if _, err := initializer.Bind(instance).Call(exec, args); err != nil {
			return nil, err
		}
	}

	return instance, nil
}

type Instance struct {
	Class  *Class
	Fields map[string]Object
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Object)}
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string  { return "<instance of class " + i.Class.Name + ">" }

// Get returns the field called name, or else the method of that name bound
// to i. Fields shadow methods.
func (i *Instance) Get(name token.Token) (Object, error) {
	if value, ok := i.Fields[name.Lexeme]; ok {
		return value, nil
	}
	if method := i.Class.FindMethod(name.Lexeme); method != nil {
		return method.Bind(i), nil
	}
	return nil, NewRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

// Set creates or overwrites a field.
func (i *Instance) Set(name token.Token, value Object) {
	i.Fields[name.Lexeme] = value
}

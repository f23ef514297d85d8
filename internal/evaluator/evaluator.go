// Package evaluator executes resolved programs by walking the AST.
package evaluator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"

	"tan/internal/ast"
	"tan/internal/diag"
	"tan/internal/foreign"
	"tan/internal/object"
	"tan/internal/token"
)

// DefaultMaxCallDepth bounds nested calls so runaway recursion becomes a
// reportable error instead of exhausting the Go stack.
const DefaultMaxCallDepth = 2048

// ErrStackOverflow is matched with errors.Is on errors caused by exceeding
// the call depth limit.
var ErrStackOverflow = errors.New("stack overflow")

type stackOverflowError struct {
	paren token.Token
}

func (e *stackOverflowError) Error() string { return "Stack overflow." }
func (e *stackOverflowError) Unwrap() error { return ErrStackOverflow }
func (e *stackOverflowError) Location() (*token.Token, int) {
	return &e.paren, e.paren.Line
}

type Interpreter struct {
	globals *object.Environment
	env     *object.Environment // active scope
	locals  map[ast.Expression]int

	out      io.Writer
	diag     *diag.Collector
	logger   *slog.Logger
	registry *foreign.Registry

	maxDepth int
	depth    int
}

type Option func(*Interpreter)

func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

func WithDiagnostics(d *diag.Collector) Option {
	return func(i *Interpreter) { i.diag = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(i *Interpreter) { i.logger = l }
}

// WithRegistry installs the natives of r as globals. Without it only the
// core natives are available.
func WithRegistry(r *foreign.Registry) Option {
	return func(i *Interpreter) { i.registry = r }
}

func WithMaxCallDepth(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxDepth = n
		}
	}
}

func New(opts ...Option) *Interpreter {
	globals := object.NewEnvironment()
	i := &Interpreter{
		globals:  globals,
		env:      globals,
		locals:   make(map[ast.Expression]int),
		out:      os.Stdout,
		maxDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(i)
	}

	if i.diag == nil {
		i.diag = diag.New(os.Stderr)
	}
	if i.logger == nil {
		i.logger = slog.Default()
	}
	if i.registry == nil {
		i.registry = foreign.NewRegistry()
	}

	for _, native := range i.registry.Natives() {
		globals.Define(native.Name, native)
	}

	return i
}

// Globals is the outermost scope. It lives as long as the interpreter.
func (i *Interpreter) Globals() *object.Environment {
	return i.globals
}

// Resolve merges scope distances produced by the resolver. Entries from
// earlier units stay valid because their nodes are never reused.
func (i *Interpreter) Resolve(locals map[ast.Expression]int) {
	maps.Copy(i.locals, locals)
}

// Interpret runs statements in order. The first runtime error is reported
// to diagnostics and ends the unit; globals defined so far survive.
func (i *Interpreter) Interpret(statements []ast.Statement) error {
	for _, stmt := range statements {
		if _, err := i.execute(stmt); err != nil {
			i.diag.RuntimeError(err)
			i.logger.Debug("runtime error",
				slog.String("error", err.Error()),
				slog.Bool("stack_overflow", errors.Is(err, ErrStackOverflow)))
			return err
		}
	}
	return nil
}

// Close releases resources held by natives.
func (i *Interpreter) Close() error {
	return i.registry.Close()
}

// ExecuteBlock runs statements with env as the active scope. The previous
// scope is restored on every exit path.
func (i *Interpreter) ExecuteBlock(statements []ast.Statement, env *object.Environment) (object.Completion, error) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range statements {
		completion, err := i.execute(stmt)
		if err != nil || completion.Returning {
			return completion, err
		}
	}
	return object.Normal, nil
}

func (i *Interpreter) execute(stmt ast.Statement) (object.Completion, error) {
	switch node := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := i.evaluate(node.Expression)
		return object.Normal, err

	case *ast.Print:
		value, err := i.evaluate(node.Expression)
		if err != nil {
			return object.Normal, err
		}
		fmt.Fprintln(i.out, object.Stringify(value))
		return object.Normal, nil

	case *ast.Var:
		var value object.Object = object.NIL
		if node.Initializer != nil {
			var err error
			if value, err = i.evaluate(node.Initializer); err != nil {
				return object.Normal, err
			}
		}
		i.env.Define(node.Name.Lexeme, value)
		return object.Normal, nil

	case *ast.Block:
		return i.ExecuteBlock(node.Statements, object.NewEnclosedEnvironment(i.env))

	case *ast.If:
		condition, err := i.evaluate(node.Condition)
		if err != nil {
			return object.Normal, err
		}
		if object.Truthy(condition) {
			return i.execute(node.Then)
		}
		if node.Else != nil {
			return i.execute(node.Else)
		}
		return object.Normal, nil

	case *ast.While:
		return i.executeWhile(node)

	case *ast.Function:
		fn := &object.Function{Declaration: node, Closure: i.env}
		i.env.Define(node.Name.Lexeme, fn)
		return object.Normal, nil

	case *ast.Return:
		var value object.Object = object.NIL
		if node.Value != nil {
			var err error
			if value, err = i.evaluate(node.Value); err != nil {
				return object.Normal, err
			}
		}
		return object.Completion{Returning: true, Value: value}, nil

	case *ast.Class:
		return object.Normal, i.executeClass(node)
	}

	return object.Normal, object.NewNodeError(stmt, "Unknown statement %T.", stmt)
}

func (i *Interpreter) executeWhile(node *ast.While) (object.Completion, error) {
	for {
		condition, err := i.evaluate(node.Condition)
		if err != nil {
			return object.Normal, err
		}
		if !object.Truthy(condition) {
			return object.Normal, nil
		}
		if node.Body == nil {
			continue
		}

		completion, err := i.execute(node.Body)
		if err != nil || completion.Returning {
			return completion, err
		}
	}
}

// executeClass binds the class name before building the methods so that
// method bodies can refer to the class itself.
func (i *Interpreter) executeClass(node *ast.Class) error {
	var superclass *object.Class
	if node.Superclass != nil {
		value, err := i.evaluate(node.Superclass)
		if err != nil {
			return err
		}
		class, ok := value.(*object.Class)
		if !ok {
			return object.NewRuntimeError(node.Superclass.Name, "Superclass must be a class.")
		}
		superclass = class
	}

	i.env.Define(node.Name.Lexeme, object.NIL)

	methods := make(map[string]*object.Function, len(node.Methods))
	for _, method := range node.Methods {
		methods[method.Name.Lexeme] = &object.Function{
			Declaration:   method,
			Closure:       i.env,
			IsInitializer: method.Name.Lexeme == "init",
		}
	}

	class := &object.Class{Name: node.Name.Lexeme, Superclass: superclass, Methods: methods}
	return i.env.Assign(node.Name, class)
}

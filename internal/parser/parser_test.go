package parser

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"tan/internal/ast"
	"tan/internal/diag"
	"tan/internal/lexer"
)

func parse(t *testing.T, input string) ([]ast.Statement, *diag.Collector, *bytes.Buffer) {
	t.Helper()
	var errs bytes.Buffer
	d := diag.New(&errs)
	tokens := lexer.New(input, d).Tokens()
	program := New(tokens, d).Parse()
	return program, d, &errs
}

func checkParserErrors(t *testing.T, d *diag.Collector, errs *bytes.Buffer) {
	t.Helper()
	if !d.HadError() {
		return
	}
	t.Fatalf("parser has %d errors:\n%s", d.Count(), errs.String())
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3;", "(+ 1 (* 2 3));"},
		{"1 - 2 - 3;", "(- (- 1 2) 3);"},
		{"8 / 4 / 2;", "(/ (/ 8 4) 2);"},
		{"-a * b;", "(* (- a) b);"},
		{"!!a;", "(! (! a));"},
		{"!true == false;", "(== (! true) false);"},
		{"a or b and c;", "(or a (and b c));"},
		{"a and b or c and d;", "(or (and a b) (and c d));"},
		{"a < b == c >= d;", "(== (< a b) (>= c d));"},
		{"a != b <= c;", "(!= a (<= b c));"},
		{"a ? b : c ? d : e;", "(?: a b (?: c d e));"},
		{"a ? b ? c : d : e;", "(?: a (?: b c d) e);"},
		{"a or b ? 1 : 2;", "(?: (or a b) 1 2);"},
		{"x = a ? 1 : 2;", "(= x (?: a 1 2));"},
		{"a = b = c;", "(= a (= b c));"},
		{"a.b.c = 1;", "(.= (. a b) c 1);"},
		{"f(1)(2).x;", "(. (call (call f 1) 2) x);"},
		{"f(a, b + 1);", "(call f a (+ b 1));"},
		{"(1 + 2) * 3;", "(* (group (+ 1 2)) 3);"},
		{`"s" + 1.5;`, `(+ "s" 1.5);`},
		{"this.x;", "(. this x);"},
		{"nil;", "nil;"},
	}

	for _, tt := range tests {
		program, d, errs := parse(t, tt.input)
		checkParserErrors(t, d, errs)

		if len(program) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tt.input, len(program))
		}
		if actual := program[0].String(); actual != tt.expected {
			t.Errorf("%q: expected=%q, got=%q", tt.input, tt.expected, actual)
		}
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"print 1;", "print 1;"},
		{"var a;", "var a;"},
		{"var a = nil;", "var a = nil;"},
		{"{ var a = 1; print a; }", "{ var a = 1; print a; }"},
		{"if (a) print 1; else print 2;", "if a print 1; else print 2;"},
		{"if (a) if (b) print 1; else print 2;", "if a if b print 1; else print 2;"},
		{"while (a) a = a - 1;", "while a (= a (- a 1));"},
		{"function f(a, b) { return a; }", "function f(a, b) { return a; }"},
		{"function g() { return; }", "function g() { return; }"},
		{"class A { m() { } }", "class A { m() { } }"},
		{"class B < A { }", "class B < A { }"},
		{
			"for (var i = 0; i < 3; i = i + 1) print i;",
			"{ var i = 0; while (< i 3) { print i; (= i (+ i 1)); } }",
		},
		{"for (;;) print 1;", "while true print 1;"},
		{"for (; a; ) ;", "while a ;"},
		{"for (i = 0; ; i = i + 1) ;", "{ (= i 0); while true (= i (+ i 1)); }"},
	}

	for _, tt := range tests {
		program, d, errs := parse(t, tt.input)
		checkParserErrors(t, d, errs)

		if len(program) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tt.input, len(program))
		}
		if actual := program[0].String(); actual != tt.expected {
			t.Errorf("%q: expected=%q, got=%q", tt.input, tt.expected, actual)
		}
	}
}

func TestDanglingElseBindsToNearestIf(t *testing.T) {
	program, d, errs := parse(t, "if (a) if (b) print 1; else print 2;")
	checkParserErrors(t, d, errs)

	outer, ok := program[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", program[0])
	}
	if outer.Else != nil {
		t.Errorf("else must bind to the inner if")
	}
	inner, ok := outer.Then.(*ast.If)
	if !ok {
		t.Fatalf("expected inner *ast.If, got %T", outer.Then)
	}
	if inner.Else == nil {
		t.Errorf("inner if lost its else branch")
	}
}

func TestVarInitializerMarker(t *testing.T) {
	program, d, errs := parse(t, "var a; var b = nil;")
	checkParserErrors(t, d, errs)

	a := program[0].(*ast.Var)
	if a.Initializer != nil {
		t.Errorf("var without initializer must have a nil Initializer, got %T", a.Initializer)
	}

	b := program[1].(*ast.Var)
	lit, ok := b.Initializer.(*ast.Literal)
	if !ok || lit.Value != nil {
		t.Errorf("explicit nil initializer must be a nil literal, got %#v", b.Initializer)
	}
}

func TestClassDeclaration(t *testing.T) {
	input := `class B < A {
  init(x) { this.x = x; }
  get() { return this.x; }
}`
	program, d, errs := parse(t, input)
	checkParserErrors(t, d, errs)

	class, ok := program[0].(*ast.Class)
	if !ok {
		t.Fatalf("expected *ast.Class, got %T", program[0])
	}
	if class.Name.Lexeme != "B" {
		t.Errorf("class name wrong. got=%q", class.Name.Lexeme)
	}
	if class.Superclass == nil || class.Superclass.Name.Lexeme != "A" {
		t.Errorf("superclass wrong. got=%v", class.Superclass)
	}
	if len(class.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(class.Methods))
	}
	if class.Methods[0].Name.Lexeme != "init" || len(class.Methods[0].Params) != 1 {
		t.Errorf("init method wrong: %s", class.Methods[0].String())
	}
	if class.Methods[1].Name.Line != 3 {
		t.Errorf("method line wrong. got=%d", class.Methods[1].Name.Line)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input      string
		message    string
		statements int
	}{
		{"1 = 2;", "[line 1] Error at '=': Invalid assignment target.", 1},
		{"a + b = c;", "[line 1] Error at '=': Invalid assignment target.", 1},
		{"print +1;", "[line 1] Error at '+': Unary '+' expressions are not supported.", 0},
		{"var = 1; print 2;", "[line 1] Error at '=': Expect variable name.", 1},
		{"print (1;", "[line 1] Error at ';': Expect ')' after expression.", 0},
		{"a.;", "[line 1] Error at ';': Expect property name after '.'.", 0},
		{"print 1", "[line 1] Error: Expect ';' after value.", 0},
		{"class { }", "[line 1] Error at '{': Expect class name.", 0},
		{"a ? b;", "[line 1] Error at ';': Expect ':' after then branch of ternary expression.", 0},
		{"print super;", "[line 1] Error at 'super': Expect expression.", 0},
		{"function f(1) {}", "[line 1] Error at '1': Expect parameter name.", 0},
		{"{ print 1;\n", "[line 2] Error: Expect '}' after block.", 0},
		{"var 1;\nvar 2;\nprint 3;", "[line 2] Error at '2': Expect variable name.", 1},
	}

	for _, tt := range tests {
		program, d, errs := parse(t, tt.input)

		if !d.HadError() {
			t.Errorf("%q: expected a parse error", tt.input)
			continue
		}
		if !strings.Contains(errs.String(), tt.message) {
			t.Errorf("%q: expected diagnostic %q, got %q", tt.input, tt.message, errs.String())
		}
		if len(program) != tt.statements {
			t.Errorf("%q: expected %d recovered statements, got %d", tt.input, tt.statements, len(program))
		}
	}
}

func TestArgumentLimitIsNotFatal(t *testing.T) {
	input := "f(" + strings.Repeat("a, ", 255) + "a);"
	program, d, errs := parse(t, input)

	if d.Count() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %s", d.Count(), errs.String())
	}
	if !strings.Contains(errs.String(), "Can't have more than 255 arguments.") {
		t.Errorf("unexpected diagnostic %q", errs.String())
	}
	if len(program) != 1 {
		t.Fatalf("call should still be parsed, got %d statements", len(program))
	}
	call := program[0].(*ast.ExpressionStmt).Expression.(*ast.Call)
	if len(call.Arguments) != 256 {
		t.Errorf("expected 256 arguments, got %d", len(call.Arguments))
	}
}

func TestParameterLimit(t *testing.T) {
	params := make([]string, 256)
	for i := range params {
		params[i] = fmt.Sprintf("p%d", i)
	}
	input := "function f(" + strings.Join(params, ", ") + ") {}"
	_, d, errs := parse(t, input)

	if !strings.Contains(errs.String(), "Can't have more than 255 parameters.") {
		t.Errorf("expected parameter limit diagnostic, got %q", errs.String())
	}
	if d.Count() != 1 {
		t.Errorf("expected 1 diagnostic, got %d", d.Count())
	}
}

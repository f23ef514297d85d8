package runner

import (
	"bytes"
	"strings"
	"testing"

	"tan/internal/util"
)

func newRunner(config util.Configuration) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var out, errs bytes.Buffer
	return New(config, &out, &errs, nil), &out, &errs
}

func TestRunStatus(t *testing.T) {
	tests := []struct {
		input    string
		status   Status
		output   string
		errorOut string
	}{
		{"print 1 + 2;", StatusOK, "3\n", ""},
		{"print 1", StatusCompileError, "", "[line 1] Error: Expect ';' after value.\n"},
		{"print 1; return 2;", StatusCompileError, "", "[line 1] Error at 'return': Can't return from top-level code.\n"},
		{"print 1; print nope;", StatusRuntimeError, "1\n", "[line 1] Error at 'nope': Undefined variable 'nope'.\n"},
		{`print "unterminated;`, StatusCompileError, "", "[line 1] Error: Unterminated string.\n[line 1] Error: Expect expression.\n"},
	}

	for _, tt := range tests {
		r, out, errs := newRunner(util.DefaultConfiguration())

		if status := r.Run(tt.input); status != tt.status {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.status, status)
		}
		if out.String() != tt.output {
			t.Errorf("%q: expected output %q, got %q", tt.input, tt.output, out.String())
		}
		if errs.String() != tt.errorOut {
			t.Errorf("%q: expected diagnostics %q, got %q", tt.input, tt.errorOut, errs.String())
		}
	}
}

func TestUnitsShareGlobals(t *testing.T) {
	r, out, _ := newRunner(util.DefaultConfiguration())

	units := []struct {
		input  string
		status Status
	}{
		{"var count = 0; function bump() { count = count + 1; }", StatusOK},
		{"bump(); bump();", StatusOK},
		{"missing();", StatusRuntimeError},
		{"print count;", StatusOK},
	}

	for _, u := range units {
		if status := r.Run(u.input); status != u.status {
			t.Errorf("%q: expected %s, got %s", u.input, u.status, status)
		}
		r.Reset()
	}

	if out.String() != "2\n" {
		t.Errorf("expected 2, got %q", out.String())
	}
}

func TestMaxCallDepthFromConfig(t *testing.T) {
	config := util.DefaultConfiguration()
	config.MaxCallDepth = 10
	r, _, errs := newRunner(config)

	if status := r.Run("function f(n) { return f(n + 1); } f(0);"); status != StatusRuntimeError {
		t.Fatalf("expected runtime error, got %s", status)
	}
	if !strings.Contains(errs.String(), "Stack overflow.") {
		t.Errorf("expected stack overflow, got %q", errs.String())
	}
}

func TestShowSource(t *testing.T) {
	config := util.DefaultConfiguration()
	config.ShowSource = true
	r, _, errs := newRunner(config)

	r.Run("var a = 1;\nprint b;")

	expected := "[line 2] Error at 'b': Undefined variable 'b'.\n" +
		"       1 | var a = 1;\n" +
		"  >    2 | print b;\n"
	if errs.String() != expected {
		t.Errorf("expected %q, got %q", expected, errs.String())
	}
}

func TestDatabaseNativesGated(t *testing.T) {
	r, _, errs := newRunner(util.DefaultConfiguration())
	if status := r.Run(`dbOpen("sqlite3", ":memory:");`); status != StatusRuntimeError {
		t.Errorf("db natives must be undefined by default, got %s", status)
	}
	if !strings.Contains(errs.String(), "Undefined variable 'dbOpen'.") {
		t.Errorf("unexpected diagnostics %q", errs.String())
	}

	config := util.DefaultConfiguration()
	config.EnableDatabase = true
	r, out, _ := newRunner(config)
	defer r.Close()
	if status := r.Run("print dbOpen;"); status != StatusOK {
		t.Fatalf("expected ok, got %s", status)
	}
	if out.String() != "<native fn dbOpen>\n" {
		t.Errorf("got %q", out.String())
	}
}

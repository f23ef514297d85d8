package diag

import (
	"bytes"
	"errors"
	"testing"

	"tan/internal/token"
)

type locatedError struct {
	tok  *token.Token
	line int
}

func (e *locatedError) Error() string                 { return "Boom." }
func (e *locatedError) Location() (*token.Token, int) { return e.tok, e.line }

func TestReportFormats(t *testing.T) {
	plus := token.Token{Type: token.PLUS, Lexeme: "+", Line: 3}
	eof := token.Token{Type: token.EOF, Line: 7}

	tests := []struct {
		report   func(c *Collector)
		expected string
	}{
		{func(c *Collector) { c.Error(2, "Unterminated string.") }, "[line 2] Error: Unterminated string.\n"},
		{func(c *Collector) { c.ErrorAt(plus, "Bad.") }, "[line 3] Error at '+': Bad.\n"},
		{func(c *Collector) { c.ErrorAt(eof, "Expect ';'.") }, "[line 7] Error: Expect ';'.\n"},
		{func(c *Collector) { c.RuntimeError(&locatedError{tok: &plus, line: 3}) }, "[line 3] Error at '+': Boom.\n"},
		{func(c *Collector) { c.RuntimeError(&locatedError{line: 4}) }, "[line 4] Error: Boom.\n"},
	}

	for i, tt := range tests {
		var out bytes.Buffer
		c := New(&out)
		tt.report(c)
		if out.String() != tt.expected {
			t.Errorf("tests[%d]: expected %q, got %q", i, tt.expected, out.String())
		}
	}
}

func TestFlagsAndReset(t *testing.T) {
	c := New(&bytes.Buffer{})

	c.Error(1, "x")
	if !c.HadError() || c.HadRuntimeError() {
		t.Errorf("compile error must only set the compile flag")
	}

	c.RuntimeError(errors.New("plain"))
	if !c.HadRuntimeError() {
		t.Errorf("runtime flag not set")
	}
	if c.Count() != 2 {
		t.Errorf("expected 2 reports, got %d", c.Count())
	}

	c.Reset()
	if c.HadError() || c.HadRuntimeError() || c.Count() != 0 {
		t.Errorf("Reset must clear every flag")
	}
}

func TestSourceExcerpt(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)
	c.SetSource("print 1;\nprint x;\n")

	c.Error(2, "Oops.")

	expected := "[line 2] Error: Oops.\n" +
		"       1 | print 1;\n" +
		"  >    2 | print x;\n"
	if out.String() != expected {
		t.Errorf("expected %q, got %q", expected, out.String())
	}
}

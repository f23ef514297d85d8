// Package diag collects and formats parse, resolve and runtime errors.
//
// A Collector is owned by one pipeline. It records whether a compile-phase
// error (scan, parse, resolve) or a runtime error happened so the caller can
// pick an exit status, and it is reset between independent runs.
package diag

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"tan/internal/token"
	"tan/internal/util"
)

// Located is implemented by errors that know the token or line they belong to.
type Located interface {
	error
	Location() (tok *token.Token, line int)
}

type Collector struct {
	out             io.Writer
	hadError        bool
	hadRuntimeError bool
	count           int

	source string // when set, each report is followed by an excerpt
}

func New(out io.Writer) *Collector {
	if out == nil {
		out = os.Stderr
	}
	return &Collector{out: out}
}

// SetSource enables source excerpts under each report. An empty src
// turns them off.
func (c *Collector) SetSource(src string) {
	c.source = src
}

// Error reports a compile-phase diagnostic that has no token to point at.
func (c *Collector) Error(line int, message string) {
	c.report(line, "", message)
	c.hadError = true
}

// ErrorAt reports a compile-phase diagnostic located at tok.
func (c *Collector) ErrorAt(tok token.Token, message string) {
	c.report(tok.Line, where(&tok), message)
	c.hadError = true
}

// RuntimeError reports an error raised while executing code.
func (c *Collector) RuntimeError(err error) {
	var loc Located
	if errors.As(err, &loc) {
		tok, line := loc.Location()
		c.report(line, where(tok), loc.Error())
	} else {
		c.report(0, "", err.Error())
	}
	c.hadRuntimeError = true
}

func (c *Collector) HadError() bool        { return c.hadError }
func (c *Collector) HadRuntimeError() bool { return c.hadRuntimeError }

// Count returns the number of diagnostics reported since the last Reset.
func (c *Collector) Count() int { return c.count }

// Reset clears both error flags so the collector can serve another run.
func (c *Collector) Reset() {
	c.hadError = false
	c.hadRuntimeError = false
	c.count = 0
}

func (c *Collector) report(line int, at string, message string) {
	c.count++
	slog.Debug("diagnostic",
		slog.Int("line", line),
		slog.String("at", at),
		slog.String("message", message))
	fmt.Fprintf(c.out, "[line %d] Error%s: %s\n", line, at, message)
	if c.source != "" {
		fmt.Fprint(c.out, util.ContextLines(c.source, line))
	}
}

func where(tok *token.Token) string {
	if tok == nil || tok.Type == token.EOF {
		return ""
	}
	return fmt.Sprintf(" at '%s'", tok.Lexeme)
}

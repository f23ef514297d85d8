// Package runner drives source text through lexing, parsing, resolution
// and evaluation on one long-lived interpreter.
package runner

import (
	"io"
	"log/slog"

	"tan/internal/diag"
	"tan/internal/evaluator"
	"tan/internal/foreign"
	"tan/internal/lexer"
	"tan/internal/parser"
	"tan/internal/resolver"
	"tan/internal/util"
)

type Status int

const (
	StatusOK Status = iota
	StatusCompileError
	StatusRuntimeError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusCompileError:
		return "compile error"
	case StatusRuntimeError:
		return "runtime error"
	}
	return "unknown"
}

type Runner struct {
	config util.Configuration
	diag   *diag.Collector
	interp *evaluator.Interpreter
	logger *slog.Logger
}

// New wires a pipeline that prints program output to out and diagnostics
// to errOut.
func New(config util.Configuration, out, errOut io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	d := diag.New(errOut)

	registry := foreign.NewRegistry(
		foreign.WithDatabase(config.EnableDatabase),
		foreign.WithLogger(logger),
	)

	interp := evaluator.New(
		evaluator.WithOutput(out),
		evaluator.WithDiagnostics(d),
		evaluator.WithLogger(logger),
		evaluator.WithRegistry(registry),
		evaluator.WithMaxCallDepth(config.MaxCallDepth),
	)

	return &Runner{config: config, diag: d, interp: interp, logger: logger}
}

// Run executes one unit of source. Scan, parse and resolution errors stop
// the unit before anything runs. Globals defined by earlier units remain
// visible.
func (r *Runner) Run(src string) Status {
	if r.config.ShowSource {
		r.diag.SetSource(src)
		defer r.diag.SetSource("")
	}

	tokens := lexer.New(src, r.diag).Tokens()
	program := parser.New(tokens, r.diag).Parse()
	if r.diag.HadError() {
		r.logger.Debug("unit rejected", slog.String("stage", "parse"), slog.Int("errors", r.diag.Count()))
		return StatusCompileError
	}

	locals := resolver.New(r.diag).Resolve(program)
	if r.diag.HadError() {
		r.logger.Debug("unit rejected", slog.String("stage", "resolve"), slog.Int("errors", r.diag.Count()))
		return StatusCompileError
	}
	r.interp.Resolve(locals)

	r.logger.Debug("---- begin ----", slog.Int("statements", len(program)))
	defer r.logger.Debug("---- done ----")

	if err := r.interp.Interpret(program); err != nil {
		return StatusRuntimeError
	}
	return StatusOK
}

// Reset clears diagnostics so the next unit starts clean.
func (r *Runner) Reset() {
	r.diag.Reset()
}

func (r *Runner) Close() error {
	return r.interp.Close()
}

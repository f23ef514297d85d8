package repl

import (
	"bufio"
	"fmt"
	"io"

	"tan/internal/runner"
)

const PROMPT = "tan> "

// Start reads one line at a time and runs it as its own unit. Definitions
// persist between lines; errors are reported and the loop continues.
func Start(in io.Reader, out io.Writer, r *runner.Runner) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		r.Run(scanner.Text())
		r.Reset()
	}
}

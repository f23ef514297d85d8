package util

import (
	"bytes"
	"fmt"
	"strings"
)

// ContextLines renders the source around errorLine: up to two lines before
// it and the line itself, marked with '>'. Lines are 1-based. It returns ""
// when errorLine is outside src.
func ContextLines(src string, errorLine int) string {
	lines := strings.Split(strings.TrimSuffix(src, "\n"), "\n")
	if errorLine < 1 || errorLine > len(lines) {
		return ""
	}

	var result bytes.Buffer

	startLine := max(errorLine-2, 1)
	for i := startLine; i <= errorLine; i++ {
		if i == errorLine {
			fmt.Fprintf(&result, "  >  %3d | %s\n", i, lines[i-1])
		} else {
			fmt.Fprintf(&result, "     %3d | %s\n", i, lines[i-1])
		}
	}

	return result.String()
}

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/itzCozi/v8build/internal/toolchain"
)

// ArgumentError reports command-line input outside the accepted choices.
type ArgumentError struct {
	Command string
	Arg     string
	Value   string
	Choices []string
	Message string
}

func (e *ArgumentError) Error() string {
	var b strings.Builder
	if e.Command != "" {
		b.WriteString(e.Command + ": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
		return b.String()
	}
	fmt.Fprintf(&b, "argument %s: invalid choice: %q", e.Arg, e.Value)
	if len(e.Choices) > 0 {
		fmt.Fprintf(&b, " (choose from %s)", strings.Join(e.Choices, ", "))
	}
	return b.String()
}

// ExitCode maps an error returned by Run to a process exit status. A failed
// external tool passes its own status through.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var toolErr *toolchain.ExternalToolError
	if errors.As(err, &toolErr) && toolErr.Code > 0 {
		return toolErr.Code
	}
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		return 2
	}
	return 1
}

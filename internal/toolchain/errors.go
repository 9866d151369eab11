package toolchain

import "fmt"

// ExternalToolError is returned when an external tool exits non-zero or
// does not run to completion (not found, killed). Code is -1 in the latter case.
type ExternalToolError struct {
	Tool string
	Code int
	Err  error
}

func (e *ExternalToolError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("%s did not complete: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

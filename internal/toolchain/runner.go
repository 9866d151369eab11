package toolchain

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/itzCozi/v8build/internal/progress"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("part", "toolchain")

// Runner runs one command to completion.
type Runner interface {
	Run(ctx context.Context, c Command) error
}

// ExecRunner runs commands as child processes, one at a time.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	// Quiet captures tool output behind a spinner and only prints it if the
	// tool fails.
	Quiet bool
}

func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	stdout, stderr := r.Stdout, r.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	entry := log.WithField("tool", c.Tool)
	entry.Infof("running %s", c)
	if c.Dir != "" {
		entry.Debugf("working directory %s", c.Dir)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env

	var captured bytes.Buffer
	var spinner *progress.Spinner
	if r.Quiet {
		spinner = progress.NewSpinner(stderr, c.Tool)
		sink := io.MultiWriter(&captured, spinner)
		cmd.Stdout = sink
		cmd.Stderr = sink
	} else {
		cmd.Stdout = stdout
		cmd.Stderr = stderr
	}

	err := toolError(c.Tool, cmd.Run())
	spinner.Finish(err == nil)
	if err != nil {
		if r.Quiet && captured.Len() > 0 {
			_, _ = stderr.Write(captured.Bytes())
		}
		entry.WithError(err).Error("step failed")
		return err
	}
	entry.Debug("step finished")
	return nil
}

func toolError(tool string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExternalToolError{Tool: tool, Code: exitErr.ExitCode(), Err: err}
	}
	return &ExternalToolError{Tool: tool, Code: -1, Err: err}
}

// DryRunner logs commands without running them.
type DryRunner struct {
	Out io.Writer
}

func (r *DryRunner) Run(_ context.Context, c Command) error {
	log.WithField("tool", c.Tool).Debugf("dry run in %s", c.Dir)
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	_, err := io.WriteString(out, c.String()+"\n")
	return err
}

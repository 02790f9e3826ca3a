package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/vk/xposedbuild/internal/ctxlog"
)

// Command is a single external program invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is appended to the inherited environment.
	Env []string

	Stdout io.Writer
	Stderr io.Writer
}

// Script returns a command that runs a bash script.
func Script(script string) Command {
	return Command{Name: "bash", Args: []string{"-c", script}}
}

// String renders the command as a copy-pasteable shell line.
func (c Command) String() string {
	return Join(append([]string{c.Name}, c.Args...)...)
}

// ExitError reports a command that ran but exited unsuccessfully.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d: %s", e.Code, e.Command)
}

// Runner executes commands.
type Runner interface {
	// Run blocks until the command exits. A non-zero exit is reported as
	// *ExitError.
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as real subprocesses.
type ExecRunner struct{}

// Run implements Runner. If ctx is cancelled the whole process group is
// killed so that make and its children do not linger.
func (ExecRunner) Run(ctx context.Context, c Command) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running command.", "cmd", c.String(), "dir", c.Dir)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdin = nil
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	err := cmd.Run()
	if err == nil {
		logger.Debug("Command finished.", "cmd", c.Name)
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return fmt.Errorf("%s interrupted: %w", c.Name, ctx.Err())
		}
		logger.Debug("Command failed.", "cmd", c.Name, "exit_code", exitErr.ExitCode())
		return &ExitError{Command: c.String(), Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to run %s: %w", c.Name, err)
}

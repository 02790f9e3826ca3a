package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/vk/xposedbuild/internal/shell"
)

// FakeRunner is a shell.Runner that records commands instead of executing
// them. Handler, when set, decides each command's outcome and may simulate
// side effects such as writing output files.
type FakeRunner struct {
	mu       sync.Mutex
	commands []shell.Command

	Handler func(cmd shell.Command) error
}

// Run implements shell.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd shell.Command) error {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	handler := f.Handler
	f.mu.Unlock()

	if handler != nil {
		return handler(cmd)
	}
	return nil
}

// Commands returns every recorded command in order.
func (f *FakeRunner) Commands() []shell.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]shell.Command(nil), f.commands...)
}

// Lines returns the recorded commands rendered as shell lines.
func (f *FakeRunner) Lines() []string {
	var lines []string
	for _, c := range f.Commands() {
		lines = append(lines, c.String())
	}
	return lines
}

// CountContaining returns how many recorded command lines contain substr.
func (f *FakeRunner) CountContaining(substr string) int {
	n := 0
	for _, l := range f.Lines() {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}

// FailContaining returns a handler that fails every command whose shell line
// contains substr with the given exit code.
func FailContaining(substr string, code int) func(shell.Command) error {
	return func(cmd shell.Command) error {
		if line := cmd.String(); strings.Contains(line, substr) {
			return &shell.ExitError{Command: line, Code: code}
		}
		return nil
	}
}

package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/console"
	"github.com/vk/xposedbuild/internal/layout"
	"github.com/vk/xposedbuild/internal/shell"
	"github.com/vk/xposedbuild/internal/target"
	"github.com/vk/xposedbuild/internal/version"
)

// Options are the operator switches that change how steps behave.
type Options struct {
	// Incremental rebuilds only the Xposed makefiles.
	Incremental bool
	// Silent sends toolchain output to a log file and shows a live tail.
	Silent bool
	// Release marks the run as a release build, which matters for GPG signing.
	Release bool
}

// Deps is everything a step may use. It is built once by the application
// and shared read-only by all steps.
type Deps struct {
	Config  *config.Model
	Layout  layout.Layout
	Version version.Version
	Runner  shell.Runner
	Console *console.Printer
	Options Options
	// Now is the clock used for log names and archive timestamps.
	Now func() time.Time
}

// Clock returns the current time from Now, or the wall clock if Now is unset.
func (d *Deps) Clock() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// StepFunc runs one step for one job.
type StepFunc func(ctx context.Context, deps *Deps, job target.Job) error

// RegisteredStep is a named unit of the per-job pipeline.
type RegisteredStep struct {
	Name        string
	Description string
	// DeviceOnly steps are skipped for the host pseudo-platforms, which
	// produce nothing that can be packaged.
	DeviceOnly bool
	Fn         StepFunc
}

// RegisterStep appends a step to the execution order.
func (r *Registry) RegisterStep(step *RegisteredStep) {
	if step.Name == "" || step.Fn == nil {
		panic("step must have a name and a function")
	}
	if _, exists := r.byName[step.Name]; exists {
		panic(fmt.Sprintf("step with name '%s' already registered", step.Name))
	}
	slog.Debug("Registering step.", "name", step.Name)
	r.steps = append(r.steps, step)
	r.byName[step.Name] = step
}

// Package pipeline runs the registered build steps for a batch of jobs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/xposedbuild/internal/ctxlog"
	"github.com/vk/xposedbuild/internal/registry"
	"github.com/vk/xposedbuild/internal/target"
)

// ErrStepFailed is matched by every *StepError.
var ErrStepFailed = errors.New("build step failed")

// StepError reports the step that stopped a job.
type StepError struct {
	Job  target.Job
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Step, e.Job, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrStepFailed) hold for any step failure.
func (e *StepError) Is(err error) bool { return err == ErrStepFailed }

// Orchestrator sequences steps per job and jobs per batch.
type Orchestrator struct {
	registry *registry.Registry
	deps     *registry.Deps
	enabled  map[string]bool
}

// ParseSteps splits a comma separated step list. Blank input means all steps.
func ParseSteps(s string) []string {
	var names []string
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		names = append(names, strings.ToLower(f))
	}
	return names
}

// New creates an Orchestrator that runs only the named steps, or every
// registered step when steps is empty.
func New(reg *registry.Registry, deps *registry.Deps, steps []string) (*Orchestrator, error) {
	if err := reg.Validate(steps); err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		steps = reg.Names()
	}
	enabled := make(map[string]bool, len(steps))
	for _, s := range steps {
		enabled[s] = true
	}
	return &Orchestrator{registry: reg, deps: deps, enabled: enabled}, nil
}

// Enabled reports whether a step takes part in the run.
func (o *Orchestrator) Enabled(step string) bool {
	return o.enabled[step]
}

// RunJob runs the enabled steps for one job in registration order and stops
// at the first failure. Later steps are not attempted.
func (o *Orchestrator) RunJob(ctx context.Context, job target.Job) error {
	ctx = ctxlog.With(ctx, "platform", string(job.Platform), "sdk", job.SDK)
	logger := ctxlog.FromContext(ctx)
	o.deps.Console.Status("Processing SDK %d, platform %s", job.SDK, job.Platform)

	for _, step := range o.registry.Steps() {
		if !o.enabled[step.Name] {
			continue
		}
		if step.DeviceOnly && job.Platform.IsHost() {
			logger.Debug("Skipping device-only step for host platform.", "step", step.Name)
			continue
		}
		if err := ctx.Err(); err != nil {
			return &StepError{Job: job, Step: step.Name, Err: err}
		}

		logger.Info("▶️ Starting step", "step", step.Name)
		if err := step.Fn(ctx, o.deps, job); err != nil {
			logger.Error("Step failed.", "step", step.Name, "error", err)
			return &StepError{Job: job, Step: step.Name, Err: err}
		}
		logger.Info("✅ Finished step", "step", step.Name)
	}
	return nil
}

// Run processes jobs in order and aborts the batch on the first failed job.
// Artifacts of jobs that already succeeded are left in place.
func (o *Orchestrator) Run(ctx context.Context, jobs []target.Job) error {
	logger := ctxlog.FromContext(ctx)
	for i, job := range jobs {
		if err := o.RunJob(ctx, job); err != nil {
			o.deps.Console.Error("Build failed for SDK %d, platform %s", job.SDK, job.Platform)
			logger.Debug("Aborting batch.", "completed", i, "remaining", len(jobs)-i-1)
			return err
		}
	}
	o.deps.Console.Success("Build was successful!")
	return nil
}

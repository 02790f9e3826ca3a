package app

import (
	"context"
	"fmt"

	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/ctxlog"
	"github.com/vk/xposedbuild/internal/pipeline"
	"github.com/vk/xposedbuild/internal/registry"
	"github.com/vk/xposedbuild/internal/target"
	"github.com/vk/xposedbuild/internal/version"
	"github.com/vk/xposedbuild/modules/flash"
)

// Run executes the configured action.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "action", a.appConfig.Action)

	var err error
	switch a.appConfig.Action {
	case ActionJava:
		err = a.buildJava(ctx)
	case ActionPruneLogs:
		err = a.pruneLogs(ctx)
	default:
		err = a.build(ctx)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

// Jobs resolves the target specification against the configured source trees.
// Rejected explicit pairs are reported on the console as they are found.
func (a *App) Jobs() ([]target.Job, error) {
	resolver := &target.Resolver{
		KnownSDKs: a.config.SDKs(),
		OnReject: func(err error) {
			a.console.Error("%v", err)
		},
		OnAccept: func(job target.Job) {
			a.console.Detail("%s", job)
		},
	}
	a.console.Status("Resolving targets %q", a.appConfig.Targets)
	jobs, err := resolver.Resolve(a.appConfig.Targets)
	if err != nil {
		a.usage()
		return nil, err
	}
	return jobs, nil
}

func (a *App) build(ctx context.Context) error {
	jobs, err := a.Jobs()
	if err != nil {
		return err
	}
	if a.appConfig.Flash && len(jobs) != 1 {
		return fmt.Errorf("%w: flashing needs exactly one target, got %d", ErrUsage, len(jobs))
	}

	template, err := a.config.Require(config.SectionBuild, "version")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	v, err := version.Parse(template, a.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	a.logger.Debug("Version resolved.", "version", v.Full())

	deps := &registry.Deps{
		Config:  a.config,
		Layout:  a.layout,
		Version: v,
		Runner:  a.runner,
		Console: a.console,
		Options: registry.Options{
			Incremental: a.appConfig.Incremental,
			Silent:      !a.appConfig.Verbose,
			Release:     a.appConfig.Release,
		},
		Now: a.now,
	}

	orch, err := pipeline.New(a.registry, deps, a.appConfig.Steps)
	if err != nil {
		return err
	}

	a.logger.Info("🚀 Starting build.", "jobs", len(jobs))
	if err := orch.Run(ctx, jobs); err != nil {
		return err
	}
	a.logger.Info("🏁 Build finished.")

	if a.appConfig.Flash {
		return flash.Flash(ctx, deps, jobs[0])
	}
	return nil
}

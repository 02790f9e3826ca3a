// Package prop writes the package metadata file into the staging tree.
package prop

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/xposedbuild/internal/registry"
	"github.com/vk/xposedbuild/internal/target"
	"github.com/vk/xposedbuild/internal/version"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the prop step with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStep(&registry.RegisteredStep{
		Name:        "prop",
		Description: "Write xposed.prop into the staging tree.",
		DeviceOnly:  true,
		Fn:          Write,
	})
}

// Write creates system/xposed.prop for job, replacing any previous one.
func Write(_ context.Context, deps *registry.Deps, job target.Job) error {
	deps.Console.Status("Creating xposed.prop ...")
	p := version.NewProp(deps.Version, job)

	path := filepath.Join(deps.Layout.StagingDir(job), filepath.FromSlash(version.PropFile))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := p.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	deps.Console.Values(map[string]string{
		"version": p.Version,
		"arch":    p.Arch,
		"minsdk":  fmt.Sprint(p.MinSDK),
		"maxsdk":  fmt.Sprint(p.MaxSDK),
	})
	return nil
}

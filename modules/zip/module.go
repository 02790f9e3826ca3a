// Package zip turns a staged job into a flashable, optionally signed package
// and links it into the version collection.
package zip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/ctxlog"
	"github.com/vk/xposedbuild/internal/registry"
	"github.com/vk/xposedbuild/internal/shell"
	"github.com/vk/xposedbuild/internal/target"
)

// SigExt is appended to the package name for its detached GPG signature.
const SigExt = ".sig"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the zip step with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStep(&registry.RegisteredStep{
		Name:        "zip",
		Description: "Package, sign and link the staged files.",
		DeviceOnly:  true,
		Fn:          Package,
	})
}

// StaticDirs are the asset directories merged below the staged files, in
// override order.
func StaticDirs(staticRoot string, job target.Job) []string {
	return []string{
		filepath.Join(staticRoot, "_all"),
		filepath.Join(staticRoot, job.Platform.Arch()),
	}
}

// Package builds the job's zip from the static assets and the staging tree,
// signs it and updates the latest and version links.
func Package(ctx context.Context, deps *registry.Deps, job target.Job) error {
	logger := ctxlog.FromContext(ctx)
	deps.Console.Status("Creating the flashable zip ...")

	staging := deps.Layout.StagingDir(job)
	if _, err := os.Stat(staging); err != nil {
		return fmt.Errorf("nothing staged for %s: %w", job, err)
	}
	staticRoot := deps.Config.ResolvePathDefault(config.SectionGeneral, "zipstatic", "zipstatic")
	entries, err := Entries(append(StaticDirs(staticRoot, job), staging)...)
	if err != nil {
		return err
	}
	logger.Debug("Collected archive entries.", "count", len(entries))

	artifact := deps.Layout.Artifact(job, deps.Version)
	if err := os.MkdirAll(filepath.Dir(artifact), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(artifact), err)
	}
	unsigned := artifact + ".unsigned"
	defer os.Remove(unsigned)
	if err := WriteArchive(unsigned, entries, deps.Clock()); err != nil {
		return err
	}

	if err := signAPK(ctx, deps, unsigned, artifact); err != nil {
		return err
	}
	signed, err := signGPG(ctx, deps, artifact)
	if err != nil {
		return err
	}

	if err := link(deps, job, artifact, signed); err != nil {
		return err
	}
	deps.Console.Detail("%s", artifact)
	return nil
}

func signAPK(ctx context.Context, deps *registry.Deps, unsigned, signed string) error {
	signapk := deps.Config.ResolvePath(config.SectionGeneral, "signapk")
	if signapk == "" {
		deps.Console.Warn("signapk is not configured, the zip will not be signed")
		if err := os.Rename(unsigned, signed); err != nil {
			return fmt.Errorf("failed to move %s: %w", unsigned, err)
		}
		return nil
	}

	var keys []string
	for _, key := range []string{"signcert", "signkey"} {
		if _, err := deps.Config.Require(config.SectionGeneral, key); err != nil {
			return err
		}
		keys = append(keys, deps.Config.ResolvePath(config.SectionGeneral, key))
	}

	deps.Console.Status("Signing the zip ...")
	cmd := shell.Command{
		Name: "java",
		Args: []string{"-jar", signapk, "-w", keys[0], keys[1], unsigned, signed},
	}
	if err := deps.Runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("signing failed: %w", err)
	}
	return nil
}

// GPGEnabled reports whether a detached signature is created under policy.
func GPGEnabled(policy string, release bool) bool {
	switch policy {
	case "all":
		return true
	case "release", "release-only":
		return release
	}
	return false
}

func signGPG(ctx context.Context, deps *registry.Deps, artifact string) (bool, error) {
	sig := artifact + SigExt
	policy := deps.Config.GetDefault(config.SectionGPG, "sign", "none")
	if !GPGEnabled(policy, deps.Options.Release) {
		if err := os.Remove(sig); err != nil && !errors.Is(err, os.ErrNotExist) {
			return false, err
		}
		return false, nil
	}

	deps.Console.Status("Signing with GPG ...")
	args := []string{"--yes", "--detach-sign"}
	if user := deps.Config.Get(config.SectionGPG, "user"); user != "" {
		args = append(args, "-u", user)
	}
	args = append(args, artifact)
	if err := deps.Runner.Run(ctx, shell.Command{Name: "gpg", Args: args}); err != nil {
		return false, fmt.Errorf("gpg signing failed: %w", err)
	}
	return true, nil
}

func link(deps *registry.Deps, job target.Job, artifact string, signed bool) error {
	if err := replaceSymlink(filepath.Base(artifact), deps.Layout.LatestLink(job)); err != nil {
		return err
	}

	versionDir := deps.Layout.VersionDir(deps.Version)
	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", versionDir, err)
	}
	files := []string{artifact}
	if signed {
		files = append(files, artifact+SigExt)
	}
	for _, file := range files {
		rel, err := filepath.Rel(versionDir, file)
		if err != nil {
			return err
		}
		if err := replaceSymlink(rel, filepath.Join(versionDir, filepath.Base(file))); err != nil {
			return err
		}
	}
	return nil
}

func replaceSymlink(to, link string) error {
	if err := os.Remove(link); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to replace %s: %w", link, err)
	}
	if err := os.Symlink(to, link); err != nil {
		return fmt.Errorf("failed to link %s: %w", link, err)
	}
	return nil
}

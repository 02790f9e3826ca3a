// Package collect stages the compiled files of a job for packaging.
package collect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/otiai10/copy"

	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/ctxlog"
	"github.com/vk/xposedbuild/internal/registry"
	"github.com/vk/xposedbuild/internal/target"
)

// Staged paths that do not come from the product directory.
const (
	BridgeJarPath = "system/framework/XposedBridge.jar"
	BusyBoxPath   = "xposed/busybox"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the collect step with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStep(&registry.RegisteredStep{
		Name:        "collect",
		Description: "Copy build outputs into the staging tree.",
		DeviceOnly:  true,
		Fn:          Collect,
	})
}

// Manifest lists the files, relative to the product directory, that make up
// the package of a job.
func Manifest(job target.Job) []string {
	if job.SDK < 21 {
		return []string{
			"system/bin/app_process_xposed",
			"system/lib/libxposed_dalvik.so",
		}
	}

	files := []string{
		"system/bin/app_process32_xposed",
		"system/lib/libxposed_art.so",
		"system/lib/libart.so",
		"system/lib/libart-compiler.so",
	}
	// On arm64 the disassembler only ships as a 64-bit library.
	if job.Platform != target.ARM64 {
		files = append(files, "system/lib/libart-disassembler.so")
	}
	files = append(files,
		"system/lib/libsigchain.so",
		"system/bin/dex2oat",
		"system/bin/oatdump",
		"system/bin/patchoat",
	)
	if job.Platform == target.ARM64 {
		files = append(files,
			"system/bin/app_process64_xposed",
			"system/lib64/libxposed_art.so",
			"system/lib64/libart.so",
			"system/lib64/libart-compiler.so",
			"system/lib64/libart-disassembler.so",
			"system/lib64/libsigchain.so",
		)
	}
	return files
}

// ProductDir is where the toolchain leaves the built files of job in root.
func ProductDir(root string, job target.Job) string {
	return filepath.Join(root, target.OutDir(job), "target", "product", target.Product(job))
}

// Collect wipes the staging tree and fills it with the manifest files, the
// framework jar and, when configured, a prebuilt busybox.
func Collect(ctx context.Context, deps *registry.Deps, job target.Job) error {
	logger := ctxlog.FromContext(ctx)
	deps.Console.Status("Collecting compiled files ...")

	root, err := deps.Config.AospDir(job.SDK)
	if err != nil {
		return err
	}
	productDir := ProductDir(root, job)
	staging := deps.Layout.StagingDir(job)

	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("failed to clean %s: %w", staging, err)
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", staging, err)
	}

	for _, rel := range Manifest(job) {
		if err := stage(filepath.Join(productDir, rel), staging, rel); err != nil {
			return err
		}
		deps.Console.Detail("%s", rel)
	}

	if err := stage(deps.Layout.BridgeJar(), staging, BridgeJarPath); err != nil {
		return fmt.Errorf("%w (run the java action first)", err)
	}
	deps.Console.Detail("%s", BridgeJarPath)

	bb, ok := deps.Config.Lookup(config.SectionBusyBox, string(job.Platform))
	if !ok || bb == "" {
		logger.Debug("No busybox configured.")
		return nil
	}
	bbSDK, err := strconv.Atoi(bb)
	if err != nil {
		return fmt.Errorf("[%s] %s must name an SDK, got %q", config.SectionBusyBox, job.Platform, bb)
	}
	bbRoot, err := deps.Config.AospDir(bbSDK)
	if err != nil {
		return err
	}
	src := filepath.Join(ProductDir(bbRoot, job), "system", "xbin", "busybox")
	if err := stage(src, staging, BusyBoxPath); err != nil {
		return err
	}
	deps.Console.Detail("%s", BusyBoxPath)
	return nil
}

func stage(src, staging, rel string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("missing build output: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("build output %s is not a regular file", src)
	}
	dst := filepath.Join(staging, filepath.FromSlash(rel))
	if err := copy.Copy(src, dst); err != nil {
		return fmt.Errorf("failed to copy %s: %w", rel, err)
	}
	return nil
}

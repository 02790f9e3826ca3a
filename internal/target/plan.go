package target

import (
	"fmt"
	"strings"
)

// DefaultMakeFlags is used when no make flags are configured.
const DefaultMakeFlags = "-j4"

// BuildFlags derives the make flags for a job. The configured base flags come
// first; platform specific flags are appended so that they win under the
// toolchain's last-assignment-wins semantics.
func BuildFlags(base string, job Job) []string {
	if strings.TrimSpace(base) == "" {
		base = DefaultMakeFlags
	}
	flags := strings.Fields(base)

	switch {
	case job.Platform == ARMv5:
		flags = append(flags,
			"OUT_DIR=out_armv5",
			"TARGET_ARCH_VARIANT=armv5te",
			"ARCH_ARM_HAVE_TLS_REGISTER=false",
			"TARGET_CPU_SMP=false",
		)
	case job.SDK < 23:
		flags = append(flags, "TARGET_CPU_SMP=true")
	case job.Platform == X86:
		flags = append(flags, "ART_TARGET_CFLAGS=-march=prescott")
	}
	return flags
}

// LunchMode returns the build configuration selected with `lunch`.
func LunchMode(job Job) (string, error) {
	switch job.Platform {
	case ARM, ARMv5, Host, HostDebug:
		if job.SDK <= 17 {
			return "full-eng", nil
		}
		return "aosp_arm-eng", nil
	case X86:
		if job.SDK <= 17 {
			return "full_x86-eng", nil
		}
		return "aosp_x86-eng", nil
	case ARM64:
		if job.SDK >= 21 {
			return "aosp_arm64-eng", nil
		}
	}
	return "", fmt.Errorf("no lunch mode for %s", job)
}

// OutDir is the build output directory relative to the source tree.
func OutDir(job Job) string {
	if job.Platform == ARMv5 {
		return "out_armv5"
	}
	return "out"
}

// Product is the lunch product whose output directory holds the artifacts.
func Product(job Job) string {
	switch job.Platform {
	case X86:
		return "generic_x86"
	case ARM64:
		return "generic_arm64"
	}
	return "generic"
}

// MakeTargets lists the modules built by a full (non-incremental) build.
func MakeTargets(job Job) []string {
	switch {
	case job.Platform == Host:
		return []string{"libart", "libxposed_art", "dex2oat"}
	case job.Platform == HostDebug:
		return []string{"libartd", "libxposed_art", "dex2oatd"}
	case job.SDK < 21:
		return []string{"app_process_xposed", "libxposed_dalvik"}
	}
	return []string{
		"app_process_xposed",
		"libxposed_art",
		"libart",
		"libart-compiler",
		"libart-disassembler",
		"libsigchain",
		"dex2oat",
		"oatdump",
		"patchoat",
	}
}

// Makefiles lists the makefiles an incremental build is restricted to.
func Makefiles(job Job) []string {
	files := []string{"frameworks/base/cmds/xposed/Android.mk"}
	if job.SDK >= 21 {
		files = append(files,
			"art/runtime/Android.mk",
			"art/compiler/Android.mk",
			"art/disassembler/Android.mk",
			"art/sigchainlib/Android.mk",
			"art/dex2oat/Android.mk",
			"art/oatdump/Android.mk",
			"art/patchoat/Android.mk",
		)
	}
	return files
}

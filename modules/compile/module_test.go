package compile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/shell"
	"github.com/vk/xposedbuild/internal/target"
	"github.com/vk/xposedbuild/internal/testutil"
)

func TestScript(t *testing.T) {
	testCases := []struct {
		name        string
		job         target.Job
		flags       string
		incremental bool
		want        string
	}{
		{
			name: "kitkat arm full build",
			job:  target.Job{Platform: target.ARM, SDK: 19},
			want: "cd /src/19 && . build/envsetup.sh >/dev/null && lunch aosp_arm-eng >/dev/null && " +
				"make -j4 TARGET_CPU_SMP=true app_process_xposed libxposed_dalvik",
		},
		{
			name:  "marshmallow x86 with custom flags",
			job:   target.Job{Platform: target.X86, SDK: 23},
			flags: "-j8 showcommands",
			want: "cd /src/23 && . build/envsetup.sh >/dev/null && lunch aosp_x86-eng >/dev/null && " +
				"make -j8 showcommands ART_TARGET_CFLAGS=-march=prescott app_process_xposed libxposed_art libart " +
				"libart-compiler libart-disassembler libsigchain dex2oat oatdump patchoat",
		},
		{
			name:        "incremental dalvik",
			job:         target.Job{Platform: target.ARMv5, SDK: 17},
			incremental: true,
			want: "cd /src/17 && . build/envsetup.sh >/dev/null && lunch full-eng >/dev/null && " +
				"ONE_SHOT_MAKEFILE=frameworks/base/cmds/xposed/Android.mk make -C /src/17 -f build/core/main.mk " +
				"-j4 OUT_DIR=out_armv5 TARGET_ARCH_VARIANT=armv5te ARCH_ARM_HAVE_TLS_REGISTER=false TARGET_CPU_SMP=false all_modules",
		},
		{
			name: "host debug",
			job:  target.Job{Platform: target.HostDebug, SDK: 21},
			want: "cd /src/21 && . build/envsetup.sh >/dev/null && lunch aosp_arm-eng >/dev/null && " +
				"make -j4 TARGET_CPU_SMP=true libartd libxposed_art dex2oatd",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Script(fmt.Sprintf("/src/%d", tc.job.SDK), tc.job, tc.flags, tc.incremental)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScript_IncrementalArtQuotesMakefiles(t *testing.T) {
	got, err := Script("/src/my tree", target.Job{Platform: target.ARM64, SDK: 22}, "", true)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "cd '/src/my tree' && "))
	assert.Contains(t, got, "ONE_SHOT_MAKEFILE='frameworks/base/cmds/xposed/Android.mk art/runtime/Android.mk ")
	assert.Contains(t, got, "art/patchoat/Android.mk' make -C '/src/my tree' -f build/core/main.mk")
	assert.True(t, strings.HasSuffix(got, " all_modules"))
}

func TestScript_NoLunchMode(t *testing.T) {
	_, err := Script("/src", target.Job{Platform: target.ARM64, SDK: 19}, "", false)
	require.Error(t, err)
}

func TestCompile_Verbose(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Runner.Handler = func(cmd shell.Command) error {
		fmt.Fprintln(cmd.Stdout, "make: Entering directory")
		return nil
	}

	err := Compile(context.Background(), f.Deps, target.Job{Platform: target.ARM, SDK: 21})

	require.NoError(t, err)
	cmds := f.Runner.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "bash", cmds[0].Name)
	assert.Contains(t, cmds[0].Args[1], "cd "+f.Path("aosp", "21")+" && ")
	assert.Contains(t, f.Console.String(), "make: Entering directory")
	assert.NoDirExists(t, f.Deps.Layout.LogDir(target.Job{Platform: target.ARM, SDK: 21}))
}

func TestCompile_MissingSourceTree(t *testing.T) {
	f := testutil.NewFixture(t)

	err := Compile(context.Background(), f.Deps, target.Job{Platform: target.ARM, SDK: 22})

	require.ErrorIs(t, err, config.ErrMissingKey)
	assert.Empty(t, f.Runner.Commands())
}

func TestCompile_SilentSuccessWritesLog(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Deps.Options.Silent = true
	job := target.Job{Platform: target.X86, SDK: 19}
	f.Runner.Handler = func(cmd shell.Command) error {
		fmt.Fprintln(cmd.Stdout, "target thumb C++: app_process_xposed")
		return nil
	}

	require.NoError(t, Compile(context.Background(), f.Deps, job))

	logPath := filepath.Join(f.Deps.Layout.LogDir(job), "build_20240309_143008.log")
	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "target thumb C++: app_process_xposed\n", string(content))
	assert.Contains(t, f.Console.String(), "Log: "+logPath)
	assert.NotContains(t, f.Console.String(), "Compilation failed")
}

func TestCompile_SilentFailureShowsLastLines(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Deps.Options.Silent = true
	f.Runner.Handler = func(cmd shell.Command) error {
		for i := 1; i <= 15; i++ {
			fmt.Fprintf(cmd.Stdout, "line %02d\n", i)
		}
		return &shell.ExitError{Command: "bash", Code: 2}
	}

	err := Compile(context.Background(), f.Deps, target.Job{Platform: target.ARM, SDK: 19})

	var exitErr *shell.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	out := f.Console.String()
	assert.Contains(t, out, "Compilation failed")
	assert.Contains(t, out, "line 06")
	assert.Contains(t, out, "line 15")
	assert.NotContains(t, out, "    line 05")
}

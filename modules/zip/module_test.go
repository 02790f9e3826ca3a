package zip

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/shell"
	"github.com/vk/xposedbuild/internal/target"
	"github.com/vk/xposedbuild/internal/testutil"
)

var arm21 = target.Job{Platform: target.ARM, SDK: 21}

func stageJob(t *testing.T, f *testutil.Fixture, job target.Job) {
	t.Helper()
	staging := f.Deps.Layout.StagingDir(job)
	writeFile(t, filepath.Join(staging, "system/xposed.prop"), "version=89-test\n", 0o644)
	writeFile(t, filepath.Join(staging, "system/bin/app_process32_xposed"), "elf", 0o755)
	writeFile(t, f.Path("zipstatic", "_all", "META-INF/com/google/android/flash-script.sh"), "#!/sbin/sh", 0o644)
	writeFile(t, f.Path("zipstatic", "arm", "META-INF/com/google/android/update-binary"), "arm", 0o755)
	writeFile(t, f.Path("zipstatic", "x86", "META-INF/com/google/android/update-binary"), "x86", 0o755)
}

func TestGPGEnabled(t *testing.T) {
	testCases := []struct {
		policy  string
		release bool
		want    bool
	}{
		{"all", false, true},
		{"all", true, true},
		{"release", false, false},
		{"release", true, true},
		{"release-only", true, true},
		{"none", true, false},
		{"", true, false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, GPGEnabled(tc.policy, tc.release), "policy=%q release=%v", tc.policy, tc.release)
	}
}

func TestPackage_Unsigned(t *testing.T) {
	f := testutil.NewFixture(t)
	stageJob(t, f, arm21)

	require.NoError(t, Package(context.Background(), f.Deps, arm21))

	artifact := f.Path("out", "sdk21", "arm", "xposed-v89-sdk21-arm-test.zip")
	contents, files := readArchive(t, artifact)
	assert.Equal(t, map[string]string{
		"META-INF/com/google/android/flash-script.sh": "#!/sbin/sh",
		"META-INF/com/google/android/update-binary":   "arm",
		"system/bin/app_process32_xposed":             "elf",
		"system/xposed.prop":                          "version=89-test\n",
	}, contents)
	for _, zf := range files {
		assert.True(t, zf.Modified.Equal(testutil.FixedNow), zf.Name)
	}

	assert.Empty(t, f.Runner.Commands())
	assert.Contains(t, f.Console.String(), "signapk is not configured")
	assert.NoFileExists(t, artifact+".unsigned")

	latest, err := os.Readlink(f.Path("out", "sdk21", "arm", "latest.zip"))
	require.NoError(t, err)
	assert.Equal(t, "xposed-v89-sdk21-arm-test.zip", latest)

	versioned := f.Path("out", "versions", "v89-test", "xposed-v89-sdk21-arm-test.zip")
	dest, err := os.Readlink(versioned)
	require.NoError(t, err)
	assert.Equal(t, "../../sdk21/arm/xposed-v89-sdk21-arm-test.zip", filepath.ToSlash(dest))
	assert.FileExists(t, versioned, "link resolves")
}

func TestPackage_SignedAndGPG(t *testing.T) {
	f := testutil.NewFixture(t)
	stageJob(t, f, arm21)
	f.Deps.Config.Set(config.SectionGeneral, "signapk", "tools/signapk.jar")
	f.Deps.Config.Set(config.SectionGeneral, "signcert", "keys/cert.pem")
	f.Deps.Config.Set(config.SectionGeneral, "signkey", "keys/key.pk8")
	f.Deps.Config.Set(config.SectionGPG, "sign", "release")
	f.Deps.Config.Set(config.SectionGPG, "user", "builder@example.com")
	f.Deps.Options.Release = true
	f.Runner.Handler = func(cmd shell.Command) error {
		switch cmd.Name {
		case "java":
			in, out := cmd.Args[5], cmd.Args[6]
			b, err := os.ReadFile(in)
			if err != nil {
				return err
			}
			return os.WriteFile(out, b, 0o644)
		case "gpg":
			return os.WriteFile(cmd.Args[len(cmd.Args)-1]+".sig", []byte("sig"), 0o644)
		}
		return nil
	}

	require.NoError(t, Package(context.Background(), f.Deps, arm21))

	artifact := f.Path("out", "sdk21", "arm", "xposed-v89-sdk21-arm-test.zip")
	cmds := f.Runner.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, []string{
		"-jar", f.Path("tools", "signapk.jar"), "-w", f.Path("keys", "cert.pem"), f.Path("keys", "key.pk8"),
		artifact + ".unsigned", artifact,
	}, cmds[0].Args)
	assert.Equal(t, []string{"--yes", "--detach-sign", "-u", "builder@example.com", artifact}, cmds[1].Args)

	assert.NoFileExists(t, artifact+".unsigned")
	assert.FileExists(t, artifact)
	assert.FileExists(t, f.Path("out", "versions", "v89-test", "xposed-v89-sdk21-arm-test.zip.sig"))
}

func TestPackage_ReleasePolicyWithoutReleaseFlag(t *testing.T) {
	f := testutil.NewFixture(t)
	stageJob(t, f, arm21)
	f.Deps.Config.Set(config.SectionGPG, "sign", "release")
	artifact := f.Deps.Layout.Artifact(arm21, f.Deps.Version)
	writeFile(t, artifact+".sig", "stale", 0o644)

	require.NoError(t, Package(context.Background(), f.Deps, arm21))

	assert.Zero(t, f.Runner.CountContaining("gpg"))
	assert.NoFileExists(t, artifact+".sig")
}

func TestPackage_RepeatedRunReplacesLinks(t *testing.T) {
	f := testutil.NewFixture(t)
	stageJob(t, f, arm21)

	require.NoError(t, Package(context.Background(), f.Deps, arm21))
	require.NoError(t, Package(context.Background(), f.Deps, arm21))

	_, err := os.Readlink(f.Deps.Layout.LatestLink(arm21))
	require.NoError(t, err)
}

func TestPackage_Failures(t *testing.T) {
	t.Run("nothing staged", func(t *testing.T) {
		f := testutil.NewFixture(t)
		err := Package(context.Background(), f.Deps, arm21)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("signing key missing", func(t *testing.T) {
		f := testutil.NewFixture(t)
		stageJob(t, f, arm21)
		f.Deps.Config.Set(config.SectionGeneral, "signapk", "signapk.jar")

		err := Package(context.Background(), f.Deps, arm21)
		require.ErrorIs(t, err, config.ErrMissingKey)
	})

	t.Run("signapk fails", func(t *testing.T) {
		f := testutil.NewFixture(t)
		stageJob(t, f, arm21)
		f.Deps.Config.Set(config.SectionGeneral, "signapk", "signapk.jar")
		f.Deps.Config.Set(config.SectionGeneral, "signcert", "c")
		f.Deps.Config.Set(config.SectionGeneral, "signkey", "k")
		f.Runner.Handler = testutil.FailContaining("signapk.jar", 1)

		err := Package(context.Background(), f.Deps, arm21)
		var exitErr *shell.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.NoFileExists(t, f.Deps.Layout.LatestLink(arm21))
	})
}

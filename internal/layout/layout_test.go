package layout

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/xposedbuild/internal/target"
	"github.com/vk/xposedbuild/internal/version"
)

func TestLayout(t *testing.T) {
	l := New("/out")
	job := target.Job{Platform: target.ARM64, SDK: 21}
	v := version.Version{Num: "54", Suffix: "-beta"}

	assert.Equal(t, "/out/sdk21/arm64", l.JobDir(job))
	assert.Equal(t, "/out/sdk21/arm64/files", l.StagingDir(job))
	assert.Equal(t, "/out/sdk21/arm64/logs", l.LogDir(job))
	assert.Equal(t, "/out/sdk21/arm64/logs/build_20240305_140709.log",
		l.LogFile(job, time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)))
	assert.Equal(t, "/out/sdk21/arm64/xposed-v54-sdk21-arm64-beta.zip", l.Artifact(job, v))
	assert.Equal(t, "/out/sdk21/arm64/latest.zip", l.LatestLink(job))
	assert.Equal(t, "/out/versions/v54-beta", l.VersionDir(v))
	assert.Equal(t, "/out/java/XposedBridge.jar", l.BridgeJar())
}

func TestLayout_LogDirs(t *testing.T) {
	root := t.TempDir()
	l := New(root)
	for _, job := range []target.Job{{Platform: target.ARM, SDK: 19}, {Platform: target.X86, SDK: 21}} {
		require.NoError(t, os.MkdirAll(l.LogDir(job), 0755))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "versions", "v54"), 0755))

	dirs, err := l.LogDirs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "sdk19", "arm", "logs"),
		filepath.Join(root, "sdk21", "x86", "logs"),
	}, dirs)
}

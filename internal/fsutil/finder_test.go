package fsutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesByModTime(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	files := map[string]time.Duration{
		"build_1.log": 0,
		"build_3.log": 2 * time.Hour,
		"build_2.log": time.Hour,
		"notes.txt":   3 * time.Hour,
	}
	for name, offset := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0644))
		require.NoError(t, os.Chtimes(p, base.Add(offset), base.Add(offset)))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.log"), 0755))

	got, err := FilesByModTime(dir, ".log")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "build_3.log"),
		filepath.Join(dir, "build_2.log"),
		filepath.Join(dir, "build_1.log"),
	}, got)

	_, err = FilesByModTime(filepath.Join(dir, "missing"), ".log")
	assert.Error(t, err)
	assert.Panics(t, func() { _, _ = FilesByModTime(dir, "") })
}

package logtail

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

const chunkSize = 4096

// LastLines returns up to n trailing lines of the file at path, reading it
// backwards so that huge build logs are not loaded whole.
func LastLines(path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat log: %w", err)
	}

	var buf []byte
	off := stat.Size()
	for off > 0 && bytes.Count(buf, []byte{'\n'}) <= n {
		size := int64(chunkSize)
		if off < size {
			size = off
		}
		off -= size
		chunk := make([]byte, size)
		if _, err := f.ReadAt(chunk, off); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read log: %w", err)
		}
		buf = append(chunk, buf...)
	}

	text := strings.TrimRight(strings.ReplaceAll(string(buf), "\r\n", "\n"), "\n")
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

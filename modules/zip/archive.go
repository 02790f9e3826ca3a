package zip

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// Entry maps a path inside the archive to the file that provides it.
type Entry struct {
	Name   string
	Source string
}

// Entries collects the regular files below dirs. A file in a later dir
// replaces an earlier one with the same relative path. Missing dirs are
// skipped. The result is sorted by Name.
func Entries(dirs ...string) ([]Entry, error) {
	byName := make(map[string]string)
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			byName[filepath.ToSlash(rel)] = path
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
	}

	entries := make([]Entry, 0, len(byName))
	for name, src := range byName {
		entries = append(entries, Entry{Name: name, Source: src})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// WriteArchive writes entries, in order, to a new zip file at path. Every
// entry carries the modified timestamp and its source's permission bits.
func WriteArchive(path string, entries []Entry, modified time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, e := range entries {
		if err := addFile(zw, e, modified); err != nil {
			zw.Close()
			f.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finish %s: %w", path, err)
	}
	return f.Close()
}

func addFile(zw *zip.Writer, e Entry, modified time.Time) error {
	src, err := os.Open(e.Source)
	if err != nil {
		return err
	}
	defer src.Close()
	info, err := src.Stat()
	if err != nil {
		return err
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = e.Name
	hdr.Method = zip.Deflate
	hdr.Modified = modified

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", e.Name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("failed to add %s: %w", e.Name, err)
	}
	return nil
}

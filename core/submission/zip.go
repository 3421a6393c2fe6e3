package submission

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var zipSignature = []byte("PK\x03\x04")

// IsZip reports whether the file starts with the ZIP local header signature.
func IsZip(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	head := make([]byte, len(zipSignature))
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return bytes.Equal(head, zipSignature)
}

// Extract unpacks the archive into dir and returns the number of files written.
// Entries that would land outside dir are rejected.
func Extract(archive, dir string) (int, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return 0, errors.Wrapf(err, "opening %s", archive)
	}
	defer r.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, errors.Wrapf(err, "creating %s", dir)
	}
	root := filepath.Clean(dir) + string(os.PathSeparator)

	n := 0
	for _, f := range r.File {
		target := filepath.Join(dir, f.Name)
		if target == filepath.Clean(dir) && f.FileInfo().IsDir() {
			continue // "./" or "/" entry for the archive root
		}
		if !strings.HasPrefix(target, root) {
			return n, errors.Errorf("%s: illegal path %q", archive, f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return n, errors.Wrapf(err, "creating %s", target)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(target))
	}
	src, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "reading %s", f.Name)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return errors.Wrapf(err, "extracting %s", f.Name)
	}
	return errors.WithStack(dst.Close())
}

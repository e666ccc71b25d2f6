package project

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

// XXHashFingerprinter implements ports.Fingerprinter with an xxhash over a
// sorted walk of the directory: relative path, then content, per file.
type XXHashFingerprinter struct{}

// NewFingerprinter creates the fingerprinter.
func NewFingerprinter() *XXHashFingerprinter {
	return &XXHashFingerprinter{}
}

// Fingerprint returns a deterministic digest of the directory's file tree.
// Two directories with identical relative paths and file contents produce the
// same fingerprint regardless of walk order or timestamps.
func (f *XXHashFingerprinter) Fingerprint(dir string) (string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return "", zerr.Wrap(domain.ErrFilesystem, err.Error())
	}
	sort.Strings(files)

	hasher := xxhash.New()
	for _, rel := range files {
		_, _ = hasher.WriteString(filepath.ToSlash(rel))
		_, _ = hasher.Write([]byte{0})

		if err := hashFileContent(hasher, filepath.Join(dir, rel)); err != nil {
			return "", err
		}
		_, _ = hasher.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func hashFileContent(hasher *xxhash.Digest, path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return zerr.Wrap(domain.ErrFilesystem, err.Error())
	}
	defer fh.Close()

	if _, err := io.Copy(hasher, fh); err != nil {
		return zerr.Wrap(domain.ErrFilesystem, err.Error())
	}
	return nil
}

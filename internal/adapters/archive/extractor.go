// Package archive extracts package archives (zip and gzip-compressed tar)
// into a target directory. Archive contents are untrusted: entry paths are
// confined to the target, symlinks are rejected, and per-entry sizes are
// capped to bound decompression.
package archive

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxEntryBytes caps a single decompressed entry to bound decompression bombs.
const maxEntryBytes = 1 << 30 // 1 GiB

var (
	zipMagic  = []byte{'P', 'K', 0x03, 0x04}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Extractor implements ports.Extractor for zip and tar.gz archives.
type Extractor struct{}

// NewExtractor creates the archive extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract unpacks the archive at archivePath into targetDir, which must
// already exist. The format is sniffed from the file's magic bytes, falling
// back to the file extension.
func (e *Extractor) Extract(ctx context.Context, archivePath, targetDir string) (*domain.ExtractReport, error) {
	format, err := sniffFormat(archivePath)
	if err != nil {
		return nil, err
	}

	switch format {
	case "zip":
		return extractZip(ctx, archivePath, targetDir)
	case "tar.gz":
		return extractTarGz(ctx, archivePath, targetDir)
	default:
		return nil, zerr.With(domain.ErrUnsupportedArchive, "path", filepath.Base(archivePath))
	}
}

func sniffFormat(archivePath string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", zerr.Wrap(domain.ErrFilesystem, err.Error())
	}
	defer f.Close()

	header := make([]byte, 4)
	n, err := io.ReadFull(f, header)
	if err != nil && n < 2 {
		return "", zerr.Wrap(domain.ErrExtract, "archive too short")
	}

	switch {
	case bytes.HasPrefix(header, zipMagic):
		return "zip", nil
	case bytes.HasPrefix(header, gzipMagic):
		return "tar.gz", nil
	}

	name := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(name, ".zip"):
		return "zip", nil
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return "tar.gz", nil
	}
	return "", nil
}

// securePath resolves an entry name inside targetDir, rejecting absolute
// paths and any traversal outside the target.
func securePath(targetDir, entryName string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(entryName))
	if filepath.IsAbs(cleaned) {
		return "", zerr.With(domain.ErrPathTraversal, "entry", entryName)
	}

	dest := filepath.Join(targetDir, cleaned)
	rel, err := filepath.Rel(targetDir, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(domain.ErrPathTraversal, "entry", entryName)
	}
	return dest, nil
}

// normalizeMode maps archive modes to 0o755 for directories and 0o644 for
// files, preserving only the owner exec bit. Foreign archives carry foreign
// permission baggage.
func normalizeMode(mode fs.FileMode, isDir bool) fs.FileMode {
	if isDir {
		return 0o755
	}
	if mode&0o100 != 0 {
		return 0o755
	}
	return 0o644
}

func writeEntry(dest string, r io.Reader, mode fs.FileMode) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, zerr.Wrap(domain.ErrFilesystem, err.Error())
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return 0, zerr.Wrap(domain.ErrFilesystem, err.Error())
	}

	n, err := io.Copy(out, io.LimitReader(r, maxEntryBytes))
	if err != nil {
		out.Close()
		return n, zerr.Wrap(domain.ErrExtract, err.Error())
	}
	if n == maxEntryBytes {
		out.Close()
		return n, zerr.With(zerr.Wrap(domain.ErrExtract, "entry exceeds size cap"), "entry", filepath.Base(dest))
	}
	if err := out.Close(); err != nil {
		return n, zerr.Wrap(domain.ErrFilesystem, err.Error())
	}
	return n, nil
}

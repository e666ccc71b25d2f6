package archive_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/pakt/internal/adapters/archive"
	"go.trai.ch/pakt/internal/core/domain"
)

type zipEntry struct {
	name string
	body string
	mode os.FileMode
	dir  bool
}

func writeZip(t *testing.T, entries []zipEntry) string {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		mode := e.mode
		if mode == 0 {
			mode = 0o644
		}
		if e.dir {
			hdr.SetMode(mode | os.ModeDir)
		} else {
			hdr.SetMode(mode)
		}
		fw, err := w.CreateHeader(hdr)
		require.NoError(t, err)
		if !e.dir {
			_, err = fw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "pkg.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func writeTarGz(t *testing.T, write func(tw *tar.Writer)) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	write(tw)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "pkg.tar.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestExtract_Zip(t *testing.T) {
	path := writeZip(t, []zipEntry{
		{name: "package.json", body: `{"name":"com.acme.toolkit"}`},
		{name: "Editor/", dir: true, mode: 0o700},
		{name: "Editor/tool.sh", body: "#!/bin/sh\n", mode: 0o755},
	})

	target := t.TempDir()
	report, err := archive.NewExtractor().Extract(context.Background(), path, target)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Files)

	data, err := os.ReadFile(filepath.Join(target, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "com.acme.toolkit")

	// Exec bit preserved, everything else normalized.
	info, err := os.Stat(filepath.Join(target, "Editor", "tool.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(target, "Editor"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestExtract_TarGz(t *testing.T) {
	path := writeTarGz(t, func(tw *tar.Writer) {
		body := []byte("readme body")
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: "docs/", Typeflag: tar.TypeDir, Mode: 0o777}))
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: "docs/README.md", Typeflag: tar.TypeReg, Mode: 0o600, Size: int64(len(body))}))
		_, err := tw.Write(body)
		require.NoError(t, err)
	})

	target := t.TempDir()
	report, err := archive.NewExtractor().Extract(context.Background(), path, target)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Files)
	assert.Equal(t, int64(len("readme body")), report.Bytes)

	info, err := os.Stat(filepath.Join(target, "docs", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestExtract_SniffsFormatWithoutExtension(t *testing.T) {
	zipPath := writeZip(t, []zipEntry{{name: "a.txt", body: "a"}})
	unnamed := filepath.Join(t.TempDir(), "download-0001")
	data, err := os.ReadFile(zipPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(unnamed, data, 0o644))

	target := t.TempDir()
	_, err = archive.NewExtractor().Extract(context.Background(), unnamed, target)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(target, "a.txt"))
}

func TestExtract_RejectsPathTraversal(t *testing.T) {
	path := writeTarGz(t, func(tw *tar.Writer) {
		body := []byte("evil")
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: "../escape.txt", Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(body))}))
		_, err := tw.Write(body)
		require.NoError(t, err)
	})

	parent := t.TempDir()
	target := filepath.Join(parent, "pkg")
	require.NoError(t, os.Mkdir(target, 0o755))

	_, err := archive.NewExtractor().Extract(context.Background(), path, target)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPathTraversal))
	assert.NoFileExists(t, filepath.Join(parent, "escape.txt"))
}

func TestExtract_RejectsAbsolutePaths(t *testing.T) {
	path := writeZip(t, []zipEntry{{name: "/etc/evil.conf", body: "evil"}})

	_, err := archive.NewExtractor().Extract(context.Background(), path, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPathTraversal))
}

func TestExtract_RejectsSymlinks(t *testing.T) {
	path := writeTarGz(t, func(tw *tar.Writer) {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "/etc/passwd", Mode: 0o777}))
	})

	_, err := archive.NewExtractor().Extract(context.Background(), path, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtract))
}

func TestExtract_UnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg.rar")
	require.NoError(t, os.WriteFile(path, []byte("Rar!not really"), 0o644))

	_, err := archive.NewExtractor().Extract(context.Background(), path, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedArchive))
}

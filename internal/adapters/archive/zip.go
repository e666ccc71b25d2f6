package archive

import (
	"archive/zip"
	"context"
	"io/fs"
	"os"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

func extractZip(ctx context.Context, archivePath, targetDir string) (*domain.ExtractReport, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrExtract, err.Error())
	}
	defer r.Close()

	report := &domain.ExtractReport{}
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		dest, err := securePath(targetDir, f.Name)
		if err != nil {
			return report, err
		}

		mode := f.Mode()
		if mode&fs.ModeSymlink != 0 {
			return report, zerr.With(zerr.Wrap(domain.ErrExtract, "symlink entries are not allowed"), "entry", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, normalizeMode(mode, true)); err != nil {
				return report, zerr.Wrap(domain.ErrFilesystem, err.Error())
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return report, zerr.Wrap(domain.ErrExtract, err.Error())
		}
		n, err := writeEntry(dest, rc, normalizeMode(mode, false))
		rc.Close()
		if err != nil {
			return report, err
		}
		report.Files++
		report.Bytes += n
	}

	return report, nil
}

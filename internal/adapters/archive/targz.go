package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

func extractTarGz(ctx context.Context, archivePath, targetDir string) (*domain.ExtractReport, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrFilesystem, err.Error())
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrExtract, err.Error())
	}
	defer gz.Close()

	report := &domain.ExtractReport{}
	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, zerr.Wrap(domain.ErrExtract, err.Error())
		}

		dest, err := securePath(targetDir, hdr.Name)
		if err != nil {
			return report, err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, normalizeMode(hdr.FileInfo().Mode(), true)); err != nil {
				return report, zerr.Wrap(domain.ErrFilesystem, err.Error())
			}
		case tar.TypeReg:
			n, err := writeEntry(dest, tr, normalizeMode(hdr.FileInfo().Mode(), false))
			if err != nil {
				return report, err
			}
			report.Files++
			report.Bytes += n
		case tar.TypeSymlink, tar.TypeLink:
			return report, zerr.With(zerr.Wrap(domain.ErrExtract, "link entries are not allowed"), "entry", hdr.Name)
		default:
			// Character devices, fifos and the like have no business in a
			// package archive.
			return report, zerr.With(zerr.Wrap(domain.ErrExtract, "unsupported entry type"), "entry", hdr.Name)
		}
	}

	return report, nil
}

package overlay

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/chris-casper/RF-Sim/internal/errors"
)

// PackageArchive bundles exactly the descriptor and the coverage image
// into a KMZ. Entries use bare file names, so the archive is
// self-contained and relocatable.
func PackageArchive(archivePath, descriptorPath, imagePath string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return apperrors.Wrapf(apperrors.KindPackaging, err, "create archive %s", archivePath)
	}

	zw := zip.NewWriter(out)
	for _, src := range []string{descriptorPath, imagePath} {
		if err := addFile(zw, src); err != nil {
			zw.Close()
			out.Close()
			os.Remove(archivePath)
			return err
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(archivePath)
		return apperrors.Wrap(apperrors.KindPackaging, "finalize archive", err)
	}
	if err := out.Close(); err != nil {
		return apperrors.Wrapf(apperrors.KindPackaging, err, "close archive %s", archivePath)
	}
	return nil
}

func addFile(zw *zip.Writer, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return apperrors.Wrapf(apperrors.KindPackaging, err, "open %s", src)
	}
	defer f.Close()

	w, err := zw.Create(filepath.Base(src))
	if err != nil {
		return apperrors.Wrapf(apperrors.KindPackaging, err, "add %s to archive", filepath.Base(src))
	}
	if _, err := io.Copy(w, f); err != nil {
		return apperrors.Wrapf(apperrors.KindPackaging, err, "write %s to archive", filepath.Base(src))
	}
	return nil
}

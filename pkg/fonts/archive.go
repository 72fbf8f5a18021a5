package fonts

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zyxir/dotinstall/pkg/errors"
)

// ListArchive returns the font entries of a zip archive without extracting it
func ListArchive(archive string, extensions []string) ([]string, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileCopy, "failed to open font archive").
			WithDetail("archive", archive)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && hasExtension(f.Name, extensions) {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

// Extract unpacks archive below dest. Entries escaping dest are rejected.
func Extract(archive, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileCopy, "failed to open font archive").
			WithDetail("archive", archive)
	}
	defer r.Close()

	root := filepath.Clean(dest)
	for _, f := range r.File {
		path := filepath.Join(root, filepath.FromSlash(f.Name))
		if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
			return errors.Newf(errors.ErrInvalidInput, "archive entry %q escapes the extraction directory", f.Name).
				WithDetail("archive", archive)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0755); err != nil {
				return errors.Wrap(err, errors.ErrDirCreate, "failed to create directory").WithDetail("path", path)
			}
			continue
		}
		if err := extractFile(f, path); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "failed to extract archive entry").
				WithDetail("archive", archive).
				WithDetail("entry", f.Name)
		}
	}
	return nil
}

func extractFile(f *zip.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(path, f.Modified, f.Modified)
}

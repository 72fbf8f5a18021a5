package fileops

import (
	"io"
	"os"
	"path/filepath"

	"github.com/zyxir/dotinstall/pkg/errors"
)

// copyEntry copies a file or a directory tree. Source symlinks are followed.
func (o *Operator) copyEntry(source, target string, info os.FileInfo) error {
	if info.IsDir() {
		return o.copyDir(source, target, info)
	}
	return o.copyFile(source, target, info)
}

func (o *Operator) copyFile(source, target string, info os.FileInfo) error {
	// Directories and symlinks in the way are replaced; regular files are
	// overwritten in place.
	if existing, err := o.fs.Lstat(target); err == nil {
		if !existing.Mode().IsRegular() {
			if err := o.removeExisting(target); err != nil {
				return err
			}
		} else if err := o.makeWritable(target, existing, 0200); err != nil {
			return copyError(err, "failed to make destination writable", source, target)
		}
	}

	in, err := o.fs.Open(source)
	if err != nil {
		return copyError(err, "failed to open source", source, target)
	}
	defer in.Close()

	out, err := o.fs.Create(target, info.Mode().Perm())
	if err != nil {
		return copyError(err, "failed to create destination", source, target)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return copyError(err, "failed to copy contents", source, target)
	}
	if err := out.Close(); err != nil {
		return copyError(err, "failed to flush destination", source, target)
	}

	return o.copyMetadata(source, target, info)
}

func (o *Operator) copyDir(source, target string, info os.FileInfo) error {
	if existing, err := o.fs.Lstat(target); err == nil {
		if !existing.IsDir() {
			if err := o.removeExisting(target); err != nil {
				return err
			}
		} else if err := o.makeWritable(target, existing, 0700); err != nil {
			return copyError(err, "failed to make destination writable", source, target)
		}
	}

	if err := o.fs.MkdirAll(target, info.Mode().Perm()|0700); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "failed to create directory").
			WithDetail("path", target)
	}

	entries, err := o.fs.ReadDir(source)
	if err != nil {
		return copyError(err, "failed to list source directory", source, target)
	}

	for _, entry := range entries {
		childSource := filepath.Join(source, entry.Name())
		childTarget := filepath.Join(target, entry.Name())

		childInfo, err := o.fs.Stat(childSource)
		if err != nil {
			return copyError(err, "failed to inspect source entry", childSource, childTarget)
		}
		if err := o.copyEntry(childSource, childTarget, childInfo); err != nil {
			return err
		}
	}

	// Directory metadata goes last so writing children does not bump the
	// copied modification time.
	return o.copyMetadata(source, target, info)
}

// makeWritable adds the owner bits in need to an earlier copy, which may carry
// a read-only mode. copyMetadata restores the source mode afterwards.
func (o *Operator) makeWritable(target string, existing os.FileInfo, need os.FileMode) error {
	perm := existing.Mode().Perm()
	if perm&need == need {
		return nil
	}
	return o.fs.Chmod(target, perm|need)
}

func (o *Operator) copyMetadata(source, target string, info os.FileInfo) error {
	if err := o.fs.Chmod(target, info.Mode().Perm()); err != nil {
		return copyError(err, "failed to copy permissions", source, target)
	}
	if err := o.fs.Chtimes(target, info.ModTime(), info.ModTime()); err != nil {
		return copyError(err, "failed to copy modification time", source, target)
	}
	return nil
}

func copyError(err error, msg, source, target string) error {
	return errors.Wrap(err, errors.ErrFileCopy, msg).
		WithDetail("source", source).
		WithDetail("target", target)
}

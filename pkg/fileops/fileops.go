package fileops

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zyxir/dotinstall/pkg/errors"
	"github.com/zyxir/dotinstall/pkg/filesystem"
	"github.com/zyxir/dotinstall/pkg/logging"
	"github.com/zyxir/dotinstall/pkg/paths"
	"github.com/zyxir/dotinstall/pkg/types"
)

const dirPerm os.FileMode = 0755

// Operator performs copy, link and write operations
type Operator struct {
	fs       types.FS
	resolver *paths.Resolver
	dryRun   bool
	logger   zerolog.Logger
}

// New returns an Operator. A nil fs means the OS filesystem and a nil
// resolver resolves against the working directory.
func New(fs types.FS, resolver *paths.Resolver, dryRun bool) *Operator {
	if fs == nil {
		fs = filesystem.NewOS()
	}
	if resolver == nil {
		resolver = paths.NewResolver("", paths.WithFS(fs))
	}
	return &Operator{
		fs:       fs,
		resolver: resolver,
		dryRun:   dryRun,
		logger:   logging.GetLogger("fileops"),
	}
}

// DryRun reports whether mutations are suppressed
func (o *Operator) DryRun() bool {
	return o.dryRun
}

// Copy copies src to dst. Directories are copied recursively and merged into
// an existing destination directory.
func (o *Operator) Copy(src, dst string) error {
	source, target, info, err := o.prepare("copy", src, dst)
	if err != nil || o.dryRun {
		return err
	}

	return o.copyEntry(source, target, info)
}

// Link makes dst a symbolic link to src, replacing whatever dst held before.
// It does nothing when dst already links to src.
func (o *Operator) Link(src, dst string) error {
	source, target, info, err := o.prepare("link", src, dst)
	if err != nil || o.dryRun {
		return err
	}

	if o.linksTo(target, source) {
		o.logger.Debug().Str("source", source).Str("target", target).Msg("Link already in place")
		return nil
	}

	if err := o.removeExisting(target); err != nil {
		return err
	}

	err = o.fs.Symlink(source, target)
	if err == nil {
		o.logger.Debug().Str("source", source).Str("target", target).Msg("Created symlink")
		return nil
	}

	if !isSymlinkDenied(err) {
		return errors.Wrap(err, errors.ErrSymlinkCreate, "failed to create symlink").
			WithDetail("source", source).
			WithDetail("target", target)
	}

	o.logger.Info().
		Err(err).
		Str("source", source).
		Str("target", target).
		Msg("Symlink creation denied, copying instead")
	return o.copyEntry(source, target, info)
}

// WriteFile writes content verbatim to dst. An existing regular file with
// identical content is left untouched.
func (o *Operator) WriteFile(dst string, content []byte) error {
	target := o.resolver.Resolve(dst)

	if o.dryRun {
		o.logger.Debug().Str("target", target).Int("bytes", len(content)).Msg("Dry run, skipping write")
		return nil
	}
	if err := o.ensureParent(target); err != nil {
		return err
	}

	if info, err := o.fs.Lstat(target); err == nil {
		if info.Mode().IsRegular() {
			if current, err := o.fs.ReadFile(target); err == nil && bytes.Equal(current, content) {
				o.logger.Debug().Str("target", target).Msg("Content unchanged")
				return nil
			}
		} else if err := o.removeExisting(target); err != nil {
			return err
		}
	}

	if err := o.fs.WriteFile(target, content, 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write file").
			WithDetail("target", target)
	}
	return nil
}

// prepare resolves both paths, checks the source and creates the parent of
// the destination outside of dry runs.
func (o *Operator) prepare(op, src, dst string) (string, string, os.FileInfo, error) {
	source := o.resolver.Resolve(src)
	target := o.resolver.Resolve(dst)

	info, err := o.fs.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", nil, errors.Newf(errors.ErrSourceNotFound, "source %s does not exist", source).
				WithDetail("source", source).
				WithDetail("operation", op)
		}
		return "", "", nil, errors.Wrap(err, errors.ErrFileCopy, "failed to inspect source").
			WithDetail("source", source)
	}

	if source == target || isWithin(target, source) {
		return "", "", nil, errors.Newf(errors.ErrInvalidInput, "cannot %s %s into itself", op, source).
			WithDetail("source", source).
			WithDetail("target", target)
	}
	// Replacing an ancestor of the source would delete the source first.
	if isWithin(source, target) {
		return "", "", nil, errors.Newf(errors.ErrInvalidInput, "cannot %s %s over its ancestor %s", op, source, target).
			WithDetail("source", source).
			WithDetail("target", target)
	}

	if o.dryRun {
		o.logger.Debug().Str("operation", op).Str("source", source).Str("target", target).Msg("Dry run, skipping")
		return source, target, info, nil
	}

	if err := o.ensureParent(target); err != nil {
		return "", "", nil, err
	}
	return source, target, info, nil
}

func (o *Operator) ensureParent(target string) error {
	parent := filepath.Dir(target)
	if info, err := o.fs.Stat(parent); err == nil && info.IsDir() {
		return nil
	}
	if err := o.fs.MkdirAll(parent, dirPerm); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "failed to create parent directory").
			WithDetail("path", parent)
	}
	return nil
}

// linksTo reports whether target is a symlink resolving to source
func (o *Operator) linksTo(target, source string) bool {
	info, err := o.fs.Lstat(target)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return false
	}

	dest, err := o.fs.Readlink(target)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(target), dest)
	}
	if filepath.Clean(dest) == source {
		return true
	}

	targetInfo, err := o.fs.Stat(target)
	if err != nil {
		return false
	}
	sourceInfo, err := o.fs.Stat(source)
	if err != nil {
		return false
	}
	return os.SameFile(targetInfo, sourceInfo)
}

// removeExisting unlinks files and symlinks and removes directories
// recursively. A missing target is not an error.
func (o *Operator) removeExisting(target string) error {
	info, err := o.fs.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, errors.ErrFileRemove, "failed to inspect destination").
			WithDetail("target", target)
	}

	if info.IsDir() {
		err = o.fs.RemoveAll(target)
	} else {
		err = o.fs.Remove(target)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrFileRemove, "failed to remove existing destination").
			WithDetail("target", target)
	}
	o.logger.Debug().Str("target", target).Msg("Removed existing destination")
	return nil
}

func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

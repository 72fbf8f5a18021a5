package paths

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"github.com/zyxir/dotinstall/pkg/errors"
	"github.com/zyxir/dotinstall/pkg/logging"
	"github.com/zyxir/dotinstall/pkg/types"
)

// LocateRepositoryRoot walks from start towards the filesystem root and
// returns the first directory holding markerRel whose first line equals
// firstLine.
func LocateRepositoryRoot(fs types.FS, start, markerRel, firstLine string) (string, error) {
	logger := logging.GetLogger("paths.repository")

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRepositoryNotFound, "cannot make %s absolute", start)
	}
	dir = filepath.Clean(dir)

	for {
		if isRepository(fs, dir, markerRel, firstLine) {
			logger.Debug().Str("root", dir).Msg("Located repository root")
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.ErrRepositoryNotFound, "cannot locate the repository till root").
				WithDetail("start", start).
				WithDetail("marker", markerRel)
		}
		dir = parent
	}
}

// isRepository reports whether dir holds the marker file with the expected
// first line. Unreadable markers do not match.
func isRepository(fs types.FS, dir, markerRel, firstLine string) bool {
	marker := filepath.Join(dir, markerRel)

	info, err := fs.Stat(marker)
	if err != nil || info.IsDir() {
		return false
	}

	line, err := readFirstLine(fs, marker)
	if err != nil {
		return false
	}
	return line == firstLine
}

func readFirstLine(fs types.FS, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

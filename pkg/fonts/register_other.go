//go:build !windows

package fonts

import (
	"github.com/zyxir/dotinstall/pkg/errors"
)

func registerFonts([]string) error {
	return errors.New(errors.ErrUnsupportedPlatform, "font registration is only available on Windows")
}

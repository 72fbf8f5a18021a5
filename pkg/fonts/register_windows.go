//go:build windows

package fonts

import (
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/zyxir/dotinstall/pkg/errors"
)

const (
	userFontsKey    = `Software\Microsoft\Windows NT\CurrentVersion\Fonts`
	hwndBroadcast   = 0xffff
	wmFontChange    = 0x001D
	smtoAbortIfHung = 0x0002
)

var (
	gdi32                  = windows.NewLazySystemDLL("gdi32.dll")
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procAddFontResource    = gdi32.NewProc("AddFontResourceW")
	procSendMessageTimeout = user32.NewProc("SendMessageTimeoutW")
)

// registerFonts loads each font into the session, records it under the
// per-user fonts key so it survives a logoff, and tells running programs.
func registerFonts(fonts []string) error {
	key, _, err := registry.CreateKey(registry.CURRENT_USER, userFontsKey, registry.SET_VALUE)
	if err != nil {
		return errors.Wrap(err, errors.ErrPermission, "failed to open the user font registry key")
	}
	defer key.Close()

	for _, font := range fonts {
		name, err := windows.UTF16PtrFromString(font)
		if err != nil {
			return errors.Wrap(err, errors.ErrInvalidInput, "invalid font path").WithDetail("font", font)
		}
		if added, _, callErr := procAddFontResource.Call(uintptr(unsafe.Pointer(name))); added == 0 {
			return errors.Wrap(callErr, errors.ErrExternalCommand, "AddFontResourceW failed").WithDetail("font", font)
		}

		value := strings.TrimSuffix(filepath.Base(font), filepath.Ext(font)) + " (TrueType)"
		if err := key.SetStringValue(value, font); err != nil {
			return errors.Wrap(err, errors.ErrPermission, "failed to record font").WithDetail("font", font)
		}
	}

	var result uintptr
	procSendMessageTimeout.Call(hwndBroadcast, wmFontChange, 0, 0, smtoAbortIfHung, 1000, uintptr(unsafe.Pointer(&result)))
	return nil
}

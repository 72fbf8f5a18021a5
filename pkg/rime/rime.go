// Package rime writes the customization patch for the Cangjie6 schema of
// the Rime input method.
package rime

import (
	"github.com/zyxir/dotinstall/pkg/fileops"
)

// Description is the status line text of the patch step
const Description = "Configuring the Cangjie6 schema"

// PatchContent resets the third switch of the schema on startup. Existing
// installations compare this text byte for byte, trailing spaces included.
const PatchContent = "\npatch:\n  \"switches/@2/reset\": 1\n    "

// WritePatch writes PatchContent to path
func WritePatch(files *fileops.Operator, path string) error {
	return files.WriteFile(path, []byte(PatchContent))
}

// Package filesystem provides filesystem implementations for dotinstall.
//
// Every implementation satisfies types.FS and is backed by afero, so the
// same file operations run against the real OS filesystem in production and
// against an in-memory filesystem in tests. Filesystems that cannot create
// symbolic links report afero.ErrNoSymlink, which the link operation treats
// like a denied privilege.
package filesystem

// Package testutil provides helpers shared by dotinstall tests.
//
// The helpers fall into three groups:
//   - builders that lay out files, directories and symlinks on disk
//   - filesystem wrappers (CountingFS, DenySymlinkFS) that instrument or
//     restrict a types.FS
//   - DirHash, which fingerprints a directory tree so a test can assert
//     that an operation left it untouched
package testutil

package testutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/zyxir/dotinstall/pkg/types"
)

// CountingFS wraps a types.FS and counts every mutating call.
type CountingFS struct {
	types.FS

	mu     sync.Mutex
	counts map[string]int
}

// NewCountingFS wraps inner
func NewCountingFS(inner types.FS) *CountingFS {
	return &CountingFS{FS: inner, counts: make(map[string]int)}
}

func (c *CountingFS) record(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[op]++
}

// Count returns how many times op was called
func (c *CountingFS) Count(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[op]
}

// Mutations returns the total number of mutating calls
func (c *CountingFS) Mutations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Reset clears all counters
func (c *CountingFS) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = make(map[string]int)
}

func (c *CountingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	c.record("WriteFile")
	return c.FS.WriteFile(name, data, perm)
}

func (c *CountingFS) Create(name string, perm fs.FileMode) (io.WriteCloser, error) {
	c.record("Create")
	return c.FS.Create(name, perm)
}

func (c *CountingFS) Chmod(name string, mode fs.FileMode) error {
	c.record("Chmod")
	return c.FS.Chmod(name, mode)
}

func (c *CountingFS) Chtimes(name string, atime, mtime time.Time) error {
	c.record("Chtimes")
	return c.FS.Chtimes(name, atime, mtime)
}

func (c *CountingFS) MkdirAll(path string, perm fs.FileMode) error {
	c.record("MkdirAll")
	return c.FS.MkdirAll(path, perm)
}

func (c *CountingFS) Symlink(oldname, newname string) error {
	c.record("Symlink")
	return c.FS.Symlink(oldname, newname)
}

func (c *CountingFS) Remove(name string) error {
	c.record("Remove")
	return c.FS.Remove(name)
}

func (c *CountingFS) RemoveAll(path string) error {
	c.record("RemoveAll")
	return c.FS.RemoveAll(path)
}

// DenySymlinkFS wraps a types.FS and rejects every Symlink call with a
// permission error, the way unprivileged Windows accounts do.
type DenySymlinkFS struct {
	types.FS
	Attempts int
}

// NewDenySymlinkFS wraps inner
func NewDenySymlinkFS(inner types.FS) *DenySymlinkFS {
	return &DenySymlinkFS{FS: inner}
}

func (d *DenySymlinkFS) Symlink(oldname, newname string) error {
	d.Attempts++
	return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: syscall.EPERM}
}

// FailSymlinkFS rejects Symlink with a fixed error
type FailSymlinkFS struct {
	types.FS
	Err error
}

func (f *FailSymlinkFS) Symlink(oldname, newname string) error {
	return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: f.Err}
}

// PermissionFS enforces owner write bits the way a non-root account sees
// them, so read-only trees behave the same when tests run as root or on an
// in-memory filesystem.
type PermissionFS struct {
	types.FS
}

// NewPermissionFS wraps inner
func NewPermissionFS(inner types.FS) *PermissionFS {
	return &PermissionFS{FS: inner}
}

func (p *PermissionFS) denied(op, name string) error {
	return &os.PathError{Op: op, Path: name, Err: os.ErrPermission}
}

func (p *PermissionFS) readOnly(name string) bool {
	info, err := p.FS.Stat(name)
	return err == nil && info.Mode().Perm()&0200 == 0
}

// checkEntry rejects writes to a read-only file or into a read-only directory
func (p *PermissionFS) checkEntry(op, name string) error {
	if p.readOnly(filepath.Dir(name)) {
		return p.denied(op, name)
	}
	if info, err := p.FS.Stat(name); err == nil && !info.IsDir() && info.Mode().Perm()&0200 == 0 {
		return p.denied(op, name)
	}
	return nil
}

func (p *PermissionFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := p.checkEntry("open", name); err != nil {
		return err
	}
	return p.FS.WriteFile(name, data, perm)
}

func (p *PermissionFS) Create(name string, perm fs.FileMode) (io.WriteCloser, error) {
	if err := p.checkEntry("open", name); err != nil {
		return nil, err
	}
	return p.FS.Create(name, perm)
}

func (p *PermissionFS) MkdirAll(path string, perm fs.FileMode) error {
	if _, err := p.FS.Stat(path); err != nil && p.readOnly(filepath.Dir(path)) {
		return p.denied("mkdir", path)
	}
	return p.FS.MkdirAll(path, perm)
}

func (p *PermissionFS) Remove(name string) error {
	if p.readOnly(filepath.Dir(name)) {
		return p.denied("remove", name)
	}
	return p.FS.Remove(name)
}

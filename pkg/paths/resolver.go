package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/zyxir/dotinstall/pkg/filesystem"
	"github.com/zyxir/dotinstall/pkg/types"
)

// Resolver turns path strings into absolute, fully expanded paths
type Resolver struct {
	base      string
	homeDir   func() (string, error)
	lookupEnv func(string) (string, bool)
	fs        types.FS
}

// Option configures a Resolver
type Option func(*Resolver)

// WithHomeDir replaces the home directory lookup
func WithHomeDir(fn func() (string, error)) Option {
	return func(r *Resolver) { r.homeDir = fn }
}

// WithLookupEnv replaces the environment lookup
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(r *Resolver) { r.lookupEnv = fn }
}

// WithFS sets the filesystem used for existence checks
func WithFS(fs types.FS) Option {
	return func(r *Resolver) { r.fs = fs }
}

// NewResolver creates a Resolver joining relative paths to base.
// An empty base means the current working directory.
func NewResolver(base string, opts ...Option) *Resolver {
	r := &Resolver{
		homeDir:   homedir.Dir,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fs == nil {
		r.fs = filesystem.NewOS()
	}

	if base == "" {
		base = "."
	}
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	r.base = filepath.Clean(base)
	return r
}

// Base returns the directory relative paths are resolved against
func (r *Resolver) Base() string {
	return r.base
}

// Resolve expands environment references and "~", then makes the result
// absolute against the base directory. It never fails.
func (r *Resolver) Resolve(input string) string {
	expanded := expandEnv(input, r.lookupEnv)
	expanded = r.expandHome(expanded)

	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(r.base, expanded)
	}
	return filepath.Clean(expanded)
}

// ResolveAll resolves every input in order
func (r *Resolver) ResolveAll(inputs ...string) []string {
	resolved := make([]string, len(inputs))
	for i, input := range inputs {
		resolved[i] = r.Resolve(input)
	}
	return resolved
}

// Exists reports whether the resolved input exists
func (r *Resolver) Exists(input string) bool {
	_, err := r.fs.Stat(r.Resolve(input))
	return err == nil
}

// FindFirstExisting returns the first candidate, as given, whose resolved
// path exists. Candidates are checked in order.
func (r *Resolver) FindFirstExisting(candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		if r.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// expandHome expands ~ to the home directory
func (r *Resolver) expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	// ~something (not the user's home)
	if len(path) > 1 && path[1] != '/' && path[1] != filepath.Separator {
		return path
	}

	homeDir, err := r.homeDir()
	if err != nil || homeDir == "" {
		// Fallback to HOME env var
		homeDir, _ = r.lookupEnv("HOME")
		if homeDir == "" {
			// Can't expand, return as-is
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	return filepath.Join(homeDir, path[2:])
}

// expandEnv substitutes $VAR, ${VAR} and %VAR% references. Unknown or
// malformed references are copied through unchanged.
func expandEnv(s string, lookup func(string) (string, bool)) string {
	if !strings.ContainsAny(s, "$%") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		switch s[i] {
		case '$':
			name, width := scanDollar(s[i+1:])
			if name != "" {
				if value, ok := lookup(name); ok {
					b.WriteString(value)
					i += 1 + width
					continue
				}
			}
			b.WriteString(s[i : i+1+width])
			i += 1 + width
		case '%':
			end := strings.IndexByte(s[i+1:], '%')
			if end <= 0 {
				b.WriteByte('%')
				i++
				continue
			}
			name := s[i+1 : i+1+end]
			if value, ok := lookup(name); ok {
				b.WriteString(value)
				i += end + 2
				continue
			}
			// Keep the opening percent and rescan from the closing one so
			// "%A%B%" can still match "%B%".
			b.WriteString(s[i : i+1+end])
			i += 1 + end
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

// scanDollar reads the variable name following a '$'. It returns the name
// and the number of bytes consumed; an empty name consumes nothing.
func scanDollar(s string) (string, int) {
	if s == "" {
		return "", 0
	}
	if s[0] == '{' {
		end := strings.IndexByte(s, '}')
		if end <= 1 {
			return "", 0
		}
		return s[1:end], end + 1
	}
	n := 0
	for n < len(s) && isNameByte(s[n], n == 0) {
		n++
	}
	return s[:n], n
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	case '0' <= c && c <= '9':
		return !first
	}
	return false
}

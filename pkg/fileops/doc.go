// Package fileops places repository files at their destinations.
//
// Two placement strategies are offered. Copy duplicates a file or a whole
// directory tree, carrying over permission bits and modification times.
// Link creates a symbolic link so that edits in the repository show up at
// the destination immediately; when the host refuses to create symlinks
// (unprivileged Windows accounts, filesystems without symlink support) it
// falls back to Copy and still reports success.
//
// Every operation resolves its arguments through a paths.Resolver, so
// relative sources are read from the repository root, and every mutation is
// gated behind the dry-run flag.
package fileops

// Package types holds the small set of value types shared by every dotinstall
// package: the run options parsed from the command line, the platform facts
// detected at startup and the filesystem interface the file operations run
// against.
//
// RunOptions and Platform are immutable once constructed and are passed by
// value into every step, so a run never re-detects anything mid-way.
package types

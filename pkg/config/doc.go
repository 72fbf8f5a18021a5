// Package config handles runtime settings for dotinstall.
//
// Settings are layered with koanf: the embedded defaults.toml first, then
// DOTINSTALL_* environment variables, then explicit overrides from the
// command line. No user configuration file is read; the repository itself is
// only ever identified by its marker file.
package config

// Package paths resolves user-facing path strings into absolute filesystem
// paths and locates the dotfiles repository root.
//
// A Resolver is bound to a base directory (normally the repository root) so
// relative inputs such as "./shell/bash/bashrc" never depend on the process
// working directory. Resolution expands environment references ($VAR,
// ${VAR} and %VAR%) and a leading "~"; references that cannot be resolved
// are kept literally, the way a shell would.
package paths

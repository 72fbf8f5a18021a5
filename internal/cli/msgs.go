package cli

import (
	_ "embed"
	"strings"
)

const (
	// Command descriptions
	MsgRootShort       = "Install dotfiles for this machine"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgConfigShort     = "Print the effective settings as TOML"
	MsgManShort        = "Print the man page"

	// Status messages
	MsgRepoNotFound = "Cannot locate the dotfiles repo."

	// Version output
	MsgVersionFormat = "dotinstall version %s\n"
	MsgCommitFormat  = "  commit: %s\n"
	MsgBuiltFormat   = "  built:  %s\n"

	// Flag descriptions
	MsgFlagDry      = "perform a dry run (only print; don't install anything)"
	MsgFlagFonts    = "install fonts from possible archives"
	MsgFlagSwitch   = "do a home-manager switch"
	MsgFlagComplete = "perform a complete run: do every optional action"
	MsgFlagDebug    = "show debug messages"
	MsgFlagSet      = "override a setting (section.key=value), repeatable"
	MsgFlagDefaults = "print the embedded defaults instead of the effective settings"
)

var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")
)

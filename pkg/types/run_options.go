package types

// RunOptions is the configuration of a single installer execution.
type RunOptions struct {
	// DryRun reports every step without touching the filesystem or
	// spawning processes.
	DryRun bool
	// InstallFonts also runs the font installation step.
	InstallFonts bool
	// DoSwitch also invokes the environment rebuild command.
	DoSwitch bool
}

// NewRunOptions builds RunOptions from the raw flag values. complete turns
// on every optional action.
func NewRunOptions(dryRun, fonts, doSwitch, complete bool) RunOptions {
	return RunOptions{
		DryRun:       dryRun,
		InstallFonts: fonts || complete,
		DoSwitch:     doSwitch || complete,
	}
}

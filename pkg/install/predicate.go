package install

// Predicate decides whether a step applies to a run
type Predicate func(Env) bool

// Always applies everywhere
func Always(Env) bool { return true }

// OnLinux applies on Linux, WSL included
func OnLinux(env Env) bool { return env.Platform.IsLinux }

// OnWindows applies on native Windows
func OnWindows(env Env) bool { return env.Platform.IsWindows }

// OnWSL applies inside the Windows Subsystem for Linux
func OnWSL(env Env) bool { return env.Platform.IsWSL }

// WithFonts applies when font installation was requested
func WithFonts(env Env) bool { return env.Options.InstallFonts }

// WithSwitch applies when the environment rebuild was requested
func WithSwitch(env Env) bool { return env.Options.DoSwitch }

// And applies when every predicate does
func And(preds ...Predicate) Predicate {
	return func(env Env) bool {
		for _, p := range preds {
			if !p(env) {
				return false
			}
		}
		return true
	}
}

// Not inverts p
func Not(p Predicate) Predicate {
	return func(env Env) bool { return !p(env) }
}

// CommandAvailable applies when name can be executed
func CommandAvailable(name string) Predicate {
	return func(env Env) bool {
		return env.Commands != nil && env.Commands.Available(name)
	}
}

// Package cli builds the dotinstall command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zyxir/dotinstall/internal/version"
	"github.com/zyxir/dotinstall/pkg/config"
	"github.com/zyxir/dotinstall/pkg/errors"
	"github.com/zyxir/dotinstall/pkg/install"
	"github.com/zyxir/dotinstall/pkg/logging"
	"github.com/zyxir/dotinstall/pkg/platform"
	"github.com/zyxir/dotinstall/pkg/types"
)

// Options replaces host facts, for tests
type Options struct {
	// Start is where the repository search begins (default: working directory)
	Start string
	// Platform overrides detection when set
	Platform *types.Platform
	// FS replaces the OS filesystem
	FS types.FS
}

type rootFlags struct {
	dry      bool
	fonts    bool
	doSwitch bool
	complete bool
	debug    bool
	set      []string
}

func (f rootFlags) runOptions() types.RunOptions {
	return types.NewRunOptions(f.dry, f.fonts, f.doSwitch, f.complete)
}

func (f rootFlags) verbosity() int {
	if f.debug {
		return 1
	}
	return 0
}

func (f rootFlags) logOptions() []logging.Option {
	if f.dry {
		return []logging.Option{logging.WithoutLogFile()}
	}
	return nil
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithOptions(Options{})
}

// NewRootCmdWithOptions creates the root command with host overrides
func NewRootCmdWithOptions(opts Options) *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:     "dotinstall",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity(), flags.logOptions()...)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, flags, opts)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.Flags().BoolVar(&flags.dry, "dry", false, MsgFlagDry)
	rootCmd.Flags().BoolVar(&flags.fonts, "fonts", false, MsgFlagFonts)
	rootCmd.Flags().BoolVar(&flags.doSwitch, "switch", false, MsgFlagSwitch)
	rootCmd.Flags().BoolVar(&flags.complete, "complete", false, MsgFlagComplete)
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, MsgFlagDebug)
	rootCmd.PersistentFlags().StringArrayVar(&flags.set, "set", nil, MsgFlagSet)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newConfigCmd(&flags))
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

func loadSettings(flags rootFlags) (*config.Settings, error) {
	overrides, err := config.ParseOverrides(flags.set)
	if err != nil {
		return nil, err
	}
	return config.Load(overrides)
}

func runInstall(cmd *cobra.Command, flags rootFlags, opts Options) error {
	logger := logging.GetLogger("cli")

	settings, err := loadSettings(flags)
	if err != nil {
		return err
	}

	host := platform.Detect()
	if opts.Platform != nil {
		host = *opts.Platform
	}
	runOpts := flags.runOptions()

	logger.Debug().
		Str("platform", host.String()).
		Bool("dry", runOpts.DryRun).
		Bool("fonts", runOpts.InstallFonts).
		Bool("switch", runOpts.DoSwitch).
		Msg("Starting installation")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	summary, err := install.Run(ctx, install.Config{
		Options:  runOpts,
		Settings: settings,
		Platform: host,
		Start:    opts.Start,
		Out:      cmd.OutOrStdout(),
		FS:       opts.FS,
	})
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrRepositoryNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), MsgRepoNotFound)
		}
		return err
	}

	logger.Info().
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("Installation finished")
	return nil
}

// Reported tells main whether err was already shown to the user
func Reported(err error) bool {
	return errors.IsErrorCode(err, errors.ErrRepositoryNotFound)
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		if !Reported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

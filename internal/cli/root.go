package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tOgg1/threadcopy/internal/config"
	"github.com/tOgg1/threadcopy/internal/logging"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app holds state shared by the commands of one invocation.
type app struct {
	build  BuildInfo
	loader *config.Loader
	cfg    *config.Config
	// isTTY reports whether a writer is an interactive terminal.
	isTTY func(io.Writer) bool
}

// Execute runs the threadcopy command line.
func Execute(build BuildInfo) error {
	return newRootCmd(build).Execute()
}

func newRootCmd(build BuildInfo) *cobra.Command {
	a := &app{
		build:  build,
		loader: config.NewLoader(),
		isTTY:  isTerminal,
	}

	cmd := &cobra.Command{
		Use:           "threadcopy",
		Short:         "Copy a Slack thread as structured messages",
		Long:          "threadcopy reads the open Slack thread from a running Chrome, or from a saved page, and prints its messages in order.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default $XDG_CONFIG_HOME/threadcopy/config.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")

	v := a.loader.Viper()
	_ = v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("logging.format", flags.Lookup("log-format"))

	cmd.AddCommand(
		newExtractCmd(a),
		newVersionCmd(a),
	)

	return cmd
}

// init loads configuration and sets up logging before any command runs.
func (a *app) init(cmd *cobra.Command) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		a.loader.SetConfigFile(path)
	}

	cfg, err := a.loader.Load()
	if err != nil {
		return Exitf(ExitCodeFailure, "%v", err)
	}
	a.cfg = cfg

	logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       cmd.ErrOrStderr(),
		EnableCaller: cfg.Logging.EnableCaller,
		NoColor:      !a.isTTY(cmd.ErrOrStderr()),
	})

	logger := logging.Component("cli")
	if used := a.loader.ConfigFileUsed(); used != "" {
		logger.Debug().Str("path", used).Msg("loaded config file")
	}
	logger.Debug().
		Fields(logging.RedactMap(a.loader.Viper().AllSettings())).
		Msg("effective config")
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "threadcopy %s (commit %s, built %s)\n", a.build.Version, a.build.Commit, a.build.Date)
			return nil
		},
	}
}

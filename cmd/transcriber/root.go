package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nick/transcriber/internal/config"
)

type rootFlags struct {
	configFile string
	socket     string
	tickRate   time.Duration
	offline    bool
	logFile    string
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&rootFlags{})
}

func buildRootCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcriber",
		Short: "Terminal front end for the transcription engine",
		Long: "transcriber connects to the transcription engine over a unix socket, " +
			"shows its output and sends start/stop commands.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags, cmd.Flags())
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&flags.configFile, "config", "f", "", "path to config file (default: searches for transcriber.yaml in current directory)")
	f.StringVar(&flags.logFile, "log-file", "", "write logs to this file")
	cmd.Flags().StringVar(&flags.socket, "socket", "", "engine socket path")
	cmd.Flags().DurationVar(&flags.tickRate, "tick-rate", 0, "interval between ticks")
	cmd.Flags().BoolVar(&flags.offline, "offline", false, "start without an engine when the socket is unreachable")

	cmd.AddCommand(newChatCmd(flags))
	return cmd
}

// loadConfig reads file and environment values and then applies flags
// that were set explicitly.
func loadConfig(flags *rootFlags, set *pflag.FlagSet) (*config.TranscriberConfig, error) {
	cfg, err := config.LoadConfig(flags.configFile)
	if err != nil {
		return nil, &configError{err: err}
	}

	if set.Changed("socket") {
		cfg.SocketPath = flags.socket
	}
	if set.Changed("tick-rate") {
		cfg.TickRate = flags.tickRate
	}
	if set.Changed("offline") && flags.offline {
		cfg.Mode = config.ModeOffline
	}
	if set.Changed("log-file") {
		cfg.LogFile = flags.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, &configError{err: err}
	}
	return cfg, nil
}

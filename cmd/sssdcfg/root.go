package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/meelinux/sssdcfg/internal/adapters/logging"
	"github.com/meelinux/sssdcfg/internal/app"
	"github.com/meelinux/sssdcfg/internal/domain/config"
	"github.com/meelinux/sssdcfg/internal/ports"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "sssdcfg",
	Short: "Declarative SSSD configuration manager",
	Long: `sssdcfg converges a host's SSSD setup to a declared state.

From one declaration file it manages the daemon packages, renders
sssd.conf, keeps the systemd units running, and wires sssd into the
platform's PAM/NSS stack through authselect, authconfig, pam-config
or pam-auth-update. Every step probes current state first and only
acts when the state diverges, so re-running is always safe.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "declaration file (default: sssdcfg.yaml, or $SSSDCFG_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(versionCmd)
}

// configPath resolves the declaration file from flag, environment,
// and default, in that order.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	env, err := config.LoadEnv()
	if err != nil {
		return "", err
	}
	if env.ConfigPath != "" {
		return env.ConfigPath, nil
	}
	return "sssdcfg.yaml", nil
}

// newApp builds the application with logging configured from flags.
func newApp(out io.Writer) (*app.App, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}

	level := env.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if verbose {
		level = "debug"
	}

	logger := logging.NewZerologLogger(
		logging.WithOutput(os.Stderr),
		logging.WithLevel(ports.ParseLevel(level)),
		logging.WithConsoleFormat(true),
	)
	return app.New(out, app.WithLogger(logger)), nil
}

// formatError returns a user-friendly error message. Verbose mode adds
// the underlying technical error.
func formatError(err error) string {
	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr.
func printError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", formatError(err))
}

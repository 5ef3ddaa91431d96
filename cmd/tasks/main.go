// Package main implements the tasks CLI.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Keep a small list of things to do",
	Long: `Keep a small list of things to do.

Tasks are stored as a single list. By default the list lives under
~/.local/state/tasks; see --storage to keep it in sqlite or postgres instead.
Settings are read from ~/.config/tasks/config.toml, ./tasks.toml, a .env file,
and TASKS_* environment variables, in increasing order of precedence.
Flags win over all of them.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadDotEnv,
}

var rootConfigPath string

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootConfigPath, "config", "", "Path to a tasks.toml config file (replaces ./tasks.toml)")
	flags.AddFlagSet(rootStorageFlags.flagSet())
}

package main

import (
	"errors"

	"github.com/amonks/tasks/internal/tasktui"
	"github.com/amonks/tasks/task"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and edit tasks in a full-screen terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(cmd.InOrStdin()) {
		return errors.New("tui requires an interactive terminal")
	}
	return withStore(cmd, func(store *task.Store) error {
		return tasktui.Run(cmd.Context(), tasktui.Options{Store: store, Now: store.Now})
	})
}

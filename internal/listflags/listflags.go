// Package listflags holds flags shared by the list commands.
package listflags

import "github.com/spf13/cobra"

// AddAllFlag adds a shared --all flag that includes archived tasks.
func AddAllFlag(cmd *cobra.Command, target *bool) {
	if target == nil {
		cmd.Flags().Bool("all", false, "Include archived tasks")
		return
	}

	cmd.Flags().BoolVar(target, "all", false, "Include archived tasks")
}

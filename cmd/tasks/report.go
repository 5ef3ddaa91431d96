package main

import (
	"fmt"

	"github.com/amonks/tasks/internal/markdown"
	internalstrings "github.com/amonks/tasks/internal/strings"
	"github.com/amonks/tasks/task"
	"github.com/amonks/tasks/view"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a markdown report of all tasks",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

var reportRaw bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every task, archived included, in storage order",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var exportFormat string

const (
	exportFormatJSON = "json"
	exportFormatYAML = "yaml"
)

func init() {
	rootCmd.AddCommand(reportCmd, exportCmd)

	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print markdown source instead of rendering it")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", exportFormatJSON, "Output format (json, yaml)")
}

func runReport(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(store *task.Store) error {
		out := cmd.OutOrStdout()
		report := markdown.Report(view.Build(store, store.Now()))
		if reportRaw {
			fmt.Fprint(out, report)
			return nil
		}
		fmt.Fprintln(out, string(markdown.SafeRender(outputWidth(out), 0, []byte(report))))
		return nil
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	format := internalstrings.NormalizeLowerTrimSpace(exportFormat)
	if format != exportFormatJSON && format != exportFormatYAML {
		return fmt.Errorf("unknown export format %q: must be json or yaml", exportFormat)
	}

	return withStore(cmd, func(store *task.Store) error {
		tasks := nonNilTasks(store.ListAll())
		out := cmd.OutOrStdout()
		if format == exportFormatJSON {
			return encodeJSON(out, tasks)
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	})
}

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/amonks/tasks/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task list as a web page",
	Long: `Serve the task list as a web page.

The address comes from --addr, TASKS_ADDR, or [web] addr in tasks.toml.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default localhost:8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Addr()
	if serveAddr != "" {
		addr = serveAddr
	}

	store, closeStore, err := openTaskStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	server := web.NewServer(web.Options{
		Store:  store,
		Logger: log.New(os.Stderr, "tasks: ", log.LstdFlags),
		Now:    store.Now,
	})
	fmt.Fprintf(cmd.OutOrStdout(), "Serving tasks at %s\n", web.BaseURL(addr))
	return server.Serve(cmd.Context(), addr)
}

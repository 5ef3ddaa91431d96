package main

import "testing"

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "tasks" {
		t.Fatalf("expected root command name tasks, got %q", rootCmd.Use)
	}
}

func TestRootRegistersCommands(t *testing.T) {
	want := []string{"add", "list", "archived", "show", "status", "start", "finish", "edit", "due",
		"archive", "unarchive", "delete", "summary", "report", "export", "serve", "tui"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("expected command %q to be registered", name)
		}
	}
}

func TestStorageFlagsArePersistent(t *testing.T) {
	for _, name := range []string{"config", "storage", "path", "dsn", "key"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag --%s", name)
		}
	}
}

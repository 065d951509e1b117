// file: cmd/root_test.go
// version: 1.1.0
// guid: 7b2e5c8f-1a4d-4d9b-a673-0e8c2f5b9d41

package cmd

import "testing"

// TestCommandsRegistered verifies the CLI surface is wired up.
func TestCommandsRegistered(t *testing.T) {
	want := []string{"analyze", "report", "tick", "untick", "watch", "config"}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestReportSubcommands(t *testing.T) {
	want := []string{"language", "rating", "folder"}
	registered := map[string]bool{}
	for _, c := range reportCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("report subcommand %q not registered", name)
		}
	}
}

func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "db", "music-dir", "playlists"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag %q not defined", name)
		}
	}
}

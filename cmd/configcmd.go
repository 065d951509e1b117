// file: cmd/configcmd.go
// version: 1.1.0
// guid: 3a7d9f2b-8c5e-4d1a-b846-2f9e6c0d4a73

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackykwe/poweramp-helper/internal/database"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and set the persisted directory locations",
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the persisted configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		settings, err := store.GetSettings(database.SettingMusicDir,
			database.SettingPlaylistDir, database.SettingLastAnalysisMillis)
		if err != nil {
			return err
		}
		printSetting := func(label, key string) {
			if v, ok := settings[key]; ok {
				fmt.Printf("%-22s %s\n", label+":", v)
			} else {
				fmt.Printf("%-22s (not set)\n", label+":")
			}
		}
		printSetting("Music directory", database.SettingMusicDir)
		printSetting("Playlist directory", database.SettingPlaylistDir)
		printSetting("Last analysis (millis)", database.SettingLastAnalysisMillis)
		return nil
	},
}

// configSetMusicDirCmd represents the config set-music-dir command
var configSetMusicDirCmd = &cobra.Command{
	Use:   "set-music-dir <path>",
	Short: "Persist the music directory location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDirSetting(database.SettingMusicDir, args[0])
	},
}

// configSetPlaylistDirCmd represents the config set-playlist-dir command
var configSetPlaylistDirCmd = &cobra.Command{
	Use:   "set-playlist-dir <path>",
	Short: "Persist the playlist directory location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDirSetting(database.SettingPlaylistDir, args[0])
	},
}

func setDirSetting(key, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetSetting(key, abs); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", key, abs)
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetMusicDirCmd)
	configCmd.AddCommand(configSetPlaylistDirCmd)
}

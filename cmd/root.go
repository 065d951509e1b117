// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jackykwe/poweramp-helper/internal/config"
	"github.com/jackykwe/poweramp-helper/internal/database"
)

var cfgFile string
var databasePath string
var musicDir string
var playlistDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "poweramp-helper",
	Short: "Curate a music library and maintain rating/language playlists",
	Long: `Poweramp Helper keeps a catalog of your music folders in sync with the
music directory on disk, tracks which folders you have finished reviewing,
and regenerates the "[Auto]" rating and language playlists from the
canonical "All" playlist.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.poweramp-helper.yaml)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "poweramp-helper.db", "path to the catalog database")
	rootCmd.PersistentFlags().StringVar(&musicDir, "music-dir", "", "music directory containing one subfolder per album")
	rootCmd.PersistentFlags().StringVar(&playlistDir, "playlists", "", "directory holding the m3u8 playlists")

	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("music_dir", rootCmd.PersistentFlags().Lookup("music-dir"))
	viper.BindPFlag("playlist_dir", rootCmd.PersistentFlags().Lookup("playlists"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".poweramp-helper")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()

	// Ensure database directory exists
	if dbDir := filepath.Dir(config.AppConfig.DatabasePath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			fmt.Printf("Error creating database directory: %v\n", err)
		}
	}
}

// openStore opens the catalog and mirrors any directory locations supplied via
// flags, environment, or config file into the settings table, so the analysis
// engine always reads them from the catalog.
func openStore() (*database.SQLiteStore, error) {
	store, err := database.NewSQLiteStore(config.AppConfig.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	pairs := map[string]string{}
	if config.AppConfig.MusicDir != "" {
		pairs[database.SettingMusicDir] = config.AppConfig.MusicDir
	}
	if config.AppConfig.PlaylistDir != "" {
		pairs[database.SettingPlaylistDir] = config.AppConfig.PlaylistDir
	}
	if len(pairs) > 0 {
		if err := store.SetSettings(pairs); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to persist directory settings: %w", err)
		}
	}
	return store, nil
}

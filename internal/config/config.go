// file: internal/config/config.go
// version: 1.3.0
// guid: 8f4c2a6e-1b9d-4d3f-a748-5e2c8b0d6f91

package config

import (
	"github.com/spf13/viper"
)

// Config holds application configuration. The two directory locations, when
// set, are mirrored into the catalog's settings table at startup so the
// analysis engine reads them from the catalog rather than from process flags.
type Config struct {
	DatabasePath string
	MusicDir     string
	PlaylistDir  string
}

var AppConfig Config

// InitConfig initializes the application configuration from viper (flags,
// environment, optional config file).
func InitConfig() {
	viper.SetDefault("database_path", "poweramp-helper.db")

	AppConfig = Config{
		DatabasePath: viper.GetString("database_path"),
		MusicDir:     viper.GetString("music_dir"),
		PlaylistDir:  viper.GetString("playlist_dir"),
	}
}

// file: cmd/analyze.go
// version: 1.2.0
// guid: 2e6a9c4f-7d1b-4e8a-b350-9f2c6d8e0a47

package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jackykwe/poweramp-helper/internal/analysis"
	"github.com/jackykwe/poweramp-helper/internal/database"
	"github.com/jackykwe/poweramp-helper/internal/fsys"
	"github.com/jackykwe/poweramp-helper/internal/metrics"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Synchronize the catalog with the music directory and playlists",
	Long: `Analyze scans the music directory, reconciles the folder catalog,
invalidates done marks on folders that changed since they were ticked,
reloads ratings from the "All" playlist, applies language tags from the
six language playlists, and rewrites the "[Auto]" playlists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		metrics.Register()
		analyzer := analysis.New(store, fsys.NewOS())

		bar := progressbar.Default(100, "Starting...")
		err = analyzer.Analyze(func(fraction float64, label string) {
			bar.Describe(label)
			bar.Set(int(fraction * 100))
		})
		fmt.Println()
		if err != nil {
			if errors.Is(err, analysis.ErrConfigMissing) {
				return fmt.Errorf("%w (set them with --music-dir/--playlists or the config command)", err)
			}
			return err
		}

		if millis, err := store.GetSetting(database.SettingLastAnalysisMillis); err == nil && millis != nil {
			if v, convErr := strconv.ParseInt(*millis, 10, 64); convErr == nil {
				fmt.Printf("Analysis completed at %s\n", time.UnixMilli(v).Format(time.RFC1123))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

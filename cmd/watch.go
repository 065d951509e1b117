// file: cmd/watch.go
// version: 1.2.0
// guid: 7f3b8d1c-6e4a-4b9f-a205-8c1d5e9f3b67

package cmd

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jackykwe/poweramp-helper/internal/analysis"
	"github.com/jackykwe/poweramp-helper/internal/database"
	"github.com/jackykwe/poweramp-helper/internal/fsys"
	"github.com/jackykwe/poweramp-helper/internal/metrics"
	"github.com/jackykwe/poweramp-helper/internal/models"
	"github.com/jackykwe/poweramp-helper/internal/realtime"
	"github.com/jackykwe/poweramp-helper/internal/watcher"
)

var watchDebounce time.Duration
var metricsAddr string

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run analysis whenever the music directory changes",
	Long: `Watch runs one analysis immediately, then monitors the music directory
and re-runs analysis after changes settle. Changes arriving while a run is
active are picked up by the next debounce window.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		musicDirSetting, err := store.GetSetting(database.SettingMusicDir)
		if err != nil {
			return err
		}
		if musicDirSetting == nil {
			return analysis.ErrConfigMissing
		}

		metrics.Register()
		if metricsAddr != "" {
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				if err := http.ListenAndServe(metricsAddr, mux); err != nil {
					log.Printf("[ERROR] metrics server: %v", err)
				}
			}()
			fmt.Printf("Serving metrics on %s/metrics\n", metricsAddr)
		}

		analyzer := analysis.New(store, fsys.NewOS())

		// Log a one-line summary whenever the catalog's language view changes.
		feed := realtime.NewFeed(store, store.FolderLangStats)
		go func() {
			for rows := range feed.Subscribe() {
				pending := 0
				for i := range rows {
					if rows[i].State() != models.Done {
						pending++
					}
				}
				log.Printf("[INFO] catalog: %d folder(s), %d pending review", len(rows), pending)
			}
		}()

		runAnalysis := func() {
			err := analyzer.Analyze(nil)
			switch {
			case errors.Is(err, analysis.ErrAnalysisInProgress):
				log.Printf("[WARN] analysis already running; change will be caught next time")
			case err != nil:
				log.Printf("[ERROR] analysis failed: %v", err)
			}
		}

		runAnalysis()

		w := watcher.New(func(string) { runAnalysis() }, watchDebounce)
		if err := w.Start(*musicDirSetting); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer w.Stop()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", *musicDirSetting)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		fmt.Println("\nShutting down...")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"settle period before re-running analysis")
	watchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "",
		"address to serve Prometheus metrics on (disabled if empty)")
}

// file: cmd/report.go
// version: 1.3.0
// guid: 8d1f4b7a-3c6e-4a9d-b082-5e7f9c2a6d34

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackykwe/poweramp-helper/internal/database"
	"github.com/jackykwe/poweramp-helper/internal/models"
	"github.com/jackykwe/poweramp-helper/internal/stats"
)

var langSortFlag string
var langPendingFirstFlag bool
var langDescendingFlag bool
var ratingSortFlag string
var ratingDescendingFlag bool

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show per-folder catalog statistics",
}

// reportLanguageCmd represents the report language command
var reportLanguageCmd = &cobra.Command{
	Use:   "language",
	Short: "Show per-folder language tag counts",
	Long: `Shows, for every catalogued folder, how many files carry each language
tag and how many carry none ("-"). Sort preferences are persisted, so the
next invocation reuses the last explicitly chosen sort.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		key, pendingFirst, descending, err := languageSortPrefs(cmd, store)
		if err != nil {
			return err
		}

		rows, err := store.FolderLangStats()
		if err != nil {
			return err
		}
		stats.SortLanguageStats(rows, key, pendingFirst, descending)

		fmt.Printf("%-40s %-12s %5s %5s %5s %5s %5s %5s %5s %5s\n",
			"Folder", "State", "EN", "CN", "JP", "KR", "O", "Ch", "-", "Σ")
		for i := range rows {
			r := &rows[i]
			fmt.Printf("%-40s %-12s %5d %5d %5d %5d %5d %5d %5d %5d\n",
				r.DisplayName, r.State().String(),
				r.ENCount, r.CNCount, r.JPCount, r.KRCount,
				r.OCount, r.ChCount, r.MinusCount, r.FileCount)
		}
		return nil
	},
}

// reportRatingCmd represents the report rating command
var reportRatingCmd = &cobra.Command{
	Use:   "rating",
	Short: "Show per-folder rating bucket counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		key, descending, err := ratingSortPrefs(cmd, store)
		if err != nil {
			return err
		}

		rows, err := store.FolderRatingStats()
		if err != nil {
			return err
		}
		stats.SortRatingStats(rows, key, descending)

		fmt.Printf("%-40s %5s %5s %5s %5s %5s %5s %5s %9s\n",
			"Folder", "0S", "1S", "2S", "3S", "4S", "5S", "Σ", "Progress")
		for i := range rows {
			r := &rows[i]
			fmt.Printf("%-40s %5d %5d %5d %5d %5d %5d %5d %8d%%\n",
				r.DisplayName,
				r.RatingCounts[0], r.RatingCounts[1], r.RatingCounts[2],
				r.RatingCounts[3], r.RatingCounts[4], r.RatingCounts[5],
				r.FileCount, r.RatingProgressPercent())
		}
		return nil
	},
}

// reportFolderCmd represents the report folder command
var reportFolderCmd = &cobra.Command{
	Use:   "folder <display-name>",
	Short: "List untagged and unrated files in one folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		folder, err := folderByDisplayName(store, args[0])
		if err != nil {
			return err
		}

		untagged, err := store.UntaggedFiles(folder.ID)
		if err != nil {
			return err
		}
		unrated, err := store.UnratedFiles(folder.ID)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", folder.DisplayName, folder.State().String())
		fmt.Printf("\nFiles without a language tag (%d):\n", len(untagged))
		for _, f := range untagged {
			fmt.Printf("  %s\n", f.FileName)
		}
		fmt.Printf("\nFiles without a rating (%d):\n", len(unrated))
		for _, f := range unrated {
			fmt.Printf("  %s\n", f.FileName)
		}
		return nil
	},
}

// languageSortPrefs resolves the effective language sort: explicitly set flags
// win and are persisted; otherwise the persisted preference applies; otherwise
// the defaults (Name ascending, pending first).
func languageSortPrefs(cmd *cobra.Command, store database.Store) (stats.LanguageSortKey, bool, bool, error) {
	key := stats.LangSortName
	pendingFirst := true
	descending := false

	saved, err := store.GetSettings(database.SettingLangSortOption,
		database.SettingLangSortPendingFirst, database.SettingLangSortDescending)
	if err != nil {
		return "", false, false, err
	}
	if s, ok := saved[database.SettingLangSortOption]; ok {
		if parsed, parseErr := stats.ParseLanguageSortKey(s); parseErr == nil {
			key = parsed
		}
	}
	if s, ok := saved[database.SettingLangSortPendingFirst]; ok {
		pendingFirst = s == "true"
	}
	if s, ok := saved[database.SettingLangSortDescending]; ok {
		descending = s == "true"
	}

	persist := map[string]string{}
	if cmd.Flags().Changed("sort") {
		parsed, parseErr := stats.ParseLanguageSortKey(langSortFlag)
		if parseErr != nil {
			return "", false, false, parseErr
		}
		key = parsed
		persist[database.SettingLangSortOption] = string(key)
	}
	if cmd.Flags().Changed("pending-first") {
		pendingFirst = langPendingFirstFlag
		persist[database.SettingLangSortPendingFirst] = fmt.Sprintf("%t", pendingFirst)
	}
	if cmd.Flags().Changed("descending") {
		descending = langDescendingFlag
		persist[database.SettingLangSortDescending] = fmt.Sprintf("%t", descending)
	}
	if len(persist) > 0 {
		if err := store.SetSettings(persist); err != nil {
			return "", false, false, err
		}
	}
	return key, pendingFirst, descending, nil
}

// ratingSortPrefs resolves the effective rating sort, same precedence as
// languageSortPrefs.
func ratingSortPrefs(cmd *cobra.Command, store database.Store) (stats.RatingSortKey, bool, error) {
	key := stats.RatingSortName
	descending := false

	saved, err := store.GetSettings(database.SettingRatingSortOption,
		database.SettingRatingSortDescending)
	if err != nil {
		return "", false, err
	}
	if s, ok := saved[database.SettingRatingSortOption]; ok {
		if parsed, parseErr := stats.ParseRatingSortKey(s); parseErr == nil {
			key = parsed
		}
	}
	if s, ok := saved[database.SettingRatingSortDescending]; ok {
		descending = s == "true"
	}

	persist := map[string]string{}
	if cmd.Flags().Changed("sort") {
		parsed, parseErr := stats.ParseRatingSortKey(ratingSortFlag)
		if parseErr != nil {
			return "", false, parseErr
		}
		key = parsed
		persist[database.SettingRatingSortOption] = string(key)
	}
	if cmd.Flags().Changed("descending") {
		descending = ratingDescendingFlag
		persist[database.SettingRatingSortDescending] = fmt.Sprintf("%t", descending)
	}
	if len(persist) > 0 {
		if err := store.SetSettings(persist); err != nil {
			return "", false, err
		}
	}
	return key, descending, nil
}

// folderByDisplayName resolves a catalogued folder by its display name.
func folderByDisplayName(store database.Store, name string) (*models.MusicFolder, error) {
	folders, err := store.ListFolders()
	if err != nil {
		return nil, err
	}
	for i := range folders {
		if folders[i].DisplayName == name {
			return &folders[i], nil
		}
	}
	return nil, fmt.Errorf("no catalogued folder named %q (run analyze first?)", name)
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportLanguageCmd)
	reportCmd.AddCommand(reportRatingCmd)
	reportCmd.AddCommand(reportFolderCmd)

	reportLanguageCmd.Flags().StringVar(&langSortFlag, "sort", string(stats.LangSortName),
		`sort column ("Name", "EN Count", ..., "- Count", "Σ Count")`)
	reportLanguageCmd.Flags().BoolVar(&langPendingFirstFlag, "pending-first", true,
		"group folders needing attention before done folders")
	reportLanguageCmd.Flags().BoolVar(&langDescendingFlag, "descending", false,
		"sort in descending order")

	reportRatingCmd.Flags().StringVar(&ratingSortFlag, "sort", string(stats.RatingSortName),
		`sort column ("Name", "0S Count", ..., "5S Count")`)
	reportRatingCmd.Flags().BoolVar(&ratingDescendingFlag, "descending", false,
		"sort in descending order")
}

// file: cmd/mark.go
// version: 1.1.0
// guid: 5c9e2a7d-4f8b-4c1e-a693-0d6b8e3f5a29

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// tickCmd represents the tick command
var tickCmd = &cobra.Command{
	Use:   "tick <display-name>",
	Short: "Mark a folder's review as done",
	Long: `Records the current time as the folder's done mark. A folder that was
auto-reset returns to the done state; the reset timestamp is cleared.`,
	Args: cobra.ExactArgs(1),
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
		if err := store.MarkDone(folder.ID, time.Now()); err != nil {
			return err
		}
		fmt.Printf("Marked %q done\n", folder.DisplayName)
		return nil
	},
}

// untickCmd represents the untick command
var untickCmd = &cobra.Command{
	Use:   "untick <display-name>",
	Short: "Clear a folder's done mark",
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
		if err := store.MarkNotDone(folder.ID); err != nil {
			return err
		}
		fmt.Printf("Marked %q not done\n", folder.DisplayName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tickCmd)
	rootCmd.AddCommand(untickCmd)
}

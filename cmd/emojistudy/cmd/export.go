package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	bboltstorage "github.com/SPR1NGQAQ/Emoji-password-prototype/storage/bbolt"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/study"
)

var (
	exportDataDir string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Rebuild the dataset CSV from stored study data",
	Long: `Regenerates the full dataset file from the study database, one row per
participant. Useful after a crash or when the CSV was deleted; the running
server appends rows incrementally on its own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := filepath.Join(exportDataDir, "study.db")
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("no study database at %s: %w", dbPath, err)
		}

		store, err := bboltstorage.NewRepositoryFromFile(dbPath, nil)
		if err != nil {
			return fmt.Errorf("failed to open study storage: %w", err)
		}
		defer store.Close()

		n, err := study.RebuildCSV(store, exportOut)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Printf("Wrote %d participant rows to %s\n", n, exportOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDataDir, "data-dir", "./data", "Directory holding the study database")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "./data/data.csv", "Output CSV file")
}

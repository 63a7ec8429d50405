package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nethalo/bulkreader/internal/localdata"
	"github.com/nethalo/bulkreader/internal/ring"
	"github.com/nethalo/bulkreader/internal/sstable"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var generateCmd = &cobra.Command{
	Use:          "generate",
	Short:        "Populate the demo data directory with fake sstables",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir := viper.GetString("data_dir")

		r, _, err := buildDemoCluster()
		if err != nil {
			return err
		}

		for _, sr := range r.SubRanges() {
			for _, inst := range sr.Replicas {
				dir := filepath.Join(dataDir, inst.NodeName)
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("creating %s: %w", dir, err)
				}
				if err := writeDemoFile(dir, sr.Range, sstable.Unrepaired, "0"); err != nil {
					return err
				}
				if err := writeDemoFile(dir, sr.Range, sstable.Repaired, "1"); err != nil {
					return err
				}
			}
		}

		fmt.Printf("generated demo sstables under %s\n", dataDir)
		return nil
	},
}

func writeDemoFile(dir string, rng ring.Range, repair sstable.RepairState, suffix string) error {
	name := localdata.SSTableFileName(rng, repair, suffix)
	return os.WriteFile(filepath.Join(dir, name), []byte("demo sstable\n"), 0o644)
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

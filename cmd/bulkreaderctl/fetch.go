package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/nethalo/bulkreader"
	"github.com/nethalo/bulkreader/internal/availability"
	"github.com/nethalo/bulkreader/internal/consistency"
	"github.com/nethalo/bulkreader/internal/executor"
	"github.com/nethalo/bulkreader/internal/localdata"
	"github.com/nethalo/bulkreader/internal/metrics"
	"github.com/nethalo/bulkreader/internal/output"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var fetchCmd = &cobra.Command{
	Use:          "fetch [partition-id]",
	Short:        "Plan and fetch sstables for one engine partition",
	SilenceUsage: true,
	Args:         cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		partitionID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid partition id %q: %w", args[0], err)
		}

		level, err := consistency.Parse(viper.GetString("consistency_level"))
		if err != nil {
			return err
		}

		r, sch, err := buildDemoCluster()
		if err != nil {
			return err
		}
		sink := metrics.New(prometheus.NewRegistry())
		layer, err := localdata.New(viper.GetString("data_dir"), r, viper.GetInt("partitions"), executor.New(viper.GetInt("max_concurrency")), availability.AlwaysUnknown{}, sink)
		if err != nil {
			return err
		}

		pdl, err := bulkreader.NewPartitionedDataLayer(layer, sch, level, viper.GetString("datacenter"), partitionID)
		if err != nil {
			return err
		}

		renderer := output.NewRenderer(viper.GetString("format"), os.Stdout)
		supplier, err := pdl.SSTables(context.Background(), nil)
		if err != nil {
			renderer.RenderFetch(output.FetchView{PartitionID: partitionID, Err: err})
			return err
		}

		renderer.RenderFetch(output.FetchView{PartitionID: partitionID, Handles: supplier.SSTables()})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/nethalo/bulkreader/internal/availability"
	"github.com/nethalo/bulkreader/internal/consistency"
	"github.com/nethalo/bulkreader/internal/executor"
	"github.com/nethalo/bulkreader/internal/localdata"
	"github.com/nethalo/bulkreader/internal/metrics"
	"github.com/nethalo/bulkreader/internal/output"
	"github.com/nethalo/bulkreader/internal/replica"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var planCmd = &cobra.Command{
	Use:          "plan [partition-id]",
	Short:        "Show the replica plan for one engine partition",
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
		dc := viper.GetString("datacenter")

		r, sch, err := buildDemoCluster()
		if err != nil {
			return err
		}
		sink := metrics.New(prometheus.NewRegistry())
		layer, err := localdata.New(viper.GetString("data_dir"), r, viper.GetInt("partitions"), executor.New(viper.GetInt("max_concurrency")), availability.AlwaysUnknown{}, sink)
		if err != nil {
			return err
		}

		rng, err := layer.TokenPartitioner().RangeFor(partitionID)
		if err != nil {
			return err
		}

		planner := replica.NewPlanner()
		set, err := planner.Plan(replica.PlanInput{
			ConsistencyLevel: level,
			DC:               dc,
			Ring:             layer.Ring(),
			RF:               sch.ReplicationFactor,
			EngineRange:      rng,
			Availability:     layer,
			PartitionID:      partitionID,
			Stats:            layer.Stats(),
		})
		if err != nil {
			return err
		}

		renderer := output.NewRenderer(viper.GetString("format"), os.Stdout)
		renderer.RenderPlan(output.PlanView{
			PartitionID: partitionID,
			Range:       rng,
			DC:          dc,
			Set:         set,
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}

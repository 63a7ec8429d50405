package main

import (
	"fmt"
	"os"

	bulkreaderconfig "github.com/nethalo/bulkreader/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var cfgFile string
var cfg bulkreaderconfig.Config

var rootCmd = &cobra.Command{
	Use:   "bulkreaderctl",
	Short: "Plan and fetch bulk reads against a demo bulk-reader cluster",
	Long: `bulkreaderctl drives the bulk reader's replica planner and
multi-replica coordinator against a filesystem-backed demo cluster.

Use "bulkreaderctl generate" to populate a demo data directory, then
"bulkreaderctl plan" to see how a partition's reads would be routed,
and "bulkreaderctl fetch" to actually run the coordinator against it.`,
}

// Execute is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := bulkreaderconfig.Defaults()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bulkreaderctl/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", defaults.DataDir, "demo data directory")
	rootCmd.PersistentFlags().Int("partitions", defaults.Partitions, "number of engine partitions")
	rootCmd.PersistentFlags().String("consistency", defaults.ConsistencyLevel, "consistency level (ONE, QUORUM, LOCAL_QUORUM, ALL, ...)")
	rootCmd.PersistentFlags().String("dc", defaults.DataCenter, "datacenter, required for DC-local consistency levels")
	rootCmd.PersistentFlags().StringP("format", "f", defaults.Format, "output format: text, plain, json")

	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("partitions", rootCmd.PersistentFlags().Lookup("partitions"))
	viper.BindPFlag("consistency_level", rootCmd.PersistentFlags().Lookup("consistency"))
	viper.BindPFlag("datacenter", rootCmd.PersistentFlags().Lookup("dc"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
}

func initConfig() {
	loaded, err := bulkreaderconfig.Load(viper.GetViper(), cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return
	}
	cfg = loaded

	if !rootCmd.PersistentFlags().Changed("format") && !term.IsTerminal(int(os.Stdout.Fd())) {
		cfg.Format = "plain"
		viper.Set("format", "plain")
	}
}

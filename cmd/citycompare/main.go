package main

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kirikuroda/citycompare/engine"
)

func init() {
	// SDL3 requires the main thread for some operations.
	runtime.LockOSThread()
}

var cfg *engine.Config

var rootCmd = &cobra.Command{
	Use:   "citycompare",
	Short: "City population comparison experiment",
	Long: "Shows two city names per trial and records which one the participant " +
		"judges to have the larger population, with counterbalanced placement " +
		"and randomized trial order.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := engine.Load(cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c

		return engine.InitLogger(cfg.Log)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("catalog", "", "trial catalog CSV (default city.csv)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(runCmd, catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

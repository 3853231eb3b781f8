package main

import (
	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kirikuroda/citycompare/engine"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one experiment session",
	Long: `Opens the participant dialog, then runs every trial of the catalog.

Results go to <output-dir>/csv/<subj_id>_<timestamp>.csv and the diagnostic
log to <output-dir>/log/. Cancelling the dialog exits without writing anything.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		defer binsdl.Load().Unload()
		defer binttf.Load().Unload()

		return engine.Run(cfg, zap.L())
	},
}

func init() {
	runCmd.Flags().String("output-dir", "", "output directory (default data)")
	runCmd.Flags().Bool("fullscreen", false, "run in fullscreen")
	runCmd.Flags().Uint64("seed", 0, "random seed for trial order and placement (0 = clock)")
	runCmd.Flags().String("archive", "", "SQLite database that also receives every record")
	runCmd.Flags().String("trigger", "", "serial device of a DLP-IO8-G trigger box")
}

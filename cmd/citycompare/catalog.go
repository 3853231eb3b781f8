package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kirikuroda/citycompare/engine"
)

var catalogSchedule bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate the trial catalog and print its answers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog, err := engine.LoadCatalog(cfg.Catalog.Path, cfg.Catalog.Encoding)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printCatalog(out, catalog)

		if !catalogSchedule {
			return nil
		}
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		schedule, err := engine.NewSchedule(catalog.Len(), rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			return err
		}
		printSchedule(out, catalog, schedule, seed)
		return nil
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogSchedule, "schedule", false, "also print a schedule drawn with the configured seed")
	catalogCmd.Flags().Uint64("seed", 0, "random seed for --schedule (0 = random)")
}

func printCatalog(w io.Writer, catalog *engine.Catalog) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "item\tcity_1\tcity_2\tpopulation_1\tpopulation_2\tcorrect_answer")
	for i, t := range catalog.Trials {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n", i, t.City1, t.City2, t.Population1, t.Population2, t.CorrectSide())
	}
	tw.Flush()
}

func printSchedule(w io.Writer, catalog *engine.Catalog, s engine.Schedule, seed uint64) {
	fmt.Fprintf(w, "\nschedule (seed %d)\n", seed)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "trial\titem\tpos\tleft\tright")
	for i, item := range s.Order {
		left, right := catalog.Trials[item].Layout(s.Positions[i])
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", i, item, s.Positions[i], left, right)
	}
	tw.Flush()
}

package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/chaos"
	"github.com/san-kum/ifscloud/internal/export"
)

func newBenchCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		counts []int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark generation and encoding throughput",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, label, err := in.load(cmd, a)
			if err != nil {
				return err
			}
			ts := doc.Transforms()

			fmt.Fprintf(cmd.OutOrStdout(), "benchmarking %s\n\n", label)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "POINTS\tSTAGE\tTIME\tPOINTS/SEC\tBYTES")

			for _, n := range counts {
				cfg := doc.Settings.RunConfig()
				cfg.Points = n
				start := time.Now()
				cloud, err := chaos.NewSeeded(doc.Settings.Seed).Run(cmd.Context(), ts, cfg)
				if err != nil {
					return err
				}
				elapsed := time.Since(start)
				fmt.Fprintf(w, "%d\tgenerate\t%v\t%.0f\t-\n", n, elapsed.Round(time.Microsecond), rate(n, elapsed))

				for _, e := range export.Formats() {
					opts := export.DefaultOptions(e.Format)
					opts.Encoding = export.Binary
					start = time.Now()
					st, err := e.Encode(io.Discard, cloud, opts)
					if err != nil {
						return err
					}
					elapsed = time.Since(start)
					fmt.Fprintf(w, "%d\t%s\t%v\t%.0f\t%d\n", n, e.Format, elapsed.Round(time.Microsecond), rate(n, elapsed), st.Bytes)
				}
			}
			return w.Flush()
		},
	}
	in.register(cmd)
	cmd.Flags().IntSliceVar(&counts, "counts", []int{10000, 100000, 1000000}, "point counts to run")
	return cmd
}

func rate(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}

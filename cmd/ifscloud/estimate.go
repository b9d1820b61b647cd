package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/config"
	"github.com/san-kum/ifscloud/internal/export"
)

func newEstimateCmd(a *app) *cobra.Command {
	var (
		out    exportFlags
		points int
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "estimate export file sizes",
		Long:  "Without --format every format is listed. Estimates are budgets, not exact sizes, except for LAS and binary PLY.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var formats []export.Format
			if cmd.Flags().Changed("format") {
				f, err := export.ParseFormat(out.format)
				if err != nil {
					return err
				}
				formats = []export.Format{f}
			} else {
				for _, e := range export.Formats() {
					formats = append(formats, e.Format)
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FORMAT\tPOINTS\tBYTES\tSIZE")
			for _, f := range formats {
				out.format = string(f)
				opts, err := out.options(cmd, nil)
				if err != nil {
					return err
				}
				n, err := export.Estimate(opts, points, true)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", f, points, n, humanBytes(n))
			}
			return w.Flush()
		},
	}
	out.register(cmd, export.PLY)
	cmd.Flags().IntVarP(&points, "points", "n", config.DefaultIterations, "point count")
	return cmd
}

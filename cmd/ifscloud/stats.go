package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/analysis"
	"github.com/san-kum/ifscloud/internal/ifs"
	"github.com/san-kum/ifscloud/internal/viz"
)

var axisNames = [3]string{"x", "y", "z"}

func newStatsCmd(a *app) *cobra.Command {
	var (
		in    inputFlags
		bins  int
		depth int
		plots bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "generate a cloud and summarize it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, label, err := in.load(cmd, a)
			if err != nil {
				return err
			}
			cloud, err := generate(cmd.Context(), doc, label, false)
			if err != nil {
				return err
			}
			ts := doc.Transforms()
			st := analysis.Compute(cloud, ts)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, viz.Title.Render(label))
			fmt.Fprintln(out, viz.KeyValue("points", 12, fmt.Sprint(st.Points)))
			fmt.Fprintln(out, viz.KeyValue("min", 12, fmt.Sprintf("%.4f %.4f %.4f", st.Bounds.Min[0], st.Bounds.Min[1], st.Bounds.Min[2])))
			fmt.Fprintln(out, viz.KeyValue("max", 12, fmt.Sprintf("%.4f %.4f %.4f", st.Bounds.Max[0], st.Bounds.Max[1], st.Bounds.Max[2])))
			fmt.Fprintln(out, viz.KeyValue("centroid", 12, fmt.Sprintf("%.4f %.4f %.4f", st.Centroid[0], st.Centroid[1], st.Centroid[2])))

			enabled := ifs.Enabled(ts)
			switch dim, err := analysis.SimilarityDimension(enabled); {
			case errors.Is(err, analysis.ErrNotContractive):
				fmt.Fprintln(out, viz.KeyValue("similarity", 12, "n/a (not contractive)"))
			case err != nil:
				return err
			default:
				fmt.Fprintln(out, viz.KeyValue("similarity", 12, fmt.Sprintf("%.4f", dim)))
			}
			fmt.Fprintln(out, viz.KeyValue("box dim", 12, fmt.Sprintf("%.4f", analysis.BoxDimension(cloud, depth))))

			fmt.Fprintln(out)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tNAME\tWEIGHT\tHITS\tSHARE\tCONTRACTION\tCOLOR")
			for i, t := range enabled {
				hits := 0
				if i < len(st.Hits) {
					hits = st.Hits[i]
				}
				fmt.Fprintf(tw, "%d\t%s\t%.4f\t%d\t%.4f\t%.4f\t%s\n", i, t.Name, t.Weight, hits, st.Share(i), analysis.ContractionFactor(t), t.Color.Hex())
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if st.Unattributed > 0 {
				fmt.Fprintln(out, viz.Subtle.Render(fmt.Sprintf("%d points share no transform color", st.Unattributed)))
			}

			if !plots || cloud.IsEmpty() {
				return nil
			}
			for axis, name := range axisNames {
				h := analysis.Histogram(cloud, axis, bins)
				data := make([]float64, len(h))
				for i, v := range h {
					data[i] = float64(v)
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, asciigraph.Plot(data,
					asciigraph.Height(8),
					asciigraph.Width(60),
					asciigraph.Caption(fmt.Sprintf("%s distribution (%d bins)", name, bins))))
			}
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().IntVar(&bins, "bins", 40, "histogram bins per axis")
	cmd.Flags().IntVar(&depth, "box-depth", 7, "box-counting subdivision levels")
	cmd.Flags().BoolVar(&plots, "plots", true, "print axis histograms")
	return cmd
}

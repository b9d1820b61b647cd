package main

import (
	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/chaos"
	"github.com/san-kum/ifscloud/internal/export"
)

func newExportHDCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		format string
		ascii  bool
		points int
		dir    string
		noCol  bool
	)
	cmd := &cobra.Command{
		Use:   "export-hd",
		Short: "generate and export a high-density cloud (PLY or LAS/LAZ)",
		Long: `export-hd generates its own cloud, ignoring the document's iteration
count: weights are normalized, there is no burn-in and coordinates are
scaled by 10. The file is named ifs-<count>-points-<unixms>.<ext>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, label, err := in.load(cmd, a)
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			opts := export.DefaultOptions(f)
			opts.IncludeColors = !noCol
			opts.Encoding = export.Binary
			if ascii {
				opts.Encoding = export.ASCII
			}

			logger := loggerFromContext(cmd.Context())
			logger.Info("high-density export", "source", label, "format", f, "points", points)
			p := newProgress(logger)
			r := export.ExportHighDensity(cmd.Context(), doc.Settings.Engine(), doc.Matrices, export.HighDensityOptions{
				Options:  opts,
				Points:   points,
				Dir:      dir,
				Progress: p.report("generating"),
			})
			if r.Success {
				p.done("high-density export finished", "points", r.VertexCount)
			}
			return report(cmd, r)
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(export.PLY), "ply, las or laz")
	cmd.Flags().BoolVar(&ascii, "ascii", false, "write ASCII PLY instead of binary")
	cmd.Flags().IntVar(&points, "points", chaos.DefaultHighDensityPoints, "points to generate")
	cmd.Flags().StringVarP(&dir, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&noCol, "no-colors", false, "omit per-point colors")
	return cmd
}

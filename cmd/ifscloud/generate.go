package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/export"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		in      inputFlags
		out     exportFlags
		dest    string
		all     bool
		jobs    int
		ui      bool
		formats []string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a point cloud and export it",
		Example: `  ifscloud generate -p barnsley_fern -f ply --encoding binary -o fern.ply
  ifscloud generate -c my.yaml -n 200000 --all -o out/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, label, err := in.load(cmd, a)
			if err != nil {
				return err
			}
			opts, err := out.options(cmd, doc)
			if err != nil {
				return err
			}
			cloud, err := generate(cmd.Context(), doc, label, ui)
			if err != nil {
				return err
			}

			if !all && len(formats) == 0 {
				return report(cmd, export.ExportFile(dest, cloud, opts))
			}

			var fs []export.Format
			if all {
				for _, e := range export.Formats() {
					fs = append(fs, e.Format)
				}
			}
			for _, s := range formats {
				f, err := export.ParseFormat(s)
				if err != nil {
					return err
				}
				fs = append(fs, f)
			}
			if fi, err := os.Stat(dest); err == nil && !fi.IsDir() {
				return fmt.Errorf("%s is a file; multi-format export needs a directory", dest)
			}
			base := fmt.Sprintf("%s-%d", strings.ReplaceAll(label, " ", "_"), cloud.Len())
			results, err := export.ExportAll(cmd.Context(), dest, base, cloud, fs, opts, jobs)
			for _, r := range results {
				if r.Format == "" {
					continue
				}
				if rerr := report(cmd, r); rerr != nil && err == nil {
					err = rerr
				}
			}
			return err
		},
	}
	in.register(cmd)
	out.register(cmd, export.PLY)
	cmd.Flags().StringVarP(&dest, "output", "o", ".", "output file or directory")
	cmd.Flags().BoolVar(&all, "all", false, "export every format into the output directory")
	cmd.Flags().StringSliceVar(&formats, "formats", nil, "export these formats into the output directory")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "concurrent encoders for multi-format export (0 = one per format)")
	cmd.Flags().BoolVar(&ui, "tui", false, "show an interactive progress view")
	cmd.MarkFlagsMutuallyExclusive("all", "formats")
	return cmd
}

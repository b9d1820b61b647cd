package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/analysis"
	"github.com/san-kum/ifscloud/internal/attractor"
	"github.com/san-kum/ifscloud/internal/export"
	"github.com/san-kum/ifscloud/internal/viz"
)

func newAttractorCmd() *cobra.Command {
	var (
		out      exportFlags
		steps    int
		dt       float64
		params   []string
		scheme   string
		dest     string
		preview  bool
		lyapunov bool
	)
	cmd := &cobra.Command{
		Use:       "attractor [system]",
		Short:     "trace a strange attractor and export it",
		Long:      "Systems: " + strings.Join(attractor.Names(), ", ") + ".",
		Example:   "  ifscloud attractor lorenz --param rho=28 --colors fire -f ply -o lorenz.ply",
		Args:      cobra.ExactArgs(1),
		ValidArgs: attractor.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := attractor.New(args[0])
			if err != nil {
				return err
			}
			for _, kv := range params {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("param %q: want name=value", kv)
				}
				f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil {
					return fmt.Errorf("param %s: %w", k, err)
				}
				if err := sys.SetParam(strings.TrimSpace(k), f); err != nil {
					return err
				}
			}
			opts, err := out.options(cmd, nil)
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			p := newProgress(logger)
			cloud, err := attractor.Generate(cmd.Context(), sys, steps, dt)
			if err != nil {
				return err
			}
			if scheme != "" {
				if cloud, err = attractor.Colorize(cloud, scheme); err != nil {
					return err
				}
			}
			p.done("traced", "system", sys.Name(), "points", cloud.Len())

			w := cmd.OutOrStdout()
			if lyapunov {
				l := analysis.LyapunovExponent(sys, dt, steps, 1e-8)
				fmt.Fprintln(w, viz.KeyValue("largest lyapunov exponent", 28, fmt.Sprintf("%.4f", l)))
			}
			if preview {
				fmt.Fprint(w, viz.Preview(cloud, nil, 60, 20).Render(viz.Subtle))
			}
			if dest == "" {
				return nil
			}
			return report(cmd, export.ExportFile(dest, cloud, opts))
		},
	}
	out.register(cmd, export.PLY)
	cmd.Flags().IntVar(&steps, "steps", attractor.DefaultSteps, "integration steps")
	cmd.Flags().Float64Var(&dt, "dt", attractor.DefaultDT, "time step")
	cmd.Flags().StringArrayVar(&params, "param", nil, "system parameter name=value (repeatable)")
	cmd.Flags().StringVar(&scheme, "colors", "", "color scheme: "+strings.Join(attractor.SchemeNames(), ", "))
	cmd.Flags().StringVarP(&dest, "output", "o", "", "output file or directory")
	cmd.Flags().BoolVar(&preview, "preview", false, "print a braille preview")
	cmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "estimate the largest Lyapunov exponent")

	cmd.AddCommand(&cobra.Command{
		Use:   "params [system]",
		Short: "list a system's parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := attractor.New(args[0])
			if err != nil {
				return err
			}
			ps := sys.Params()
			names := make([]string, 0, len(ps))
			for n := range ps {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), viz.KeyValue(n, 8, strconv.FormatFloat(ps[n], 'g', -1, 64)))
			}
			return nil
		},
	})
	return cmd
}

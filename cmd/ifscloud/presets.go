package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/config"
	"github.com/san-kum/ifscloud/internal/ifs"
	"github.com/san-kum/ifscloud/internal/viz"
)

var (
	titleFrom = ifs.MustParseColor("#00ffff")
	titleTo   = ifs.MustParseColor("#ff00ff")
)

func newPresetsCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 1 {
				doc, ok := config.PresetDocument(args[0])
				if !ok {
					return fmt.Errorf("unknown preset: %s (available: %s)", args[0], strings.Join(config.ListPresets(), ", "))
				}
				data, err := config.Marshal(doc, config.Codec(as))
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			}

			fmt.Fprintln(w, viz.GradientText("presets", titleFrom, titleTo))
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				var sw strings.Builder
				for _, t := range p.Matrices {
					sw.WriteString(viz.Swatch(t.Color))
				}
				fmt.Fprintf(w, "  %-14s %s %s\n", name, viz.Value.Render(p.Title), viz.Subtle.Render("("+p.Difficulty+")"))
				fmt.Fprintf(w, "  %-14s %s %s\n", "", sw.String(), viz.Subtle.Render(p.Description))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", string(config.YAML), "document encoding: json, yaml or toml")
	return cmd
}

func newNormalizeCmd(a *app) *cobra.Command {
	var (
		in   inputFlags
		dest string
		as   string
	)
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "rescale enabled weights to sum to 1",
		Long:  "Disabled transforms get weight 0. A set whose enabled weights sum to 0 is left unchanged.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := in.load(cmd, a)
			if err != nil {
				return err
			}
			before := ifs.TotalWeight(doc.Matrices)
			doc.Matrices = ifs.Normalize(doc.Matrices)
			logger := loggerFromContext(cmd.Context())
			logger.Info("normalized", "before", before, "after", ifs.TotalWeight(doc.Matrices))
			logger.Debug("distribution", "cumulative", ifs.NewDistribution(doc.Matrices).Cumulative())

			if dest != "" {
				if err := config.Save(dest, doc); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), viz.Success.Render("✓")+" wrote "+dest)
				return nil
			}
			data, err := config.Marshal(doc, config.Codec(as))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&dest, "output", "o", "", "write the document here (codec from extension)")
	cmd.Flags().StringVar(&as, "as", string(config.JSON), "stdout encoding: json, yaml or toml")
	return cmd
}

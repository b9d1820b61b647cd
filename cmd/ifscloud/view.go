package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/pointcloud"
	"github.com/san-kum/ifscloud/internal/tui"
	"github.com/san-kum/ifscloud/internal/viz"
)

func newViewCmd(a *app) *cobra.Command {
	var (
		in      inputFlags
		file    string
		static  bool
		box     bool
		width   int
		height  int
		svgPath string
		gifPath string
		frames  int
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "preview a cloud in the terminal, or render it to SVG or GIF",
		Long: `view opens an orbit viewer for a generated cloud or a PLY/LAS file.
--static prints one frame instead; --svg and --gif write images and exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cloud *pointcloud.Cloud
				label string
			)
			if file != "" {
				c, _, err := readCloud(file)
				if err != nil {
					return err
				}
				cloud, label = c, filepath.Base(file)
			} else {
				doc, l, err := in.load(cmd, a)
				if err != nil {
					return err
				}
				if cloud, err = generate(cmd.Context(), doc, l, false); err != nil {
					return err
				}
				label = l
			}

			wroteImage := false
			if svgPath != "" {
				if err := writeImage(svgPath, func(f *os.File) error {
					return viz.SVG(f, cloud, nil, viz.SVGOptions{})
				}); err != nil {
					return err
				}
				loggerFromContext(cmd.Context()).Info("wrote svg", "file", svgPath)
				wroteImage = true
			}
			if gifPath != "" {
				if err := writeImage(gifPath, func(f *os.File) error {
					return viz.Turntable(f, cloud, frames, width, height)
				}); err != nil {
					return err
				}
				loggerFromContext(cmd.Context()).Info("wrote gif", "file", gifPath, "frames", frames)
				wroteImage = true
			}
			if wroteImage {
				return nil
			}

			if static {
				cam := viz.FitCamera(cloud.Bounds())
				canvas := viz.Preview(cloud, cam, width, height)
				if box {
					viz.Render3D(canvas, viz.BoxWireframe(cloud.Bounds()), cam)
				}
				fmt.Fprintln(cmd.OutOrStdout(), viz.Title.Render(label)+" "+viz.Subtle.Render(fmt.Sprintf("%d points", cloud.Len())))
				fmt.Fprint(cmd.OutOrStdout(), canvas.Render(viz.Subtle))
				return nil
			}
			return tui.RunViewer(label, cloud)
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&file, "file", "", "view a PLY or LAS/LAZ file instead of generating")
	cmd.Flags().BoolVar(&static, "static", false, "print a single frame")
	cmd.Flags().BoolVar(&box, "box", false, "draw the bounding box (static)")
	cmd.Flags().IntVar(&width, "width", 80, "canvas width in cells")
	cmd.Flags().IntVar(&height, "height", 30, "canvas height in cells")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG projection")
	cmd.Flags().StringVar(&gifPath, "gif", "", "write a turntable GIF")
	cmd.Flags().IntVar(&frames, "frames", 36, "turntable frames")
	cmd.MarkFlagsMutuallyExclusive("file", "preset")
	cmd.MarkFlagsMutuallyExclusive("file", "config")
	cmd.MarkFlagsMutuallyExclusive("file", "from")
	return cmd
}

func writeImage(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

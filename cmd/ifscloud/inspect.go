package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/export"
	"github.com/san-kum/ifscloud/internal/pointcloud"
	"github.com/san-kum/ifscloud/internal/viz"
)

// readCloud loads a PLY or LAS/LAZ file and describes its header. The
// format comes from the file's signature, not its name.
func readCloud(path string) (*pointcloud.Cloud, []string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer fh.Close()

	f, r, err := export.Sniff(fh)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	switch f {
	case export.PLY:
		c, info, err := export.ReadPLY(r)
		if err != nil {
			return nil, nil, err
		}
		lines := []string{
			viz.KeyValue("format", 12, "ply "+string(info.Encoding)),
			viz.KeyValue("vertices", 12, fmt.Sprint(info.Vertices)),
			viz.KeyValue("properties", 12, strings.Join(info.Properties, " ")),
			viz.KeyValue("header", 12, fmt.Sprintf("%d bytes", info.HeaderSize)),
		}
		for _, cm := range info.Comments {
			lines = append(lines, viz.KeyValue("comment", 12, cm))
		}
		return c, lines, nil
	case export.LAS:
		c, h, err := export.ReadLAS(r)
		if err != nil {
			return nil, nil, err
		}
		lines := []string{
			viz.KeyValue("format", 12, fmt.Sprintf("las %d.%d point format %d", h.VersionMajor, h.VersionMinor, h.PointFormat)),
			viz.KeyValue("points", 12, fmt.Sprint(h.PointCount)),
			viz.KeyValue("software", 12, strings.TrimRight(string(h.GeneratingSoftware[:]), "\x00")),
			viz.KeyValue("created", 12, fmt.Sprintf("day %d of %d", h.CreationDay, h.CreationYear)),
			viz.KeyValue("scale", 12, fmt.Sprintf("%g %g %g", h.XScale, h.YScale, h.ZScale)),
		}
		return c, lines, nil
	}
	return nil, nil, fmt.Errorf("%w: cannot read %s files", export.ErrUnknownFormat, f)
}

func newInspectCmd() *cobra.Command {
	var preview bool
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "describe a PLY or LAS/LAZ file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, lines, err := readCloud(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, viz.Title.Render(filepath.Base(args[0])))
			for _, l := range lines {
				fmt.Fprintln(w, l)
			}
			b := c.Bounds()
			fmt.Fprintln(w, viz.KeyValue("colors", 12, fmt.Sprint(c.HasColors())))
			fmt.Fprintln(w, viz.KeyValue("min", 12, fmt.Sprintf("%.4f %.4f %.4f", b.Min[0], b.Min[1], b.Min[2])))
			fmt.Fprintln(w, viz.KeyValue("max", 12, fmt.Sprintf("%.4f %.4f %.4f", b.Max[0], b.Max[1], b.Max[2])))
			if preview {
				fmt.Fprint(w, viz.Preview(c, nil, 60, 20).Render(viz.Subtle))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&preview, "preview", false, "print a braille preview")
	return cmd
}

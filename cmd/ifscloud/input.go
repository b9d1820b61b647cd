package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/config"
	"github.com/san-kum/ifscloud/internal/export"
	"github.com/san-kum/ifscloud/internal/pointcloud"
	"github.com/san-kum/ifscloud/internal/tui"
	"github.com/san-kum/ifscloud/internal/viz"
)

// inputFlags select the transform document a command works on. At most one
// of preset, file and from may be set; with none the default set is used.
type inputFlags struct {
	preset      string
	file        string
	from        string
	iterations  int
	skip        int
	seed        int64
	noNormalize bool
}

func (in *inputFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&in.preset, "preset", "p", "", "start from a named preset")
	f.StringVarP(&in.file, "config", "c", "", "document file (.json, .yaml, .toml)")
	f.StringVar(&in.from, "from", "", "library entry (id, id prefix or name)")
	f.IntVarP(&in.iterations, "iterations", "n", config.DefaultIterations, "points to generate")
	f.IntVar(&in.skip, "skip", config.DefaultSkipInitial, "burn-in iterations")
	f.Int64Var(&in.seed, "seed", 0, "random seed (fixed seed when set)")
	f.BoolVar(&in.noNormalize, "no-normalize", false, "use weights as given")
	cmd.MarkFlagsMutuallyExclusive("preset", "config", "from")
}

// load resolves the document and applies flags the user set explicitly.
// The returned label names the source for filenames and log lines.
func (in *inputFlags) load(cmd *cobra.Command, a *app) (*config.Document, string, error) {
	var (
		doc   *config.Document
		label string
	)
	switch {
	case in.preset != "":
		d, ok := config.PresetDocument(in.preset)
		if !ok {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %s)", in.preset, strings.Join(config.ListPresets(), ", "))
		}
		doc, label = d, in.preset
	case in.file != "":
		d, err := config.Load(in.file)
		if err != nil {
			return nil, "", err
		}
		doc, label = d, strings.TrimSuffix(filepath.Base(in.file), filepath.Ext(in.file))
	case in.from != "":
		s, err := a.store()
		if err != nil {
			return nil, "", err
		}
		e, d, err := s.Load(in.from)
		if err != nil {
			return nil, "", err
		}
		doc, label = d, e.Name
	default:
		doc, label = config.NewDocument(config.DefaultTransforms(), config.DefaultSettings()), "default"
	}
	if doc.Settings == nil {
		doc.Settings = config.DefaultSettings()
	}

	flags := cmd.Flags()
	if flags.Changed("iterations") {
		doc.Settings.Iterations = in.iterations
	}
	if flags.Changed("skip") {
		doc.Settings.SkipInitial = in.skip
	}
	if flags.Changed("seed") {
		doc.Settings.RandomSeed = false
		doc.Settings.Seed = in.seed
	}
	if flags.Changed("no-normalize") {
		doc.Settings.AutoNormalize = !in.noNormalize
	}
	if err := doc.Settings.Validate(); err != nil {
		return nil, "", err
	}
	return doc, label, nil
}

// generate runs doc, under the progress TUI when interactive is set.
func generate(ctx context.Context, doc *config.Document, label string, interactive bool) (*pointcloud.Cloud, error) {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)
	var (
		cloud *pointcloud.Cloud
		err   error
	)
	if interactive {
		cloud, err = tui.RunProgress(ctx, "generating "+label, doc.Generate)
	} else {
		cloud, err = doc.Generate(ctx, p.report("generating"))
	}
	if err != nil {
		return nil, err
	}
	p.done("generated", "source", label, "points", cloud.Len(), "transforms", len(doc.Matrices))
	return cloud, nil
}

// exportFlags select the output format and encoder options.
type exportFlags struct {
	format   string
	encoding string
	noColors bool
	scale    float64
	mesh     bool
	density  float64
}

func (e *exportFlags) register(cmd *cobra.Command, def export.Format) {
	f := cmd.Flags()
	f.StringVarP(&e.format, "format", "f", string(def), "output format: ply, las, laz, obj, fbx")
	f.StringVar(&e.encoding, "encoding", string(export.ASCII), "PLY encoding: ascii or binary")
	f.BoolVar(&e.noColors, "no-colors", false, "omit per-point colors")
	f.Float64Var(&e.scale, "scale", config.DefaultScale, "multiply coordinates on export")
	f.BoolVar(&e.mesh, "mesh", false, "OBJ/FBX: connect nearby points into triangles")
	f.Float64Var(&e.density, "density", 1, "mesh sampling density in (0,1]")
}

// options builds export options. The document's scale applies unless
// --scale was given.
func (e *exportFlags) options(cmd *cobra.Command, doc *config.Document) (export.Options, error) {
	f, err := export.ParseFormat(e.format)
	if err != nil {
		return export.Options{}, err
	}
	enc, err := export.ParseEncoding(e.encoding)
	if err != nil {
		return export.Options{}, err
	}
	opts := export.DefaultOptions(f)
	opts.Encoding = enc
	opts.IncludeColors = !e.noColors
	opts.GenerateMesh = e.mesh
	opts.MeshDensity = e.density
	opts.Scale = e.scale
	if !cmd.Flags().Changed("scale") && doc != nil && doc.Settings != nil && doc.Settings.Scale > 0 {
		opts.Scale = doc.Settings.Scale
	}
	return opts, nil
}

// report prints a result line and turns a failed result into an error.
func report(cmd *cobra.Command, r export.Result) error {
	logger := loggerFromContext(cmd.Context())
	if !r.Success {
		logger.Error("export failed", "format", r.Format, "err", r.Error)
		return fmt.Errorf("%s", r.Error)
	}
	logger.Info("exported", "file", r.Filename, "bytes", r.FileSize, "vertices", r.VertexCount, "faces", r.FaceCount, "colors", r.HasColors)
	fmt.Fprintln(cmd.OutOrStdout(), viz.Success.Render("✓")+" "+r.Message)
	fmt.Fprintln(cmd.OutOrStdout(), "  "+viz.KeyValue("file", 6, r.Filename))
	fmt.Fprintln(cmd.OutOrStdout(), "  "+viz.KeyValue("size", 6, humanBytes(r.FileSize)))
	return nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

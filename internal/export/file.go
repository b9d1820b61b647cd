package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ifscloud/internal/chaos"
	"github.com/san-kum/ifscloud/internal/ifs"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

// ExportFile encodes c into path. If path is an existing directory the
// default filename for the format is used inside it. The file is written
// to a temporary sibling and renamed, so a failed export leaves no
// partial file behind.
func ExportFile(path string, c *pointcloud.Cloud, opts Options) Result {
	if path == "" {
		path = "."
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, DefaultFilename(opts.Format, opts.now()))
	}

	st, err := writeAtomic(path, c, opts)
	if err != nil {
		return failure(opts.Format, path, err)
	}
	return success(opts.Format, path, st)
}

func success(f Format, path string, st Stats) Result {
	msg := fmt.Sprintf("Successfully exported %d points to %s format", st.Vertices, strings.ToUpper(string(f)))
	if st.Faces > 0 {
		msg = fmt.Sprintf("Successfully exported %d vertices and %d faces to %s format", st.Vertices, st.Faces, strings.ToUpper(string(f)))
	}
	if f == LAZ {
		msg += " (uncompressed: LAZ compression is not implemented)"
	}
	return Result{
		Success:     true,
		Format:      f,
		Filename:    path,
		VertexCount: st.Vertices,
		FaceCount:   st.Faces,
		FileSize:    st.Bytes,
		HasColors:   st.HasColors,
		Message:     msg,
	}
}

func writeAtomic(path string, c *pointcloud.Cloud, opts Options) (Stats, error) {
	e, err := Lookup(opts.Format)
	if err != nil {
		return Stats{}, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Stats{}, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return Stats{}, err
	}
	defer os.Remove(tmp.Name())

	st, err := e.Encode(tmp, c, opts)
	if err != nil {
		tmp.Close()
		return Stats{}, err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return Stats{}, err
	}
	if err := tmp.Close(); err != nil {
		return Stats{}, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Stats{}, err
	}
	return st, nil
}

// ExportAll writes c once per format into dir, using base as the file
// stem. At most limit encoders run concurrently; limit <= 0 means one
// per format. Results are returned in the order of formats.
func ExportAll(ctx context.Context, dir, base string, c *pointcloud.Cloud, formats []Format, opts Options, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = len(formats)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	results := make([]Result, len(formats))
	for i, f := range formats {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o := opts
			o.Format = f
			e, err := Lookup(f)
			if err != nil {
				return err
			}
			r := ExportFile(filepath.Join(dir, base+e.Extension), c, o)
			results[i] = r
			if !r.Success {
				return fmt.Errorf("%s: %s", f, r.Error)
			}
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

// HighDensityOptions configures a bulk export that generates its own cloud.
type HighDensityOptions struct {
	Options
	Points     int
	Dir        string
	CheckEvery int
	Progress   chaos.Progress
}

// ExportHighDensity runs the high-density generator on ts and writes the
// result into opts.Dir under HighDensityFilename. Only PLY and LAS/LAZ
// are offered for bulk output.
func ExportHighDensity(ctx context.Context, eng *chaos.Engine, ts []ifs.Transform, opts HighDensityOptions) Result {
	f := opts.Format
	if f != PLY && f != LAS && f != LAZ {
		return failure(f, "", fmt.Errorf("%w: %s is not offered for high-density export", ErrUnknownFormat, f))
	}
	if len(ifs.Enabled(ts)) == 0 {
		return failure(f, "", ErrNoTransforms)
	}
	n := opts.Points
	if n <= 0 {
		n = chaos.DefaultHighDensityPoints
	}

	cloud, err := eng.HighDensity(ctx, ts, chaos.HighDensityConfig{
		Points:     n,
		CheckEvery: opts.CheckEvery,
		Progress:   opts.Progress,
	})
	if err != nil {
		return failure(f, "", err)
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, HighDensityFilename(f, n, opts.now()))
	return ExportFile(path, cloud, opts.Options)
}

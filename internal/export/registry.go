package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/san-kum/ifscloud/internal/pointcloud"
)

// EncodeFunc serializes a cloud to w.
type EncodeFunc func(w io.Writer, c *pointcloud.Cloud, opts Options) (Stats, error)

type Exporter struct {
	Format      Format
	Extension   string
	Description string
	Encode      EncodeFunc
}

var exporters = map[Format]Exporter{
	PLY: {Format: PLY, Extension: ".ply", Description: "Polygon File Format (ascii or binary little endian)", Encode: EncodePLY},
	LAS: {Format: LAS, Extension: ".las", Description: "ASPRS LAS 1.2, point format 0 or 2", Encode: EncodeLAS},
	LAZ: {Format: LAZ, Extension: ".laz", Description: "LAS bytes under a LAZ name (uncompressed)", Encode: EncodeLAZ},
	OBJ: {Format: OBJ, Extension: ".obj", Description: "Wavefront OBJ point list or simple mesh", Encode: EncodeOBJ},
	FBX: {Format: FBX, Extension: ".fbx", Description: "FBX 7.4 ASCII point list or simple mesh", Encode: EncodeFBX},
}

func Lookup(f Format) (Exporter, error) {
	e, ok := exporters[f]
	if !ok {
		return Exporter{}, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	return e, nil
}

// Formats returns all registered exporters sorted by format name.
func Formats() []Exporter {
	out := make([]Exporter, 0, len(exporters))
	for _, e := range exporters {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Format < out[j].Format })
	return out
}

// Encode looks up opts.Format and runs its encoder.
func Encode(w io.Writer, c *pointcloud.Cloud, opts Options) (Stats, error) {
	e, err := Lookup(opts.Format)
	if err != nil {
		return Stats{}, err
	}
	return e.Encode(w, c, opts)
}

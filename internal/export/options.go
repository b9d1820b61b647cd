package export

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Generator identifies this writer in file headers.
const (
	Generator = "ifscloud"
	Version   = "1.0"
)

var (
	// ErrUnknownFormat indicates a format name with no registered codec.
	ErrUnknownFormat = errors.New("export: unknown format")

	// ErrUnknownEncoding indicates a PLY encoding other than ascii or binary.
	ErrUnknownEncoding = errors.New("export: unknown encoding")

	// ErrInvalidDensity indicates a mesh density that is not positive.
	ErrInvalidDensity = errors.New("export: mesh density must be positive")

	// ErrInvalidScale indicates a zero, negative or non-finite export scale.
	ErrInvalidScale = errors.New("export: scale must be a positive finite number")

	// ErrCoordinateRange indicates a coordinate that does not fit the LAS integer grid.
	ErrCoordinateRange = errors.New("export: coordinate out of range for LAS integer encoding")

	// ErrTooManyPoints indicates a point count beyond what the format can describe.
	ErrTooManyPoints = errors.New("export: too many points for format")

	// ErrNoTransforms indicates a high-density export with no enabled transforms.
	ErrNoTransforms = errors.New("export: no enabled transformations")

	// ErrMalformed indicates an input file that could not be parsed.
	ErrMalformed = errors.New("export: malformed file")
)

// CodecError wraps an error with the format and, when known, the point index.
type CodecError struct {
	Format Format
	Index  int
	Err    error
}

func (e *CodecError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: point %d: %v", e.Format, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Format, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

type Format string

const (
	PLY Format = "ply"
	LAS Format = "las"
	LAZ Format = "laz"
	OBJ Format = "obj"
	FBX Format = "fbx"
)

// ParseFormat accepts a format name or a file extension, case-insensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case PLY, LAS, LAZ, OBJ, FBX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

type Encoding string

const (
	ASCII  Encoding = "ascii"
	Binary Encoding = "binary"
)

func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(strings.TrimSpace(s))); e {
	case ASCII, Binary:
		return e, nil
	case "":
		return ASCII, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

type Options struct {
	Format Format `json:"format"`
	// Encoding selects PLY ascii or binary output.
	Encoding      Encoding `json:"encoding,omitempty"`
	IncludeColors bool     `json:"includeColors"`
	// Scale multiplies every coordinate before writing.
	Scale float64 `json:"scale,omitempty"`
	// GenerateMesh switches OBJ and FBX to the simple mesh heuristic.
	GenerateMesh bool    `json:"generateMesh,omitempty"`
	MeshDensity  float64 `json:"meshDensity,omitempty"`
	// Now stamps creation dates; nil means time.Now.
	Now func() time.Time `json:"-"`
}

// DefaultOptions mirrors the defaults of the export dialog: colors on,
// scale 1, ASCII PLY, full mesh density.
func DefaultOptions(f Format) Options {
	return Options{
		Format:        f,
		Encoding:      ASCII,
		IncludeColors: true,
		Scale:         1,
		MeshDensity:   1,
	}
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) scale() float64 {
	if o.Scale == 0 {
		return 1
	}
	return o.Scale
}

func (o Options) density() float64 {
	if o.MeshDensity == 0 {
		return 1
	}
	return o.MeshDensity
}

func (o Options) validate() error {
	if s := o.scale(); s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return ErrInvalidScale
	}
	if d := o.density(); o.GenerateMesh && (d < 0 || math.IsNaN(d) || math.IsInf(d, 0)) {
		return ErrInvalidDensity
	}
	if o.Format == PLY && o.Encoding != "" && o.Encoding != ASCII && o.Encoding != Binary {
		return fmt.Errorf("%w: %q", ErrUnknownEncoding, o.Encoding)
	}
	return nil
}

// Stats describes what an encoder wrote.
type Stats struct {
	Vertices  int
	Faces     int
	Bytes     int64
	HasColors bool
}

// Result is the structured outcome of an export at the front-end boundary.
type Result struct {
	Success     bool   `json:"success"`
	Format      Format `json:"format,omitempty"`
	Filename    string `json:"filename,omitempty"`
	VertexCount int    `json:"vertexCount"`
	FaceCount   int    `json:"faceCount,omitempty"`
	FileSize    int64  `json:"fileSize"`
	HasColors   bool   `json:"hasColors"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
}

func failure(f Format, filename string, err error) Result {
	return Result{Success: false, Format: f, Filename: filename, Error: err.Error(), Message: "Export failed: " + err.Error()}
}

// DefaultFilename returns the name a download would get.
func DefaultFilename(f Format, now time.Time) string {
	prefix := "attractor"
	if f == LAS || f == LAZ {
		prefix = "fractal"
	}
	return fmt.Sprintf("%s-%d.%s", prefix, now.UnixMilli(), f)
}

// HighDensityFilename returns the name of a bulk export of n points.
func HighDensityFilename(f Format, n int, now time.Time) string {
	return fmt.Sprintf("ifs-%s-points-%d.%s", shortCount(n), now.UnixMilli(), f)
}

func shortCount(n int) string {
	switch {
	case n >= 1_000_000 && n%1_000_000 == 0:
		return fmt.Sprintf("%dM", n/1_000_000)
	case n >= 1_000 && n%1_000 == 0:
		return fmt.Sprintf("%dK", n/1_000)
	}
	return fmt.Sprint(n)
}

package ifs

import (
	"math"

	"github.com/google/uuid"
)

// Transform is a weighted 3D affine map x' = M·x + t.
//
// The matrix is stored row-major using the classic IFS coefficient names:
//
//	| A C E |   | TX |
//	| B D F | + | TY |
//	| G H I |   | TZ |
//
// Field tags keep those names so documents written by other IFS tools load
// unchanged. Weight is serialized as "probability".
type Transform struct {
	ID      string  `json:"id" yaml:"id,omitempty" toml:"id,omitempty"`
	Name    string  `json:"name" yaml:"name,omitempty" toml:"name,omitempty"`
	A       float64 `json:"a" yaml:"a" toml:"a"`
	C       float64 `json:"c" yaml:"c" toml:"c"`
	E       float64 `json:"e" yaml:"e" toml:"e"`
	TX      float64 `json:"tx" yaml:"tx" toml:"tx"`
	B       float64 `json:"b" yaml:"b" toml:"b"`
	D       float64 `json:"d" yaml:"d" toml:"d"`
	F       float64 `json:"f" yaml:"f" toml:"f"`
	TY      float64 `json:"ty" yaml:"ty" toml:"ty"`
	G       float64 `json:"g" yaml:"g" toml:"g"`
	H       float64 `json:"h" yaml:"h" toml:"h"`
	I       float64 `json:"i" yaml:"i" toml:"i"`
	TZ      float64 `json:"tz" yaml:"tz" toml:"tz"`
	Weight  float64 `json:"probability" yaml:"probability" toml:"probability"`
	Enabled bool    `json:"enabled" yaml:"enabled" toml:"enabled"`
	Color   Color   `json:"color" yaml:"color" toml:"color"`
}

// Identity returns an enabled identity map with weight 1.
func Identity() Transform {
	return Transform{A: 1, D: 1, I: 1, Weight: 1, Enabled: true, Color: PaletteColor(0)}
}

// Scale returns an enabled uniform scaling map with weight 1.
func Scale(s float64) Transform {
	t := Identity()
	t.A, t.D, t.I = s, s, s
	return t
}

// NewTransform returns the map a user gets when adding the i-th transform
// to a set: identity, weight 0.25, a fresh ID and the i-th palette color.
func NewTransform(i int) Transform {
	t := Identity()
	t.ID = uuid.NewString()
	t.Weight = 0.25
	t.Color = PaletteColor(i)
	return t
}

func (t Transform) Translate(x, y, z float64) Transform {
	t.TX, t.TY, t.TZ = x, y, z
	return t
}

func (t Transform) WithWeight(w float64) Transform {
	t.Weight = w
	return t
}

func (t Transform) WithColor(c Color) Transform {
	t.Color = c
	return t
}

// Matrix returns the 9 linear coefficients in row-major order.
func (t Transform) Matrix() [9]float64 {
	return [9]float64{t.A, t.C, t.E, t.B, t.D, t.F, t.G, t.H, t.I}
}

// SetMatrix assigns the 9 linear coefficients from row-major order.
func (t *Transform) SetMatrix(m [9]float64) {
	t.A, t.C, t.E = m[0], m[1], m[2]
	t.B, t.D, t.F = m[3], m[4], m[5]
	t.G, t.H, t.I = m[6], m[7], m[8]
}

func (t Transform) Translation() [3]float64 {
	return [3]float64{t.TX, t.TY, t.TZ}
}

// Apply maps (x, y, z) through the transform.
func (t Transform) Apply(x, y, z float64) (float64, float64, float64) {
	return t.A*x + t.C*y + t.E*z + t.TX,
		t.B*x + t.D*y + t.F*z + t.TY,
		t.G*x + t.H*y + t.I*z + t.TZ
}

// Validate reports non-finite coefficients and invalid weights.
func (t Transform) Validate() error {
	for _, v := range t.Matrix() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidCoefficient
		}
	}
	for _, v := range t.Translation() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidCoefficient
		}
	}
	if t.Weight < 0 || math.IsNaN(t.Weight) || math.IsInf(t.Weight, 0) {
		return ErrInvalidWeight
	}
	return nil
}

// ValidateAll validates every transform, enabled or not.
func ValidateAll(ts []Transform) error {
	for i, t := range ts {
		if err := t.Validate(); err != nil {
			return &TransformError{Index: i, Name: t.Name, Wrapped: err}
		}
	}
	return nil
}

// Enabled returns the enabled transforms in their original order.
func Enabled(ts []Transform) []Transform {
	out := make([]Transform, 0, len(ts))
	for _, t := range ts {
		if t.Enabled {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a copy of ts so a run can snapshot the active set.
func Clone(ts []Transform) []Transform {
	if ts == nil {
		return nil
	}
	c := make([]Transform, len(ts))
	copy(c, ts)
	return c
}

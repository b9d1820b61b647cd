package config

import (
	"sort"

	"github.com/google/uuid"

	"github.com/san-kum/ifscloud/internal/ifs"
)

// Preset is a named transform set from the gallery.
type Preset struct {
	Title       string
	Description string
	Difficulty  string
	Matrices    []ifs.Transform
}

var hex = ifs.MustParseColor

var Presets = map[string]*Preset{
	"default": {
		Title: "Default", Description: "Four skewed half-scale maps", Difficulty: "Easy",
		Matrices: []ifs.Transform{
			{Name: "f₁", A: 0.5, TX: -1, D: 0.5, TY: 1, G: 0.1, H: -0.1, I: 0.3, TZ: 0.5, Weight: 0.25, Color: ifs.PaletteColor(0)},
			{Name: "f₂", A: 0.5, TX: 1, D: 0.5, TY: 1, G: -0.1, H: -0.1, I: 0.3, TZ: 0.5, Weight: 0.25, Color: ifs.PaletteColor(1)},
			{Name: "f₃", A: 0.5, TX: -1, D: 0.5, TY: -1, G: 0.1, H: 0.1, I: 0.3, TZ: 0.5, Weight: 0.25, Color: ifs.PaletteColor(2)},
			{Name: "f₄", A: 0.5, TX: 1, D: 0.5, TY: -1, G: -0.1, H: 0.1, I: 0.3, TZ: 0.5, Weight: 0.25, Color: ifs.PaletteColor(3)},
		},
	},
	"simple": {
		Title: "Simple", Description: "Two half-scale maps", Difficulty: "Easy",
		Matrices: []ifs.Transform{
			{Name: "f₁", A: 0.5, TX: -0.5, D: 0.5, TY: 0.5, I: 0.5, Weight: 0.5, Color: ifs.PaletteColor(0)},
			{Name: "f₂", A: 0.5, TX: 0.5, D: 0.5, TY: -0.5, I: 0.5, Weight: 0.5, Color: ifs.PaletteColor(1)},
		},
	},
	"performance": {
		Title: "Performance", Description: "A single contraction, converges to a point", Difficulty: "Easy",
		Matrices: []ifs.Transform{
			{Name: "f₁", A: 0.6, D: 0.6, I: 0.6, TZ: 0.3, Weight: 1, Color: ifs.PaletteColor(0)},
		},
	},
	"sierpinski": {
		Title: "Sierpinski Triangle", Description: "Classic 2D fractal triangle with 3 transformations", Difficulty: "Easy",
		Matrices: []ifs.Transform{
			{Name: "f₁", A: 0.5, D: 0.5, I: 1, Weight: 0.333, Color: hex("#e74c3c")},
			{Name: "f₂", A: 0.5, TX: 0.5, D: 0.5, I: 1, Weight: 0.333, Color: hex("#3498db")},
			{Name: "f₃", A: 0.5, TX: 0.25, D: 0.5, TY: 0.433, I: 1, Weight: 0.334, Color: hex("#2ecc71")},
		},
	},
	"tetrahedron": {
		Title: "Tetrahedron Fractal", Description: "3D Sierpinski tetrahedron with 4 corner transformations", Difficulty: "Medium",
		Matrices: []ifs.Transform{
			{Name: "f₁", A: 0.5, D: 0.5, I: 0.5, Weight: 0.25, Color: hex("#e74c3c")},
			{Name: "f₂", A: 0.5, TX: 1, D: 0.5, I: 0.5, Weight: 0.25, Color: hex("#3498db")},
			{Name: "f₃", A: 0.5, TX: 0.5, D: 0.5, TY: 0.866, I: 0.5, Weight: 0.25, Color: hex("#2ecc71")},
			{Name: "f₄", A: 0.5, TX: 0.5, D: 0.5, TY: 0.289, I: 0.5, TZ: 0.816, Weight: 0.25, Color: hex("#f39c12")},
		},
	},
	"barnsley_fern": {
		Title: "Barnsley Fern", Description: "Famous fern-like fractal with 4 transformations", Difficulty: "Medium",
		Matrices: []ifs.Transform{
			{Name: "Stem", D: 0.16, I: 1, Weight: 0.01, Color: hex("#8b4513")},
			{Name: "Left", A: 0.85, C: 0.04, B: -0.04, D: 0.85, TY: 1.6, I: 1, Weight: 0.85, Color: hex("#228b22")},
			{Name: "Right", A: 0.2, C: -0.26, B: 0.23, D: 0.22, TY: 1.6, I: 1, Weight: 0.07, Color: hex("#32cd32")},
			{Name: "Tip", A: -0.15, C: 0.28, B: 0.26, D: 0.24, TY: 0.44, I: 1, Weight: 0.07, Color: hex("#90ee90")},
		},
	},
	"dragon": {
		Title: "Dragon Curve", Description: "Heighway dragon fractal", Difficulty: "Medium",
		Matrices: []ifs.Transform{
			{Name: "f₁", A: 0.5, C: -0.5, B: 0.5, D: 0.5, I: 1, Weight: 0.5, Color: hex("#e74c3c")},
			{Name: "f₂", A: -0.5, C: -0.5, TX: 1, B: 0.5, D: -0.5, I: 1, Weight: 0.5, Color: hex("#9b59b6")},
		},
	},
	"cube": {
		Title: "3D Cube Fractal", Description: "3D fractal based on cube corners", Difficulty: "Hard",
		Matrices: corners(0.5, 1, []string{"Corner1", "Corner2", "Corner3", "Corner4", "Corner5", "Corner6", "Corner7", "Corner8"}),
	},
	"spiral_tree": {
		Title: "Spiral Tree", Description: "3D spiral tree fractal", Difficulty: "Hard",
		Matrices: []ifs.Transform{
			{Name: "Trunk", A: 0.6, D: 0.6, TY: 0.4, I: 0.6, Weight: 0.4, Color: hex("#8b4513")},
			{Name: "Branch1", A: 0.4, C: -0.2, TX: 0.2, B: 0.2, D: 0.4, TY: 0.6, I: 0.4, TZ: 0.1, Weight: 0.2, Color: hex("#228b22")},
			{Name: "Branch2", A: 0.4, C: 0.2, TX: -0.2, B: -0.2, D: 0.4, TY: 0.6, I: 0.4, TZ: 0.1, Weight: 0.2, Color: hex("#32cd32")},
			{Name: "Twist", A: 0.3, E: -0.1, D: 0.3, F: 0.1, TY: 0.8, G: 0.1, H: -0.1, I: 0.3, TZ: 0.2, Weight: 0.2, Color: hex("#90ee90")},
		},
	},
	"menger": {
		Title: "Menger Sponge", Description: "3D Menger sponge fractal", Difficulty: "Hard",
		Matrices: corners(0.333, 0.667, []string{"Block1", "Block2", "Block3", "Block4", "Block5", "Block6", "Block7", "Block8"}),
	},
	"cantor_dust": {
		Title: "Cantor Dust 3D", Description: "3D version of Cantor set", Difficulty: "Medium",
		Matrices: corners(0.333, 0.667, []string{"Left", "Right", "Front", "Back", "Top-Left", "Top-Right", "Top-Front", "Top-Back"}),
	},
}

var cornerColors = []string{"#e74c3c", "#3498db", "#2ecc71", "#f39c12", "#9b59b6", "#e91e63", "#00bcd4", "#ff5722"}

// corners builds eight maps of uniform scale s translated to the corners
// of a cube with edge offset, x varying fastest.
func corners(s, offset float64, names []string) []ifs.Transform {
	out := make([]ifs.Transform, 8)
	for k := range out {
		t := ifs.Scale(s).Translate(
			offset*float64(k&1),
			offset*float64(k>>1&1),
			offset*float64(k>>2&1),
		)
		t.Name = names[k]
		t.Weight = 0.125
		t.Color = hex(cornerColors[k])
		out[k] = t
	}
	return out
}

// GetPreset returns a fresh copy of the named preset's transforms with new
// IDs, all enabled, or nil when the name is unknown.
func GetPreset(name string) []ifs.Transform {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	ts := ifs.Clone(p.Matrices)
	for i := range ts {
		ts[i].ID = uuid.NewString()
		ts[i].Enabled = true
	}
	return ts
}

// PresetDocument wraps a preset in a document with default settings.
func PresetDocument(name string) (*Document, bool) {
	if _, ok := Presets[name]; !ok {
		return nil, false
	}
	return NewDocument(GetPreset(name), DefaultSettings()), true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DefaultTransforms is the transform set a new session starts with.
func DefaultTransforms() []ifs.Transform {
	return GetPreset("default")
}

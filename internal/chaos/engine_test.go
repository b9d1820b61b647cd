package chaos

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ifscloud/internal/ifs"
)

func sierpinski() []ifs.Transform {
	return []ifs.Transform{
		ifs.Scale(0.5).WithColor(ifs.RGB(255, 0, 0)),
		ifs.Scale(0.5).Translate(0.5, 0, 0).WithColor(ifs.RGB(0, 255, 0)),
		ifs.Scale(0.5).Translate(0.25, 0.5, 0).WithColor(ifs.RGB(0, 0, 255)),
	}
}

func TestRunPointCount(t *testing.T) {
	tests := []struct {
		points, skip int
	}{
		{0, 0},
		{1, 0},
		{10, 5},
		{1000, 100},
		{5000, 0},
	}

	for _, tt := range tests {
		cloud, err := NewSeeded(1).Run(context.Background(), sierpinski(), Config{Points: tt.points, Skip: tt.skip})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if len(cloud.Positions()) != 3*tt.points {
			t.Errorf("N=%d: expected %d positions, got %d", tt.points, 3*tt.points, len(cloud.Positions()))
		}
		if len(cloud.Colors()) != len(cloud.Positions()) {
			t.Errorf("N=%d: colors length %d != positions length %d", tt.points, len(cloud.Colors()), len(cloud.Positions()))
		}
	}
}

func TestRunNoEnabledTransforms(t *testing.T) {
	disabled := sierpinski()
	for i := range disabled {
		disabled[i].Enabled = false
	}

	for name, ts := range map[string][]ifs.Transform{"nil": nil, "empty": {}, "all disabled": disabled} {
		cloud, err := NewSeeded(1).Run(context.Background(), ts, Config{Points: 100, Skip: 10})
		if err != nil {
			t.Errorf("%s: expected no error, got %v", name, err)
			continue
		}
		if !cloud.IsEmpty() {
			t.Errorf("%s: expected empty cloud, got %d points", name, cloud.Len())
		}
	}
}

func TestRunDeterministicWithSeed(t *testing.T) {
	cfg := Config{Points: 2000, Skip: 50}
	a, err := NewSeeded(42).Run(context.Background(), sierpinski(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSeeded(42).Run(context.Background(), sierpinski(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	pa, pb := a.Positions(), b.Positions()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("positions differ at %d: %v != %v", i, pa[i], pb[i])
		}
	}
	ca, cb := a.Colors(), b.Colors()
	for i := range ca {
		if ca[i] != cb[i] {
			t.Fatalf("colors differ at %d", i)
		}
	}

	c, _ := NewSeeded(43).Run(context.Background(), sierpinski(), cfg)
	same := true
	for i := range pa {
		if pa[i] != c.Positions()[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical output")
	}
}

func TestRunColorMapping(t *testing.T) {
	// Each map sends everything to a distinct fixed point, so the position
	// identifies the transform that produced it.
	ts := []ifs.Transform{
		ifs.Scale(0).Translate(1, 0, 0).WithColor(ifs.RGB(255, 0, 0)),
		ifs.Scale(0).Translate(0, 1, 0).WithColor(ifs.RGB(0, 255, 0)),
		ifs.Scale(0).Translate(0, 0, 1).WithColor(ifs.RGB(0, 0, 255)),
	}

	cloud, err := NewSeeded(7).Run(context.Background(), ts, Config{Points: 3000, Scale: 1})
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[int]int)
	for i := 0; i < cloud.Len(); i++ {
		x, y, z := cloud.At(i)
		r, g, b := cloud.ColorAt(i)
		var k int
		switch {
		case x == 1 && y == 0 && z == 0:
			k = 0
		case x == 0 && y == 1 && z == 0:
			k = 1
		case x == 0 && y == 0 && z == 1:
			k = 2
		default:
			t.Fatalf("point %d at unexpected position (%v,%v,%v)", i, x, y, z)
		}
		want := ts[k].Color.Normalized()
		if r != want[0] || g != want[1] || b != want[2] {
			t.Fatalf("point %d from transform %d has color (%v,%v,%v), want %v", i, k, r, g, b, want)
		}
		seen[k]++
	}
	if len(seen) != 3 {
		t.Errorf("expected all three transforms to be selected, got %v", seen)
	}
}

func TestRunTwoColorScenario(t *testing.T) {
	ts := []ifs.Transform{
		ifs.Scale(0.5).WithWeight(0.5).WithColor(ifs.MustParseColor("#ff0000")),
		ifs.Scale(0.5).Translate(0.5, 0.5, 0.5).WithWeight(0.5).WithColor(ifs.MustParseColor("#00ff00")),
	}

	cloud, err := NewSeeded(42).Run(context.Background(), ts, Config{Points: 10})
	if err != nil {
		t.Fatal(err)
	}
	if cloud.Len() != 10 {
		t.Fatalf("expected 10 points, got %d", cloud.Len())
	}
	for i := 0; i < cloud.Len(); i++ {
		r, g, b := cloud.ColorAt(i)
		red := r == 1 && g == 0 && b == 0
		green := r == 0 && g == 1 && b == 0
		if !red && !green {
			t.Errorf("point %d has blended color (%v,%v,%v)", i, r, g, b)
		}
	}
}

func TestRunWeightsRespected(t *testing.T) {
	ts := []ifs.Transform{
		ifs.Scale(0).Translate(1, 0, 0).WithWeight(0.9),
		ifs.Scale(0).Translate(-1, 0, 0).WithWeight(0.1),
	}
	cloud, err := NewSeeded(3).Run(context.Background(), ts, Config{Points: 20000, Scale: 1})
	if err != nil {
		t.Fatal(err)
	}

	hits := 0
	for i := 0; i < cloud.Len(); i++ {
		if x, _, _ := cloud.At(i); x == 1 {
			hits++
		}
	}
	ratio := float64(hits) / float64(cloud.Len())
	if math.Abs(ratio-0.9) > 0.02 {
		t.Errorf("expected ~90%% selections of the heavy map, got %.3f", ratio)
	}
}

func TestRunZeroWeightsFallsBackToFirst(t *testing.T) {
	ts := []ifs.Transform{
		ifs.Scale(0).Translate(1, 0, 0).WithWeight(0),
		ifs.Scale(0).Translate(2, 0, 0).WithWeight(0),
	}
	cloud, err := NewSeeded(1).Run(context.Background(), ts, Config{Points: 50, Scale: 1})
	if err != nil {
		t.Fatalf("zero weights should not fail: %v", err)
	}
	for i := 0; i < cloud.Len(); i++ {
		if x, _, _ := cloud.At(i); x != 1 {
			t.Fatalf("expected index 0 fallback, got x=%v", x)
		}
	}
}

func TestRunSkipAndScale(t *testing.T) {
	// x' = x + 1 counts iterations, so the first recorded point is Skip+1.
	ts := []ifs.Transform{ifs.Identity().Translate(1, 0, 0)}

	cloud, err := NewSeeded(1).Run(context.Background(), ts, Config{Points: 3, Skip: 4})
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float32{5 * DisplayScale, 6 * DisplayScale, 7 * DisplayScale} {
		if x, _, _ := cloud.At(i); x != want {
			t.Errorf("point %d: expected x=%v, got %v", i, want, x)
		}
	}

	cloud, _ = NewSeeded(1).Run(context.Background(), ts, Config{Points: 1, Start: [3]float64{10, 0, 0}, Scale: 2})
	if x, _, _ := cloud.At(0); x != 22 {
		t.Errorf("expected start offset and scale, got %v", x)
	}
}

func TestRunIgnoresDisabled(t *testing.T) {
	ts := []ifs.Transform{
		ifs.Scale(0).Translate(1, 0, 0),
		ifs.Scale(0).Translate(9, 9, 9).WithWeight(100),
	}
	ts[1].Enabled = false

	cloud, _ := NewSeeded(5).Run(context.Background(), ts, Config{Points: 500, Scale: 1})
	for i := 0; i < cloud.Len(); i++ {
		if x, _, _ := cloud.At(i); x != 1 {
			t.Fatalf("disabled transform was selected at point %d", i)
		}
	}
}

func TestRunInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative points", Config{Points: -1}},
		{"negative skip", Config{Points: 1, Skip: -1}},
		{"negative check interval", Config{Points: 1, CheckEvery: -5}},
	}

	for _, tt := range tests {
		_, err := NewSeeded(1).Run(context.Background(), sierpinski(), tt.cfg)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestRunInvalidTransform(t *testing.T) {
	ts := sierpinski()
	ts[1].Weight = -1
	_, err := NewSeeded(1).Run(context.Background(), ts, Config{Points: 10})
	if !errors.Is(err, ifs.ErrInvalidWeight) {
		t.Errorf("expected ErrInvalidWeight, got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cloud, err := NewSeeded(1).Run(ctx, sierpinski(), Config{Points: 1000})
	if !errors.Is(err, ErrCanceled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected ErrCanceled wrapping context.Canceled, got %v", err)
	}
	if cloud != nil {
		t.Error("canceled run should not return a partial cloud")
	}
}

func TestRunCancelMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	cfg := Config{
		Points:     10000,
		CheckEvery: 100,
		Progress: func(done, total int) {
			calls++
			if done >= 500 {
				cancel()
			}
		},
	}
	_, err := NewSeeded(1).Run(ctx, sierpinski(), cfg)
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
	if calls == 0 {
		t.Error("progress was never reported")
	}
}

func TestRunCheckIntervalDoesNotChangeOutput(t *testing.T) {
	a, _ := NewSeeded(9).Run(context.Background(), sierpinski(), Config{Points: 1000, CheckEvery: 7})
	b, _ := NewSeeded(9).Run(context.Background(), sierpinski(), Config{Points: 1000})
	for i, v := range a.Positions() {
		if v != b.Positions()[i] {
			t.Fatalf("output depends on check interval at %d", i)
		}
	}
}

func TestRunProgressCompletes(t *testing.T) {
	var last [2]int
	cfg := Config{Points: 250, CheckEvery: 64, Progress: func(done, total int) { last = [2]int{done, total} }}
	if _, err := NewSeeded(1).Run(context.Background(), sierpinski(), cfg); err != nil {
		t.Fatal(err)
	}
	if last != [2]int{250, 250} {
		t.Errorf("expected final progress 250/250, got %v", last)
	}
}

package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ifscloud/internal/attractor"
	"github.com/san-kum/ifscloud/internal/chaos"
	"github.com/san-kum/ifscloud/internal/config"
	"github.com/san-kum/ifscloud/internal/ifs"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

func TestContractionFactor(t *testing.T) {
	rot := ifs.Identity()
	rot.SetMatrix([9]float64{0, -0.5, 0, 0.5, 0, 0, 0, 0, 0.5})

	shear := ifs.Identity()
	shear.SetMatrix([9]float64{1, 1, 0, 0, 1, 0, 0, 0, 1})

	tests := []struct {
		name string
		t    ifs.Transform
		want float64
	}{
		{"identity", ifs.Identity(), 1},
		{"half", ifs.Scale(0.5), 0.5},
		{"zero", ifs.Scale(0), 0},
		{"rotation", rot, 0.5},
		{"negative", ifs.Scale(-0.3), 0.3},
		{"shear", shear, (1 + math.Sqrt(5)) / 2},
	}

	for _, tt := range tests {
		if got := ContractionFactor(tt.t); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSimilarityDimension(t *testing.T) {
	tests := []struct {
		preset string
		want   float64
	}{
		{"cube", math.Log(8) / math.Log(2)},
		{"tetrahedron", math.Log(4) / math.Log(2)},
		{"menger", math.Log(8) / math.Log(1/0.333)},
	}
	for _, tt := range tests {
		got, err := SimilarityDimension(config.GetPreset(tt.preset))
		if err != nil {
			t.Fatalf("%s: %v", tt.preset, err)
		}
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("%s: got %v, want %v", tt.preset, got, tt.want)
		}
	}

	if _, err := SimilarityDimension([]ifs.Transform{ifs.Identity()}); !errors.Is(err, ErrNotContractive) {
		t.Errorf("expected ErrNotContractive, got %v", err)
	}
	if IsContractive([]ifs.Transform{ifs.Scale(0.5), ifs.Scale(1.2)}) {
		t.Error("expected non-contractive set")
	}
}

func TestComputeHits(t *testing.T) {
	ts := config.GetPreset("sierpinski")
	cloud, err := chaos.NewSeeded(3).Run(context.Background(), ts, chaos.Config{Points: 30000, Skip: 10})
	if err != nil {
		t.Fatal(err)
	}

	st := Compute(cloud, ts)
	if st.Points != 30000 || len(st.Hits) != 3 || st.Unattributed != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
	total := 0
	for i, h := range st.Hits {
		total += h
		if share := st.Share(i); math.Abs(share-1.0/3) > 0.02 {
			t.Errorf("transform %d: share %v", i, share)
		}
	}
	if total != st.Points {
		t.Errorf("hits sum to %d", total)
	}
	for axis := 0; axis < 3; axis++ {
		if st.Centroid[axis] < st.Bounds.Min[axis] || st.Centroid[axis] > st.Bounds.Max[axis] {
			t.Errorf("centroid outside bounds on axis %d", axis)
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	st := Compute(pointcloud.Empty(), nil)
	if st.Points != 0 || st.Share(0) != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestHistogram(t *testing.T) {
	cloud, _ := pointcloud.New([]float32{0, 0, 0, 1, 0, 0, 2, 0, 0, 3, 0, 0, 4, 0, 0}, nil)
	got := Histogram(cloud, 0, 4)
	want := []int{1, 1, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if flat := Histogram(cloud, 1, 3); flat[0] != 5 {
		t.Errorf("degenerate axis should land in bin 0, got %v", flat)
	}
	if Histogram(cloud, 3, 4) != nil || Histogram(cloud, 0, 0) != nil {
		t.Error("invalid axis or bins should return nil")
	}
}

func TestBoxDimension(t *testing.T) {
	line := make([]float32, 0, 3000)
	for i := 0; i < 1000; i++ {
		line = append(line, float32(i)/1000, 0, 0)
	}
	c, _ := pointcloud.New(line, nil)
	if d := BoxDimension(c, 6); math.Abs(d-1) > 0.05 {
		t.Errorf("line dimension %v", d)
	}

	ts := config.GetPreset("sierpinski")
	cloud, err := chaos.NewSeeded(9).Run(context.Background(), ts, chaos.Config{Points: 100000, Skip: 100})
	if err != nil {
		t.Fatal(err)
	}
	if d := BoxDimension(cloud, 6); math.Abs(d-math.Log2(3)) > 0.25 {
		t.Errorf("sierpinski dimension %v, want about %v", d, math.Log2(3))
	}
}

func TestLyapunovExponent(t *testing.T) {
	lambda := LyapunovExponent(attractor.NewLorenz(), 0.01, 20000, 1e-8)
	if lambda < 0.5 || lambda > 1.3 {
		t.Errorf("lorenz exponent %v, expected about 0.9", lambda)
	}

	stable := attractor.NewLorenz()
	_ = stable.SetParam("rho", 0.5)
	if l := LyapunovExponent(stable, 0.01, 5000, 1e-8); l >= 0 {
		t.Errorf("rho < 1 should be stable, got %v", l)
	}
}

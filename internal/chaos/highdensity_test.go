package chaos

import (
	"context"
	"testing"

	"github.com/san-kum/ifscloud/internal/ifs"
)

func TestHighDensity(t *testing.T) {
	ts := []ifs.Transform{ifs.Identity().Translate(1, 0, 0).WithWeight(7)}

	cloud, err := NewSeeded(1).HighDensity(context.Background(), ts, HighDensityConfig{Points: 4})
	if err != nil {
		t.Fatal(err)
	}
	if cloud.Len() != 4 {
		t.Fatalf("expected 4 points, got %d", cloud.Len())
	}
	// No burn-in and scale 10: the first point is one step from the origin.
	if x, _, _ := cloud.At(0); x != HighDensityScale {
		t.Errorf("expected x=%v, got %v", HighDensityScale, x)
	}
	if ts[0].Weight != 7 {
		t.Error("HighDensity mutated the caller's transforms")
	}
}

func TestHighDensityEmpty(t *testing.T) {
	cloud, err := NewSeeded(1).HighDensity(context.Background(), nil, HighDensityConfig{Points: 10})
	if err != nil {
		t.Fatal(err)
	}
	if !cloud.IsEmpty() {
		t.Error("expected empty cloud")
	}
}

func BenchmarkRun(b *testing.B) {
	ts := sierpinski()
	eng := NewSeeded(1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := eng.Run(context.Background(), ts, Config{Points: 100000, Skip: 1000}); err != nil {
			b.Fatal(err)
		}
	}
}

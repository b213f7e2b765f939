package scale

import (
	"math"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	for v := int64(0); v <= 200000; v++ {
		if got := Inverse(Intensity(float64(v))); got != v {
			t.Fatalf("round trip of %d gave %d", v, got)
		}
	}
	for _, v := range []int64{1 << 20, 1 << 30, 1 << 36} {
		if got := Inverse(Intensity(float64(v))); got != v {
			t.Errorf("round trip of %d gave %d", v, got)
		}
	}
}

func TestIntensity(t *testing.T) {
	if Intensity(0) != 0 {
		t.Error("Intensity(0) should be 0")
	}
	if Intensity(-5) != 0 {
		t.Error("negative counts should clamp to 0")
	}
	if got, want := Intensity(math.E-1), 1.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Intensity(e-1) = %v, want %v", got, want)
	}
}

package geo

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Point
		wantKm float64
		tolKm  float64
	}{
		{
			name:   "same point",
			a:      Point{Lat: 24.8607, Lng: 67.0011},
			b:      Point{Lat: 24.8607, Lng: 67.0011},
			wantKm: 0,
			tolKm:  0.001,
		},
		{
			// Saylani head office (Bahadurabad) to Clifton, Karachi.
			name:   "across karachi",
			a:      Point{Lat: 24.8880, Lng: 67.0708},
			b:      Point{Lat: 24.8138, Lng: 67.0300},
			wantKm: 9.2,
			tolKm:  0.5,
		},
		{
			name:   "karachi to lahore",
			a:      Point{Lat: 24.8607, Lng: 67.0011},
			b:      Point{Lat: 31.5204, Lng: 74.3587},
			wantKm: 1022,
			tolKm:  15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolKm {
				t.Errorf("DistanceKm() = %f, want %f ± %f", got, tt.wantKm, tt.tolKm)
			}
		})
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Point{Lat: 24.8607, Lng: 67.0011}
	b := Point{Lat: 24.9263, Lng: 67.0225}
	if d1, d2 := DistanceKm(a, b), DistanceKm(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		km   float64
		want string
	}{
		{0.4, "400 meters"},
		{0.999, "999 meters"},
		{1.0, "1.0 km"},
		{2.345, "2.3 km"},
		{12.06, "12.1 km"},
	}
	for _, tt := range tests {
		if got := FormatDistance(tt.km); got != tt.want {
			t.Errorf("FormatDistance(%f) = %q, want %q", tt.km, got, tt.want)
		}
	}
}

func TestRoundKm(t *testing.T) {
	if got := RoundKm(2.3456); got != 2.35 {
		t.Errorf("RoundKm(2.3456) = %f, want 2.35", got)
	}
	if got := RoundKm(0.404); got != 0.40 {
		t.Errorf("RoundKm(0.404) = %f, want 0.4", got)
	}
}

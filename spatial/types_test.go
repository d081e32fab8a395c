// Copyright 2026 The SchoolFinder Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Point
		wantKm float64
		tolKm  float64
	}{
		{
			name:   "same point",
			a:      Point{Lat: -33.8688, Lng: 151.2093},
			b:      Point{Lat: -33.8688, Lng: 151.2093},
			wantKm: 0,
			tolKm:  0.0001,
		},
		{
			name:   "sydney to parramatta",
			a:      Point{Lat: -33.8688, Lng: 151.2093},
			b:      Point{Lat: -33.8151, Lng: 151.0011},
			wantKm: 20.2,
			tolKm:  0.5,
		},
		{
			name:   "sydney to newcastle",
			a:      Point{Lat: -33.8688, Lng: 151.2093},
			b:      Point{Lat: -32.9283, Lng: 151.7817},
			wantKm: 117.0,
			tolKm:  2.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.HaversineDistance(&tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolKm {
				t.Errorf("HaversineDistance() = %f, want %f ± %f", got, tt.wantKm, tt.tolKm)
			}

			// Symmetry
			if back := tt.b.HaversineDistance(&tt.a); math.Abs(got-back) > 1e-9 {
				t.Errorf("HaversineDistance() is not symmetric: %f vs %f", got, back)
			}
		})
	}
}

func TestPointScan(t *testing.T) {
	var p Point
	if err := p.Scan([]byte("POINT (151.209300 -33.868800)")); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if p.Lat != -33.8688 || p.Lng != 151.2093 {
		t.Errorf("Scan() = %+v, want lat -33.8688 lng 151.2093", p)
	}

	if err := p.Scan(map[string]interface{}{"x": 151.0, "y": -33.0}); err != nil {
		t.Fatalf("Scan(map) error = %v", err)
	}

	if p.Lat != -33.0 || p.Lng != 151.0 {
		t.Errorf("Scan(map) = %+v, want lat -33 lng 151", p)
	}

	if err := p.Scan(42); err == nil {
		t.Error("Scan(int) expected error, got nil")
	}
}

func TestNullPointScan(t *testing.T) {
	var np NullPoint
	if err := np.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error = %v", err)
	}

	if np.Valid {
		t.Error("Scan(nil) Valid = true, want false")
	}

	if err := np.Scan([]byte("POINT (151.000000 -33.000000)")); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if !np.Valid {
		t.Error("Scan() Valid = false, want true")
	}

	if np.Point.Lat != -33.0 || np.Point.Lng != 151.0 {
		t.Errorf("Scan() = %+v, want lat -33 lng 151", np.Point)
	}
}

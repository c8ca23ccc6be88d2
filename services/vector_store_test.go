package services

import (
	"math"
	"testing"
)

func TestCosineDistanceIdentical(t *testing.T) {
	v := []float32{0.5, 0.25, 0.8}
	if d := CosineDistance(v, v); math.Abs(d) > 1e-9 {
		t.Errorf("distance of identical vectors = %v, want 0", d)
	}
}

func TestCosineDistanceOrthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if d := CosineDistance(a, b); math.Abs(d-1.0) > 1e-9 {
		t.Errorf("distance of orthogonal vectors = %v, want 1", d)
	}
}

func TestCosineDistanceOpposite(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}
	if d := CosineDistance(a, b); math.Abs(d-2.0) > 1e-9 {
		t.Errorf("distance of opposite vectors = %v, want 2", d)
	}
}

func TestCosineDistanceScaleInvariant(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{10, 20, 30}
	if d := CosineDistance(a, b); math.Abs(d) > 1e-6 {
		t.Errorf("distance of scaled vectors = %v, want 0", d)
	}
}

func TestCosineDistanceDegenerate(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
	}{
		{"mismatched lengths", []float32{1, 2}, []float32{1, 2, 3}},
		{"empty vectors", nil, nil},
		{"zero norm", []float32{0, 0, 0}, []float32{1, 2, 3}},
	}
	for _, tt := range tests {
		if d := CosineDistance(tt.a, tt.b); d != 1.0 {
			t.Errorf("%s: distance = %v, want 1.0", tt.name, d)
		}
	}
}

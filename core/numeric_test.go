// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import "testing"

func TestConj(t *testing.T) {
	if got := Conj(3 + 4i); got != 3-4i {
		t.Errorf("Conj(3+4i) = %v, want 3-4i", got)
	}
	if got := Conj(complex64(1 + 2i)); got != complex64(1-2i) {
		t.Errorf("Conj(1+2i) = %v, want 1-2i", got)
	}
	if got := Conj(5.0); got != 5.0 {
		t.Errorf("Conj(5.0) = %v, want 5.0 (real domain is a no-op)", got)
	}
}

func TestIsComplex(t *testing.T) {
	if IsComplex[float32]() || IsComplex[float64]() {
		t.Error("IsComplex reported true for a real domain")
	}
	if !IsComplex[complex64]() || !IsComplex[complex128]() {
		t.Error("IsComplex reported false for a complex domain")
	}
}

func TestRealPart(t *testing.T) {
	if got := RealPart(complex128(2 + 3i)); got != 2 {
		t.Errorf("RealPart(2+3i) = %v, want 2", got)
	}
	if got := RealPart(7.5); got != 7.5 {
		t.Errorf("RealPart(7.5) = %v, want 7.5", got)
	}
}

func TestZeroOneIsZero(t *testing.T) {
	if Zero[float64]() != 0 {
		t.Error("Zero[float64]() != 0")
	}
	if One[complex64]() != 1 {
		t.Error("One[complex64]() != 1")
	}
	if !IsZero(complex128(0)) {
		t.Error("IsZero(0) reported false")
	}
	if IsZero(complex128(1)) {
		t.Error("IsZero(1) reported true")
	}
}

func TestConvert(t *testing.T) {
	if got := Convert[float32, float64](float32(1.5)); got != 1.5 {
		t.Errorf("Convert[float32,float64](1.5) = %v, want 1.5", got)
	}
	if got := Convert[float64, complex128](3.0); got != 3+0i {
		t.Errorf("Convert[float64,complex128](3.0) = %v, want 3+0i", got)
	}
	if got := Convert[complex128, float64](4 + 0i); got != 4 {
		t.Errorf("Convert[complex128,float64](4+0i) = %v, want 4", got)
	}
	// Same-type conversion should be exact (no complex128 round-trip).
	if got := Convert[float32, float32](float32(2.5)); got != 2.5 {
		t.Errorf("Convert[float32,float32](2.5) = %v, want 2.5", got)
	}
}

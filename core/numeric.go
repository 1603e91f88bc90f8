// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package core holds the datatype-generic arithmetic trait, the error
// taxonomy and the process-wide configuration that every other package in
// the engine depends on.
package core

// Numeric is the element-type constraint shared by every generic type and
// function in the engine: the matrix descriptor, the context, the packing
// pipeline and the macro-kernel are all parameterized over one of these
// four domains, mirroring the {real32, real64, complex32, complex64}
// datatype set in the design.
type Numeric interface {
	~float32 | ~float64 | ~complex64 | ~complex128
}

// Complex restricts a generic instantiation to the two complex domains,
// used by operations (Herk, Her2k, Hemm) that are only meaningful for
// complex element types.
type Complex interface {
	~complex64 | ~complex128
}

// Conj returns the complex conjugate of v for complex domains and v
// unchanged for real domains, so generic code can call Conj unconditionally
// instead of branching on datatype the way the C source's GENTFUNC macros
// do with a chp_r/chp token pair.
func Conj[T Numeric](v T) T {
	switch x := any(v).(type) {
	case complex64:
		return any(complex64(complexConj(complex128(x)))).(T)
	case complex128:
		return any(complexConj(x)).(T)
	default:
		return v
	}
}

func complexConj(z complex128) complex128 {
	return complex(real(z), -imag(z))
}

// IsComplex reports whether T is one of the two complex domains.
func IsComplex[T Numeric]() bool {
	var z T
	switch any(z).(type) {
	case complex64, complex128:
		return true
	default:
		return false
	}
}

// RealPart returns the real part of v; for real domains it returns v
// unchanged. Used to zero the imaginary part of a Hermitian diagonal.
func RealPart[T Numeric](v T) T {
	switch x := any(v).(type) {
	case complex64:
		return any(complex64(complex(real(x), 0))).(T)
	case complex128:
		return any(complex(real(x), 0)).(T)
	default:
		return v
	}
}

// Zero and One report the additive and multiplicative identities of T.
func Zero[T Numeric]() T {
	var z T
	return z
}

func One[T Numeric]() T {
	switch any(*new(T)).(type) {
	case complex64:
		return any(complex64(1)).(T)
	case complex128:
		return any(complex128(1)).(T)
	case float32:
		return any(float32(1)).(T)
	default:
		return any(float64(1)).(T)
	}
}

// IsZero reports whether v is the exact additive identity; used by the
// dispatch front-ends to implement the alpha==0/beta==0 short circuits
// without spurious floating-point comparisons.
func IsZero[T Numeric](v T) bool {
	return v == *new(T)
}

// Convert converts v from domain T to domain S, widening or narrowing
// precision and dropping (or zero-extending) the imaginary part as
// needed. This is the mixed-datatype staging primitive the design notes
// ask for in place of a runtime (src_dt, dst_dt) pair plus void*: here
// the pair is simply the two type parameters at the call site.
func Convert[T, S Numeric](v T) S {
	if s, ok := any(v).(S); ok {
		return s
	}
	var z complex128
	switch x := any(v).(type) {
	case float32:
		z = complex(float64(x), 0)
	case float64:
		z = complex(x, 0)
	case complex64:
		z = complex128(x)
	case complex128:
		z = x
	}
	switch any(*new(S)).(type) {
	case float32:
		return any(float32(real(z))).(S)
	case float64:
		return any(real(z)).(S)
	case complex64:
		return any(complex64(z)).(S)
	case complex128:
		return any(z).(S)
	}
	var zero S
	return zero
}

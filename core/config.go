// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import "sync/atomic"

// InducedMethod names a technique for implementing a complex operation via
// a real one.
type InducedMethod int

const (
	// Native performs the operation directly in the complex domain.
	Native InducedMethod = iota
	// OneM implements it via the "1m" augmented-real method.
	OneM
)

// Config holds the process-wide enablements from §6: error checking,
// per-method enables, trsm diagonal pre-inversion, and the right-side
// casting and mixed-datatype policies. It is immutable once installed —
// callers swap the whole struct, the same pattern blas64.Use uses to swap
// the active Float64 implementation.
type Config struct {
	// CheckArgs toggles argument validation in every dispatch front-end.
	CheckArgs bool

	// InducedMethodEnabled records, per InducedMethod, whether it may be
	// selected for complex operations. No dispatch front-end reads it:
	// complex operations always run the native method.
	InducedMethodEnabled [2]bool

	// TrsmPreinvertDiag toggles pre-inversion of the triangular diagonal
	// during trsm packing, trading numerical fidelity on ill-conditioned
	// diagonals for replacing divisions with multiplications in the
	// micro-solver.
	TrsmPreinvertDiag bool

	// DisableRightCast, keyed by operation name ("hemm", "symm", "trmm",
	// "trmm3"), names operations for right-to-left casting (transposing
	// the whole operation) in place of the native A/B swap when the
	// structured operand is on the right. No dispatch front-end reads it:
	// the right side always uses the A/B swap.
	DisableRightCast map[string]bool

	// MixedDatatypeExtraMemory names the temporary-matrix staging path
	// for differing storage and computation datatypes (gemm only). No
	// dispatch front-end reads it; each front-end runs one datatype T.
	MixedDatatypeExtraMemory bool

	// SmallMatrixFastPath names the optional small-GEMM fast path for
	// homogeneous-datatype general products. There is no small path and
	// blis.Gemm does not read this field.
	SmallMatrixFastPath bool
}

// DefaultConfig mirrors the teacher's own defaults: checking on, native
// method preferred but 1m available, pre-inversion on (BLIS's own
// default), no forced right-casts, mixed-datatype staging on, small path
// off until a caller opts in.
func DefaultConfig() Config {
	return Config{
		CheckArgs:                true,
		InducedMethodEnabled:     [2]bool{Native: true, OneM: true},
		TrsmPreinvertDiag:        true,
		DisableRightCast:         map[string]bool{},
		MixedDatatypeExtraMemory: true,
		SmallMatrixFastPath:      false,
	}
}

var globalConfig atomic.Pointer[Config]

func init() {
	cfg := DefaultConfig()
	globalConfig.Store(&cfg)
}

// SetConfig installs cfg as the process-wide configuration.
func SetConfig(cfg Config) {
	globalConfig.Store(&cfg)
}

// GetConfig returns the currently installed configuration.
func GetConfig() Config {
	return *globalConfig.Load()
}

// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blis is a dense level-3 matrix engine structured after a
// tuned BLAS implementation's internal architecture: a typed matrix
// descriptor (package obj), a packing pipeline that reshapes cache
// blocks into register micro-panels (package pack), a macro-kernel
// harness driving a tuned micro-kernel over those panels (package
// macro), a control tree describing the nested loop/packing schedule
// (package cntl) and a thread decorator that forks the tree walk
// across workers (package thread).
//
// Every entry point in this package accepts an optional *obj.Context
// and obj.Runtime as trailing arguments; passing nil/the zero value
// selects a lazily-initialized process-wide default built from the
// portable reference kernels in internal/kernel, running
// single-threaded. Call NewEngine for an explicit, independently
// configurable handle instead.
package blis

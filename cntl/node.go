// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cntl holds the control-tree node type (§3 "Control tree
// node"), the constructors that build the gemm and trsm trees (§4.2),
// and the internal driver that walks them (§4.6). The tree is built
// fresh per dispatch call from BuildGemm/BuildTrsm and released by the
// caller once the decorator returns.
package cntl

import "github.com/blisgo/obj"

// Kind discriminates a control-tree node's variant, mirroring the
// partition/packm/leaf discriminant of the matrix descriptor's sibling
// data structure.
type Kind int

const (
	Partition Kind = iota
	PackM
	Leaf
	TrsmLeaf
	// GemmSubLeaf computes the off-diagonal gemm-update of a trsm block
	// (bBlock -= A_offdiag*X_solved) — the "gemm" sibling branch BuildTrsm
	// composes with a TrsmLeaf via Sibling.
	GemmSubLeaf
)

// Node is one level of the control tree. Child is the next nested
// loop or packing stage; Sibling composes a second branch below the
// same parent (used by the trsm tree's gemm-then-trsm pair, see
// BuildTrsm). Partition-node fields name which blocksize kind drives
// this loop; PackM-node fields name which operand buffer class is
// staged.
type Node struct {
	Kind Kind
	Name string

	BlockKind  obj.BlockKind   // valid for Partition
	Class      obj.BufferClass // valid for PackM: obj.ABlock or obj.BPanel
	InvertDiag bool            // valid for PackM: trsm diagonal pre-inversion

	// MultipleOf/UseMultiple name a finer blocksize (e.g. obj.MR for an
	// MC partition, obj.NR for an NC partition) whose register width the
	// chosen block size rounds toward, so the ragged final block of a
	// dimension never splits a register tile across two blocks. KC
	// carries no such constraint (UseMultiple left false): the
	// contraction dimension has no register tiling requirement of its
	// own.
	MultipleOf  obj.BlockKind
	UseMultiple bool

	// Dir and Sequential mark the trsm tree's IC partition: a solve has
	// a genuine data dependency along its sweep direction (each diagonal
	// block's update depends on every already-solved block before it),
	// so that partition neither thread-stripes by id nor reorders
	// blocks — it walks them once, in Dir's order. Every gemm-family
	// partition leaves both at their zero value.
	Dir        obj.Direction
	Sequential bool

	// Weighted marks an NC partition whose blocks should be assigned to
	// JC workers by estimated triangular workload rather than by raw
	// block count, for a gemmt/herk-family call that writes only one
	// triangle of C.
	Weighted bool

	Child   *Node
	Sibling *Node
}

// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cntl

import "github.com/blisgo/obj"

// BuildTrsm constructs the left-side triangular-solve control tree of
// §4.2: JC(NC) above an IC(MC) cache-blocking level, forking below IC
// into a gemm-update branch (Child) and a trsm-solve branch (Sibling),
// the literal gemm-then-trsm sibling composition
// bli_trsm_cntl.c describes at IC granularity. dir fixes the sweep
// direction of the IC loop for this call (forward for a lower
// triangle, backward for upper) — a solve has a genuine data
// dependency along that direction (each diagonal block's gemm-update
// reads every already-solved block before it), so unlike BuildGemm's
// IC the trsm IC neither thread-stripes by id nor reorders blocks.
//
// This tree does not carry BuildGemm's packB/PC levels: B here is the
// right-hand side being overwritten in place, not a packable
// multiplicand shared read-only across the K loop, so there is no K
// contraction dimension above IC to stage. What is shared with
// BuildGemm is narrower than "the same JC/packB/PC/IC nodes": the same
// Node type and the same NC partition variant at JC. Its IC node is an
// MC partition too, but marked Sequential, so the driver walks it with
// execPartitionSequentialIC rather than BuildGemm's thread-striped
// execPartitionMC — the gemm/trsm fork happens one level below that
// IC, via Sibling, rather than below a shared packed-B stage.
func BuildTrsm(dir obj.Direction) *Node {
	return &Node{
		Kind: Partition, Name: "JC", BlockKind: obj.NC,
		Child: &Node{
			Kind: Partition, Name: "IC", BlockKind: obj.MC,
			Sequential: true, Dir: dir,
			Child: &Node{
				Kind: GemmSubLeaf, Name: "trsm-gemm-update",
				Sibling: &Node{Kind: TrsmLeaf, Name: "trsm-ukr"},
			},
		},
	}
}

// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cntl

import "github.com/blisgo/obj"

// BuildGemm constructs the general-product control tree of §4.2: a
// single branch nesting NC ⊃ KC ⊃ packB ⊃ MC ⊃ packA ⊃ leaf. The JR/IR
// loops named in spec.md's literal nesting are not separate tree
// levels here — they are folded into the macro-kernel harness
// (macro.Gemm), which already iterates NR/MR micro-panels itself, the
// same way §4.4 describes the macro-kernel owning that iteration.
//
// packB is nested inside KC rather than directly below NC: packing the
// B operand spans only the KC-by-NC block actually active at the leaf,
// not the whole K extent up front, which keeps the packed buffer's
// per-micro-panel layout a single contiguous run (see pack.Block) —
// slicing an already-packed buffer by an arbitrary K sub-range would
// need a different, strided layout. This is a deliberate, documented
// deviation from the literal "JC ⊃ packB ⊃ PC" ordering; the packed-B
// buffer's lifetime still exactly scopes its consuming subtree, which
// is the invariant that actually matters for correctness.
func BuildGemm() *Node {
	return &Node{
		Kind: Partition, Name: "JC", BlockKind: obj.NC,
		UseMultiple: true, MultipleOf: obj.NR,
		Weighted: true,
		Child: &Node{
			Kind: Partition, Name: "PC", BlockKind: obj.KC,
			Child: &Node{
				Kind: PackM, Name: "packB", Class: obj.BPanel,
				Child: &Node{
					Kind: Partition, Name: "IC", BlockKind: obj.MC,
					UseMultiple: true, MultipleOf: obj.MR,
					Child: &Node{
						Kind: PackM, Name: "packA", Class: obj.ABlock,
						Child: &Node{Kind: Leaf, Name: "gemm-ukr"},
					},
				},
			},
		},
	}
}

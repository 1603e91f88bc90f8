// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cntl

import (
	"sync"

	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/core"
	"github.com/blisgo/macro"
	"github.com/blisgo/obj"
	"github.com/blisgo/pack"
	"github.com/blisgo/thread"
)

// State is the internal driver's working set: the current sub-problem
// (A, B, C already sliced down to the active block at this tree level)
// plus the packed-A/packed-B scratch staged by the nearest enclosing
// PackM ancestor and the K extent those packs cover. A fresh State is
// built by the dispatch front-end and threaded down through Execute.
type State[T core.Numeric] struct {
	Cntx *obj.Context[T]
	Rt   obj.Runtime

	A, B, C obj.Matrix[T]

	PackedA, PackedB []T
	KDim             int

	InvertDiag bool

	GroupID int

	// JCWay/JCId, PCWay/PCId, ICWay/ICId, JRWay/JRId, IRWay/IRId
	// restrict each loop level to the blocks belonging to this worker
	// when the thread decorator has forked more than one worker across
	// it; a way below 2 (including the zero value) processes every block.
	JCWay, JCId int
	PCWay, PCId int
	ICWay, ICId int
	JRWay, JRId int
	IRWay, IRId int

	// PCGroups coordinates the PC-way barrier-protected reduction
	// (spec.md §5's "thread-private accumulator tiles... barrier
	// protected combine"): every worker sharing a JC id shares one
	// *pcGroup[T] keyed by JCId, lazily created on first use. A nil
	// PCGroups runs as if PCWay == 1.
	PCGroups *sync.Map

	// Dir, ICOff and ICDim are read by the trsm tree's Sequential IC
	// partition and the GemmSubLeaf/TrsmLeaf nodes beneath it in place
	// of slicing A/B down to the active block the way the gemm-family
	// MC case does: a solve's off-diagonal update needs access to rows
	// outside the active block (the already-solved prefix or suffix),
	// so the Sequential case leaves A/B whole and threads the active
	// block's extent through these fields instead.
	Dir          obj.Direction
	ICOff, ICDim int
}

// Execute walks the control tree rooted at n, driving State st through
// each partition and pack stage and finally invoking the macro-kernel
// at the leaf, §4.6's "internal driver".
func Execute[T core.Numeric](n *Node, st *State[T]) {
	if n == nil {
		return
	}
	switch n.Kind {
	case Leaf:
		macro.Gemm(st.Cntx, st.PackedA, st.PackedB, st.A.Rows, st.B.Cols, st.KDim, st.C, st.JRWay, st.JRId, st.IRWay, st.IRId)
	case TrsmLeaf:
		execTrsmLeaf(st)
	case GemmSubLeaf:
		execGemmSubLeaf(st)
	case PackM:
		execPackM(n, st)
	case Partition:
		execPartition(n, st)
	}
	Execute(n.Sibling, st)
}

// execTrsmLeaf solves the active IC block's diagonal tile, named by
// st.ICOff/st.ICDim, against the corresponding rows of B.
func execTrsmLeaf[T core.Numeric](st *State[T]) {
	off, dim := st.ICOff, st.ICDim
	diag := st.A.Sub(off, off, dim, dim)
	bBlock := st.B.Sub(off, 0, dim, st.B.Cols)
	macro.Trsm(st.Cntx, diag, bBlock, st.InvertDiag)
}

// execGemmSubLeaf computes the trsm tree's gemm-sibling update: bBlock
// -= A_offdiag * X_solved, where X_solved is whichever side of the
// active IC block (the prefix for a forward/lower sweep, the suffix
// for a backward/upper sweep) earlier IC steps have already solved and
// overwritten into B.
func execGemmSubLeaf[T core.Numeric](st *State[T]) {
	off, dim := st.ICOff, st.ICDim
	total := st.A.Rows
	var otherOff, otherDim int
	if st.Dir == obj.Backward {
		otherOff, otherDim = off+dim, total-(off+dim)
	} else {
		otherOff, otherDim = 0, off
	}
	if otherDim <= 0 {
		return
	}
	offDiagA := st.A.Sub(off, otherOff, dim, otherDim)
	solved := st.B.Sub(otherOff, 0, otherDim, st.B.Cols)
	bBlock := st.B.Sub(off, 0, dim, st.B.Cols)
	macro.GemmSub(offDiagA, solved, bBlock)
}

// execPartition loops the active dimension named by n.BlockKind in
// algorithmic-blocksize steps, slicing A/B/C to each block and
// recursing on n.Child. MC partitions the M extent (A's and C's rows);
// NC partitions N (B's and C's columns); KC partitions K (A's columns,
// B's rows) — the JC/IC/PC loops of §4.6, respectively.
func execPartition[T core.Numeric](n *Node, st *State[T]) {
	switch n.BlockKind {
	case obj.NC:
		execPartitionNC(n, st)
	case obj.MC:
		if n.Sequential {
			execPartitionSequentialIC(n, st)
		} else {
			execPartitionMC(n, st)
		}
	case obj.KC:
		execPartitionKC(n, st)
	}
}

// blockSize picks the iteration step for one pass over total elements
// of a partition driven by n: the context's default blocksize for
// n.BlockKind, re-balanced (spec.md's "max blocksize" handling) so a
// small trailing remainder is folded back into roughly-equal blocks
// instead of left as a ragged final step, rounded down to the nearest
// multiple of n.MultipleOf's register width when n.UseMultiple is set,
// and finally capped by the context's max blocksize for n.BlockKind.
func blockSize[T core.Numeric](cntx *obj.Context[T], n *Node, total int) int {
	def := cntx.Blocks.Def(n.BlockKind)
	if def <= 0 {
		def = 1
	}
	size := def
	if total > 0 && total <= def {
		size = total
	} else if total > def {
		nBlocks := (total + def - 1) / def
		balanced := (total + nBlocks - 1) / nBlocks
		if balanced < size {
			size = balanced
		}
	}
	if n.UseMultiple {
		if mult := cntx.Blocks.Def(n.MultipleOf); mult > 1 && size > mult {
			size -= size % mult
			if size < mult {
				size = mult
			}
		}
	}
	if max := cntx.Blocks.Max(n.BlockKind); max > 0 && size > max {
		size = max
	}
	if size < 1 {
		size = 1
	}
	return size
}

// execPartitionNC partitions B's (and C's) N extent, the JC loop.
// Blocks are assigned to JC workers round robin (block b to way b % way) unless n.Weighted
// asks for the triangular-workload-balanced assignment (meaningful only
// when C itself is structured; a plain gemm's C is StrucGeneral and
// falls back to round robin automatically).
func execPartitionNC[T core.Numeric](n *Node, st *State[T]) {
	total := st.B.Cols
	way, id := st.JCWay, st.JCId
	if way < 1 {
		way = 1
	}
	def := blockSize(st.Cntx, n, total)
	var owner func(int) int
	if way > 1 && n.Weighted && st.C.Struc != obj.StrucGeneral && st.C.Data != nil {
		owner = weightedAssignFor(total, def, way, st.C)
	} else {
		owner = func(b int) int { return b % way }
	}
	block := 0
	for off := 0; off < total; off += def {
		dim := def
		if off+dim > total {
			dim = total - off
		}
		o := owner(block)
		block++
		if way > 1 && o != id {
			continue
		}
		sub := *st
		sub.B = st.B.Sub(0, off, st.B.Rows, dim)
		if st.C.Cols > 0 || st.C.Data != nil {
			sub.C = st.C.Sub(0, off, st.C.Rows, dim)
		}
		Execute(n.Child, &sub)
	}
}

// weightedAssignFor balances JC-way blocks by the triangular area of C
// each owns, not by raw block count, for a gemmt/herk-family output
// that only ever writes one triangle: a column slab near the unstored
// corner of C does far less work than one straddling the diagonal, so
// round-robin assignment would leave some ways idle while others are
// still solving the dense end of the triangle. Blocks are assigned
// greedily, in block order, to whichever way currently carries the
// least estimated weight (greedy list scheduling; blocks are not sorted
// by weight first), so the units of triangularWeight only need to rank
// blocks against each other, not measure real work exactly.
func weightedAssignFor[T core.Numeric](total, def, way int, c obj.Matrix[T]) func(int) int {
	nBlocks := (total + def - 1) / def
	if nBlocks <= 0 {
		return func(int) int { return 0 }
	}
	weights := make([]float64, nBlocks)
	for b := 0; b < nBlocks; b++ {
		off := b * def
		dim := def
		if off+dim > total {
			dim = total - off
		}
		weights[b] = triangularWeight(c, off, dim)
	}
	owner := make([]int, nBlocks)
	load := make([]float64, way)
	for b := 0; b < nBlocks; b++ {
		best := 0
		for w := 1; w < way; w++ {
			if load[w] < load[best] {
				best = w
			}
		}
		owner[b] = best
		load[best] += weights[b]
	}
	return func(b int) int { return owner[b] }
}

// triangularWeight estimates the stored-triangle area of the (rows x
// dim) column slab of c starting at column off.
func triangularWeight[T core.Numeric](c obj.Matrix[T], off, dim int) float64 {
	rows := c.Rows
	lower := c.Uplo == blas.Lower
	total := 0.0
	for j := off; j < off+dim; j++ {
		var rowsStored int
		if lower {
			rowsStored = rows - j
		} else {
			rowsStored = j + 1
		}
		if rowsStored < 0 {
			rowsStored = 0
		}
		if rowsStored > rows {
			rowsStored = rows
		}
		total += float64(rowsStored)
	}
	return total
}

// execPartitionMC partitions A's/C's M extent for the gemm family, the
// IC loop, thread-striped by ICWay/ICId the same way NC is striped by
// JCWay/JCId: every IC block is independent of every other (unlike
// trsm's, see execPartitionSequentialIC), so round-robin assignment is
// always correct here.
func execPartitionMC[T core.Numeric](n *Node, st *State[T]) {
	total := st.C.Rows
	way, id := st.ICWay, st.ICId
	if way < 1 {
		way = 1
	}
	def := blockSize(st.Cntx, n, total)
	block := 0
	for off := 0; off < total; off += def {
		dim := def
		if off+dim > total {
			dim = total - off
		}
		o := block % way
		block++
		if way > 1 && o != id {
			continue
		}
		sub := *st
		sub.A = st.A.Sub(off, 0, dim, st.A.Cols)
		sub.C = st.C.Sub(off, 0, dim, st.C.Cols)
		Execute(n.Child, &sub)
	}
}

// execPartitionSequentialIC walks the trsm tree's IC blocks once, in
// n.Dir's order, without thread-striping: each block's gemm-update
// sibling depends on every earlier block having already been solved
// and written back into B, a genuine sequential dependency that a
// concurrent IC split would break.
func execPartitionSequentialIC[T core.Numeric](n *Node, st *State[T]) {
	total := st.A.Rows
	def := blockSize(st.Cntx, n, total)
	if n.Dir == obj.Backward {
		off := total
		for off > 0 {
			dim := def
			if dim > off {
				dim = off
			}
			off -= dim
			sub := *st
			sub.ICOff, sub.ICDim = off, dim
			sub.Dir = n.Dir
			Execute(n.Child, &sub)
		}
		return
	}
	for off := 0; off < total; off += def {
		dim := def
		if off+dim > total {
			dim = total - off
		}
		sub := *st
		sub.ICOff, sub.ICDim = off, dim
		sub.Dir = n.Dir
		Execute(n.Child, &sub)
	}
}

// execPartitionKC partitions the shared K extent, the PC loop. With
// PCWay == 1 it behaves as before: sequential blocks accumulating into
// the caller-supplied C (beta applied only on the first block). With
// PCWay > 1 every worker's K-stripe is disjoint, so each accumulates a
// private partial product into its own tile and the PC group's id-0
// member sums every other tile into the real C once a Barrier confirms
// every tile is complete (spec.md §5's barrier-protected PC reduction).
// The IC split beneath a PC split is forced to a single way: summing
// complete (IC-way == 1) tiles across PC ids is provably correct
// without reconciling which IC id owns which rows of a partial tile, a
// reconciliation a simultaneous IC+PC split would otherwise require.
func execPartitionKC[T core.Numeric](n *Node, st *State[T]) {
	total := st.A.Cols
	def := blockSize(st.Cntx, n, total)
	way, id := st.PCWay, st.PCId
	if way < 1 {
		way = 1
	}
	if way == 1 {
		for off := 0; off < total; off += def {
			dim := def
			if off+dim > total {
				dim = total - off
			}
			sub := *st
			sub.A = st.A.Sub(0, off, st.A.Rows, dim)
			sub.B = st.B.Sub(off, 0, dim, st.B.Cols)
			if off > 0 {
				sub.C.Scalar = core.One[T]()
			}
			Execute(n.Child, &sub)
		}
		return
	}

	group := pcGroupFor[T](st.PCGroups, st.JCId, way)
	isOwner := id == 0
	var tile obj.Matrix[T]
	if !isOwner {
		rows, cols := st.C.Rows, st.C.Cols
		tile = obj.General(rows, cols, make([]T, rows*cols), cols, 1)
	}
	block, first := 0, true
	for off := 0; off < total; off += def {
		dim := def
		if off+dim > total {
			dim = total - off
		}
		o := block % way
		block++
		if o != id {
			continue
		}
		sub := *st
		sub.A = st.A.Sub(0, off, st.A.Rows, dim)
		sub.B = st.B.Sub(off, 0, dim, st.B.Cols)
		sub.ICWay, sub.ICId = 1, 0
		if isOwner {
			if !first {
				sub.C.Scalar = core.One[T]()
			}
		} else {
			sub.C = tile
			if first {
				sub.C.Scalar = core.Zero[T]()
			} else {
				sub.C.Scalar = core.One[T]()
			}
		}
		Execute(n.Child, &sub)
		first = false
	}
	if !isOwner {
		group.mu.Lock()
		group.tiles[id] = tile
		group.mu.Unlock()
	}
	group.barrier.Wait()
	if isOwner {
		for pid := 1; pid < way; pid++ {
			if t, ok := group.tiles[pid]; ok {
				addInto(st.C, t)
			}
		}
	}
}

// addInto adds every logical element of src into the matching element
// of dst, used to fold a PC worker's private partial tile into the
// shared accumulator once the group barrier confirms it is complete.
func addInto[T core.Numeric](dst, src obj.Matrix[T]) {
	rows, cols := dst.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst.Set(i, j, dst.At(i, j)+src.At(i, j))
		}
	}
}

// pcGroup coordinates one JC id's PC-way workers: a Barrier sized to
// the PC way count, and a map of each non-owning worker's completed
// partial tile, guarded by mu since workers populate it concurrently
// before the barrier rendezvous.
type pcGroup[T core.Numeric] struct {
	barrier *thread.Barrier

	mu    sync.Mutex
	tiles map[int]obj.Matrix[T]
}

// pcGroupFor returns the *pcGroup[T] for key (a JC id), creating it on
// first use. A nil groups map (the single-threaded default) returns a
// throwaway one-member group whose Barrier.Wait is a no-op.
func pcGroupFor[T core.Numeric](groups *sync.Map, key, way int) *pcGroup[T] {
	if groups == nil {
		return &pcGroup[T]{barrier: thread.NewBarrier(1), tiles: make(map[int]obj.Matrix[T])}
	}
	fresh := &pcGroup[T]{barrier: thread.NewBarrier(way), tiles: make(map[int]obj.Matrix[T])}
	actual, _ := groups.LoadOrStore(key, fresh)
	return actual.(*pcGroup[T])
}

// execPackM stages the operand named by n.Class (A or B) into a packed
// micro-panel buffer, invokes Block, then recurses on n.Child with the
// packed buffer installed in State. MR/NR, the register blocksize,
// comes from the context; the long axis is the active K extent of the
// current block.
//
// The packed scratch is allocated straight from the heap rather than
// through the runtime's byte-oriented memory broker
// (obj.Runtime.Pool): Go's generics have no way for a single
// non-generic interface method to hand back a []T for the caller's T,
// short of an unsafe byte/slice reinterpretation this module avoids.
// thread.Broker is implemented, tested and grounded on mat/pool.go in
// its own right; wiring it into this generic path is left as the
// natural extension point for a version that pins T down via codegen.
func execPackM[T core.Numeric](n *Node, st *State[T]) {
	sub := *st
	switch n.Class {
	case obj.ABlock:
		mr := st.Cntx.Blocks.Def(obj.MR)
		k := st.A.Cols
		numPanels := blocks(st.A.Rows, mr)
		buf := make([]T, numPanels*mr*k)
		plan := pack.Plan[T]{
			PanelDim: mr, PanelDimMax: mr,
			PanelLen: k, PanelLenMax: k,
			Kappa:      st.A.Scalar,
			InvertDiag: n.InvertDiag,
		}
		pack.Block(st.A, plan, packKernels(st.Cntx), buf)
		sub.PackedA = buf
		sub.KDim = k
	case obj.BPanel:
		nr := st.Cntx.Blocks.Def(obj.NR)
		k := st.B.Rows
		numPanels := blocks(st.B.Cols, nr)
		buf := make([]T, numPanels*nr*k)
		plan := pack.Plan[T]{
			PanelDim: nr, PanelDimMax: nr,
			PanelLen: k, PanelLenMax: k,
			Kappa: st.B.Scalar,
		}
		// The transposed view of a structured B stores the opposite
		// triangle.
		bT := st.B.TransposeView()
		if bT.Struc != obj.StrucGeneral {
			if bT.Uplo == blas.Upper {
				bT.Uplo = blas.Lower
			} else {
				bT.Uplo = blas.Upper
			}
		}
		pack.Block(bT, plan, packKernels(st.Cntx), buf)
		sub.PackedB = buf
		sub.KDim = k
	}
	Execute(n.Child, &sub)
}

func packKernels[T core.Numeric](cntx *obj.Context[T]) pack.Kernels[T, T] {
	return pack.Kernels[T, T]{Cxk: cntx.PackCxk, Cxc: cntx.PackCxc}
}

func blocks(n, size int) int {
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

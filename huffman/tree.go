package huffman

import "container/heap"

// Coding tree node.  The branches are either both nil or both not nil.  If
// not nil this is an interior node and val is the smallest byte value in the
// subtree, kept only for merge-order tie-breaking; otherwise it's a leaf for
// val.

type node struct {
	zero, one *node
	val       byte
	weight    uint64
}

// Build the coding tree from a non-empty frequency table by repeatedly
// merging the two lightest nodes in the pool.  Ties on weight are broken by
// the smallest byte value contained in the subtree, and the node selected
// first becomes the zero branch.  Both rules are load-bearing: the decoder
// rebuilds the tree from the key's frequency table and must arrive at the
// identical shape.

func buildTree(ft freqTable) *node {
	h := newNodeHeap(ft)
	for h.Len() > 1 {
		a := heap.Pop(&h).(*node)
		b := heap.Pop(&h).(*node)
		heap.Push(&h, &node{
			zero:   a,
			one:    b,
			val:    min(a.val, b.val),
			weight: a.weight + b.weight,
		})
	}
	return heap.Pop(&h).(*node)
}

// Pool of candidate nodes, a priority queue used during tree building.  The
// (weight, val) pairs in the pool are always distinct - each byte value sits
// in exactly one subtree - so the minimum is unique at every step and the
// pop order does not depend on the heap's internal layout.

type nodeHeap []*node

func newNodeHeap(ft freqTable) nodeHeap {
	h := make(nodeHeap, len(ft))
	for i, e := range ft {
		h[i] = &node{val: e.val, weight: e.count}
	}
	heap.Init(&h)
	return h
}

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].val < h[j].val
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*node))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// A byte's code: the bit pattern in the low width bits of bits, most
// significant code bit first.  Leading zero bits are significant, hence the
// explicit width; width 0 means the byte has no code.

type bitCode struct {
	bits  uint64
	width int
}

type codeTable [256]bitCode

// Walk the tree and record each leaf's path from the root as its code: the
// zero branch appends a 0 bit, the one branch a 1 bit.  The walk is an
// explicit stack rather than recursion so a maximally skewed 256-leaf tree
// can't blow the call stack.  A lone-leaf root gets code 0 of width 1: each
// occurrence of the single symbol must still cost one bit, or the payload's
// bit count would be ambiguous.
//
// A code wider than 64 bits doesn't fit in a bitCode.  Reaching width 65
// takes tens of terabytes of input with near-Fibonacci byte frequencies, but
// shifting the bits any further would silently corrupt the output, so it is
// an error rather than an assumption.

func assignCodes(root *node) (codeTable, error) {
	var codes codeTable
	if root.zero == nil {
		codes[root.val] = bitCode{bits: 0, width: 1}
		return codes, nil
	}
	type frame struct {
		n    *node
		code bitCode
	}
	stack := []frame{{root, bitCode{}}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.n.zero == nil {
			codes[f.n.val] = f.code
			continue
		}
		if f.code.width == 64 {
			return codes, ErrCodeTooWide
		}
		stack = append(stack,
			frame{f.n.zero, bitCode{f.code.bits << 1, f.code.width + 1}},
			frame{f.n.one, bitCode{f.code.bits<<1 | 1, f.code.width + 1}})
	}
	return codes, nil
}

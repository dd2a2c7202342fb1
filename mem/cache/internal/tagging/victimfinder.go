package tagging

import (
	"log"
	"math/bits"
)

// A VictimFinder tracks the recency of the ways in each set and decides which
// way should be evicted.
type VictimFinder interface {
	Visit(setID, wayID int)
	FindVictim(setID int) int
	Reset()
}

// PLRU is a tree pseudo-LRU replacement policy. Each set owns ways-1 bits that
// form a complete binary tree whose leaves are the ways. The bits of all the
// sets live in a single slice, set by set.
type PLRU struct {
	numSets int
	numWays int
	levels  int
	bits    []uint8
}

// NewPLRU creates a PLRU policy for numSets sets of numWays ways. The number
// of ways must be a power of two.
func NewPLRU(numSets, numWays int) *PLRU {
	if numWays <= 0 || numWays&(numWays-1) != 0 {
		log.Panicf("PLRU requires a power-of-two way count, got %d", numWays)
	}

	p := &PLRU{
		numSets: numSets,
		numWays: numWays,
		levels:  bits.TrailingZeros(uint(numWays)),
	}
	p.Reset()

	return p
}

// Depth returns the depth of the tree of each set.
func (p *PLRU) Depth() int {
	return p.levels
}

// Visit walks from the root to the accessed way, leaving every node on the
// path pointing at the sibling subtree.
func (p *PLRU) Visit(setID, wayID int) {
	tree := p.tree(setID)
	idx := 0

	for level := 0; level < p.levels; level++ {
		direction := (wayID >> (p.levels - 1 - level)) & 1
		tree[idx] = uint8(1 - direction)
		idx = 2*idx + 1 + direction
	}
}

// FindVictim follows the bits from the root to a leaf. The tree is not
// modified.
func (p *PLRU) FindVictim(setID int) int {
	tree := p.tree(setID)
	idx := 0
	way := 0

	for level := 0; level < p.levels; level++ {
		direction := int(tree[idx])
		way = way<<1 | direction
		idx = 2*idx + 1 + direction
	}

	return way
}

// Reset clears all the bits.
func (p *PLRU) Reset() {
	p.bits = make([]uint8, p.numSets*(p.numWays-1))
}

func (p *PLRU) tree(setID int) []uint8 {
	nodes := p.numWays - 1
	return p.bits[setID*nodes : (setID+1)*nodes]
}

// LRU is a true least-recently-used policy that keeps a recency queue per
// set.
type LRU struct {
	numSets int
	numWays int
	queues  [][]int
}

// NewLRU creates an LRU policy.
func NewLRU(numSets, numWays int) *LRU {
	l := &LRU{numSets: numSets, numWays: numWays}
	l.Reset()

	return l
}

// Visit moves the way to the most-recently-used end of the queue.
func (l *LRU) Visit(setID, wayID int) {
	queue := l.queues[setID]

	for i, w := range queue {
		if w == wayID {
			copy(queue[i:], queue[i+1:])
			queue[len(queue)-1] = wayID

			return
		}
	}
}

// FindVictim returns the least recently used way.
func (l *LRU) FindVictim(setID int) int {
	return l.queues[setID][0]
}

// Reset restores the initial way order in every set.
func (l *LRU) Reset() {
	l.queues = make([][]int, l.numSets)
	for i := range l.queues {
		l.queues[i] = make([]int, l.numWays)
		for j := range l.queues[i] {
			l.queues[i][j] = j
		}
	}
}

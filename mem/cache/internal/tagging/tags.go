package tagging

// TagArray keeps the bookkeeping of the cache lines of a cache level.
type TagArray interface {
	Lookup(setID int, tag uint64) (Block, bool)
	Update(block Block)
	Visit(block Block)
	FindVictim(setID int) Block
	GetSet(setID int) *Set
	NumSets() int
	NumWays() int
	Reset()
}

// NewTagArray creates a tag array with all the blocks invalid.
func NewTagArray(
	numSets int,
	numWays int,
	victimFinder VictimFinder,
) TagArray {
	t := &tagArrayImpl{
		numSets:      numSets,
		numWays:      numWays,
		victimFinder: victimFinder,
	}

	t.Reset()

	return t
}

// A Block of a cache is the information that is associated with a cache line.
// The data of the line is not modeled.
type Block struct {
	Tag     uint64
	SetID   int
	WayID   int
	IsValid bool
	IsDirty bool
}

// A Set is a list of blocks where a certain piece memory can be stored at.
type Set struct {
	Blocks []Block
}

type tagArrayImpl struct {
	numSets      int
	numWays      int
	sets         []Set
	victimFinder VictimFinder
}

func (t *tagArrayImpl) NumSets() int {
	return t.numSets
}

func (t *tagArrayImpl) NumWays() int {
	return t.numWays
}

func (t *tagArrayImpl) GetSet(setID int) *Set {
	return &t.sets[setID]
}

// Lookup returns the valid block that holds the tag in the given set.
func (t *tagArrayImpl) Lookup(setID int, tag uint64) (Block, bool) {
	for _, block := range t.sets[setID].Blocks {
		if block.IsValid && block.Tag == tag {
			return block, true
		}
	}

	return Block{}, false
}

func (t *tagArrayImpl) Update(block Block) {
	t.sets[block.SetID].Blocks[block.WayID] = block
}

func (t *tagArrayImpl) Visit(block Block) {
	t.victimFinder.Visit(block.SetID, block.WayID)
}

// FindVictim returns the block the replacement policy picks, whether or not
// the set still has invalid blocks.
func (t *tagArrayImpl) FindVictim(setID int) Block {
	return t.sets[setID].Blocks[t.victimFinder.FindVictim(setID)]
}

func (t *tagArrayImpl) Reset() {
	t.sets = make([]Set, t.numSets)
	for i := 0; i < t.numSets; i++ {
		t.sets[i].Blocks = make([]Block, t.numWays)
		for j := 0; j < t.numWays; j++ {
			t.sets[i].Blocks[j] = Block{SetID: i, WayID: j}
		}
	}

	t.victimFinder.Reset()
}

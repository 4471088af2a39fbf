package merkle

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Prover keeps every leaf of an incremental tree so it can build inclusion
// proofs against the latest root.
type Prover struct {
	tree   Tree
	leaves []common.Hash
}

// NewProver returns a prover for an empty tree.
func NewProver() *Prover {
	return &Prover{}
}

// Ingest appends a leaf.
func (p *Prover) Ingest(leaf common.Hash) error {
	if err := p.tree.Insert(leaf); err != nil {
		return err
	}
	p.leaves = append(p.leaves, leaf)
	return nil
}

// Count returns the number of ingested leaves.
func (p *Prover) Count() uint64 {
	return p.tree.Count()
}

// Root returns the root over all ingested leaves.
func (p *Prover) Root() common.Hash {
	return p.tree.Root()
}

// Prove builds an inclusion proof for the leaf at index against the current
// root.
func (p *Prover) Prove(index uint32) (Proof, error) {
	if uint64(index) >= uint64(len(p.leaves)) {
		return Proof{}, fmt.Errorf("leaf index %d out of bounds, tree has %d leaves", index, len(p.leaves))
	}

	level := make([]common.Hash, len(p.leaves))
	copy(level, p.leaves)
	branch := make([]common.Hash, TreeDepth)
	pos := uint64(index)
	for h := 0; h < TreeDepth; h++ {
		sibling := pos ^ 1
		if sibling < uint64(len(level)) {
			branch[h] = level[sibling]
		} else {
			branch[h] = zeroHashes[h]
		}

		next := make([]common.Hash, (len(level)+1)/2)
		for i := range next {
			right := zeroHashes[h]
			if 2*i+1 < len(level) {
				right = level[2*i+1]
			}
			next[i] = hashPair(level[2*i], right)
		}
		level = next
		pos >>= 1
	}

	return Proof{
		Branch: branch,
		Leaf:   p.leaves[index],
		Index:  index,
	}, nil
}

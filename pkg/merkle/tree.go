package merkle

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// TreeDepth is the depth of the accumulator. A tree holds at most
	// MaxLeaves leaves.
	TreeDepth = 32

	// MaxLeaves is the maximum number of leaves a tree accepts.
	MaxLeaves = uint64(1)<<TreeDepth - 1
)

// ErrTreeFull is returned when inserting into a tree holding MaxLeaves leaves.
var ErrTreeFull = errors.New("merkle tree full")

// zeroHashes[i] is the root of an empty subtree of height i.
var zeroHashes [TreeDepth + 1]common.Hash

func init() {
	for i := 1; i <= TreeDepth; i++ {
		zeroHashes[i] = hashPair(zeroHashes[i-1], zeroHashes[i-1])
	}
}

// ZeroHash returns the root of an empty subtree of the given height.
func ZeroHash(height int) common.Hash {
	return zeroHashes[height]
}

// EmptyRoot is the root of a tree with no leaves.
func EmptyRoot() common.Hash {
	return zeroHashes[TreeDepth]
}

func hashPair(left, right common.Hash) common.Hash {
	return crypto.Keccak256Hash(left[:], right[:])
}

// Tree is an append-only incremental merkle tree. Only the rightmost branch is
// kept, which is enough to compute the root and to insert the next leaf.
type Tree struct {
	branch [TreeDepth]common.Hash
	count  uint64
}

// Count returns the number of inserted leaves.
func (t *Tree) Count() uint64 {
	return t.count
}

// Insert appends a leaf to the tree.
func (t *Tree) Insert(leaf common.Hash) error {
	if t.count >= MaxLeaves {
		return ErrTreeFull
	}
	t.count++
	size := t.count
	node := leaf
	for i := 0; i < TreeDepth; i++ {
		if size&1 == 1 {
			t.branch[i] = node
			return nil
		}
		node = hashPair(t.branch[i], node)
		size >>= 1
	}
	// unreachable while count < 2^TreeDepth
	panic("merkle: insert did not terminate")
}

// Root returns the current root of the tree.
func (t *Tree) Root() common.Hash {
	var current common.Hash
	for i := 0; i < TreeDepth; i++ {
		if (t.count>>i)&1 == 1 {
			current = hashPair(t.branch[i], current)
		} else {
			current = hashPair(current, zeroHashes[i])
		}
	}
	return current
}

// BranchRoot computes the root committed to by a leaf, its sibling path and
// its index.
func BranchRoot(leaf common.Hash, branch [TreeDepth]common.Hash, index uint32) common.Hash {
	current := leaf
	for i := 0; i < TreeDepth; i++ {
		if (index>>i)&1 == 1 {
			current = hashPair(branch[i], current)
		} else {
			current = hashPair(current, branch[i])
		}
	}
	return current
}

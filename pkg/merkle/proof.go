package merkle

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Proof proves that Leaf is included at Index in a tree with a given root.
type Proof struct {
	Branch []common.Hash `json:"branch"`
	Leaf   common.Hash   `json:"leaf"`
	Index  uint32        `json:"index"`
}

// ValidateBasic checks the proof is well formed.
func (p Proof) ValidateBasic() error {
	if len(p.Branch) != TreeDepth {
		return fmt.Errorf("proof branch must have %d nodes, got %d", TreeDepth, len(p.Branch))
	}
	return nil
}

// Root reconstructs the root committed to by the proof.
func (p Proof) Root() (common.Hash, error) {
	if err := p.ValidateBasic(); err != nil {
		return common.Hash{}, err
	}
	var branch [TreeDepth]common.Hash
	copy(branch[:], p.Branch)
	return BranchRoot(p.Leaf, branch, p.Index), nil
}

// Verify reports whether the proof reconstructs root.
func (p Proof) Verify(root common.Hash) bool {
	got, err := p.Root()
	if err != nil {
		return false
	}
	return got == root
}

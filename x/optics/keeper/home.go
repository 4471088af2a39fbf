package keeper

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	errorsmod "cosmossdk.io/errors"
	dbm "github.com/cosmos/cosmos-db"
	ethcmn "github.com/ethereum/go-ethereum/common"

	"github.com/celestiaorg/optics/pkg/merkle"
	"github.com/celestiaorg/optics/pkg/message"
	"github.com/celestiaorg/optics/x/optics/types"
)

// Home is the origin side of a domain: it commits dispatched messages into a
// merkle tree and accepts signed checkpoints of that tree.
type Home struct {
	*Common

	prover *merkle.Prover
}

// NewHome opens the home of domain stored in db. The committed root of a new
// home is the zero hash.
func NewHome(db dbm.DB, domain uint32, validator ethcmn.Address, opts ...Option) (*Home, error) {
	o := newOptions(opts)
	c, err := newCommon(db, roleHome, domain, validator, ethcmn.Hash{}, o, nil)
	if err != nil {
		return nil, err
	}
	h := &Home{Common: c, prover: merkle.NewProver()}
	if err := h.loadLeaves(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Home) loadLeaves() error {
	return iteratePrefix(h.db, types.LeafKeyPrefix, func(key, value []byte) error {
		if len(key) != 4 {
			return fmt.Errorf("corrupt leaf key %x", key)
		}
		index := binary.BigEndian.Uint32(key)
		if uint64(index) != h.prover.Count() {
			return fmt.Errorf("missing leaf %d, found leaf %d", h.prover.Count(), index)
		}
		if len(value) != ethcmn.HashLength {
			return fmt.Errorf("corrupt leaf %d of %d bytes", index, len(value))
		}
		return h.prover.Ingest(ethcmn.BytesToHash(value))
	})
}

// Dispatch formats a message from sender to recipient on destination, inserts
// its leaf into the tree and returns the sequence assigned to it. Sequences
// start at zero for every destination.
func (h *Home) Dispatch(_ context.Context, sender []byte, destination uint32, recipient []byte, body []byte) (uint32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == types.StateFailed {
		return 0, types.ErrChainFailed
	}
	if len(body) > message.MaxBodyBytes {
		return 0, errorsmod.Wrapf(types.ErrMessageTooLong, "body of %d bytes exceeds %d", len(body), message.MaxBodyBytes)
	}
	if destination == math.MaxUint32 {
		return 0, errorsmod.Wrapf(types.ErrInvalidDomain, "destination %d", destination)
	}
	if h.prover.Count() >= merkle.MaxLeaves {
		return 0, types.ErrTreeFull
	}

	sequence, err := h.nextSequence(destination)
	if err != nil {
		return 0, err
	}
	key, err := types.DestinationAndSequence(destination, sequence)
	if err != nil {
		return 0, err
	}
	msg, err := message.New(h.domain, sender, sequence, destination, recipient, body)
	if err != nil {
		return 0, errorsmod.Wrap(types.ErrInvalidMessage, err.Error())
	}

	encoded := msg.Encode()
	leaf := message.Leaf(encoded)
	record := types.DispatchRecord{
		Leaf:                   leaf,
		LeafIndex:              uint32(h.prover.Count()),
		DestinationAndSequence: key,
		CommittedRoot:          h.root,
		Message:                encoded,
	}
	err = writeBatch(h.db, func(batch dbm.Batch) error {
		if err := batch.Set(types.GetLeafKey(record.LeafIndex), leaf.Bytes()); err != nil {
			return err
		}
		if err := batch.Set(types.GetSequenceKey(destination), types.UInt32Bytes(sequence+1)); err != nil {
			return err
		}
		return setCBOR(batch, types.GetDispatchKey(key), record)
	})
	if err != nil {
		return 0, err
	}
	if err := h.prover.Ingest(leaf); err != nil {
		return 0, err
	}

	h.metrics.recordDispatch(h.domain, destination)
	h.logger.Debug("dispatched message",
		"destination", destination,
		"sequence", sequence,
		"leaf_index", record.LeafIndex,
		"leaf", leaf.Hex(),
	)
	h.events.Emit(types.EventDispatch{
		Leaf:                   leaf,
		LeafIndex:              record.LeafIndex,
		DestinationAndSequence: key,
		CommittedRoot:          record.CommittedRoot,
		Message:                encoded,
	})
	return sequence, nil
}

func (h *Home) nextSequence(destination uint32) (uint32, error) {
	bz, err := h.db.Get(types.GetSequenceKey(destination))
	if err != nil {
		return 0, err
	}
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 4 {
		return 0, fmt.Errorf("corrupt sequence record for destination %d", destination)
	}
	return binary.BigEndian.Uint32(bz), nil
}

// DispatchByDestinationAndSequence returns the record of the message sent to
// destination with sequence.
func (h *Home) DispatchByDestinationAndSequence(destination, sequence uint32) (types.DispatchRecord, error) {
	key, err := types.DestinationAndSequence(destination, sequence)
	if err != nil {
		return types.DispatchRecord{}, err
	}
	var record types.DispatchRecord
	found, err := getCBOR(h.db, types.GetDispatchKey(key), &record)
	if err != nil {
		return types.DispatchRecord{}, err
	}
	if !found {
		return types.DispatchRecord{}, errorsmod.Wrapf(types.ErrDispatchNotFound, "destination %d sequence %d", destination, sequence)
	}
	return record, nil
}

// Root returns the root of the tree over every dispatched leaf, which may be
// ahead of the committed root.
func (h *Home) Root() ethcmn.Hash {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.prover.Root()
}

// Count returns the number of dispatched messages.
func (h *Home) Count() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.prover.Count()
}

// Proof returns the inclusion proof of the leaf at index against Root.
func (h *Home) Proof(index uint32) (merkle.Proof, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	proof, err := h.prover.Prove(index)
	if err != nil {
		return merkle.Proof{}, errorsmod.Wrap(types.ErrDispatchNotFound, err.Error())
	}
	return proof, nil
}

// SuggestUpdate returns the roots an updater should sign next. ok is false
// when no message has been dispatched since the committed root.
func (h *Home) SuggestUpdate() (oldRoot, newRoot ethcmn.Hash, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.prover.Count() == 0 || h.state == types.StateFailed {
		return h.root, h.root, false
	}
	newRoot = h.prover.Root()
	return h.root, newRoot, newRoot != h.root
}

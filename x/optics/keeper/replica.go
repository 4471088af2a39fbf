package keeper

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	dbm "github.com/cosmos/cosmos-db"
	ethcmn "github.com/ethereum/go-ethereum/common"

	"github.com/celestiaorg/optics/pkg/merkle"
	"github.com/celestiaorg/optics/pkg/message"
	"github.com/celestiaorg/optics/x/optics/types"
)

var confirmed = []byte{1}

// Replica mirrors the committed roots of one remote home on a local domain
// and processes messages proven against them, each at most once.
type Replica struct {
	*Common

	localDomain uint32
	handler     types.MessageHandler
}

// NewReplica opens the replica of remoteDomain on localDomain stored in db.
// initialRoot is the current and first confirmed root of a new replica.
func NewReplica(
	db dbm.DB,
	localDomain, remoteDomain uint32,
	validator ethcmn.Address,
	initialRoot ethcmn.Hash,
	opts ...Option,
) (*Replica, error) {
	if localDomain == remoteDomain {
		return nil, errorsmod.Wrapf(types.ErrInvalidDomain, "replica of domain %d on itself", localDomain)
	}
	o := newOptions(opts)
	c, err := newCommon(db, roleReplica, remoteDomain, validator, initialRoot, o, func(batch dbm.Batch) error {
		return batch.Set(types.GetConfirmedRootKey(initialRoot), confirmed)
	})
	if err != nil {
		return nil, err
	}
	c.onUpdate = func(batch dbm.Batch, update types.SignedUpdate) error {
		return batch.Set(types.GetConfirmedRootKey(update.NewRoot), confirmed)
	}
	return &Replica{
		Common:      c,
		localDomain: localDomain,
		handler:     o.handler,
	}, nil
}

// LocalDomain returns the domain messages are delivered on.
func (r *Replica) LocalDomain() uint32 {
	return r.localDomain
}

// MessageStatus returns the status of leaf.
func (r *Replica) MessageStatus(leaf ethcmn.Hash) (types.MessageStatus, error) {
	return r.messageStatus(leaf)
}

// IsConfirmedRoot reports whether root was ever confirmed by this replica.
func (r *Replica) IsConfirmedRoot(root ethcmn.Hash) (bool, error) {
	return r.db.Has(types.GetConfirmedRootKey(root))
}

func (r *Replica) messageStatus(leaf ethcmn.Hash) (types.MessageStatus, error) {
	bz, err := r.db.Get(types.GetMessageStatusKey(leaf))
	if err != nil {
		return types.MessageStatusNone, err
	}
	if bz == nil {
		return types.MessageStatusNone, nil
	}
	if len(bz) != 1 {
		return types.MessageStatusNone, fmt.Errorf("corrupt status record for leaf %s", leaf.Hex())
	}
	status := types.MessageStatus(bz[0])
	return status, status.Validate()
}

func (r *Replica) setStatus(from, to types.MessageStatus, leaf ethcmn.Hash) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("invalid status transition %s -> %s for leaf %s", from, to, leaf.Hex())
	}
	return writeBatch(r.db, func(batch dbm.Batch) error {
		return batch.Set(types.GetMessageStatusKey(leaf), []byte{byte(to)})
	})
}

// verifyProof checks that proof is well formed and evaluates to a confirmed
// root.
func (r *Replica) verifyProof(proof merkle.Proof) error {
	root, err := proof.Root()
	if err != nil {
		return errorsmod.Wrap(types.ErrInvalidProof, err.Error())
	}
	ok, err := r.IsConfirmedRoot(root)
	if err != nil {
		return err
	}
	if !ok {
		return errorsmod.Wrapf(types.ErrInvalidProof, "root %s is not confirmed", root.Hex())
	}
	return nil
}

func (r *Replica) validateMessage(msg message.Message) error {
	if err := msg.ValidateBasic(); err != nil {
		return errorsmod.Wrap(types.ErrInvalidMessage, err.Error())
	}
	if msg.Origin != r.domain {
		return errorsmod.Wrapf(types.ErrInvalidMessage, "origin %d, replica of %d", msg.Origin, r.domain)
	}
	if msg.Destination != r.localDomain {
		return errorsmod.Wrapf(types.ErrInvalidMessage, "destination %d, local domain %d", msg.Destination, r.localDomain)
	}
	return nil
}

// Prove marks the leaf of proof pending if proof evaluates to a confirmed
// root. Proving a pending leaf again with a valid proof is a no-op.
func (r *Replica) Prove(_ context.Context, proof merkle.Proof) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == types.StateFailed {
		return types.ErrChainFailed
	}
	status, err := r.messageStatus(proof.Leaf)
	if err != nil {
		return err
	}
	if status == types.MessageStatusProcessed {
		return errorsmod.Wrapf(types.ErrAlreadyProcessed, "leaf %s", proof.Leaf.Hex())
	}
	if err := r.verifyProof(proof); err != nil {
		return err
	}
	if status == types.MessageStatusPending {
		return nil
	}
	if err := r.setStatus(status, types.MessageStatusPending, proof.Leaf); err != nil {
		return err
	}
	r.logger.Debug("proved leaf", "leaf", proof.Leaf.Hex(), "index", proof.Index)
	r.events.Emit(types.EventProve{Leaf: proof.Leaf})
	return nil
}

// Process marks the pending leaf of msg processed and hands msg to the message
// handler. The leaf is processed even if the handler fails.
func (r *Replica) Process(ctx context.Context, msg message.Message, proof merkle.Proof) error {
	r.mu.Lock()
	leaf, err := r.process(msg, proof, false)
	r.mu.Unlock()
	if err != nil {
		return err
	}
	r.deliver(ctx, msg, leaf)
	return nil
}

// ProveAndProcess proves and processes msg in one step.
func (r *Replica) ProveAndProcess(ctx context.Context, msg message.Message, proof merkle.Proof) error {
	r.mu.Lock()
	leaf, err := r.process(msg, proof, true)
	r.mu.Unlock()
	if err != nil {
		return err
	}
	r.deliver(ctx, msg, leaf)
	return nil
}

func (r *Replica) process(msg message.Message, proof merkle.Proof, prove bool) (ethcmn.Hash, error) {
	if r.state == types.StateFailed {
		return ethcmn.Hash{}, types.ErrChainFailed
	}
	if err := r.validateMessage(msg); err != nil {
		return ethcmn.Hash{}, err
	}
	leaf := msg.Leaf()
	status, err := r.messageStatus(leaf)
	if err != nil {
		return ethcmn.Hash{}, err
	}
	if status == types.MessageStatusProcessed {
		return ethcmn.Hash{}, errorsmod.Wrapf(types.ErrAlreadyProcessed, "leaf %s", leaf.Hex())
	}
	if proof.Leaf != leaf {
		return ethcmn.Hash{}, errorsmod.Wrapf(types.ErrInvalidProof, "proof of leaf %s for message leaf %s", proof.Leaf.Hex(), leaf.Hex())
	}
	if err := r.verifyProof(proof); err != nil {
		return ethcmn.Hash{}, err
	}
	if status != types.MessageStatusPending && !prove {
		return ethcmn.Hash{}, errorsmod.Wrapf(types.ErrNotPending, "leaf %s is %s", leaf.Hex(), status)
	}
	if err := r.setStatus(status, types.MessageStatusProcessed, leaf); err != nil {
		return ethcmn.Hash{}, err
	}
	if status == types.MessageStatusNone {
		r.events.Emit(types.EventProve{Leaf: leaf})
	}
	return leaf, nil
}

func (r *Replica) deliver(ctx context.Context, msg message.Message, leaf ethcmn.Hash) {
	success := true
	if r.handler != nil {
		if err := r.handler.HandleMessage(ctx, msg); err != nil {
			success = false
			r.logger.Error("message handler failed", "leaf", leaf.Hex(), "sequence", msg.Sequence, "err", err)
		}
	}
	r.metrics.recordProcess(msg.Origin, msg.Destination, success)
	r.logger.Debug("processed message", "leaf", leaf.Hex(), "sequence", msg.Sequence, "success", success)
	r.events.Emit(types.EventProcess{Leaf: leaf, Success: success})
}

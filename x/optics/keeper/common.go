package keeper

import (
	"context"
	"fmt"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor/v2"

	"github.com/celestiaorg/optics/x/optics/types"
)

const (
	roleHome    = "home"
	roleReplica = "replica"
)

// Chain is the capability shared by homes and replicas: it verifies signed
// updates over the roots of one home domain and fails on proven equivocation.
type Chain interface {
	Domain() uint32
	Validator() ethcmn.Address
	CurrentRoot() ethcmn.Hash
	State() types.State
	SubmitSignedUpdate(ctx context.Context, update types.SignedUpdate) error
	DoubleUpdate(ctx context.Context, left, right types.SignedUpdate) error
	SignedUpdate(oldRoot ethcmn.Hash) (types.SignedUpdate, error)
	SignedUpdates() ([]types.SignedUpdate, error)
}

var (
	_ Chain = (*Home)(nil)
	_ Chain = (*Replica)(nil)
)

// Common verifies checkpoints for a home domain and tracks whether fraud has
// been proven against its validator. Every mutation is serialized.
type Common struct {
	mu sync.Mutex

	db        dbm.DB
	role      string
	domain    uint32
	validator ethcmn.Address

	root  ethcmn.Hash
	state types.State

	logger  log.Logger
	events  types.EventSink
	metrics *Metrics

	// onUpdate adds writes to the batch that commits an accepted update.
	onUpdate func(batch dbm.Batch, update types.SignedUpdate) error
}

// newCommon loads the instance state from db. On an empty store it commits
// initialRoot together with whatever init writes.
func newCommon(
	db dbm.DB,
	role string,
	domain uint32,
	validator ethcmn.Address,
	initialRoot ethcmn.Hash,
	opts options,
	init func(batch dbm.Batch) error,
) (*Common, error) {
	if db == nil {
		return nil, fmt.Errorf("nil database")
	}
	if validator == (ethcmn.Address{}) {
		return nil, errorsmod.Wrap(types.ErrInvalidKey, "empty validator address")
	}
	c := &Common{
		db:        db,
		role:      role,
		domain:    domain,
		validator: validator,
		logger:    opts.logger.With("module", "x/"+types.ModuleName, "role", role, "home_domain", domain),
		events:    opts.events,
		metrics:   opts.metrics,
	}

	stateBz, err := db.Get(types.StateKey)
	if err != nil {
		return nil, err
	}
	if stateBz == nil {
		err := writeBatch(db, func(batch dbm.Batch) error {
			if err := batch.Set(types.StateKey, []byte{byte(types.StateActive)}); err != nil {
				return err
			}
			if err := batch.Set(types.CurrentRootKey, initialRoot.Bytes()); err != nil {
				return err
			}
			if init != nil {
				return init(batch)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		c.state = types.StateActive
		c.root = initialRoot
		return c, nil
	}

	if len(stateBz) != 1 {
		return nil, fmt.Errorf("corrupt state record of %d bytes", len(stateBz))
	}
	c.state = types.State(stateBz[0])
	if err := c.state.Validate(); err != nil {
		return nil, err
	}
	rootBz, err := db.Get(types.CurrentRootKey)
	if err != nil {
		return nil, err
	}
	if len(rootBz) != ethcmn.HashLength {
		return nil, fmt.Errorf("corrupt current root record of %d bytes", len(rootBz))
	}
	c.root = ethcmn.BytesToHash(rootBz)
	c.logger.Info("loaded state", "state", c.state.String(), "root", c.root.Hex())
	return c, nil
}

// Domain returns the home domain whose roots are verified.
func (c *Common) Domain() uint32 {
	return c.domain
}

// Validator returns the address allowed to sign updates.
func (c *Common) Validator() ethcmn.Address {
	return c.validator
}

// CurrentRoot returns the last root confirmed by a signed update.
func (c *Common) CurrentRoot() ethcmn.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

// State returns the instance state.
func (c *Common) State() types.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SubmitSignedUpdate advances the current root from update.OldRoot to
// update.NewRoot. The update must extend the current root and carry a valid
// signature of the validator.
func (c *Common) SubmitSignedUpdate(_ context.Context, update types.SignedUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.submitSignedUpdate(update)
	c.metrics.recordUpdate(c.role, c.domain, err)
	if err != nil {
		c.logger.Debug("rejected signed update", "old_root", update.OldRoot.Hex(), "new_root", update.NewRoot.Hex(), "err", err)
		return err
	}

	c.logger.Info("accepted signed update", "old_root", update.OldRoot.Hex(), "new_root", update.NewRoot.Hex())
	c.events.Emit(types.EventUpdate{
		HomeDomain: c.domain,
		OldRoot:    update.OldRoot,
		NewRoot:    update.NewRoot,
		Signature:  update.Signature,
	})
	return nil
}

func (c *Common) submitSignedUpdate(update types.SignedUpdate) error {
	if c.state == types.StateFailed {
		return types.ErrChainFailed
	}
	if update.OldRoot != c.root {
		return errorsmod.Wrapf(types.ErrStaleRoot, "update extends %s, current root is %s", update.OldRoot.Hex(), c.root.Hex())
	}
	if err := types.VerifyUpdate(c.domain, c.validator, update); err != nil {
		return err
	}
	err := writeBatch(c.db, func(batch dbm.Batch) error {
		if err := batch.Set(types.CurrentRootKey, update.NewRoot.Bytes()); err != nil {
			return err
		}
		if err := setCBOR(batch, types.GetSignedUpdateKey(update.OldRoot), update); err != nil {
			return err
		}
		if c.onUpdate != nil {
			return c.onUpdate(batch, update)
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.root = update.NewRoot
	return nil
}

// DoubleUpdate fails the instance if left and right prove that the validator
// signed two different new roots for the same old root. It is accepted
// regardless of the current root.
func (c *Common) DoubleUpdate(_ context.Context, left, right types.SignedUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == types.StateFailed {
		return types.ErrChainFailed
	}
	if err := types.VerifyDoubleUpdate(c.domain, c.validator, left, right); err != nil {
		return err
	}
	if !c.state.CanTransitionTo(types.StateFailed) {
		return fmt.Errorf("invalid state transition %s -> %s", c.state, types.StateFailed)
	}
	err := writeBatch(c.db, func(batch dbm.Batch) error {
		if err := batch.Set(types.StateKey, []byte{byte(types.StateFailed)}); err != nil {
			return err
		}
		return setCBOR(batch, types.DoubleUpdateKey, types.DoubleUpdate{Left: left, Right: right})
	})
	if err != nil {
		return err
	}
	c.state = types.StateFailed

	c.metrics.recordDoubleUpdate(c.role, c.domain)
	c.logger.Error("double update proven, instance failed",
		"validator", c.validator.Hex(),
		"old_root", left.OldRoot.Hex(),
		"left_new_root", left.NewRoot.Hex(),
		"right_new_root", right.NewRoot.Hex(),
	)
	c.events.Emit(types.EventDoubleUpdate{
		OldRoot:    left.OldRoot,
		NewRoots:   [2]ethcmn.Hash{left.NewRoot, right.NewRoot},
		Signatures: [2][]byte{left.Signature, right.Signature},
	})
	return nil
}

// SignedUpdate returns the accepted update that extended oldRoot.
func (c *Common) SignedUpdate(oldRoot ethcmn.Hash) (types.SignedUpdate, error) {
	var update types.SignedUpdate
	found, err := getCBOR(c.db, types.GetSignedUpdateKey(oldRoot), &update)
	if err != nil {
		return types.SignedUpdate{}, err
	}
	if !found {
		return types.SignedUpdate{}, errorsmod.Wrapf(types.ErrUpdateNotFound, "old root %s", oldRoot.Hex())
	}
	return update, nil
}

// SignedUpdates returns every accepted update ordered by old root.
func (c *Common) SignedUpdates() ([]types.SignedUpdate, error) {
	var updates []types.SignedUpdate
	err := iteratePrefix(c.db, types.SignedUpdateKeyPrefix, func(key, value []byte) error {
		var update types.SignedUpdate
		if err := cbor.Unmarshal(value, &update); err != nil {
			return fmt.Errorf("decoding signed update %x: %w", key, err)
		}
		updates = append(updates, update)
		return nil
	})
	return updates, err
}

// DoubleUpdateProof returns the fraud proof that failed the instance, if any.
func (c *Common) DoubleUpdateProof() (types.DoubleUpdate, bool, error) {
	var proof types.DoubleUpdate
	found, err := getCBOR(c.db, types.DoubleUpdateKey, &proof)
	return proof, found, err
}

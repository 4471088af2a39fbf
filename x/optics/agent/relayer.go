package agent

import (
	"context"
	"errors"
	"time"

	"cosmossdk.io/log"

	"github.com/celestiaorg/optics/x/optics/keeper"
	"github.com/celestiaorg/optics/x/optics/types"
)

// Relayer copies signed updates accepted by the home to a replica.
type Relayer struct {
	logger   log.Logger
	interval time.Duration
}

func NewRelayer(logger log.Logger, interval time.Duration) *Relayer {
	return &Relayer{
		logger:   logger.With("agent", "relayer"),
		interval: interval,
	}
}

// Run relays updates every interval until ctx is done or the replica fails.
func (r *Relayer) Run(ctx context.Context, home, replica keeper.Chain) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		if err := r.relay(ctx, home, replica); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// relay submits home updates to replica until the replica reaches the home's
// current root.
func (r *Relayer) relay(ctx context.Context, home, replica keeper.Chain) error {
	for {
		if replica.State() == types.StateFailed {
			return types.ErrChainFailed
		}
		root := replica.CurrentRoot()
		update, err := home.SignedUpdate(root)
		if errors.Is(err, types.ErrUpdateNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := replica.SubmitSignedUpdate(ctx, update); err != nil {
			switch types.ClassifyError(err) {
			case types.ErrorClassValidation, types.ErrorClassReplay:
				r.logger.Info("replica rejected update", "old_root", update.OldRoot.Hex(), "err", err)
				return nil
			default:
				return err
			}
		}
		r.logger.Info("relayed update", "old_root", update.OldRoot.Hex(), "new_root", update.NewRoot.Hex())
	}
}

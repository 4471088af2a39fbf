package agent

import (
	"context"
	"errors"
	"sync"
	"time"

	"cosmossdk.io/log"
	ethcmn "github.com/ethereum/go-ethereum/common"

	"github.com/celestiaorg/optics/x/optics/keeper"
	"github.com/celestiaorg/optics/x/optics/types"
)

// Watcher looks for updates that equivocate on an old root across a home and
// its replicas and reports them to both sides.
type Watcher struct {
	logger   log.Logger
	interval time.Duration

	mu   sync.Mutex
	seen map[ethcmn.Hash]types.SignedUpdate
}

func NewWatcher(logger log.Logger, interval time.Duration) *Watcher {
	return &Watcher{
		logger:   logger.With("agent", "watcher"),
		interval: interval,
		seen:     make(map[ethcmn.Hash]types.SignedUpdate),
	}
}

// Observe records update if it is signed by validator for domain and returns
// a double update if it conflicts with a previously observed one.
func (w *Watcher) Observe(domain uint32, validator ethcmn.Address, update types.SignedUpdate) (types.DoubleUpdate, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	seen, ok := w.seen[update.OldRoot]
	if !ok {
		if types.VerifyUpdate(domain, validator, update) == nil {
			w.seen[update.OldRoot] = update
		}
		return types.DoubleUpdate{}, false
	}
	proof, err := types.FindDoubleUpdate(domain, validator, []types.SignedUpdate{seen, update})
	return proof, err == nil
}

// Run checks the updates of home and replica every interval. It returns once
// a double update has been reported or ctx is done.
func (w *Watcher) Run(ctx context.Context, home, replica keeper.Chain) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		proof, found, err := w.check(home, replica)
		if err != nil {
			return err
		}
		if found {
			return w.report(ctx, proof, home, replica)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Watcher) check(home, replica keeper.Chain) (types.DoubleUpdate, bool, error) {
	var all []types.SignedUpdate
	for _, chain := range []keeper.Chain{home, replica} {
		updates, err := chain.SignedUpdates()
		if err != nil {
			return types.DoubleUpdate{}, false, err
		}
		all = append(all, updates...)
	}
	proof, err := types.FindDoubleUpdate(home.Domain(), home.Validator(), all)
	if errors.Is(err, types.ErrNoConflict) {
		return types.DoubleUpdate{}, false, nil
	}
	if err != nil {
		return types.DoubleUpdate{}, false, err
	}
	return proof, true, nil
}

// report submits proof to home and replica. Chains already failed by another
// report are skipped.
func (w *Watcher) report(ctx context.Context, proof types.DoubleUpdate, home, replica keeper.Chain) error {
	w.logger.Error("double update detected",
		"old_root", proof.Left.OldRoot.Hex(),
		"left_new_root", proof.Left.NewRoot.Hex(),
		"right_new_root", proof.Right.NewRoot.Hex(),
	)
	var errs []error
	for _, chain := range []keeper.Chain{home, replica} {
		err := chain.DoubleUpdate(ctx, proof.Left, proof.Right)
		if err != nil && !errors.Is(err, types.ErrChainFailed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package agent

import (
	"context"
	"errors"

	"cosmossdk.io/log"
	"golang.org/x/sync/errgroup"

	"github.com/celestiaorg/optics/x/optics/keeper"
)

// ErrAllReplicasShutDown is returned by RunMany once every replica task has
// returned.
var ErrAllReplicasShutDown = errors.New("all replicas have shut down")

// Agent is an off-chain task run against a home and one of its replicas.
type Agent interface {
	Run(ctx context.Context, home, replica keeper.Chain) error
}

// RunMany runs agent once per replica. A failing replica is logged and does
// not stop the others.
func RunMany(ctx context.Context, logger log.Logger, agent Agent, home keeper.Chain, replicas []keeper.Chain) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, replica := range replicas {
		replica := replica
		g.Go(func() error {
			err := agent.Run(gctx, home, replica)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("replica shut down", "replica", replicaDomain(replica), "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return ErrAllReplicasShutDown
}

// replicaDomain returns the local domain of a replica, falling back to the
// domain it verifies.
func replicaDomain(chain keeper.Chain) uint32 {
	if r, ok := chain.(interface{ LocalDomain() uint32 }); ok {
		return r.LocalDomain()
	}
	return chain.Domain()
}

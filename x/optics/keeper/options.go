package keeper

import (
	"cosmossdk.io/log"
	"github.com/celestiaorg/optics/x/optics/types"
)

// Option configures a Home or a Replica.
type Option func(*options)

type options struct {
	logger  log.Logger
	events  types.EventSink
	metrics *Metrics
	handler types.MessageHandler
}

func newOptions(opts []Option) options {
	o := options{
		logger: log.NewNopLogger(),
		events: types.NopEventSink{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = NewMetrics(nil)
	}
	return o
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventSink sets where committed events are emitted.
func WithEventSink(sink types.EventSink) Option {
	return func(o *options) {
		o.events = sink
	}
}

// WithMetrics sets the metrics collectors. Defaults to unregistered
// collectors.
func WithMetrics(metrics *Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// WithMessageHandler sets the recipient handler of a replica. It is ignored by
// the home.
func WithMessageHandler(handler types.MessageHandler) Option {
	return func(o *options) {
		o.handler = handler
	}
}

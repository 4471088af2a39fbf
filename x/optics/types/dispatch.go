package types

import (
	"context"

	"github.com/celestiaorg/optics/pkg/message"
	ethcmn "github.com/ethereum/go-ethereum/common"
)

// DispatchRecord is stored by the home for every dispatched message, indexed
// by its destination and sequence.
type DispatchRecord struct {
	Leaf                   ethcmn.Hash `cbor:"1,keyasint"`
	LeafIndex              uint32      `cbor:"2,keyasint"`
	DestinationAndSequence uint64      `cbor:"3,keyasint"`
	CommittedRoot          ethcmn.Hash `cbor:"4,keyasint"`
	Message                []byte      `cbor:"5,keyasint"`
}

// Decode parses the dispatched message.
func (r DispatchRecord) Decode() (message.Message, error) {
	return message.Decode(r.Message)
}

// MessageHandler receives messages processed by a replica. It is the
// recipient side of the protocol and lives outside this module.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg message.Message) error
}

// MessageHandlerFunc adapts a function to MessageHandler.
type MessageHandlerFunc func(ctx context.Context, msg message.Message) error

func (f MessageHandlerFunc) HandleMessage(ctx context.Context, msg message.Message) error {
	return f(ctx, msg)
}

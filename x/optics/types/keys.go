package types

import (
	"encoding/binary"
	"math"

	errorsmod "cosmossdk.io/errors"
	ethcmn "github.com/ethereum/go-ethereum/common"
)

const (
	// ModuleName is the name of the module
	ModuleName = "optics"

	// ProtocolName is mixed into every domain separator so signatures can not
	// be replayed by other protocols sharing the same signing scheme.
	ProtocolName = "OPTICS"
)

// Store layout of a single home or replica instance. Every key is a one byte
// prefix followed by the fields listed next to it.
var (
	// StateKey holds the State of the instance
	StateKey = []byte{0x01}
	// CurrentRootKey holds the last root confirmed by a signed update
	CurrentRootKey = []byte{0x02}
	// LeafKeyPrefix indexes home leaves by tree index
	// [0x03][leaf index uint32]
	LeafKeyPrefix = []byte{0x03}
	// SequenceKeyPrefix holds the next sequence per destination
	// [0x04][destination uint32]
	SequenceKeyPrefix = []byte{0x04}
	// DispatchKeyPrefix indexes dispatch records by compound key
	// [0x05][destination and sequence uint64]
	DispatchKeyPrefix = []byte{0x05}
	// MessageStatusKeyPrefix holds the status of a replica leaf
	// [0x06][leaf]
	MessageStatusKeyPrefix = []byte{0x06}
	// ConfirmedRootKeyPrefix marks roots a replica has confirmed
	// [0x07][root]
	ConfirmedRootKeyPrefix = []byte{0x07}
	// SignedUpdateKeyPrefix keeps accepted signed updates as provenance
	// [0x08][old root]
	SignedUpdateKeyPrefix = []byte{0x08}
	// DoubleUpdateKey holds the fraud proof that failed the instance
	DoubleUpdateKey = []byte{0x09}
)

// UInt32Bytes returns the big endian encoding of n.
func UInt32Bytes(n uint32) []byte {
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, n)
	return bz
}

// UInt64Bytes returns the big endian encoding of n.
func UInt64Bytes(n uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, n)
	return bz
}

func prefixed(prefix []byte, key []byte) []byte {
	out := make([]byte, 0, len(prefix)+len(key))
	out = append(out, prefix...)
	return append(out, key...)
}

// GetLeafKey returns the following key format
// prefix   index
// [0x03][0 0 0 1]
func GetLeafKey(index uint32) []byte {
	return prefixed(LeafKeyPrefix, UInt32Bytes(index))
}

// GetSequenceKey returns the key holding the next sequence for destination.
func GetSequenceKey(destination uint32) []byte {
	return prefixed(SequenceKeyPrefix, UInt32Bytes(destination))
}

// GetDispatchKey returns the following key format
// prefix   destination and sequence
// [0x05][0 0 0 2 0 0 0 0]
func GetDispatchKey(destinationAndSequence uint64) []byte {
	return prefixed(DispatchKeyPrefix, UInt64Bytes(destinationAndSequence))
}

// GetMessageStatusKey returns the key holding the status of leaf.
func GetMessageStatusKey(leaf ethcmn.Hash) []byte {
	return prefixed(MessageStatusKeyPrefix, leaf.Bytes())
}

// GetConfirmedRootKey returns the key marking root as confirmed.
func GetConfirmedRootKey(root ethcmn.Hash) []byte {
	return prefixed(ConfirmedRootKeyPrefix, root.Bytes())
}

// GetSignedUpdateKey returns the key of the update accepted on top of oldRoot.
func GetSignedUpdateKey(oldRoot ethcmn.Hash) []byte {
	return prefixed(SignedUpdateKeyPrefix, oldRoot.Bytes())
}

// DestinationAndSequence packs a destination and a sequence into the compound
// key used to index dispatches: destination * 2^32 + sequence. Both values
// must be strictly less than 2^32-1.
func DestinationAndSequence(destination, sequence uint32) (uint64, error) {
	if destination >= math.MaxUint32 {
		return 0, errorsmod.Wrapf(ErrInvalidDomain, "destination %d", destination)
	}
	if sequence >= math.MaxUint32 {
		return 0, errorsmod.Wrapf(ErrSequenceOverflow, "sequence %d", sequence)
	}
	return uint64(destination)<<32 | uint64(sequence), nil
}

// SplitDestinationAndSequence is the inverse of DestinationAndSequence.
func SplitDestinationAndSequence(key uint64) (destination, sequence uint32) {
	return uint32(key >> 32), uint32(key)
}

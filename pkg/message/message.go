package message

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Message is a cross-chain message as committed to by the home domain. It is
// never mutated once dispatched.
type Message struct {
	Origin      uint32
	Sender      common.Hash
	Sequence    uint32
	Destination uint32
	Recipient   common.Hash
	Body        []byte
}

// New returns a message after normalizing the sender and recipient addresses.
func New(origin uint32, sender []byte, sequence, destination uint32, recipient []byte, body []byte) (Message, error) {
	senderAddr, err := AddressToBytes32(sender)
	if err != nil {
		return Message{}, fmt.Errorf("sender: %w", err)
	}
	recipientAddr, err := AddressToBytes32(recipient)
	if err != nil {
		return Message{}, fmt.Errorf("recipient: %w", err)
	}
	return Message{
		Origin:      origin,
		Sender:      senderAddr,
		Sequence:    sequence,
		Destination: destination,
		Recipient:   recipientAddr,
		Body:        body,
	}, nil
}

// Encode packs the message fields in their canonical order:
//
//	origin:uint32 | sender:32B | sequence:uint32 | destination:uint32 | recipient:32B | body
//
// All fields before the body are fixed width so the body is not length
// prefixed.
func Encode(origin uint32, sender common.Hash, sequence, destination uint32, recipient common.Hash, body []byte) []byte {
	bz := make([]byte, PrefixSize+len(body))
	binary.BigEndian.PutUint32(bz[originOffset:], origin)
	copy(bz[senderOffset:], sender[:])
	binary.BigEndian.PutUint32(bz[sequenceOffset:], sequence)
	binary.BigEndian.PutUint32(bz[destinationOffset:], destination)
	copy(bz[recipientOffset:], recipient[:])
	copy(bz[bodyOffset:], body)
	return bz
}

// FormatMessage encodes a message from chain-native sender and recipient
// addresses. Addresses are normalized before encoding so the resulting leaf is
// identical on every domain.
func FormatMessage(origin uint32, sender []byte, sequence, destination uint32, recipient []byte, body []byte) ([]byte, error) {
	m, err := New(origin, sender, sequence, destination, recipient, body)
	if err != nil {
		return nil, err
	}
	return m.Encode(), nil
}

// Encode returns the canonical encoding of the message.
func (m Message) Encode() []byte {
	return Encode(m.Origin, m.Sender, m.Sequence, m.Destination, m.Recipient, m.Body)
}

// Leaf returns the hash of the canonically encoded message.
func (m Message) Leaf() common.Hash {
	return Leaf(m.Encode())
}

// Leaf hashes an encoded message.
func Leaf(encoded []byte) common.Hash {
	return crypto.Keccak256Hash(encoded)
}

// Decode parses an encoded message. The body of the returned message is a copy
// of the input.
func Decode(bz []byte) (Message, error) {
	if len(bz) < PrefixSize {
		return Message{}, fmt.Errorf("message must be at least %d bytes, got %d", PrefixSize, len(bz))
	}
	body := make([]byte, len(bz)-PrefixSize)
	copy(body, bz[bodyOffset:])
	return Message{
		Origin:      binary.BigEndian.Uint32(bz[originOffset:]),
		Sender:      common.BytesToHash(bz[senderOffset:sequenceOffset]),
		Sequence:    binary.BigEndian.Uint32(bz[sequenceOffset:]),
		Destination: binary.BigEndian.Uint32(bz[destinationOffset:]),
		Recipient:   common.BytesToHash(bz[recipientOffset:bodyOffset]),
		Body:        body,
	}, nil
}

// ValidateBasic runs stateless checks over the message.
func (m Message) ValidateBasic() error {
	if len(m.Body) > MaxBodyBytes {
		return fmt.Errorf("message body must be <= %d bytes, got %d", MaxBodyBytes, len(m.Body))
	}
	if m.Destination == ^uint32(0) {
		return errors.New("destination domain is reserved")
	}
	return nil
}

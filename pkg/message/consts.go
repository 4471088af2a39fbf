package message

const (
	// DomainSize is the size of an encoded domain identifier in bytes.
	DomainSize = 4

	// SequenceSize is the size of an encoded sequence number in bytes.
	SequenceSize = 4

	// AddressSize is the size of a normalized cross-chain address in bytes.
	AddressSize = 32

	// PrefixSize is the size of the fixed-width part of an encoded message:
	// origin | sender | sequence | destination | recipient.
	PrefixSize = DomainSize + AddressSize + SequenceSize + DomainSize + AddressSize

	// MaxBodyBytes is the maximum size of a message body accepted for
	// dispatch.
	MaxBodyBytes = 2 * 1024
)

const (
	originOffset      = 0
	senderOffset      = originOffset + DomainSize
	sequenceOffset    = senderOffset + AddressSize
	destinationOffset = sequenceOffset + SequenceSize
	recipientOffset   = destinationOffset + DomainSize
	bodyOffset        = recipientOffset + AddressSize
)

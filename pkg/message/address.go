package message

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AddressToBytes32 normalizes a chain-native address to its canonical 32 byte
// form by left-padding it with zeros. Addresses longer than 32 bytes are
// rejected.
func AddressToBytes32(addr []byte) (common.Hash, error) {
	if len(addr) > AddressSize {
		return common.Hash{}, fmt.Errorf("address must be <= %d bytes, got %d", AddressSize, len(addr))
	}
	return common.BytesToHash(common.LeftPadBytes(addr, AddressSize)), nil
}

// MustAddressToBytes32 is like AddressToBytes32 but panics on invalid input.
func MustAddressToBytes32(addr []byte) common.Hash {
	h, err := AddressToBytes32(addr)
	if err != nil {
		panic(err)
	}
	return h
}

// EVMAddressToBytes32 normalizes a 20 byte EVM address.
func EVMAddressToBytes32(addr common.Address) common.Hash {
	return MustAddressToBytes32(addr.Bytes())
}

// Bytes32ToEVMAddress returns the EVM address held in the low 20 bytes of a
// normalized address.
func Bytes32ToEVMAddress(addr common.Hash) common.Address {
	return common.BytesToAddress(addr.Bytes())
}

// ParseAddress decodes a hex encoded address, with or without a 0x prefix, and
// normalizes it to 32 bytes.
func ParseAddress(s string) (common.Hash, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	if len(s)%2 == 1 {
		s = "0x0" + s[2:]
	}
	bz, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid hex address %q: %w", s, err)
	}
	return AddressToBytes32(bz)
}

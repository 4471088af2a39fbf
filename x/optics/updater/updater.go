// Package updater wraps the validator's signing key and produces signed
// updates for a single home domain.
package updater

import (
	"crypto/ecdsa"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/celestiaorg/optics/x/optics/types"
	ethcmn "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Updater signs root transitions of one home domain. The address is always
// derived from the key, so the two can not drift apart. An Updater is
// immutable once created.
type Updater struct {
	privateKey *ecdsa.PrivateKey
	address    ethcmn.Address
	domain     uint32
}

// NewUpdater returns an updater for domain backed by privateKey.
func NewUpdater(privateKey *ecdsa.PrivateKey, domain uint32) (Updater, error) {
	if privateKey == nil {
		return Updater{}, errorsmod.Wrap(types.ErrInvalidKey, "nil private key")
	}
	return Updater{
		privateKey: privateKey,
		address:    ethcrypto.PubkeyToAddress(privateKey.PublicKey),
		domain:     domain,
	}, nil
}

// NewUpdaterFromHex parses a hex encoded secp256k1 private key.
func NewUpdaterFromHex(rawPrivateKey string, domain uint32) (Updater, error) {
	rawPrivateKey = strings.TrimPrefix(rawPrivateKey, "0x")
	privateKey, err := ethcrypto.HexToECDSA(rawPrivateKey)
	if err != nil {
		return Updater{}, errorsmod.Wrapf(types.ErrInvalidKey, "failed to hex-decode Ethereum ECDSA private key: %s", err)
	}
	return NewUpdater(privateKey, domain)
}

// Address returns the address of the signing key.
func (u Updater) Address() ethcmn.Address {
	return u.address
}

// Domain returns the home domain the updater signs for.
func (u Updater) Domain() uint32 {
	return u.domain
}

// DomainSeparator returns the separator mixed into every signed digest.
func (u Updater) DomainSeparator() ethcmn.Hash {
	return types.DomainSeparator(u.domain)
}

// SignUpdate attests to the transition from oldRoot to newRoot.
func (u Updater) SignUpdate(oldRoot, newRoot ethcmn.Hash) (types.SignedUpdate, error) {
	if u.privateKey == nil {
		return types.SignedUpdate{}, errorsmod.Wrap(types.ErrInvalidKey, "updater has no key")
	}
	digest := types.UpdateDigest(u.domain, oldRoot, newRoot)
	signature, err := types.NewEthereumSignature(digest.Bytes(), u.privateKey)
	if err != nil {
		return types.SignedUpdate{}, err
	}
	return types.SignedUpdate{
		Origin:    u.domain,
		OldRoot:   oldRoot,
		NewRoot:   newRoot,
		Signature: signature,
	}, nil
}

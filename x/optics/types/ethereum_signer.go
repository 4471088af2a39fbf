package types

import (
	"crypto/ecdsa"

	errorsmod "cosmossdk.io/errors"
	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	signaturePrefix = "\x19Ethereum Signed Message:\n32"

	// SignatureLength is the length of an [R || S || V] signature.
	SignatureLength = crypto.SignatureLength

	// legacyRecoveryOffset is added to V by Ethereum's personal_sign.
	legacyRecoveryOffset = 27
)

// NewEthereumSignature signs a 32 byte hash using the Ethereum personal message
// convention. V is returned as 27 or 28.
func NewEthereumSignature(hash []byte, privateKey *ecdsa.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, errorsmod.Wrap(ErrInvalidKey, "nil private key")
	}
	protectedHash := crypto.Keccak256Hash([]byte(signaturePrefix), hash)
	sig, err := crypto.Sign(protectedHash.Bytes(), privateKey)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += legacyRecoveryOffset
	return sig, nil
}

// EthAddressFromSignature recovers the address that signed hash. Both the 0/1
// and the 27/28 recovery id conventions are accepted.
func EthAddressFromSignature(hash []byte, signature []byte) (ethcmn.Address, error) {
	if len(signature) != SignatureLength {
		return ethcmn.Address{}, errorsmod.Wrapf(ErrInvalidSignature, "signature must be %d bytes, got %d", SignatureLength, len(signature))
	}
	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= legacyRecoveryOffset {
		sig[crypto.RecoveryIDOffset] -= legacyRecoveryOffset
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return ethcmn.Address{}, errorsmod.Wrap(ErrInvalidSignature, "invalid recovery id")
	}

	protectedHash := crypto.Keccak256Hash([]byte(signaturePrefix), hash)
	pubKey, err := crypto.SigToPub(protectedHash.Bytes(), sig)
	if err != nil {
		return ethcmn.Address{}, errorsmod.Wrap(ErrInvalidSignature, err.Error())
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// ValidateEthereumSignature returns an error if signature over hash was not
// produced by ethAddress.
func ValidateEthereumSignature(hash []byte, signature []byte, ethAddress ethcmn.Address) error {
	addr, err := EthAddressFromSignature(hash, signature)
	if err != nil {
		return err
	}
	if addr != ethAddress {
		return errorsmod.Wrapf(ErrInvalidSignature, "signer %s is not %s", addr.Hex(), ethAddress.Hex())
	}
	return nil
}

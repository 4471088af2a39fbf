package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignedUpdate is a checkpoint: the validator's attestation that the home
// tree of Origin moved from OldRoot to NewRoot.
type SignedUpdate struct {
	Origin    uint32        `json:"origin"`
	OldRoot   ethcmn.Hash   `json:"oldRoot"`
	NewRoot   ethcmn.Hash   `json:"newRoot"`
	Signature hexutil.Bytes `json:"signature"`
}

// DomainSeparator returns keccak256(uint32 domain || "OPTICS").
func DomainSeparator(domain uint32) ethcmn.Hash {
	return crypto.Keccak256Hash(UInt32Bytes(domain), []byte(ProtocolName))
}

// UpdateSignBytes returns the pre-hash payload of an update:
// domainSeparator | oldRoot | newRoot.
func UpdateSignBytes(domain uint32, oldRoot, newRoot ethcmn.Hash) []byte {
	separator := DomainSeparator(domain)
	bz := make([]byte, 0, 3*ethcmn.HashLength)
	bz = append(bz, separator.Bytes()...)
	bz = append(bz, oldRoot.Bytes()...)
	return append(bz, newRoot.Bytes()...)
}

// UpdateDigest is the hash signed by the validator for an update.
func UpdateDigest(domain uint32, oldRoot, newRoot ethcmn.Hash) ethcmn.Hash {
	return crypto.Keccak256Hash(UpdateSignBytes(domain, oldRoot, newRoot))
}

// Digest returns the hash the update's signature is over.
func (u SignedUpdate) Digest() ethcmn.Hash {
	return UpdateDigest(u.Origin, u.OldRoot, u.NewRoot)
}

// ValidateBasic runs stateless checks over the update.
func (u SignedUpdate) ValidateBasic() error {
	if len(u.Signature) != SignatureLength {
		return errorsmod.Wrapf(ErrInvalidSignature, "signature must be %d bytes, got %d", SignatureLength, len(u.Signature))
	}
	return nil
}

// Signer recovers the address that signed the update for its own origin.
func (u SignedUpdate) Signer() (ethcmn.Address, error) {
	if err := u.ValidateBasic(); err != nil {
		return ethcmn.Address{}, err
	}
	digest := u.Digest()
	return EthAddressFromSignature(digest.Bytes(), u.Signature)
}

// VerifyUpdate checks that update was signed by validator for the home domain
// domain. The digest is always rebuilt with domain's separator so that an
// update signed for another domain never verifies.
func VerifyUpdate(domain uint32, validator ethcmn.Address, update SignedUpdate) error {
	if err := update.ValidateBasic(); err != nil {
		return err
	}
	if update.Origin != domain {
		return errorsmod.Wrapf(ErrInvalidSignature, "update origin %d does not match domain %d", update.Origin, domain)
	}
	digest := UpdateDigest(domain, update.OldRoot, update.NewRoot)
	return ValidateEthereumSignature(digest.Bytes(), update.Signature, validator)
}

// DoubleUpdate is a fraud proof: two updates signed by the same validator
// that move the same old root to different new roots.
type DoubleUpdate struct {
	Left  SignedUpdate `json:"left"`
	Right SignedUpdate `json:"right"`
}

// VerifyDoubleUpdate checks that left and right prove equivocation by the
// validator of domain. It has no side effects, so any observer can run it.
func VerifyDoubleUpdate(domain uint32, validator ethcmn.Address, left, right SignedUpdate) error {
	if left.OldRoot != right.OldRoot {
		return errorsmod.Wrap(ErrInvalidDoubleUpdate, "old roots do not match")
	}
	if left.NewRoot == right.NewRoot {
		return errorsmod.Wrap(ErrInvalidDoubleUpdate, "new roots are equal")
	}
	if err := VerifyUpdate(domain, validator, left); err != nil {
		return errorsmod.Wrap(err, "left update")
	}
	if err := VerifyUpdate(domain, validator, right); err != nil {
		return errorsmod.Wrap(err, "right update")
	}
	return nil
}

// Validate runs VerifyDoubleUpdate over the proof.
func (d DoubleUpdate) Validate(domain uint32, validator ethcmn.Address) error {
	return VerifyDoubleUpdate(domain, validator, d.Left, d.Right)
}

// ErrNoConflict is returned by FindDoubleUpdate when no two updates conflict.
var ErrNoConflict = errors.New("no conflicting updates")

// FindDoubleUpdate returns the first pair of conflicting updates in updates.
// Updates that do not verify for domain and validator are ignored.
func FindDoubleUpdate(domain uint32, validator ethcmn.Address, updates []SignedUpdate) (DoubleUpdate, error) {
	byOldRoot := make(map[ethcmn.Hash]SignedUpdate, len(updates))
	for _, u := range updates {
		if err := VerifyUpdate(domain, validator, u); err != nil {
			continue
		}
		seen, ok := byOldRoot[u.OldRoot]
		if !ok {
			byOldRoot[u.OldRoot] = u
			continue
		}
		if seen.NewRoot != u.NewRoot {
			return DoubleUpdate{Left: seen, Right: u}, nil
		}
	}
	return DoubleUpdate{}, ErrNoConflict
}

package keeper

import (
	"fmt"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/fxamacker/cbor/v2"
)

// writeBatch collects every write of one state transition and commits them
// together, so a failed transition leaves no partial state behind.
func writeBatch(db dbm.DB, fn func(batch dbm.Batch) error) error {
	batch := db.NewBatch()
	defer batch.Close()
	if err := fn(batch); err != nil {
		return err
	}
	return batch.Write()
}

func setCBOR(batch dbm.Batch, key []byte, v any) error {
	bz, err := cbor.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding value for key %x: %w", key, err)
	}
	return batch.Set(key, bz)
}

func getCBOR(db dbm.DB, key []byte, v any) (bool, error) {
	bz, err := db.Get(key)
	if err != nil {
		return false, err
	}
	if bz == nil {
		return false, nil
	}
	if err := cbor.Unmarshal(bz, v); err != nil {
		return false, fmt.Errorf("decoding value for key %x: %w", key, err)
	}
	return true, nil
}

// iteratePrefix calls fn for every key under prefix in ascending order. Keys
// are passed to fn with prefix stripped.
func iteratePrefix(db dbm.DB, prefix []byte, fn func(key, value []byte) error) error {
	iter, err := dbm.NewPrefixDB(db, prefix).Iterator(nil, nil)
	if err != nil {
		return err
	}
	defer iter.Close()
	for ; iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

package wallet

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketAddresses = []byte("addresses")
	bucketByAddress = []byte("by_address")
)

// AddressRecord is one derived address tracked by the store.
type AddressRecord struct {
	Index   uint32 `json:"index"`
	Chain   uint32 `json:"chain"`
	Address string `json:"address"`
	Path    string `json:"path"`
}

// Store caches derived addresses in a bbolt database so wallets do not
// rescan from index zero on every start.
type Store struct {
	db *bbolt.DB
}

// OpenStore opens or creates the bbolt database at dbPath. The parent
// directory is created if it does not exist.
func OpenStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("wallet: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("wallet: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAddresses, bucketByAddress} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("wallet: create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// addressKey encodes chain and index as an 8-byte big-endian key so a
// cursor walks addresses in derivation order.
func addressKey(chain, index uint32) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint32(k, chain)
	binary.BigEndian.PutUint32(k[4:], index)
	return k
}

// PutAddress records a derived address.
func (s *Store) PutAddress(rec *AddressRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: address record", ErrNilParam)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode address record: %w", err)
		}
		if err := tx.Bucket(bucketAddresses).Put(addressKey(rec.Chain, rec.Index), data); err != nil {
			return fmt.Errorf("put address: %w", err)
		}
		if err := tx.Bucket(bucketByAddress).Put([]byte(rec.Address), addressKey(rec.Chain, rec.Index)); err != nil {
			return fmt.Errorf("put address index: %w", err)
		}
		return nil
	})
}

// Addresses returns all tracked addresses in derivation order.
func (s *Store) Addresses() ([]*AddressRecord, error) {
	var recs []*AddressRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAddresses).ForEach(func(k, v []byte) error {
			var rec AddressRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode address record: %w", err)
			}
			recs = append(recs, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("wallet: list addresses: %w", err)
	}
	return recs, nil
}

// Contains reports whether an address is tracked by the store.
func (s *Store) Contains(address string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(bucketByAddress).Get([]byte(address)) != nil
		return nil
	})
	return found, err
}

// NextIndex returns the next unused derivation index for a chain.
func (s *Store) NextIndex(chain uint32) (uint32, error) {
	var next uint32
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketAddresses).Cursor()
		prefix := make([]byte, 4)
		binary.BigEndian.PutUint32(prefix, chain)
		for k, _ := c.Seek(prefix); k != nil && binary.BigEndian.Uint32(k[:4]) == chain; k, _ = c.Next() {
			next = binary.BigEndian.Uint32(k[4:]) + 1
		}
		return nil
	})
	return next, err
}

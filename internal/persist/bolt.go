package persist

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	bbolt "go.etcd.io/bbolt"
)

var bucketFakeWater = []byte("fake_water_blocks")

// BoltTagRepo stores entries in a bbolt bucket keyed by 8-byte big-endian
// sequence numbers, so a cursor walk returns them in saved order.
type BoltTagRepo struct {
	bolt *bbolt.DB
}

// OpenBolt opens or creates a bbolt database file and ensures the bucket exists.
func OpenBolt(path string) (*BoltTagRepo, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFakeWater)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bolt: create bucket: %w", err)
	}
	return &BoltTagRepo{bolt: db}, nil
}

func (r *BoltTagRepo) Name() string { return "bolt:" + r.bolt.Path() }

func (r *BoltTagRepo) Close() error { return r.bolt.Close() }

func (r *BoltTagRepo) LoadEntries(_ context.Context) ([]string, error) {
	out := []string{}
	err := r.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFakeWater).ForEach(func(_, v []byte) error {
			out = append(out, string(v))
			return nil
		})
	})
	return out, err
}

// SaveEntries drops and refills the bucket inside one update transaction.
func (r *BoltTagRepo) SaveEntries(_ context.Context, entries []string) error {
	return r.bolt.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketFakeWater); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket(bucketFakeWater)
		if err != nil {
			return err
		}
		for i, e := range entries {
			if err := b.Put(seqKey(uint64(i)), []byte(e)); err != nil {
				return err
			}
		}
		return nil
	})
}

func seqKey(n uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return buf
}

package repository

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var updatesBucketName = []byte("updates")

// UpdateLog remembers which Telegram update IDs were already handled so a
// redelivered update is not processed twice.
type UpdateLog struct {
	db *bolt.DB
}

// NewUpdateLog prepares the updates bucket in db.
func NewUpdateLog(db *bolt.DB) (*UpdateLog, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(updatesBucketName)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updates bucket: %w", err)
	}

	return &UpdateLog{db: db}, nil
}

// MarkProcessed records updateID as handled now. It returns false if the ID
// was already recorded.
func (l *UpdateLog) MarkProcessed(updateID int) (bool, error) {
	return l.MarkProcessedAt(updateID, time.Now())
}

// MarkProcessedAt records updateID as handled at the given time.
func (l *UpdateLog) MarkProcessedAt(updateID int, at time.Time) (ok bool, err error) {
	key := itob(uint64(updateID))
	err = l.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(updatesBucketName)
		if bucket.Get(key) != nil {
			ok = false
			return nil
		}
		if err := bucket.Put(key, itob(uint64(at.UnixNano()))); err != nil {
			return err
		}
		ok = true
		return nil
	})
	return
}

// Prune drops entries marked before cutoff and returns how many were removed.
// Telegram may restart update IDs after a week without updates, so entries
// are aged out by the time they were seen, not by ID order. Values without a
// timestamp are treated as expired.
func (l *UpdateLog) Prune(cutoff time.Time) (removed int, err error) {
	limit := cutoff.UnixNano()
	err = l.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(updatesBucketName)

		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if len(v) != 8 || int64(binary.BigEndian.Uint64(v)) < limit {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return
}

// Len returns the number of recorded update IDs.
func (l *UpdateLog) Len() (n int, err error) {
	err = l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(updatesBucketName).ForEach(func(_, _ []byte) error {
			n++
			return nil
		})
	})
	return
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

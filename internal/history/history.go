// Package history stores decoded frames in an embedded, append-only
// bbolt database, keyed by receive time so a caller can answer "what did we
// decode around time X" without re-running the decoder. Grounded on the
// serebryakov7-j1708-stats project's use of bbolt as a small embedded
// log of protocol-decoded frames.
package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/womat/bpc/pkg/bpc"
)

var framesBucket = []byte("frames")

// Record is one stored frame, stamped with the host time it was
// received at (not the decoded civil time, which may be invalid on a
// non-OK frame).
type Record struct {
	ReceivedAt time.Time `json:"received_at"`
	Frame      bpc.Frame `json:"frame"`
}

// Store is an embedded append-only frame log with a fixed retention
// window, enforced on every write by dropping records older than
// Retention.
type Store struct {
	db        *bolt.DB
	retention time.Duration
}

// Open opens (creating if necessary) the bbolt database at path.
func Open(path string, retention time.Duration) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(framesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: init bucket: %w", err)
	}

	return &Store{db: db, retention: retention}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records f as received at `at` and evicts anything older than
// the retention window.
func (s *Store) Append(at time.Time, f bpc.Frame) error {
	rec := Record{ReceivedAt: at, Frame: f}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("history: marshal record: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(framesBucket)
		if err := b.Put(keyFor(at), payload); err != nil {
			return err
		}
		return evictBefore(b, at.Add(-s.retention))
	})
}

// Since returns every record received at or after `from`, oldest first.
func (s *Store) Since(from time.Time) ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(framesBucket).Cursor()
		for k, v := c.Seek(keyFor(from)); k != nil; k, v = c.Next() {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("history: unmarshal record: %w", err)
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}

// keyFor produces a key that sorts chronologically under bbolt's
// byte-lexicographic Cursor ordering: a big-endian Unix nanosecond
// timestamp.
func keyFor(t time.Time) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(t.UnixNano()))
	return key
}

func evictBefore(b *bolt.Bucket, cutoff time.Time) error {
	c := b.Cursor()
	cutoffKey := keyFor(cutoff)
	for k, _ := c.First(); k != nil && string(k) < string(cutoffKey); k, _ = c.Next() {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	outcomeBucket = "check_outcomes"
	// Values are an 8-byte big-endian unix expiry followed by the fingerprint.
	expiryPrefixLen = 8
)

// boltStore keeps one row per check id in a single bucket.
type boltStore struct {
	db              *bolt.DB
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	mu          sync.Mutex
	nextCleanup time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(outcomeBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s bucket: %w", outcomeBucket, err)
	}

	s := &boltStore{
		db:              db,
		ttl:             opts.OutcomeTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	s.nextCleanup = s.now().Add(s.cleanupInterval)
	return s, nil
}

func (s *boltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LastOutcome returns the fingerprint recorded for checkID unless it expired.
func (s *boltStore) LastOutcome(checkID string) (string, bool, error) {
	now := s.now()
	if err := s.sweep(now); err != nil {
		return "", false, err
	}

	var (
		fingerprint string
		found       bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(outcomeBucket)).Get([]byte(checkID))
		expiry, fp, ok := decodeOutcome(raw)
		if !ok || !expiry.After(now) {
			return nil
		}
		fingerprint, found = fp, true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("read outcome for %s: %w", checkID, err)
	}
	return fingerprint, found, nil
}

// RecordOutcome replaces the stored fingerprint for checkID and restarts its TTL.
func (s *boltStore) RecordOutcome(checkID, fingerprint string) error {
	now := s.now()
	if err := s.sweep(now); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(outcomeBucket)).Put([]byte(checkID), encodeOutcome(now.Add(s.ttl), fingerprint))
	})
	if err != nil {
		return fmt.Errorf("record outcome for %s: %w", checkID, err)
	}
	return nil
}

// sweep drops expired rows at most once per cleanup interval, so checks
// removed from the watch list do not linger.
func (s *boltStore) sweep(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Before(s.nextCleanup) {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(outcomeBucket))
		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if expiry, _, ok := decodeOutcome(v); !ok || !expiry.After(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep expired outcomes: %w", err)
	}
	s.nextCleanup = now.Add(s.cleanupInterval)
	return nil
}

func encodeOutcome(expiry time.Time, fingerprint string) []byte {
	buf := make([]byte, expiryPrefixLen+len(fingerprint))
	binary.BigEndian.PutUint64(buf, uint64(expiry.Unix()))
	copy(buf[expiryPrefixLen:], fingerprint)
	return buf
}

func decodeOutcome(raw []byte) (time.Time, string, bool) {
	if len(raw) < expiryPrefixLen {
		return time.Time{}, "", false
	}
	unix := int64(binary.BigEndian.Uint64(raw[:expiryPrefixLen]))
	if unix <= 0 {
		return time.Time{}, "", false
	}
	return time.Unix(unix, 0), string(raw[expiryPrefixLen:]), true
}

package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func newTestBolt(t *testing.T, opts Options) (*boltStore, *time.Time) {
	t.Helper()
	store, err := openBolt(filepath.Join(t.TempDir(), "nested", "outcomes.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	store.nextCleanup = clock.Add(opts.CleanupInterval)
	return store, &clock
}

func TestBoltStoreKeepsLatestFingerprintPerCheck(t *testing.T) {
	store, _ := newTestBolt(t, Options{OutcomeTTL: time.Hour, CleanupInterval: time.Hour})

	if _, ok, err := store.LastOutcome("shop"); err != nil || ok {
		t.Fatalf("expected no outcome yet, ok=%v err=%v", ok, err)
	}

	steps := []string{"valid||ACTIVE", "invalid|LICENSE_EXPIRED|", "valid||ACTIVE"}
	for _, fp := range steps {
		if err := store.RecordOutcome("shop", fp); err != nil {
			t.Fatalf("RecordOutcome(%q): %v", fp, err)
		}
		got, ok, err := store.LastOutcome("shop")
		if err != nil || !ok || got != fp {
			t.Fatalf("LastOutcome = %q ok=%v err=%v, want %q", got, ok, err, fp)
		}
	}

	if _, ok, _ := store.LastOutcome("docs"); ok {
		t.Fatalf("outcomes must be tracked per check id")
	}
}

func TestBoltStoreExpiresOutcomes(t *testing.T) {
	store, clock := newTestBolt(t, Options{OutcomeTTL: time.Hour, CleanupInterval: time.Minute})

	if err := store.RecordOutcome("shop", "valid||ACTIVE"); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}

	*clock = clock.Add(59 * time.Minute)
	if _, ok, _ := store.LastOutcome("shop"); !ok {
		t.Fatalf("outcome should still be live before the ttl")
	}

	*clock = clock.Add(2 * time.Minute)
	if _, ok, err := store.LastOutcome("shop"); err != nil || ok {
		t.Fatalf("outcome should expire after the ttl, ok=%v err=%v", ok, err)
	}

	// The sweep triggered by the read above removed the row.
	err := store.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(outcomeBucket)).Get([]byte("shop")); v != nil {
			t.Fatalf("expired row was not swept")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestDecodeOutcomeRejectsShortValues(t *testing.T) {
	if _, _, ok := decodeOutcome([]byte{1, 2, 3}); ok {
		t.Fatalf("short value must not decode")
	}
	expiry := time.Unix(1_900_000_000, 0)
	got, fp, ok := decodeOutcome(encodeOutcome(expiry, "invalid|LICENSE_EXPIRED|"))
	if !ok || !got.Equal(expiry) || fp != "invalid|LICENSE_EXPIRED|" {
		t.Fatalf("decode = %v %q %v", got, fp, ok)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.RecordOutcome("shop", "valid||"); err != nil {
		t.Fatalf("noop RecordOutcome: %v", err)
	}
	if _, ok, _ := store.LastOutcome("shop"); ok {
		t.Fatalf("noop store must never report an outcome")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing bbolt path")
	}
}

package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage keeps the last notified outcome fingerprint of each
// license check, so the monitor publishes only when a check changes state.

// Store maps a check id to the fingerprint of its last published outcome.
// An entry older than the retention window is treated as absent, which
// re-publishes an unchanged outcome once per window.
type Store interface {
	Close() error
	LastOutcome(checkID string) (fingerprint string, ok bool, err error)
	RecordOutcome(checkID, fingerprint string) error
}

// Options controls how long recorded outcomes stay authoritative.
type Options struct {
	OutcomeTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultOutcomeTTL      = 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	if opts.OutcomeTTL <= 0 {
		opts.OutcomeTTL = defaultOutcomeTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// noopStore remembers nothing, so every outcome is published.
type noopStore struct{}

func (noopStore) Close() error { return nil }

func (noopStore) LastOutcome(string) (string, bool, error) { return "", false, nil }

func (noopStore) RecordOutcome(string, string) error { return nil }

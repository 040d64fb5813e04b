package monitor

import (
	"context"

	"github.com/simplelicense/license-checker-go/pkg/licensing"
	"github.com/simplelicense/license-checker-go/pkg/publishers"
)

// LicenseAPI is the subset of *licensing.Client the monitor calls.
type LicenseAPI interface {
	Activate(ctx context.Context, licenseKey, domain string, opts ...licensing.ActivateOption) (licensing.Record, error)
	Validate(ctx context.Context, licenseKey, domain string) (licensing.Record, error)
	GetFeatures(ctx context.Context, licenseKey string) (licensing.Record, error)
}

// EventPublisher publishes check outcomes downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// OutcomeStore remembers the fingerprint last published for each check.
type OutcomeStore interface {
	LastOutcome(checkID string) (string, bool, error)
	RecordOutcome(checkID, fingerprint string) error
}

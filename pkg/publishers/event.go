package publishers

import (
	"time"

	"github.com/simplelicense/license-checker-go/internal/domain"
)

// Outcome values carried by events.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Event represents a license check outcome published downstream.
type Event struct {
	CheckID        string           `json:"check_id"`
	Operation      domain.Operation `json:"operation"`
	Domain         string           `json:"domain"`
	LicenseKeyHint string           `json:"license_key_hint"`
	Outcome        string           `json:"outcome"`
	ErrorKind      string           `json:"error_kind,omitempty"`
	ErrorCode      string           `json:"error_code,omitempty"`
	Message        string           `json:"message,omitempty"`
	LicenseStatus  string           `json:"license_status,omitempty"`
	Features       map[string]any   `json:"features,omitempty"`
	CheckedAt      time.Time        `json:"checked_at"`
}

// NewEvent constructs an Event for the given check. The license key is only
// carried as a masked hint.
func NewEvent(check domain.LicenseCheck, outcome string) Event {
	return Event{
		CheckID:        check.ID,
		Operation:      check.Operation,
		Domain:         check.Domain,
		LicenseKeyHint: check.KeyHint(),
		Outcome:        outcome,
		CheckedAt:      time.Now().UTC(),
	}
}

// attributes are the routing attributes attached to queue/topic messages.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"check_id": e.CheckID,
		"outcome":  e.Outcome,
	}
	if e.ErrorKind != "" {
		attrs["error_kind"] = e.ErrorKind
	}
	return attrs
}

package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/simplelicense/license-checker-go/internal/domain"
	"github.com/simplelicense/license-checker-go/internal/logger"
	"github.com/simplelicense/license-checker-go/pkg/licensing"
	"github.com/simplelicense/license-checker-go/pkg/publishers"
)

// Service runs license checks and publishes their outcomes.
type Service struct {
	api       LicenseAPI
	publisher EventPublisher
	outcomes  OutcomeStore
	log       logger.Logger
}

// NewService wires a monitor with the license API, publishers and outcome store.
// A nil store publishes every outcome.
func NewService(api LicenseAPI, publisher EventPublisher, log logger.Logger, outcomes OutcomeStore) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		api:       api,
		publisher: publisher,
		outcomes:  outcomes,
		log:       log,
	}
}

// Run executes one pass over checks.
func (s *Service) Run(ctx context.Context, checks []domain.LicenseCheck) error {
	if s == nil || s.api == nil {
		return fmt.Errorf("monitor service is not initialized")
	}

	if len(checks) == 0 {
		return fmt.Errorf("no license checks configured")
	}

	errs := s.runAll(ctx, checks)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (s *Service) runAll(ctx context.Context, checks []domain.LicenseCheck) []error {
	errs := make([]error, 0, len(checks))

	for _, check := range checks {
		if ctx.Err() != nil {
			break
		}
		if err := s.runCheck(ctx, check); err != nil {
			if ctx.Err() != nil {
				// Shutdown interrupted an in-flight call.
				break
			}
			errs = append(errs, err)
			s.log.ErrorObj("license check failed", "check_error", map[string]any{
				"check_id": check.ID,
				"error":    err.Error(),
			})
		}
	}

	return errs
}

// runCheck calls the API for one check and publishes when its outcome
// differs from the last one published. A license-level failure is an
// outcome, not an error; only transport, publish and store failures are
// returned.
func (s *Service) runCheck(ctx context.Context, check domain.LicenseCheck) error {
	evt, err := s.Check(ctx, check)
	if err != nil {
		return err
	}

	fp := fingerprint(evt)
	if s.outcomes != nil {
		last, ok, err := s.outcomes.LastOutcome(check.ID)
		if err != nil {
			s.log.WarnObj("outcome lookup failed; notifying anyway", "outcome_store_error", map[string]any{
				"check_id": check.ID,
				"error":    err.Error(),
			})
		} else if ok && last == fp {
			s.log.DebugObj("license check outcome unchanged", "check_result", map[string]any{
				"check_id": check.ID,
				"outcome":  evt.Outcome,
			})
			return nil
		}
	}

	if s.publisher != nil {
		if _, err := s.publisher.Publish(ctx, evt); err != nil {
			return fmt.Errorf("publish outcome for check %s: %w", check.ID, err)
		}
	}

	if s.outcomes != nil {
		if err := s.outcomes.RecordOutcome(check.ID, fp); err != nil {
			return fmt.Errorf("record outcome for check %s: %w", check.ID, err)
		}
	}

	s.log.InfoObj("license check completed", "check_result", map[string]any{
		"check_id":   check.ID,
		"outcome":    evt.Outcome,
		"error_code": evt.ErrorCode,
	})
	return nil
}

// Check performs the API calls for check and converts the result into an
// event. Network failures are returned as errors.
func (s *Service) Check(ctx context.Context, check domain.LicenseCheck) (publishers.Event, error) {
	var (
		rec licensing.Record
		err error
	)
	switch check.Operation {
	case domain.OperationActivate:
		var opts []licensing.ActivateOption
		if check.SiteName != nil {
			opts = append(opts, licensing.WithSiteName(*check.SiteName))
		}
		rec, err = s.api.Activate(ctx, check.LicenseKey, check.Domain, opts...)
	case domain.OperationValidate, "":
		rec, err = s.api.Validate(ctx, check.LicenseKey, check.Domain)
	default:
		return publishers.Event{}, fmt.Errorf("check %s: unsupported operation %q", check.ID, check.Operation)
	}

	if err != nil {
		return failureEvent(check, err)
	}

	evt := publishers.NewEvent(check, publishers.OutcomeValid)
	if status, ok := rec.LicenseStatus(); ok {
		evt.LicenseStatus = string(status)
	}

	if check.FetchFeatures {
		features, err := s.api.GetFeatures(ctx, check.LicenseKey)
		if err != nil {
			return failureEvent(check, err)
		}
		evt.Features = features
	}
	return evt, nil
}

func failureEvent(check domain.LicenseCheck, err error) (publishers.Event, error) {
	var apiErr *licensing.Error
	if !errors.As(err, &apiErr) || apiErr.Kind == licensing.KindNetwork {
		return publishers.Event{}, fmt.Errorf("check %s: %w", check.ID, err)
	}
	evt := publishers.NewEvent(check, publishers.OutcomeInvalid)
	evt.ErrorKind = apiErr.Kind.String()
	evt.ErrorCode = string(apiErr.Code)
	evt.Message = apiErr.Message
	return evt, nil
}

// fingerprint summarises the parts of an outcome whose change is worth a
// notification.
func fingerprint(evt publishers.Event) string {
	return strings.Join([]string{evt.Outcome, evt.ErrorCode, evt.LicenseStatus}, "|")
}

package licensing

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call. The set is closed.
type Kind int

const (
	KindUnknown Kind = iota
	KindMalformedResponse
	KindExpiredLicense
	KindActivationLimitExceeded
	KindLicenseNotFound
	KindValidation
	KindAPI
	KindNetwork
)

var kindNames = map[Kind]string{
	KindUnknown:                 "unknown",
	KindMalformedResponse:       "malformed_response",
	KindExpiredLicense:          "expired_license",
	KindActivationLimitExceeded: "activation_limit_exceeded",
	KindLicenseNotFound:         "license_not_found",
	KindValidation:              "validation",
	KindAPI:                     "api",
	KindNetwork:                 "network",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels for errors.Is checks against a *Error of the matching kind.
var (
	ErrMalformedResponse       = errors.New("licensing: malformed response")
	ErrExpiredLicense          = errors.New("licensing: license expired")
	ErrActivationLimitExceeded = errors.New("licensing: activation limit exceeded")
	ErrLicenseNotFound         = errors.New("licensing: license not found")
	ErrValidation              = errors.New("licensing: validation failed")
	ErrAPI                     = errors.New("licensing: api error")
	ErrNetwork                 = errors.New("licensing: network error")
)

var kindSentinels = map[Kind]error{
	KindMalformedResponse:       ErrMalformedResponse,
	KindExpiredLicense:          ErrExpiredLicense,
	KindActivationLimitExceeded: ErrActivationLimitExceeded,
	KindLicenseNotFound:         ErrLicenseNotFound,
	KindValidation:              ErrValidation,
	KindAPI:                     ErrAPI,
	KindNetwork:                 ErrNetwork,
}

// Error is returned by every failed Client call.
//
// Details holds the raw server error object for KindAPI and the raw body
// (under "body") for KindMalformedResponse; it is nil otherwise.
type Error struct {
	Kind    Kind
	Message string
	Code    ErrorCode
	Status  int
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("licensing %s: %s", e.Kind, e.Message)
	if e.Code != "" {
		msg += " (" + string(e.Code) + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// KindOf returns the Kind of err, or KindUnknown if err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, message string, code ErrorCode, status int) *Error {
	return &Error{Kind: kind, Message: message, Code: code, Status: status}
}

func malformedError(body []byte, status int, cause error) *Error {
	e := newError(KindMalformedResponse, malformedMessage, CodeValidationError, status)
	e.Details = map[string]any{"body": string(body)}
	e.Err = cause
	return e
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "request failed", Err: err}
}

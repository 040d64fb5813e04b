package licensing

import (
	"encoding/json"
	"errors"
)

// Record is the server's data object, passed through uninterpreted.
type Record map[string]any

// LicenseStatus reads "status" at top level or under "license".
func (r Record) LicenseStatus() (LicenseStatus, bool) {
	if s, ok := r["status"].(string); ok && s != "" {
		return LicenseStatus(s), true
	}
	if lic, ok := r["license"].(map[string]any); ok {
		if s, ok := lic["status"].(string); ok && s != "" {
			return LicenseStatus(s), true
		}
	}
	return "", false
}

// envelope is the decoded response body.
type envelope struct {
	success  bool
	data     Record
	errorObj map[string]any
}

func (e envelope) errorString(key string) (string, bool) {
	if e.errorObj == nil {
		return "", false
	}
	s, ok := e.errorObj[key].(string)
	return s, ok
}

// errorCode returns error.code, or fallback when absent.
func (e envelope) errorCode(fallback ErrorCode) ErrorCode {
	if s, ok := e.errorString(keyCode); ok {
		return ErrorCode(s)
	}
	return fallback
}

// errorMessage returns error.message, or fallback when absent.
func (e envelope) errorMessage(fallback string) string {
	if s, ok := e.errorString(keyMessage); ok {
		return s
	}
	return fallback
}

// parseEnvelope decodes body. Anything that is not a JSON object is malformed.
func parseEnvelope(body []byte, status int) (envelope, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return envelope{}, malformedError(body, status, err)
	}
	if raw == nil {
		return envelope{}, malformedError(body, status, errors.New("response body is null"))
	}

	env := envelope{data: Record{}}
	if ok, isBool := raw[keySuccess].(bool); isBool {
		env.success = ok
	}

	switch d := raw[keyData].(type) {
	case nil:
	case map[string]any:
		env.data = Record(d)
	default:
		if env.success {
			return envelope{}, malformedError(body, status, errors.New("data is not an object"))
		}
	}

	if errObj, ok := raw[keyError].(map[string]any); ok {
		env.errorObj = errObj
	}
	return env, nil
}

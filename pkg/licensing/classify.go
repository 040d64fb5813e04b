package licensing

import "net/http"

// classify maps an unsuccessful envelope to a typed error. First match wins.
func classify(env envelope, status int) *Error {
	code := env.errorCode(CodeValidationError)
	message := env.errorMessage(defaultErrorMessage)

	switch {
	case code == CodeLicenseExpired:
		return newError(KindExpiredLicense, message, code, status)
	case code == CodeActivationLimitExceeded:
		return newError(KindActivationLimitExceeded, message, code, status)
	case code == CodeLicenseNotFound:
		return newError(KindLicenseNotFound, message, code, status)
	case status == http.StatusBadRequest:
		return newError(KindValidation, message, code, status)
	}

	e := newError(KindAPI, message, code, status)
	e.Details = env.errorObj
	return e
}

// classifyLookup is classify with a not-found early exit that ignores the status.
func classifyLookup(env envelope, status int) *Error {
	if env.errorCode("") == CodeLicenseNotFound {
		return newError(KindLicenseNotFound, env.errorMessage(defaultNotFoundMessage), CodeLicenseNotFound, status)
	}
	return classify(env, status)
}

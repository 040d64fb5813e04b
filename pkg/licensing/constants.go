package licensing

import "time"

// API endpoints, relative to the versioned base.
const (
	APIBasePath = "/api/v1"

	EndpointActivate = APIBasePath + "/licenses/activate"
	EndpointValidate = APIBasePath + "/licenses/validate"
	EndpointLicense  = APIBasePath + "/licenses/%s"
	EndpointFeatures = APIBasePath + "/licenses/%s/features"
)

// ErrorCode is a machine error code reported by the license server.
type ErrorCode string

const (
	CodeInvalidFormat           ErrorCode = "INVALID_FORMAT"
	CodeInvalidLicenseFormat    ErrorCode = "INVALID_LICENSE_FORMAT"
	CodeLicenseNotFound         ErrorCode = "LICENSE_NOT_FOUND"
	CodeLicenseInactive         ErrorCode = "LICENSE_INACTIVE"
	CodeLicenseExpired          ErrorCode = "LICENSE_EXPIRED"
	CodeActivationLimitExceeded ErrorCode = "ACTIVATION_LIMIT_EXCEEDED"
	CodeNotActivatedOnDomain    ErrorCode = "NOT_ACTIVATED_ON_DOMAIN"
	CodeValidationError         ErrorCode = "VALIDATION_ERROR"
)

// LicenseStatus is the lifecycle state the server reports for a license.
type LicenseStatus string

const (
	StatusActive    LicenseStatus = "ACTIVE"
	StatusInactive  LicenseStatus = "INACTIVE"
	StatusExpired   LicenseStatus = "EXPIRED"
	StatusRevoked   LicenseStatus = "REVOKED"
	StatusSuspended LicenseStatus = "SUSPENDED"
)

// Envelope keys.
const (
	keySuccess = "success"
	keyData    = "data"
	keyError   = "error"
	keyCode    = "code"
	keyMessage = "message"
)

const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"
)

const (
	DefaultTimeout        = 15 * time.Second
	DefaultConnectTimeout = 10 * time.Second
)

const (
	defaultErrorMessage    = "API error"
	defaultNotFoundMessage = "License not found"
	malformedMessage       = "Invalid JSON response from server"
)

package domain

// Domain contains core models shared by the watch list, monitor and publishers.

// Operation is the primary API call a check performs.
type Operation string

const (
	OperationValidate Operation = "validate"
	OperationActivate Operation = "activate"
)

// LicenseCheck is one watched license/domain pair.
type LicenseCheck struct {
	ID            string    `json:"id" yaml:"id" validate:"required"`
	LicenseKey    string    `json:"license_key" yaml:"license_key" validate:"required"`
	Domain        string    `json:"domain" yaml:"domain" validate:"required,hostname_rfc1123"`
	SiteName      *string   `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Operation     Operation `json:"operation" yaml:"operation" validate:"oneof=validate activate"`
	FetchFeatures bool      `json:"fetch_features" yaml:"fetch_features"`
}

// KeyHint returns the last four characters of the license key, masked.
func (c LicenseCheck) KeyHint() string {
	const visible = 4
	r := []rune(c.LicenseKey)
	if len(r) <= visible {
		return "****"
	}
	return "****" + string(r[len(r)-visible:])
}

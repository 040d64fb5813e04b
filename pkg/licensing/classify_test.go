package licensing

import "testing"

func TestClassifyOrder(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		status  int
		kind    Kind
		code    ErrorCode
		message string
	}{
		{"expired beats 400", `{"error":{"code":"LICENSE_EXPIRED","message":"e"}}`, 400, KindExpiredLicense, CodeLicenseExpired, "e"},
		{"limit", `{"error":{"code":"ACTIVATION_LIMIT_EXCEEDED","message":"l"}}`, 409, KindActivationLimitExceeded, CodeActivationLimitExceeded, "l"},
		{"not found beats 400", `{"error":{"code":"LICENSE_NOT_FOUND"}}`, 400, KindLicenseNotFound, CodeLicenseNotFound, "API error"},
		{"other code on 400", `{"error":{"code":"INVALID_FORMAT","message":"bad"}}`, 400, KindValidation, CodeInvalidFormat, "bad"},
		{"no error on 429", `{"success":false}`, 429, KindAPI, CodeValidationError, "API error"},
		{"inactive on 403", `{"error":{"code":"LICENSE_INACTIVE","message":"off"}}`, 403, KindAPI, CodeLicenseInactive, "off"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env, err := parseEnvelope([]byte(tc.body), tc.status)
			if err != nil {
				t.Fatalf("parseEnvelope: %v", err)
			}
			got := classify(env, tc.status)
			if got.Kind != tc.kind || got.Code != tc.code || got.Message != tc.message || got.Status != tc.status {
				t.Fatalf("classify = %#v", got)
			}
			if got.Kind == KindAPI && tc.body != `{"success":false}` && got.Details == nil {
				t.Fatalf("expected error object on generic error")
			}
		})
	}
}

func TestClassifyLookupKeepsServerMessage(t *testing.T) {
	env, err := parseEnvelope([]byte(`{"success":false,"error":{"code":"LICENSE_NOT_FOUND","message":"gone"}}`), 500)
	if err != nil {
		t.Fatalf("parseEnvelope: %v", err)
	}
	got := classifyLookup(env, 500)
	if got.Kind != KindLicenseNotFound || got.Message != "gone" {
		t.Fatalf("classifyLookup = %#v", got)
	}

	env, _ = parseEnvelope([]byte(`{"success":false}`), 400)
	if got := classifyLookup(env, 400); got.Kind != KindValidation {
		t.Fatalf("expected fallthrough to validation, got %s", got.Kind)
	}
}

func TestParseEnvelopeSuccessMustBeTrue(t *testing.T) {
	for _, body := range []string{`{}`, `{"success":"true"}`, `{"success":1}`, `{"success":false,"data":{"a":1}}`} {
		env, err := parseEnvelope([]byte(body), 200)
		if err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		if env.success {
			t.Fatalf("%s: expected unsuccessful envelope", body)
		}
	}

	if _, err := parseEnvelope([]byte(`{"success":true,"data":[1]}`), 200); KindOf(err) != KindMalformedResponse {
		t.Fatalf("expected malformed for non-object data, got %v", err)
	}
}

func TestKindStringAndSentinels(t *testing.T) {
	if KindLicenseNotFound.String() != "license_not_found" {
		t.Fatalf("String = %s", KindLicenseNotFound)
	}
	if Kind(99).String() != "kind(99)" {
		t.Fatalf("String = %s", Kind(99))
	}
	err := newError(KindValidation, "m", CodeValidationError, 400)
	if !err.Is(ErrValidation) || err.Is(ErrAPI) {
		t.Fatalf("Is mismatch for %v", err)
	}
	if KindOf(nil) != KindUnknown {
		t.Fatalf("KindOf(nil) should be unknown")
	}
}

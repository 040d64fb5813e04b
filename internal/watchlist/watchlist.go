package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/simplelicense/license-checker-go/internal/domain"
	"gopkg.in/yaml.v3"
)

// Package watchlist loads the license checks the monitor runs.

type file struct {
	Checks []domain.LicenseCheck `json:"checks" yaml:"checks"`
}

// Registry holds the validated checks loaded from a watch list file.
type Registry struct {
	mu     sync.RWMutex
	checks []domain.LicenseCheck
	idx    map[string]domain.LicenseCheck
}

var validate = validator.New()

// Load reads a watch list from a YAML/JSON file.
func Load(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("watchlist file path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read watchlist file: %w", err)
	}

	parsed, err := parseFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Checks) == 0 {
		return nil, errors.New("watchlist file contains no checks entries")
	}

	reg := &Registry{
		checks: make([]domain.LicenseCheck, len(parsed.Checks)),
		idx:    make(map[string]domain.LicenseCheck, len(parsed.Checks)),
	}
	for i := range parsed.Checks {
		c := sanitizeCheck(parsed.Checks[i])
		if err := validateCheck(c); err != nil {
			return nil, fmt.Errorf("checks[%d]: %w", i, err)
		}
		if _, exists := reg.idx[c.ID]; exists {
			return nil, fmt.Errorf("duplicate check id %q", c.ID)
		}
		reg.checks[i] = c
		reg.idx[c.ID] = c
	}

	return reg, nil
}

type unmarshalFn func([]byte, any) error

func parseFile(data []byte, ext string) (file, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f file
		err := d.fn(data, &f)
		if err == nil {
			return f, nil
		}
		lastErr = fmt.Errorf("decode %s watchlist: %w", d.name, err)
	}

	if lastErr != nil {
		return file{}, lastErr
	}
	return file{}, errors.New("watchlist file format not recognized (expected YAML or JSON)")
}

func sanitizeCheck(c domain.LicenseCheck) domain.LicenseCheck {
	c.ID = strings.TrimSpace(c.ID)
	c.LicenseKey = strings.TrimSpace(c.LicenseKey)
	c.Domain = strings.ToLower(strings.TrimSpace(c.Domain))
	c.Operation = domain.Operation(strings.ToLower(strings.TrimSpace(string(c.Operation))))
	if c.Operation == "" {
		c.Operation = domain.OperationValidate
	}
	if c.SiteName != nil {
		name := strings.TrimSpace(*c.SiteName)
		c.SiteName = &name
	}
	return c
}

func validateCheck(c domain.LicenseCheck) error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if c.ID == "" {
				return fmt.Errorf("%s failed %q validation", strings.ToLower(fe.Field()), fe.Tag())
			}
			return fmt.Errorf("check %q: %s failed %q validation", c.ID, strings.ToLower(fe.Field()), fe.Tag())
		}
		return err
	}
	return nil
}

// All returns a copy of the loaded checks in file order.
func (r *Registry) All() []domain.LicenseCheck {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.LicenseCheck, len(r.checks))
	copy(out, r.checks)
	return out
}

// ByID returns the check with the given id.
func (r *Registry) ByID(id string) (domain.LicenseCheck, bool) {
	if r == nil {
		return domain.LicenseCheck{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.LicenseCheck{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.idx[id]
	return c, ok
}

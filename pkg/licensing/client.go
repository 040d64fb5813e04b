// Package licensing is a client for the license-management HTTP API. It
// activates and validates license keys, reads license and feature data, and
// reports failures as *Error values whose Kind callers can switch on.
//
// A response counts as successful only when its "success" field is the JSON
// boolean true; truthy values such as 1 or "true" are treated as failures.
package licensing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/simplelicense/license-checker-go/pkg/httpclient"
)

// Transport is the HTTP contract the client depends on. Paths are relative
// to the base URL the transport was built with.
type Transport = httpclient.Client

// Client calls the license API. It holds no mutable state and is safe for
// concurrent use when its Transport is.
type Client struct {
	baseURL   string
	transport Transport
	log       Logger
}

type clientOptions struct {
	transport      Transport
	timeout        time.Duration
	connectTimeout time.Duration
	userAgent      string
	log            Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithTransport injects the HTTP transport. Timeouts and user agent are
// ignored when a transport is supplied.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) { o.transport = t }
}

// WithTimeout sets the overall request timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithConnectTimeout sets the dial timeout of the default transport.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.connectTimeout = d }
}

// WithUserAgent sets the User-Agent of the default transport.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) { o.userAgent = ua }
}

// WithLogger enables debug request tracing.
func WithLogger(l Logger) Option {
	return func(o *clientOptions) { o.log = l }
}

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("licensing: base url is empty")
	}

	o := clientOptions{
		timeout:        DefaultTimeout,
		connectTimeout: DefaultConnectTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	transport := o.transport
	if transport == nil {
		transport = httpclient.NewRestyClientWithOptions(httpclient.Options{
			BaseURL:        baseURL,
			Timeout:        o.timeout,
			ConnectTimeout: o.connectTimeout,
			UserAgent:      o.userAgent,
		})
	}
	log := o.log
	if log == nil {
		log = noopLogger{}
	}

	return &Client{baseURL: baseURL, transport: transport, log: log}, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

type activateOptions struct {
	siteName *string
}

// ActivateOption configures an Activate call.
type ActivateOption func(*activateOptions)

// WithSiteName attaches a site name to the activation.
func WithSiteName(name string) ActivateOption {
	return func(o *activateOptions) { o.siteName = &name }
}

// Activate binds licenseKey to domain. Activation data is returned on success.
func (c *Client) Activate(ctx context.Context, licenseKey, domain string, opts ...ActivateOption) (Record, error) {
	var o activateOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	body := map[string]any{
		"license_key": licenseKey,
		"domain":      domain,
	}
	if o.siteName != nil {
		body["site_name"] = *o.siteName
	}

	return c.post(ctx, EndpointActivate, body)
}

// Validate checks licenseKey against domain.
func (c *Client) Validate(ctx context.Context, licenseKey, domain string) (Record, error) {
	body := map[string]any{
		"license_key": licenseKey,
		"domain":      domain,
	}
	return c.post(ctx, EndpointValidate, body)
}

// GetLicense fetches license data. A LICENSE_NOT_FOUND code is reported as
// KindLicenseNotFound whatever the HTTP status.
func (c *Client) GetLicense(ctx context.Context, licenseKey string) (Record, error) {
	return c.get(ctx, licensePath(EndpointLicense, licenseKey), classifyLookup)
}

// GetFeatures fetches the entitlements of a license.
func (c *Client) GetFeatures(ctx context.Context, licenseKey string) (Record, error) {
	return c.get(ctx, licensePath(EndpointFeatures, licenseKey), classify)
}

func licensePath(template, licenseKey string) string {
	return fmt.Sprintf(template, url.PathEscape(licenseKey))
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) (Record, error) {
	c.log.DebugObj("license api request", "license_request", map[string]any{
		"method": "POST",
		"path":   path,
	})
	resp, err := c.transport.Post(ctx, path, body, requestHeaders())
	if err != nil {
		return nil, networkError(err)
	}
	return c.handle(path, resp, classify)
}

func (c *Client) get(ctx context.Context, path string, classifier func(envelope, int) *Error) (Record, error) {
	c.log.DebugObj("license api request", "license_request", map[string]any{
		"method": "GET",
		"path":   path,
	})
	resp, err := c.transport.Get(ctx, path, requestHeaders())
	if err != nil {
		return nil, networkError(err)
	}
	return c.handle(path, resp, classifier)
}

// handle applies the shared response handling after every call.
func (c *Client) handle(path string, resp httpclient.Response, classifier func(envelope, int) *Error) (Record, error) {
	status := resp.StatusCode()
	c.log.DebugObj("license api response", "license_response", map[string]any{
		"path":   path,
		"status": status,
	})

	env, err := parseEnvelope(resp.Body(), status)
	if err != nil {
		return nil, err
	}
	if !env.success {
		return nil, classifier(env, status)
	}
	return env.data, nil
}

func requestHeaders() map[string]string {
	return map[string]string{
		headerContentType: contentTypeJSON,
		headerAccept:      contentTypeJSON,
	}
}

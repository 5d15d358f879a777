// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Default client configuration values
const (
	DefaultConnectTimeout    = 30 * time.Second
	DefaultOperationTimeout  = 60 * time.Second
	DefaultVerifyCertificate = true
	DefaultPrettyPrintLogs   = true
)

// Security limits for JSON logging
const (
	MaxJSONSizeForLogging = 1 * 1024 * 1024 // 1MB
	MaxSensitiveFields    = 1000
)

// Logging message constants
const (
	JSONTooLargeMessage     = "[JSON TOO LARGE FOR LOGGING]"
	JSONTooManySensitiveMsg = "[JSON CONTAINS TOO MANY SENSITIVE FIELDS]"
)

// sensitiveFields are JSON keys whose string values are redacted in logs
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"session-cookie",
	"session_cookie",
	"auth",
}

// defaultRedactionPatterns matches "field": "value" for every sensitive field
var defaultRedactionPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(sensitiveFields))
	for _, field := range sensitiveFields {
		patterns = append(patterns, regexp.MustCompile(`"`+regexp.QuoteMeta(field)+`"\s*:\s*"[^"]*"`))
	}
	return patterns
}()

// Endpoint is a candidate login URL
type Endpoint struct {
	// Scheme is "https" or "http"
	Scheme string

	// Port is the TCP port
	Port int

	// Path is the login path, e.g. "/api/v1/auth/login"
	Path string
}

// DefaultLoginEndpoints are probed in order during login
//
// Current controllers serve the API on 8443; older ones only on 443.
var DefaultLoginEndpoints = []Endpoint{
	{Scheme: "https", Port: 8443, Path: "/api/v1/auth/login"},
	{Scheme: "https", Port: 443, Path: "/auth/login"},
}

// Client represents an authenticated session with a BigDB controller
//
// Client implements Executor. Login is lazy: NewClient only validates the
// configuration and the first request (or an explicit Login) probes the
// login endpoints and discovers the base URL.
type Client struct {
	// RWMutex to synchronize access to session state
	mu sync.RWMutex

	// session state
	httpClient *http.Client
	baseURL    *url.URL
	loggedIn   bool

	// Connection parameters
	Host     string
	username string // unexported for security
	password string // unexported for security

	// TLS options
	VerifyCertificate bool

	// Timeout configuration
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration

	// Login discovery
	loginEndpoints   []Endpoint
	rawBaseURL       string
	customHTTPClient *http.Client

	// Logging configuration
	logger            Logger
	prettyPrintLogs   bool
	redactionPatterns []*regexp.Regexp
}

// NewClient creates a new controller client for host with the specified options
//
// No network I/O happens here; the client logs in on first use. Use Login
// (or Connect) to authenticate eagerly.
//
// Example:
//
//	client, err := bigdb.NewClient("192.168.1.1",
//	    bigdb.Username("admin"),
//	    bigdb.Password("secret"),
//	    bigdb.OperationTimeout(30*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)  // Configuration error
//	}
//	defer client.Close()
//
// Returns a configured Client or an error if configuration validation fails.
func NewClient(host string, opts ...func(*Client)) (*Client, error) {
	client := &Client{
		Host:              host,
		VerifyCertificate: DefaultVerifyCertificate,
		ConnectTimeout:    DefaultConnectTimeout,
		OperationTimeout:  DefaultOperationTimeout,
		loginEndpoints:    DefaultLoginEndpoints,
		logger:            &NoOpLogger{},
		prettyPrintLogs:   DefaultPrettyPrintLogs,
		redactionPatterns: defaultRedactionPatterns,
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	if err := client.createSession(); err != nil {
		return nil, err
	}

	client.logger.Info(context.Background(), "BigDB client created",
		"host", client.Host,
		"lazy_login", client.baseURL == nil)

	return client, nil
}

// Connect creates a client and logs in immediately
//
// Example:
//
//	client, err := bigdb.Connect(ctx, "192.168.1.1",
//	    bigdb.Username("admin"),
//	    bigdb.Password("secret"),
//	    bigdb.VerifyCertificate(false))
//	if err != nil {
//	    log.Fatal(err)  // Configuration, transport or authentication error
//	}
func Connect(ctx context.Context, host string, opts ...func(*Client)) (*Client, error) {
	client, err := NewClient(host, opts...)
	if err != nil {
		return nil, err
	}
	if err := client.ensureSession(ctx); err != nil {
		client.Close() //nolint:errcheck // Close never fails
		return nil, err
	}
	return client, nil
}

// Root returns the node for the top-level "controller" path
func (c *Client) Root() Node {
	return NewNode(RootPath, c)
}

// URL returns the controller base URL, or "" before login
func (c *Client) URL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// HasCredentials returns true if credentials are configured
func (c *Client) HasCredentials() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username != "" || c.password != ""
}

// Close releases idle connections
//
// The client stays usable; the session cookie is kept, so later requests
// reuse the existing login.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}

	c.logger.Info(context.Background(), "BigDB client closed",
		"host", c.Host)

	return nil
}

// Login probes the login endpoints in order and establishes a session
//
// The first endpoint answering 200 becomes the base URL for all later
// requests. A 401 answer stops probing immediately. Transport failures and
// any other status move on to the next endpoint.
//
// Returns *AuthenticationError when no endpoint accepted the credentials.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.login(ctx)
}

// login performs endpoint probing
//
// PRECONDITION: Caller must hold c.mu.Lock() (write lock).
func (c *Client) login(ctx context.Context) error {
	payload, err := ToJSON(Body{}.Set("user", c.username).Set("password", c.password))
	if err != nil {
		return err
	}

	var lastErr error
	for _, ep := range c.loginEndpoints {
		base := &url.URL{
			Scheme: ep.Scheme,
			Host:   net.JoinHostPort(c.Host, fmt.Sprintf("%d", ep.Port)),
		}
		loginURL := base.String() + ep.Path

		c.logger.Debug(ctx, "BigDB login attempt",
			"url", loginURL,
			"body", c.prepareJSONForLogging(string(payload)))

		status, err := c.attemptLogin(ctx, base, loginURL, payload)
		if err != nil {
			c.logger.Warn(ctx, "BigDB login endpoint unreachable",
				"url", loginURL,
				"error", err.Error())
			lastErr = err
			continue
		}

		switch status {
		case http.StatusOK:
			c.baseURL = base
			c.loggedIn = true
			c.logger.Info(ctx, "BigDB login succeeded",
				"host", c.Host,
				"url", base.String())
			return nil
		case http.StatusUnauthorized:
			c.logger.Error(ctx, "BigDB login rejected",
				"host", c.Host,
				"url", loginURL)
			return &AuthenticationError{
				Host:       c.Host,
				StatusCode: status,
				Message:    "invalid credentials",
			}
		default:
			c.logger.Debug(ctx, "BigDB login endpoint declined",
				"url", loginURL,
				"status", status)
		}
	}

	return &AuthenticationError{
		Host:    c.Host,
		Message: "no login endpoint accepted the credentials",
		Err:     lastErr,
	}
}

// attemptLogin posts credentials to one endpoint and returns the status
//
// On 200 the session cookie is re-scoped from /auth to /api, since older
// controllers issue it for the login path only.
func (c *Client) attemptLogin(ctx context.Context, base *url.URL, loginURL string, payload []byte) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.OperationTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", ContentTypeJSON)
	req.Header.Set("Accept", ContentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &TransportError{Op: "login", URL: loginURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}

	body, err := readBody(resp)
	if err != nil {
		return 0, &TransportError{Op: "login", URL: loginURL, Err: err}
	}

	c.rescopeCookies(base, resp.Cookies(), body)
	return resp.StatusCode, nil
}

// rescopeCookies stores the login cookies under the /api path
//
// Cookies scoped to /auth are copied with path /api. When the controller
// returns the session only in the JSON body ("session_cookie"), it is
// stored as a cookie as well.
func (c *Client) rescopeCookies(base *url.URL, cookies []*http.Cookie, body []byte) {
	if c.httpClient.Jar == nil {
		return
	}

	apiURL := *base
	apiURL.Path = "/api/"

	var rescoped []*http.Cookie
	for _, cookie := range cookies {
		if cookie.Path == "/auth" {
			copied := *cookie
			copied.Path = "/api"
			rescoped = append(rescoped, &copied)
		}
	}

	if len(cookies) == 0 && gjson.ValidBytes(body) {
		if token := gjson.GetBytes(body, "session_cookie"); token.Exists() && token.String() != "" {
			rescoped = append(rescoped, &http.Cookie{
				Name:  "session_cookie",
				Value: token.String(),
				Path:  "/api",
			})
		}
	}

	if len(rescoped) > 0 {
		c.httpClient.Jar.SetCookies(&apiURL, rescoped)
	}
}

// ensureSession logs in if no session exists yet (lazy login)
//
// Thread-safe: acquires the write lock only when login is needed.
func (c *Client) ensureSession(ctx context.Context) error {
	c.mu.RLock()
	ready := c.loggedIn
	c.mu.RUnlock()
	if ready {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loggedIn {
		return nil
	}
	return c.login(ctx)
}

// session returns the HTTP client and base URL under the read lock
func (c *Client) session() (*http.Client, url.URL) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.httpClient, *c.baseURL
}

// prepareJSONForLogging redacts sensitive data and formats JSON for logging
//
// Steps:
//  1. Reject JSON larger than MaxJSONSizeForLogging
//  2. Reject JSON with more than MaxSensitiveFields sensitive keys
//  3. Redact sensitive string values
//  4. Pretty-print if prettyPrintLogs is enabled
func (c *Client) prepareJSONForLogging(jsonStr string) string {
	if len(jsonStr) > MaxJSONSizeForLogging {
		return JSONTooLargeMessage
	}

	sensitiveCount := 0
	for _, field := range sensitiveFields {
		sensitiveCount += strings.Count(jsonStr, `"`+field+`"`)
	}
	if sensitiveCount > MaxSensitiveFields {
		c.logger.Warn(context.Background(), "Too many sensitive fields detected",
			"count", sensitiveCount,
			"max", MaxSensitiveFields)
		return JSONTooManySensitiveMsg
	}

	redacted := c.redactSensitiveData(jsonStr)

	if c.prettyPrintLogs && gjson.Valid(redacted) {
		return strings.TrimRight(string(pretty.Pretty([]byte(redacted))), "\n")
	}

	return redacted
}

// redactSensitiveData replaces sensitive values in JSON with [REDACTED]
func (c *Client) redactSensitiveData(json string) string {
	result := json
	for i, pattern := range c.redactionPatterns {
		if i >= len(sensitiveFields) {
			break
		}
		result = pattern.ReplaceAllString(result, `"`+sensitiveFields[i]+`":"[REDACTED]"`)
	}
	return result
}

// validateConfig validates client configuration
//
// Validates:
//   - Host is not empty and carries no scheme or path
//   - Positive timeouts
//   - At least one login endpoint with a valid port, unless BaseURL is set
//   - BaseURL parses as an absolute http(s) URL
//
// Returns an error if validation fails.
func (c *Client) validateConfig() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if strings.Contains(c.Host, "/") {
		return fmt.Errorf("host must be a hostname or IP address, got: %q", c.Host)
	}

	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got: %v", c.ConnectTimeout)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("operation timeout must be positive, got: %v", c.OperationTimeout)
	}

	if c.rawBaseURL != "" {
		u, err := url.Parse(c.rawBaseURL)
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return fmt.Errorf("base URL must be an absolute http(s) URL, got: %q", c.rawBaseURL)
		}
	} else {
		if len(c.loginEndpoints) == 0 {
			return fmt.Errorf("at least one login endpoint is required")
		}
		for i, ep := range c.loginEndpoints {
			if ep.Port < 1 || ep.Port > 65535 {
				return fmt.Errorf("invalid port for login endpoint %d: %d (must be 1-65535)", i, ep.Port)
			}
			if ep.Scheme != "https" && ep.Scheme != "http" {
				return fmt.Errorf("invalid scheme for login endpoint %d: %q", i, ep.Scheme)
			}
		}
	}

	if !c.VerifyCertificate {
		c.logger.Warn(context.Background(), "TLS certificate verification disabled",
			"host", c.Host,
			"security_risk", "Man-in-the-Middle attacks possible",
			"recommendation", "Use only in testing environments")
	}

	if c.rawBaseURL == "" && c.username == "" && c.password == "" {
		c.logger.Warn(context.Background(), "No credentials configured",
			"host", c.Host,
			"message", "controller will reject login")
	}

	return nil
}

// createSession builds the HTTP client and, with BaseURL, the session state
//
// PRECONDITION: Configuration must be validated via validateConfig().
func (c *Client) createSession() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}

	if c.customHTTPClient != nil {
		copied := *c.customHTTPClient
		if copied.Jar == nil {
			copied.Jar = jar
		}
		c.httpClient = &copied
	} else {
		dialer := &net.Dialer{Timeout: c.ConnectTimeout}
		c.httpClient = &http.Client{
			Jar: jar,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: c.ConnectTimeout,
				TLSClientConfig: &tls.Config{
					//nolint:gosec // G402: verification is configurable for lab controllers
					InsecureSkipVerify: !c.VerifyCertificate,
				},
			},
		}
	}

	if c.rawBaseURL != "" {
		u, err := url.Parse(strings.TrimRight(c.rawBaseURL, "/"))
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		c.baseURL = u
		c.loggedIn = true
	}

	return nil
}

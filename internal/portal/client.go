package portal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/skybi/oasis-sync/internal/nexacro"
)

const (
	DefaultBaseURL      = "https://oasis.jbnu.ac.kr"
	DefaultMarkerCookie = "JSESSIONIDSSO"
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36"
	DefaultTimeout      = 10 * time.Second

	LoginPagePath  = "/com/login.do"
	LoginPath      = "/com/com/sstm/logn/findLoginNXOS.action"
	OTPTriggerPath = "/com/com/sstm/logn/otpProcess.action"
	OTPCheckPath   = "/com/com/sstm/logn/otpCheck.action"

	maxBodySize = 32 << 20
)

// Config configures a portal client
type Config struct {
	BaseURL      string
	MarkerCookie string
	UserAgent    string

	// Timeout is applied to every single request
	Timeout time.Duration

	// Transport is the round tripper to send requests with; http.DefaultTransport is used if nil
	Transport http.RoundTripper

	// Selector decides which datasets of a response make up the rows returned by Query
	Selector nexacro.Selector
}

// DefaultConfig returns the configuration matching the production portal
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		MarkerCookie: DefaultMarkerCookie,
		UserAgent:    DefaultUserAgent,
		Timeout:      DefaultTimeout,
		Selector:     nexacro.SelectAll,
	}
}

// Client talks to the portal on behalf of exactly one session at a time.
// Every client owns its own cookie jar; operations on the same client are serialized.
type Client struct {
	config  Config
	baseURL *url.URL
	http    *http.Client
	jar     *recordingJar
	mtx     sync.Mutex
}

// New creates a new portal client
func New(config Config) (*Client, error) {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.MarkerCookie == "" {
		config.MarkerCookie = defaults.MarkerCookie
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Transport == nil {
		config.Transport = http.DefaultTransport
	}
	if config.Selector == nil {
		config.Selector = defaults.Selector
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, err
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, errors.New("portal base URL has to be absolute")
	}

	client := &Client{
		config:  config,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: config.Timeout,
			Transport: &headerTransport{
				next:    config.Transport,
				headers: defaultHeaders(config),
			},
		},
	}
	client.restore(nil)
	return client, nil
}

// Config returns the effective configuration of the client
func (client *Client) Config() Config {
	return client.config
}

// URL resolves a portal path against the configured base URL
func (client *Client) URL(path string) string {
	return client.config.BaseURL + "/" + strings.TrimLeft(path, "/")
}

// Restore replaces the client's cookie jar with one holding exactly the cookies of the given session
func (client *Client) Restore(session *Session) {
	client.mtx.Lock()
	defer client.mtx.Unlock()
	client.restore(session)
}

func (client *Client) restore(session *Session) {
	jar := newRecordingJar()
	if session != nil && len(session.Cookies) > 0 {
		cookies := make([]*http.Cookie, 0, len(session.Cookies))
		for _, cookie := range session.Cookies {
			cookies = append(cookies, &http.Cookie{
				Name:  cookie.Name,
				Value: cookie.Value,
				Path:  "/",
			})
		}
		jar.SetCookies(client.baseURL, cookies)
	}
	client.jar = jar
	client.http.Jar = jar
}

// session returns every cookie the portal set since the last restore, in the order they were first set
func (client *Client) session() *Session {
	return client.jar.session()
}

// post sends a POST request and returns the status code and body of the response
func (client *Client) post(ctx context.Context, endpoint, contentType string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

func defaultHeaders(config Config) http.Header {
	headers := make(http.Header)
	headers.Set("User-Agent", config.UserAgent)
	headers.Set("Referer", config.BaseURL+LoginPagePath)
	headers.Set("Origin", config.BaseURL)
	headers.Set("X-Requested-With", "XMLHttpRequest")
	return headers
}

// headerTransport adds a set of default headers to every request that does not set them on its own
type headerTransport struct {
	next    http.RoundTripper
	headers http.Header
}

func (transport *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for key, values := range transport.headers {
		if req.Header.Get(key) == "" {
			req.Header[key] = values
		}
	}
	return transport.next.RoundTrip(req)
}

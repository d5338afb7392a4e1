package networth

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// contains http utils shared by the remote price sources.

// UserAgent is sent with every request. Public quote endpoints answer 429 to clients
// that do not look like a browser.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// diskCache implements a simple disk cache for HTTP responses.
// Entries are keyed by period, so they expire when the period changes.
type diskCache struct {
	base   http.RoundTripper
	dir    string
	period date.Period
	today  func() date.Date
	logger *zap.Logger
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	if req.Method != http.MethodGet {
		return c.base.RoundTrip(req)
	}
	rangeID := date.NewRange(c.today(), c.period).Identifier()
	key := fmt.Sprintf("%s %s %s", rangeID, req.Method, req.URL.String())
	key = fmt.Sprintf("%s-%x", c.period, sha1.Sum([]byte(key)))

	if cached, err := c.get(key, req); err == nil {
		c.logger.Debug("http cache hit", zap.String("host", req.URL.Host), zap.String("path", req.URL.Path))
		return cached, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.logger.Info("http request", zap.String("method", req.Method), zap.String("host", req.URL.Host), zap.String("path", req.URL.Path), zap.String("status", resp.Status))
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		c.logger.Warn("http cache write failed (ignored)", zap.Error(err))
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache. The response body is read and replaced.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0644)
}

// NewHTTPClient returns a client with the given timeout.
//
// When cacheDir is not empty, successful GET responses are kept in cacheDir until
// the end of the day, so that several reports of the same day share the live quotes.
func NewHTTPClient(timeout time.Duration, cacheDir string, logger *zap.Logger) *http.Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := &http.Client{Timeout: timeout}
	if cacheDir != "" {
		client.Transport = &diskCache{
			base:   http.DefaultTransport,
			dir:    cacheDir,
			period: date.Daily,
			today:  date.Today,
			logger: logger,
		}
	}
	return client
}

// GetJSON performs an HTTP GET request and unmarshals the JSON response into data.
//
// Every failure is reported as an ErrExternalFetch.
func GetJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return errors.Wrapf(ErrExternalFetch, "invalid request %q: %v", addr, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(ErrExternalFetch, "GET %s: %v", req.URL.Host+req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrExternalFetch, "GET %s: %s", req.URL.Host+req.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(ErrExternalFetch, "GET %s: %v", req.URL.Host+req.URL.Path, err)
	}
	if err := json.Unmarshal(body, data); err != nil {
		return errors.Wrapf(ErrExternalFetch, "GET %s: invalid json: %v", req.URL.Host+req.URL.Path, err)
	}
	return nil
}

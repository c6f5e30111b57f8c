package marketcap

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/marketcap/date"
)

// contains http utils to deal with remote services

// DefaultTimeout is the per request timeout of outbound calls.
const DefaultTimeout = 60 * time.Second

// StatusError is returned when a remote service answers with a non 200 status.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string // without query, it may contain an api key
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot http GET %s: %s", e.URL, e.Status)
}

// Is makes a 402 Payment Required match ErrPaywalled.
func (e *StatusError) Is(target error) bool {
	return target == ErrPaywalled && e.StatusCode == http.StatusPaymentRequired
}

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base   http.RoundTripper
	dir    string
	period date.Period // zero is daily
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If a fresh cached response is not found, it proceeds
// with the actual HTTP request and caches the new response if it's successful.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// the key contains the current period identifier, so entries expire at the end of the period.
	rangeID := c.period.Range(date.Today()).Identifier()
	key := fmt.Sprintf("%s %s %s", rangeID, req.Method, req.URL.String())
	for _, h := range []string{"User-Agent", "Authorization"} {
		key += " " + req.Header.Get(h)
	}
	key = fmt.Sprintf("mcap-%s-%x", c.period, sha1.Sum([]byte(key)))

	if req.Method == http.MethodGet {
		cachedResp, err := c.get(key, req)
		if err == nil { // Cache hit
			return cachedResp, nil
		}
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 || req.Method != http.MethodGet {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk cache.
//
// DumpResponse replaces resp.Body with an in-memory copy, so the caller can still read it.
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}

// NewClient returns an http.Client with the given timeout.
//
// When cacheDir is not empty, successful GET responses are kept on disk in
// that folder and reused for the rest of the day.
func NewClient(timeout time.Duration, cacheDir string) *http.Client {
	client := &http.Client{Timeout: timeout}
	if cacheDir != "" {
		client.Transport = &diskCache{base: http.DefaultTransport, dir: cacheDir, period: date.Daily}
	}
	return client
}

// DefaultCacheDir is the folder used by the daily cache.
func DefaultCacheDir() string { return filepath.Join(os.TempDir(), "mcap-cache") }

// Get performs an HTTP GET request and returns the response body.
//
// Any status other than 200 is returned as a *StatusError.
func Get(ctx context.Context, client *http.Client, addr string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		// the url.Error holds the full address, query included.
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redact(ue.URL)
		}
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        resp.Request.URL.Host + resp.Request.URL.Path,
		}
	}
	return io.ReadAll(resp.Body)
}

// GetJSON performs an HTTP GET request and unmarshals the JSON response into data.
func GetJSON(ctx context.Context, client *http.Client, addr string, header http.Header, data any) error {
	body, err := Get(ctx, client, addr, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, data); err != nil {
		return fmt.Errorf("invalid json from %s: %w", redact(addr), err)
	}
	return nil
}

// redact removes the query part of an address, where api keys live.
func redact(addr string) string {
	before, _, _ := strings.Cut(addr, "?")
	return before
}

// IsPaywalled reports whether err means the source refuses to serve the
// symbol for the current subscription.
func IsPaywalled(err error) bool { return errors.Is(err, ErrPaywalled) }

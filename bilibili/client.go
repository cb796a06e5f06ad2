// Package bilibili resolves playlist tracks into candidate media streams using the
// public Bilibili web API.
package bilibili

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bilisonic/bilisonic/constant"
	"github.com/bilisonic/bilisonic/filesystem"
	"github.com/bilisonic/bilisonic/log"
	"github.com/bilisonic/bilisonic/network"
	"github.com/bilisonic/bilisonic/source"
	"github.com/bilisonic/bilisonic/util"
	"github.com/bilisonic/bilisonic/where"
	"github.com/metafates/gache"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the Bilibili API origin.
const DefaultBaseURL = "https://api.bilibili.com"

// viewLifetime bounds how long page lookups are trusted.
const viewLifetime = 24 * time.Hour

// Options configures a Client. Zero values get sensible defaults.
type Options struct {
	BaseURL string
	HTTP    *http.Client
	// Cookie is sent as the Cookie header, e.g. "SESSDATA=...". Logged-in sessions
	// unlock higher audio qualities.
	Cookie string
	// ViewCachePath is where page lookups are cached. Defaults to where.Views().
	ViewCachePath string
	Log           logrus.FieldLogger
}

// Client talks to the Bilibili API. It implements source.Resolver.
type Client struct {
	base   string
	http   *http.Client
	cookie string
	log    logrus.FieldLogger

	// viewsMu guards views, whose Get hands out the cached map itself
	viewsMu sync.Mutex
	views   *gache.Cache[map[string]*View]
}

var _ source.Resolver = (*Client)(nil)

// New creates a client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTP == nil {
		opts.HTTP = network.New()
	}
	if opts.ViewCachePath == "" {
		opts.ViewCachePath = where.Views()
	}
	if opts.Log == nil {
		opts.Log = log.Discard()
	}

	return &Client{
		base:   opts.BaseURL,
		http:   opts.HTTP,
		cookie: opts.Cookie,
		log:    opts.Log,
		views: gache.New[map[string]*View](&gache.Options{
			Path:       opts.ViewCachePath,
			Lifetime:   viewLifetime,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// Headers returns the headers required by the API and the media CDN.
func (c *Client) Headers() map[string]string {
	headers := map[string]string{
		"Referer":    constant.Referer,
		"User-Agent": constant.UserAgent,
	}
	if c.cookie != "" {
		headers["Cookie"] = c.cookie
	}
	return headers
}

// APIError is a non-zero "code" in an API envelope.
type APIError struct {
	Endpoint string
	Code     int
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: bilibili error %d: %s", e.Endpoint, e.Code, e.Message)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// get requests endpoint and decodes the envelope's data into out.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	target := c.base + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	for k, v := range c.Headers() {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debugf("GET %s", target)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", endpoint, resp.Status)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: decode: %w", endpoint, err)
	}

	if env.Code != 0 {
		return &APIError{Endpoint: endpoint, Code: env.Code, Message: env.Message}
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", endpoint, err)
	}

	return nil
}

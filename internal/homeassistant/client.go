package homeassistant

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hass-mcp/hass-mcp/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	entityCacheTTL = 5 * time.Second
	configCacheTTL = 60 * time.Second

	// longRequestTimeout covers the slow endpoints (history, error log).
	longRequestTimeout = 30 * time.Second
)

// Client is the sole path to the Home Assistant REST API. It owns the HTTP
// session, the rate limiter and both caches; construct one per process and
// pass it by reference.
type Client struct {
	cfg     *config.Config
	http    *resty.Client
	limiter *rate.Limiter
	group   singleflight.Group
	log     *logrus.Logger

	entityCache *Cache
	configCache *Cache
}

// NewClient creates a client for the configured Home Assistant instance.
func NewClient(cfg *config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}

	return &Client{
		cfg:         cfg,
		http:        httpClient,
		limiter:     rate.NewLimiter(rate.Limit(20), 10),
		log:         cfg.Logger(),
		entityCache: NewCache(entityCacheTTL),
		configCache: NewCache(configCacheTTL),
	}
}

// Close releases idle connections during orderly shutdown.
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}

// ready fails fast when no token is configured, before any network call.
func (c *Client) ready() error {
	if c.cfg.Token == "" {
		return ErrNotConfigured
	}
	return nil
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classifyTransportError(c.cfg.URL, err)
	}
	return c.http.R().SetContext(ctx), nil
}

func (c *Client) finish(resp *resty.Response, err error) error {
	if err != nil {
		return classifyTransportError(c.cfg.URL, err)
	}
	if resp.IsError() {
		reason := http.StatusText(resp.StatusCode())
		if reason == "" {
			reason = resp.Status()
		}
		return &HTTPError{StatusCode: resp.StatusCode(), Reason: reason}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	c.log.WithField("path", path).Debug("GET")
	resp, err := req.SetResult(out).Get(path)
	return c.finish(resp, err)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	c.log.WithField("path", path).Debug("POST")
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	return c.finish(resp, err)
}

func (c *Client) deleteJSON(ctx context.Context, path string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	c.log.WithField("path", path).Debug("DELETE")
	resp, err := req.Delete(path)
	return c.finish(resp, err)
}

// fetchAllStates retrieves the full entity set. Concurrent misses collapse
// into a single backend round trip.
func (c *Client) fetchAllStates(ctx context.Context) ([]Entity, error) {
	v, err, _ := c.group.Do("states", func() (any, error) {
		var entities []Entity
		if err := c.getJSON(ctx, "/api/states", &entities); err != nil {
			return nil, err
		}
		return entities, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Entity), nil
}

// GetVersion returns the Home Assistant version from /api/config. Cached
// with the long TTL since it only changes on upgrades.
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	key := CacheKey("get_hass_version")
	if v, ok := c.configCache.Get(key); ok {
		return v.(string), nil
	}

	var cfg struct {
		Version string `json:"version"`
	}
	if err := c.getJSON(ctx, "/api/config", &cfg); err != nil {
		return "", err
	}
	version := cfg.Version
	if version == "" {
		version = "unknown"
	}
	c.configCache.Set(key, version)
	return version, nil
}

var integrationPattern = regexp.MustCompile(`\[([a-zA-Z0-9_]+)\]`)

// GetErrorLog fetches the plain-text error log and summarizes it: ERROR and
// WARNING line counts plus a tally of [integration] mentions.
func (c *Client) GetErrorLog(ctx context.Context) (*ErrorLog, error) {
	ctx, cancel := context.WithTimeout(ctx, longRequestTimeout)
	defer cancel()

	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := req.Get("/api/error_log")
	if err := c.finish(resp, err); err != nil {
		return nil, err
	}

	text := resp.String()
	mentions := map[string]int{}
	for _, match := range integrationPattern.FindAllStringSubmatch(text, -1) {
		mentions[strings.ToLower(match[1])]++
	}

	return &ErrorLog{
		LogText:             text,
		ErrorCount:          strings.Count(text, "ERROR"),
		WarningCount:        strings.Count(text, "WARNING"),
		IntegrationMentions: mentions,
	}, nil
}

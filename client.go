package knowu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/st-keller/knowu/aggregator"
	"github.com/st-keller/knowu/logger"
	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/probe"
	"github.com/st-keller/knowu/registry"
	"github.com/st-keller/knowu/signal"
	"github.com/st-keller/knowu/transport"
	"github.com/st-keller/knowu/trigger"
)

//go:generate mockgen -destination=mock_recorder.go -package=knowu github.com/st-keller/knowu Recorder

// ErrNoPlatform is returned by New when the standard probe set or the load
// trigger needs a platform and none was given.
var ErrNoPlatform = errors.New("platform required")

// Config holds client configuration.
type Config struct {
	EndpointURL string // Collection endpoint (e.g., "https://collect.example.com/fp")
	SendOnLoad  bool   // Send one fingerprint when the document has loaded
	CertPath    string // Optional client certificate for mTLS
	KeyPath     string // Optional client key for mTLS
	CAPath      string // Optional CA certificate for mTLS
}

// Validate checks the endpoint and that TLS material is either complete or absent.
func (c Config) Validate() error {
	if c.EndpointURL == "" {
		return fmt.Errorf("EndpointURL required")
	}
	u, err := url.Parse(c.EndpointURL)
	if err != nil {
		return fmt.Errorf("EndpointURL invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("EndpointURL must be an absolute http(s) URL, got %q", c.EndpointURL)
	}

	set := 0
	for _, p := range []string{c.CertPath, c.KeyPath, c.CAPath} {
		if p != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return fmt.Errorf("CertPath, KeyPath and CAPath must be set together")
	}

	return nil
}

// Mode reports the trigger mode the config selects.
func (c Config) Mode() trigger.Mode {
	return trigger.ModeFor(c.SendOnLoad)
}

// Recorder produces fingerprint records. *aggregator.Aggregator implements it.
type Recorder interface {
	Record(ctx context.Context) *signal.Record
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client built from Config.
func WithHTTPClient(h transport.HTTPClient) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithRecorder replaces the aggregator built from the standard probe set.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithLogger sets the client logger. Defaults to a disabled logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRegistry aggregates reg instead of the standard probe set.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *Client) {
		c.registry = reg
	}
}

// Client records fingerprints and delivers them to the configured endpoint.
type Client struct {
	config   Config
	http     transport.HTTPClient
	recorder Recorder
	registry *registry.Registry
	log      logger.Logger
	tracker  *transport.DeliveryTracker

	mu   sync.Mutex
	load *trigger.Load
}

// New creates a client. In SendOnLoad mode it arms the load trigger before
// returning.
func New(config Config, p platform.Platform, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Client{
		config:  config,
		log:     logger.Nop(),
		tracker: transport.NewDeliveryTracker(config.EndpointURL),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		httpClient, err := transport.BuildClient(transport.TLSFiles{
			Cert: config.CertPath,
			Key:  config.KeyPath,
			CA:   config.CAPath,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build HTTP client: %w", err)
		}
		c.http = httpClient
	}

	if c.recorder == nil {
		reg := c.registry
		if reg == nil {
			if p == nil {
				return nil, ErrNoPlatform
			}
			reg = registry.New()
			if err := probe.RegisterStandard(reg, p); err != nil {
				return nil, fmt.Errorf("failed to register standard probes: %w", err)
			}
		}
		c.recorder = aggregator.New(reg, aggregator.WithLogger(c.log))
	}

	if config.Mode() == trigger.OnLoad {
		if p == nil {
			return nil, ErrNoPlatform
		}
		c.mu.Lock()
		c.load = trigger.Arm(p, c.sendOnLoad)
		c.mu.Unlock()
	}

	c.log.Debug().
		Str("endpoint", config.EndpointURL).
		Str("mode", config.Mode().String()).
		Msg("knowu client initialized")

	return c, nil
}

// Record gathers a fingerprint. It never fails.
func (c *Client) Record(ctx context.Context) *signal.Record {
	return c.recorder.Record(ctx)
}

// Send posts rec to the endpoint as JSON, recording a fresh fingerprint first
// when rec is nil. The response is returned as received, whatever its status;
// the caller must close its body. Transport errors are returned unretried.
func (c *Client) Send(ctx context.Context, rec *signal.Record) (*http.Response, error) {
	if rec == nil {
		rec = c.Record(ctx)
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	start := time.Now()
	resp, err := transport.Post(ctx, c.http, c.config.EndpointURL, body)
	latency := time.Since(start)
	if err != nil {
		c.tracker.TrackFailure(latency, err)
		c.log.Debug().
			Err(err).
			Str("endpoint", c.config.EndpointURL).
			Int64("latency_ms", latency.Milliseconds()).
			Msg("fingerprint send failed")
		return nil, err
	}
	c.tracker.TrackResponse(resp.StatusCode, latency)

	c.log.Debug().
		Str("endpoint", c.config.EndpointURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Int64("latency_ms", latency.Milliseconds()).
		Msg("fingerprint sent")

	return resp, nil
}

// Deliveries summarizes the sends of the last hour.
func (c *Client) Deliveries() transport.DeliveryStats {
	return c.tracker.Stats()
}

// Wait blocks until the load-triggered send has completed. It returns
// immediately when no load trigger is armed or the client was closed before the
// load event.
func (c *Client) Wait(ctx context.Context) error {
	c.mu.Lock()
	load := c.load
	c.mu.Unlock()

	if load == nil {
		return nil
	}
	return load.Wait(ctx)
}

// Close removes a load listener that has not fired yet.
func (c *Client) Close() {
	c.mu.Lock()
	load := c.load
	c.mu.Unlock()

	if load != nil {
		load.Disarm()
	}
}

// sendOnLoad is the fire-and-forget load path: failures are logged only.
func (c *Client) sendOnLoad() {
	resp, err := c.Send(context.Background(), nil)
	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", c.config.EndpointURL).Msg("on-load fingerprint send failed")
		return
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().Int("status", resp.StatusCode).Str("endpoint", c.config.EndpointURL).Msg("on-load fingerprint rejected")
	}
}

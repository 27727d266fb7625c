package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"aircon-bridge/config"
	"aircon-bridge/internal/logger"
	"aircon-bridge/internal/model"
)

var (
	// ErrCommunication wraps any failure to talk to the controller.
	ErrCommunication = errors.New("controller communication failed")
	// ErrStateUnknown means a change was acknowledged but the follow-up
	// refresh failed, so the cached snapshot may not reflect it yet.
	ErrStateUnknown = errors.New("change acknowledged but state refresh failed")
)

// Listener is called with every newly published snapshot.
type Listener func(*model.System)

// Coordinator owns the cached snapshot. It polls the controller, submits
// partial updates and republishes the snapshot after each change.
type Coordinator struct {
	cfg        *config.ControllerConfig
	baseURL    string
	client     *http.Client
	retryDelay time.Duration

	snapshot  atomic.Pointer[model.System]
	refreshMu sync.Mutex

	listenersMu sync.RWMutex
	listeners   []Listener
}

// New creates a coordinator for the controller described by cfg.
func New(cfg *config.ControllerConfig) *Coordinator {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			logger.Warn("invalid proxy URL %q: %v. Controller requests will not use a proxy.", cfg.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Coordinator{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		retryDelay: time.Second,
	}
}

// Snapshot returns the latest published snapshot, or nil before the first
// successful refresh.
func (c *Coordinator) Snapshot() *model.System {
	return c.snapshot.Load()
}

// Subscribe registers l to be called after every successful refresh.
func (c *Coordinator) Subscribe(l Listener) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Run polls the controller until ctx is done.
func (c *Coordinator) Run(ctx context.Context) {
	logger.Info("starting controller polling every %s", c.cfg.Interval)

	timer := time.NewTimer(c.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("controller polling shutting down")
			return
		case <-timer.C:
			if err := c.Refresh(ctx); err != nil {
				logger.Warn("scheduled refresh failed, keeping previous snapshot: %v", err)
			}
			timer.Reset(c.cfg.Interval)
		}
	}
}

// Refresh fetches a full snapshot and publishes it. On failure the previous
// snapshot stays in place.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	sys, err := c.fetchSystem(ctx)
	if err != nil {
		return err
	}
	c.snapshot.Store(sys)
	logger.Debug("snapshot refreshed: rid=%s aircons=%d", sys.RID(), len(sys.Aircons))

	c.listenersMu.RLock()
	listeners := append([]Listener(nil), c.listeners...)
	c.listenersMu.RUnlock()
	for _, l := range listeners {
		l(sys)
	}
	return nil
}

// Change submits a partial update and then forces a refresh so callers see
// its effect on return.
func (c *Coordinator) Change(ctx context.Context, change model.Change) error {
	payload, err := change.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode change: %w", err)
	}

	logger.Debug("submitting change %s", payload)
	if err := c.submit(ctx, payload); err != nil {
		return fmt.Errorf("change for %v: %w", change.AirconKeys(), err)
	}

	if err := c.Refresh(ctx); err != nil {
		logger.Warn("change for %v acknowledged but refresh failed: %v", change.AirconKeys(), err)
		return fmt.Errorf("%w: %v", ErrStateUnknown, err)
	}
	return nil
}

func (c *Coordinator) fetchSystem(ctx context.Context) (*model.System, error) {
	var sys *model.System
	err := c.withRetry(ctx, "getSystemData", func() error {
		body, err := c.get(ctx, c.baseURL+pathSystemData)
		if err != nil {
			return err
		}
		var decoded model.System
		if err := json.Unmarshal(body, &decoded); err != nil {
			return fmt.Errorf("failed to unmarshal system data: %w", err)
		}
		if decoded.Aircons == nil {
			return errors.New("system data has no aircons section")
		}
		sys = &decoded
		return nil
	})
	return sys, err
}

func (c *Coordinator) submit(ctx context.Context, payload []byte) error {
	target := c.baseURL + pathSetAircon + "?" + url.Values{"json": {string(payload)}}.Encode()
	return c.withRetry(ctx, "setAircon", func() error {
		body, err := c.get(ctx, target)
		if err != nil {
			return err
		}
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err != nil {
			return fmt.Errorf("failed to unmarshal ack: %w", err)
		}
		if !ack.Ack {
			return fmt.Errorf("controller rejected change: %s", ack.Reason)
		}
		return nil
	})
}

func (c *Coordinator) withRetry(ctx context.Context, op string, fn func() error) error {
	attempts := c.cfg.Retry
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if i == attempts {
			break
		}
		logger.Debug("%s attempt %d/%d failed: %v", op, i, attempts, lastErr)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %v", ErrCommunication, op, ctx.Err())
		case <-time.After(c.retryDelay):
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrCommunication, op, lastErr)
}

func (c *Coordinator) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

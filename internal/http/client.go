// Package http implements core.Transport on top of resty.
package http

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"hitbtc/pkg/core"
)

// ErrClientClosed is returned by Do after Close.
var ErrClientClosed = errors.New("client is closed")

// Client sends core.Request values exactly as built: the URL, including its
// query string, and the body bytes are passed through untouched.
type Client struct {
	client *resty.Client
	logger zerolog.Logger
	mu     sync.RWMutex
	closed bool
}

type Config struct {
	Timeout time.Duration     `validate:"min=1ms"`
	Headers map[string]string `validate:"omitempty"`
	Logger  zerolog.Logger    `validate:"-"`
}

var _ core.Transport = (*Client)(nil)

func NewClient(config *Config) (*Client, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := resty.New()
	client.SetTimeout(config.Timeout)

	for k, v := range config.Headers {
		client.SetHeader(k, v)
	}

	logger := config.Logger

	client.AddRequestMiddleware(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("http request")
		return nil
	})

	client.AddResponseMiddleware(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Int("size", len(resp.Bytes())).
			Msg("http response")
		return nil
	})

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// Do sends req and returns the raw response. Non-2xx responses are not
// errors at this layer; only failures to obtain a response are, and those
// are wrapped in *core.TransportError.
func (c *Client) Do(ctx context.Context, req *core.Request) (*core.Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, &core.TransportError{Op: req.Op, Err: ErrClientClosed}
	}

	r := c.client.R().
		SetContext(ctx).
		SetHeaders(req.Headers)
	if req.HasBody() {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("op", req.Op.String()).
			Str("method", req.Method).
			Str("path", req.PathWithQuery).
			Msg("transport failed")
		return nil, &core.TransportError{Op: req.Op, Err: err}
	}

	return &core.Response{
		StatusCode: resp.StatusCode(),
		Headers:    resp.Header(),
		Body:       resp.Bytes(),
	}, nil
}

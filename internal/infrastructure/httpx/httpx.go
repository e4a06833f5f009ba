package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("status %d", e.Code) }

// Client sends requests and hands successful bodies to a decoder.
// Retries counts additional attempts after the first one; 5xx and transport
// errors are retried, everything else is returned as is.
type Client struct {
	HTTP    *http.Client
	Retries uint64
}

// NewHTTPClient returns a client with the given overall timeout. Zero keeps the
// net/http default of no timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (c *Client) policy(ctx context.Context) backoff.BackOff {
	if c.Retries == 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 1 * time.Second
	exp.MaxElapsedTime = 5 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(exp, c.Retries), ctx)
}

func (c *Client) Do(ctx context.Context, req *http.Request, decode func(io.Reader) error) error {
	if c.HTTP == nil {
		c.HTTP = http.DefaultClient
	}

	op := func() error {
		resp, err := c.HTTP.Do(req.WithContext(ctx))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return &StatusError{Code: resp.StatusCode}
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return backoff.Permanent(&StatusError{Code: resp.StatusCode})
		}
		if err := decode(resp.Body); err != nil {
			return backoff.Permanent(fmt.Errorf("decode: %w", err))
		}
		return nil
	}
	return backoff.Retry(op, c.policy(ctx))
}

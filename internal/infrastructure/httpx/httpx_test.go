package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func httpClientRT(rt http.RoundTripper) *http.Client {
	return &http.Client{Transport: rt, Timeout: 2 * time.Second}
}

func respond(r *http.Request, code int, body string) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(body)), Header: make(http.Header), Request: r}
}

type okResp struct {
	OK bool `json:"ok"`
}

func decodeInto(out any) func(io.Reader) error {
	return func(r io.Reader) error { return json.NewDecoder(r).Decode(out) }
}

func TestDo_SingleAttemptByDefault(t *testing.T) {
	var calls int
	c := &Client{HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return respond(r, 500, "err"), nil
	}))}
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)

	var out okResp
	err := c.Do(context.Background(), req, decodeInto(&out))
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 500, se.Code)
	require.Equal(t, 1, calls)
}

func TestDo_Retry500Then200(t *testing.T) {
	var calls int
	c := &Client{Retries: 2, HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return respond(r, 500, "err"), nil
		}
		return respond(r, 200, `{"ok": true}`), nil
	}))}
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var out okResp
	require.NoError(t, c.Do(ctx, req, decodeInto(&out)))
	require.True(t, out.OK)
	require.Equal(t, 2, calls)
}

type tempTimeoutErr struct{}

func (tempTimeoutErr) Error() string   { return "timeout" }
func (tempTimeoutErr) Timeout() bool   { return true }
func (tempTimeoutErr) Temporary() bool { return true }

func TestDo_RetryNetTimeoutThen200(t *testing.T) {
	var calls int
	c := &Client{Retries: 1, HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			var ne net.Error = tempTimeoutErr{}
			return nil, ne
		}
		return respond(r, 200, `{"ok": true}`), nil
	}))}
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)

	var out okResp
	require.NoError(t, c.Do(context.Background(), req, decodeInto(&out)))
	require.Equal(t, 2, calls)
}

func TestDo_NoRetryOn400(t *testing.T) {
	var calls int
	c := &Client{Retries: 3, HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return respond(r, 400, "bad"), nil
	}))}
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)

	var out any
	require.Error(t, c.Do(context.Background(), req, decodeInto(&out)))
	require.Equal(t, 1, calls)
}

func TestDo_DecodeErrorIsPermanent(t *testing.T) {
	var calls int
	sentinel := errors.New("bad payload")
	c := &Client{Retries: 3, HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewBufferString("{x")), Header: make(http.Header), Request: r}, nil
	}))}
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)

	err := c.Do(context.Background(), req, func(io.Reader) error { return sentinel })
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, 1, calls)
}

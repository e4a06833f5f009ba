package provider_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"goldprice/internal/domain"
	"goldprice/internal/infrastructure/httpx"
	"goldprice/internal/infrastructure/provider"

	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func httpClient(resBody string, code int) *httpx.Client {
	return &httpx.Client{HTTP: &http.Client{
		Timeout: 2 * time.Second,
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: code,
				Body:       io.NopCloser(strings.NewReader(resBody)),
				Header:     make(http.Header),
				Request:    r,
			}, nil
		}),
	}}
}

const sampleOK = `{
  "chinhanh": "00",
  "data": [
    {"loai_vang": "SJC", "mua": 7400, "ban": 7500}
  ]
}`

func TestFetch_SendsZoneAndParsesData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ecom-frontend/v1/get-gold-price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("zone") != "00" {
			t.Errorf("expected zone 00, got %s", r.URL.Query().Get("zone"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleOK))
	}))
	defer server.Close()

	p := &provider.PNJProvider{
		BaseURL: server.URL + "/ecom-frontend/v1/get-gold-price",
		Zone:    "00",
		Client:  &httpx.Client{HTTP: server.Client()},
	}
	batch, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Equal(t, []string{"loai_vang", "mua", "ban"}, batch[0].Keys())
	v, _ := batch[0].Get("mua")
	require.Equal(t, domain.Number("7400"), v)
}

func TestFetch_PreservesKeyOrder(t *testing.T) {
	body := `{"data":[{"z":"1","a":2.50,"m":true,"n":null},{"a":1}]}`
	p := &provider.PNJProvider{BaseURL: "https://edge-api.pnj.io/x", Zone: "00", Client: httpClient(body, 200)}

	batch, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 2)
	require.Equal(t, []string{"z", "a", "m", "n"}, batch[0].Keys())
	v, _ := batch[0].Get("a")
	require.Equal(t, "2.50", v.String())
	v, _ = batch[0].Get("n")
	require.Equal(t, domain.KindNull, v.Kind)
}

func TestFetch_EmptyData(t *testing.T) {
	p := &provider.PNJProvider{BaseURL: "https://edge-api.pnj.io/x", Zone: "00", Client: httpClient(`{"data": []}`, 200)}

	batch, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, batch)
	require.Empty(t, batch)
}

func TestFetch_Malformed(t *testing.T) {
	cases := map[string]string{
		"missing data": `{"items": []}`,
		"null data":    `{"data": null}`,
		"not array":    `{"data": {"a": 1}}`,
		"not object":   `{"data": [1, 2]}`,
		"nested":       `{"data": [{"a": {"b": 1}}]}`,
		"invalid json": `{"data": [`,
		"top array":    `[{"a": 1}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := &provider.PNJProvider{BaseURL: "https://edge-api.pnj.io/x", Zone: "00", Client: httpClient(body, 200)}
			_, err := p.Fetch(context.Background())
			require.Error(t, err)
			require.ErrorIs(t, err, domain.ErrMalformedResponse)

			var me *domain.MalformedResponseError
			require.True(t, errors.As(err, &me))
		})
	}
}

func TestFetch_HTTPError(t *testing.T) {
	p := &provider.PNJProvider{BaseURL: "https://edge-api.pnj.io/x", Zone: "00", Client: httpClient("oops", 503)}

	_, err := p.Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrFetch)
	require.NotErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestFetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p := &provider.PNJProvider{BaseURL: url, Zone: "00"}
	_, err := p.Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrFetch)
}

func TestFetch_MissingConfiguration(t *testing.T) {
	_, err := (&provider.PNJProvider{}).Fetch(context.Background())
	require.Error(t, err)
}

func TestFake(t *testing.T) {
	batch, err := provider.NewFake(provider.SampleBatch()).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 3)

	_, err = provider.NewFailingFake(domain.ErrFetch).Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrFetch)
}

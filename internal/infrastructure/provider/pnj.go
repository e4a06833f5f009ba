package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"goldprice/internal/application"
	"goldprice/internal/domain"
	"goldprice/internal/infrastructure/httpx"
)

// PNJProvider reads the gold price board of one PNJ zone.
type PNJProvider struct {
	BaseURL string
	Zone    string
	Client  *httpx.Client
}

var _ application.PriceSource = (*PNJProvider)(nil)

func (p *PNJProvider) Fetch(ctx context.Context) (domain.Batch, error) {
	if p.BaseURL == "" {
		return nil, errors.New("pnj: missing configuration")
	}

	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("pnj: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("zone", p.Zone)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("pnj: create request: %w", err)
	}

	client := p.Client
	if client == nil {
		client = &httpx.Client{}
	}
	var batch domain.Batch
	err = client.Do(ctx, req, func(r io.Reader) error {
		b, err := DecodeBatch(r)
		if err != nil {
			return err
		}
		batch = b
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrMalformedResponse) {
			return nil, fmt.Errorf("pnj: %w", err)
		}
		return nil, fmt.Errorf("pnj: %w: %w", domain.ErrFetch, err)
	}
	return batch, nil
}

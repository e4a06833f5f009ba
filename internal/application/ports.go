package application

import (
	"context"
	"time"

	"goldprice/internal/domain"
)

// PriceSource fetches one batch of price records from upstream.
type PriceSource interface {
	Fetch(ctx context.Context) (domain.Batch, error)
}

// PriceStore appends a batch under date and reports the number of rows written.
type PriceStore interface {
	Append(ctx context.Context, date string, batch domain.Batch) (int, error)
	Path() string
}

type PriceReader interface {
	ReadAll(ctx context.Context) (domain.Table, error)
}

// PriceMirror receives every batch that was appended to the primary store.
type PriceMirror interface {
	Mirror(ctx context.Context, date string, batch domain.Batch) error
}

// Locker guards a shared resource across processes. The returned func releases it.
type Locker interface {
	Lock(ctx context.Context) (func() error, error)
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

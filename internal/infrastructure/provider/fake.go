package provider

import (
	"context"

	"goldprice/internal/application"
	"goldprice/internal/domain"
)

// Ensure Fake implements application.PriceSource.
var _ application.PriceSource = (*Fake)(nil)

type Fake struct {
	batch domain.Batch
	err   error
}

func NewFake(batch domain.Batch) *Fake { return &Fake{batch: batch} }

// NewFailingFake returns a source whose Fetch always fails with err.
func NewFailingFake(err error) *Fake { return &Fake{err: err} }

// SampleBatch is a small board shaped like the PNJ response, used for local runs.
func SampleBatch() domain.Batch {
	row := func(code, name, buy, sell string) domain.Record {
		return domain.NewRecord(
			domain.Field{Key: "masp", Value: domain.String(code)},
			domain.Field{Key: "tensp", Value: domain.String(name)},
			domain.Field{Key: "giamua", Value: domain.Number(buy)},
			domain.Field{Key: "giaban", Value: domain.Number(sell)},
		)
	}
	return domain.Batch{
		row("SJC", "Vang mieng SJC 999.9", "84000", "86000"),
		row("N24K", "Nhan tron PNJ 999.9", "83500", "84800"),
		row("PNJ", "Vang PNJ 999.9", "83400", "84700"),
	}
}

func (f *Fake) Fetch(context.Context) (domain.Batch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.batch, nil
}

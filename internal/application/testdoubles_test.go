package application

import (
	"context"
	"errors"
	"time"

	"goldprice/internal/domain"
)

var (
	ErrDisk = errors.New("disk full")
)

type fakeSource struct {
	batch domain.Batch
	err   error
	calls int
}

func (f *fakeSource) Fetch(context.Context) (domain.Batch, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.batch, nil
}

type appendCall struct {
	date  string
	batch domain.Batch
}

type fakeStore struct {
	calls []appendCall
	err   error
}

func (f *fakeStore) Append(_ context.Context, date string, b domain.Batch) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.calls = append(f.calls, appendCall{date: date, batch: b})
	return len(b), nil
}

func (f *fakeStore) Path() string { return "mem://gold_price.csv" }

type fakeMirror struct {
	dates []string
	err   error
}

func (f *fakeMirror) Mirror(_ context.Context, date string, _ domain.Batch) error {
	if f.err != nil {
		return f.err
	}
	f.dates = append(f.dates, date)
	return nil
}

type fakeReader struct {
	table domain.Table
	err   error
}

func (f *fakeReader) ReadAll(context.Context) (domain.Table, error) {
	return f.table, f.err
}

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

func sjcBatch() domain.Batch {
	return domain.Batch{
		domain.NewRecord(
			domain.Field{Key: "loai_vang", Value: domain.String("SJC")},
			domain.Field{Key: "mua", Value: domain.Number("7400")},
			domain.Field{Key: "ban", Value: domain.Number("7500")},
		),
	}
}

package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goldprice/internal/domain"

	"go.uber.org/zap"
)

type GoldPriceService struct {
	source   PriceSource
	store    PriceStore
	reader   PriceReader
	mirror   PriceMirror
	clock    Clock
	loc      *time.Location
	keyField string
	log      *zap.Logger
}

type Option func(*GoldPriceService)

func WithClock(c Clock) Option             { return func(s *GoldPriceService) { s.clock = c } }
func WithLocation(l *time.Location) Option { return func(s *GoldPriceService) { s.loc = l } }
func WithReader(r PriceReader) Option      { return func(s *GoldPriceService) { s.reader = r } }
func WithMirror(m PriceMirror) Option      { return func(s *GoldPriceService) { s.mirror = m } }
func WithKeyField(k string) Option         { return func(s *GoldPriceService) { s.keyField = k } }
func WithLogger(l *zap.Logger) Option      { return func(s *GoldPriceService) { s.log = l } }

func NewGoldPriceService(source PriceSource, store PriceStore, opts ...Option) *GoldPriceService {
	s := &GoldPriceService{
		source: source,
		store:  store,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.loc == nil {
		s.loc = domain.FixedZone(7)
	}
	if s.keyField == "" {
		s.keyField = "masp"
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// CrawlResult describes the outcome of one Crawl. Skipped is set when nothing
// was written because upstream gave no usable data.
type CrawlResult struct {
	Date    string
	Rows    int
	Skipped bool
	Reason  string
}

// Crawl fetches one batch and appends it to the store under today's date.
// Fetch failures and empty batches are logged and absorbed; storage failures
// are returned.
func (s *GoldPriceService) Crawl(ctx context.Context) (CrawlResult, error) {
	batch, err := s.source.Fetch(ctx)
	if err != nil {
		s.log.Warn("fetch_failed", zap.Error(err), zap.Bool("malformed", errors.Is(err, domain.ErrMalformedResponse)))
		return CrawlResult{Skipped: true, Reason: err.Error()}, nil
	}
	if len(batch) == 0 {
		s.log.Warn("no_data", zap.String("reason", domain.ErrEmptyBatch.Error()))
		return CrawlResult{Skipped: true, Reason: domain.ErrEmptyBatch.Error()}, nil
	}

	date := domain.FormatDate(s.clock.Now(), s.loc)
	n, err := s.store.Append(ctx, date, batch)
	if errors.Is(err, domain.ErrEmptyBatch) {
		s.log.Warn("no_data", zap.Error(err))
		return CrawlResult{Date: date, Skipped: true, Reason: err.Error()}, nil
	}
	if err != nil {
		return CrawlResult{Date: date}, fmt.Errorf("append batch: %w", err)
	}

	s.log.Info("rows_written", zap.Int("rows", n), zap.String("path", s.store.Path()), zap.String("date", date))

	if s.mirror != nil {
		if err := s.mirror.Mirror(ctx, date, batch); err != nil {
			return CrawlResult{Date: date, Rows: n}, fmt.Errorf("mirror batch: %w", err)
		}
	}
	return CrawlResult{Date: date, Rows: n}, nil
}

func (s *GoldPriceService) snapshots(ctx context.Context) ([]domain.Snapshot, error) {
	if s.reader == nil {
		return nil, fmt.Errorf("price reader: %w", ErrNotConfigured)
	}
	table, err := s.reader.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return table.Snapshots(), nil
}

// Dates lists stored dates, newest first.
func (s *GoldPriceService) Dates(ctx context.Context) ([]string, error) {
	snaps, err := s.snapshots(ctx)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(snaps))
	for _, sn := range snaps {
		dates = append(dates, sn.Date)
	}
	return dates, nil
}

func (s *GoldPriceService) Snapshot(ctx context.Context, date string) (domain.Snapshot, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	snaps, err := s.snapshots(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	for _, sn := range snaps {
		if sn.Date == date {
			return sn, nil
		}
	}
	return domain.Snapshot{}, ErrNotFound
}

// Latest is the newest snapshot together with its predecessor and the
// day-over-day changes between them.
type Latest struct {
	Current  domain.Snapshot
	Previous *domain.Snapshot
	Changes  []domain.Change
}

func (s *GoldPriceService) Latest(ctx context.Context) (Latest, error) {
	snaps, err := s.snapshots(ctx)
	if err != nil {
		return Latest{}, err
	}
	if len(snaps) == 0 {
		return Latest{}, ErrNotFound
	}
	out := Latest{Current: snaps[0]}
	if len(snaps) > 1 {
		prev := snaps[1]
		out.Previous = &prev
		out.Changes = domain.Changes(snaps[0], prev, s.keyField)
	}
	return out, nil
}

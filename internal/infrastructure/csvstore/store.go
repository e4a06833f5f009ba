// Package csvstore persists price batches to an append-only CSV file.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"goldprice/internal/application"
	"goldprice/internal/domain"
	"goldprice/internal/infrastructure/lock"

	"go.uber.org/zap"
)

// DriftPolicy decides how rows are laid out when the file header and the
// batch fields disagree.
type DriftPolicy string

const (
	// DriftAlign writes rows in the existing header's column order.
	DriftAlign DriftPolicy = "align"
	// DriftFail refuses to append and leaves the file untouched.
	DriftFail DriftPolicy = "fail"
	// DriftIgnore writes rows in the batch's own field order.
	DriftIgnore DriftPolicy = "ignore"
)

func ParseDriftPolicy(s string) (DriftPolicy, error) {
	switch p := DriftPolicy(strings.ToLower(s)); p {
	case DriftAlign, DriftFail, DriftIgnore:
		return p, nil
	case "":
		return DriftAlign, nil
	default:
		return "", fmt.Errorf("unknown schema drift policy %q", s)
	}
}

type Store struct {
	path   string
	policy DriftPolicy
	locker application.Locker
	log    *zap.Logger
}

var (
	_ application.PriceStore  = (*Store)(nil)
	_ application.PriceReader = (*Store)(nil)
)

type Option func(*Store)

func WithDriftPolicy(p DriftPolicy) Option   { return func(s *Store) { s.policy = p } }
func WithLocker(l application.Locker) Option { return func(s *Store) { s.locker = l } }
func WithLogger(l *zap.Logger) Option        { return func(s *Store) { s.log = l } }

func New(path string, opts ...Option) *Store {
	s := &Store{path: path, policy: DriftAlign}
	for _, opt := range opts {
		opt(s)
	}
	if s.locker == nil {
		s.locker = lock.Noop{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

func (s *Store) Path() string { return s.path }

// Append writes one row per record, each prefixed with date. The header is
// written only when the file is absent or empty.
func (s *Store) Append(ctx context.Context, date string, batch domain.Batch) (n int, err error) {
	header, err := batch.Header()
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return 0, fmt.Errorf("create data dir: %w", err)
	}

	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if uerr := unlock(); uerr != nil {
			s.log.Warn("unlock_failed", zap.String("path", s.path), zap.Error(uerr))
		}
	}()

	needHeader, err := isEmpty(s.path)
	if err != nil {
		return 0, err
	}

	columns := header
	if !needHeader {
		existing, err := readHeader(s.path)
		if err != nil {
			return 0, err
		}
		switch {
		case len(existing) == 0:
			// Non-empty file without a header line, e.g. only blank lines.
			s.log.Warn("header_missing", zap.String("path", s.path))
			needHeader = true
		case s.policy == DriftIgnore:
		default:
			if missing, extra := diffColumns(existing, header); len(missing) > 0 || len(extra) > 0 {
				if s.policy == DriftFail {
					return 0, &domain.SchemaDriftError{Missing: missing, Extra: extra}
				}
				s.log.Warn("schema_drift",
					zap.String("path", s.path),
					zap.Strings("missing", missing),
					zap.Strings("dropped", extra),
				)
			}
			columns = existing
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", s.path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(header); err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
	}
	for i, rec := range batch {
		if err := w.Write(rec.Row(date, columns)); err != nil {
			return 0, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush %s: %w", s.path, err)
	}
	return len(batch), nil
}

// ReadAll returns the header and rows of the file. A missing file reads as empty.
func (s *Store) ReadAll(_ context.Context) (domain.Table, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Table{}, nil
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return domain.Table{}, nil
	}
	return domain.Table{Header: trimBOM(records[0]), Rows: records[1:]}, nil
}

func isEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.Size() == 0, nil
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}
	header = trimBOM(header)
	for _, c := range header {
		if strings.TrimSpace(c) != "" {
			return header, nil
		}
	}
	return nil, nil
}

func trimBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header
}

// diffColumns reports columns of existing absent from incoming, and the reverse.
func diffColumns(existing, incoming []string) (missing, extra []string) {
	have := make(map[string]bool, len(incoming))
	for _, c := range incoming {
		have[c] = true
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c] = true
		if !have[c] {
			missing = append(missing, c)
		}
	}
	for _, c := range incoming {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	return missing, extra
}

package lock

import (
	"context"
	"fmt"
	"time"

	"goldprice/internal/application"

	"github.com/gofrs/flock"
)

const retryEvery = 50 * time.Millisecond

var (
	_ application.Locker = (*File)(nil)
	_ application.Locker = Noop{}
)

// File is an advisory lock on a sidecar file, exclusive across processes on one host.
type File struct {
	path string
}

func NewFile(path string) *File { return &File{path: path} }

func (l *File) Lock(ctx context.Context) (func() error, error) {
	fl := flock.New(l.path)
	ok, err := fl.TryLockContext(ctx, retryEvery)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", l.path, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: not acquired", l.path)
	}
	return fl.Unlock, nil
}

// Noop always succeeds; useful for tests/dev when no guard is wanted.
type Noop struct{}

func (Noop) Lock(context.Context) (func() error, error) { return func() error { return nil }, nil }

package todo

import (
	"context"
	"time"
)

// Backend is the storage capability set behind the Manager. Lookups of a
// missing id return an error matching ErrNotFound.
type Backend interface {
	Create(ctx context.Context, input CreateInput) (Todo, error)
	GetByID(ctx context.Context, id int64) (Todo, error)
	ListAll(ctx context.Context) ([]Todo, error)
	Update(ctx context.Context, id int64, input UpdateInput) (Todo, error)
	Delete(ctx context.Context, id int64) error
}

type backendOptions struct {
	now func() time.Time
}

type Option func(*backendOptions)

// WithClock overrides the timestamp source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(o *backendOptions) {
		o.now = now
	}
}

func buildOptions(opts []Option) backendOptions {
	o := backendOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// timestamp 统一为 UTC 微秒精度（向上取整），与 Postgres 存储精度一致，
// 且不早于调用时刻
func (o backendOptions) timestamp() time.Time {
	now := o.now().UTC()
	rounded := now.Truncate(time.Microsecond)
	if rounded.Before(now) {
		rounded = rounded.Add(time.Microsecond)
	}
	return rounded
}

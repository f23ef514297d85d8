// Package foreign provides the native functions predefined in the global
// scope of every interpreter.
package foreign

import (
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"tan/internal/object"
)

// Registry builds the natives for one interpreter and owns the state they
// share, such as open database handles.
type Registry struct {
	enableDatabase bool
	now            func() time.Time
	logger         *slog.Logger

	connections map[int64]*sql.DB
	nextHandle  int64
}

type Option func(*Registry)

// WithDatabase makes the dbOpen, dbExec, dbQuery and dbClose natives
// available.
func WithDatabase(enabled bool) Option {
	return func(r *Registry) { r.enableDatabase = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		now:         time.Now,
		logger:      slog.Default(),
		connections: map[int64]*sql.DB{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Natives() []*object.Native {
	natives := []*object.Native{
		r.fnClock(),
		fnStr(),
	}

	if r.enableDatabase {
		natives = append(natives,
			r.fnDbOpen(),
			r.fnDbExec(),
			r.fnDbQuery(),
			r.fnDbClose(),
		)
	}

	return natives
}

// Close closes every database handle still open.
func (r *Registry) Close() error {
	var errs []error
	for id, db := range r.connections {
		errs = append(errs, db.Close())
		delete(r.connections, id)
	}
	return errors.Join(errs...)
}

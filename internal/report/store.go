package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// DefaultKey is the settings key the report list is stored under when the
// caller does not pick one.
const DefaultKey = "reports"

// Backend is the key-value settings store the Store persists into. The
// Store uses exactly one key for the whole report list and assumes it is
// the only writer for the lifetime of the process.
type Backend interface {
	// GetList returns the ordered string list stored under key. ok is
	// false when the key is absent, which is not an error.
	GetList(ctx context.Context, key string) (values []string, ok bool, err error)

	// SetList replaces the list stored under key in one shot.
	SetList(ctx context.Context, key string, values []string) error
}

// StoreOptions configures a Store. The zero value selects DefaultKey and
// a no-op logger.
type StoreOptions struct {
	Key    string
	Logger *slog.Logger
}

// Store owns the in-memory ordered report list for the session and keeps
// the backend copy in sync after every mutation.
//
// The Store does no internal locking: callers issuing operations from
// more than one goroutine must serialize access themselves.
type Store struct {
	backend Backend
	key     string
	logger  *slog.Logger

	reports []Report
	changed chan struct{}
}

func NewStore(backend Backend, opts StoreOptions) *Store {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		backend: backend,
		key:     key,
		logger:  logger,
		changed: make(chan struct{}, 1),
	}
}

// Changed returns a coalesced signal that fires after every completed
// mutating operation. Intended for a single UI subscriber that re-renders
// from Snapshot.
func (s *Store) Changed() <-chan struct{} {
	return s.changed
}

// Load replaces the in-memory list with the decoded backend contents,
// preserving stored order. An absent key hydrates an empty list. A token
// that fails to decode is skipped with a warning so one corrupted record
// does not take the rest of the list down; the skip is permanent once the
// next persist rewrites the key.
func (s *Store) Load(ctx context.Context) error {
	tokens, ok, err := s.backend.GetList(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load %q: %w: %v", s.key, ErrBackendIO, err)
	}
	if !ok {
		s.reports = nil
		s.notify()
		return nil
	}

	reports := make([]Report, 0, len(tokens))
	for i, token := range tokens {
		r, err := DecodeToken(token)
		if err != nil {
			s.logger.Warn("skipping malformed report record",
				slog.String("key", s.key),
				slog.Int("position", i),
				slog.String("error", err.Error()))
			continue
		}
		reports = append(reports, r)
	}
	s.reports = reports
	s.notify()
	return nil
}

// Append validates, constructs and appends a new Report, then persists the
// whole list. When persisting fails the appended report stays visible in
// memory and the error is returned; a caller may retry with PersistAll.
func (s *Store) Append(ctx context.Context, title, description string, latitude, longitude float64) (Report, error) {
	r, err := New(title, description, latitude, longitude)
	if err != nil {
		return Report{}, err
	}
	s.reports = append(s.reports, r)
	s.notify()
	if err := s.PersistAll(ctx); err != nil {
		return r, err
	}
	return r, nil
}

// DeleteAt removes the report at index, shifting later reports left by
// one, then persists. An index outside [0, Len) fails with
// ErrIndexOutOfRange and mutates nothing.
func (s *Store) DeleteAt(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.reports) {
		return fmt.Errorf("%w: %d with %d report(s)", ErrIndexOutOfRange, index, len(s.reports))
	}
	s.reports = append(s.reports[:index], s.reports[index+1:]...)
	s.notify()
	return s.PersistAll(ctx)
}

// PersistAll encodes the current list in order and writes it to the
// backend under the store key in a single call, replacing the prior value.
func (s *Store) PersistAll(ctx context.Context) error {
	tokens := make([]string, 0, len(s.reports))
	for _, r := range s.reports {
		token, err := EncodeToken(r)
		if err != nil {
			return fmt.Errorf("persist %q: %w", s.key, err)
		}
		tokens = append(tokens, token)
	}
	if err := s.backend.SetList(ctx, s.key, tokens); err != nil {
		return fmt.Errorf("persist %q: %w: %v", s.key, ErrBackendIO, err)
	}
	return nil
}

// Snapshot returns a by-value copy of the current in-memory list. Mutating
// the returned slice never touches Store internals.
func (s *Store) Snapshot() []Report {
	out := make([]Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// Len reports the current number of in-memory reports.
func (s *Store) Len() int {
	return len(s.reports)
}

func (s *Store) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

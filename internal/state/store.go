package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"focusquest/internal/catalog"
	"focusquest/internal/config"
	"focusquest/internal/notify"
	"focusquest/internal/retry"
	"focusquest/internal/storage"
)

// ErrNotLoaded is returned when Get or Update run before Load has completed.
// That is a programming error in the orchestration layer, not a recoverable
// condition.
var ErrNotLoaded = errors.New("state store not loaded")

// Store owns the canonical in-memory RootState and its persisted copy.
//
// It holds exactly one state per process and assumes a single logical writer:
// callers serialize Update calls themselves. Persistence goes through the
// retry policy; a save either writes the whole aggregate or fails, leaving
// the previous persisted copy authoritative.
type Store struct {
	backend  storage.Backend
	catalog  *catalog.Catalog
	key      string
	policy   retry.Policy
	notifier notify.Notifier

	state *RootState // nil until Load completes
}

// NewStore wires a store over a backend. The catalog supplies first-boss
// resolve for fabricated states and bounds for index repair.
func NewStore(backend storage.Backend, cat *catalog.Catalog, sc config.Storage, n notify.Notifier) *Store {
	if n == nil {
		n = notify.LogNotifier{}
	}
	return &Store{
		backend:  backend,
		catalog:  cat,
		key:      sc.StateKey,
		policy:   retry.Policy{MaxAttempts: sc.MaxAttempts, BaseDelay: sc.RetryBaseDelay},
		notifier: n,
	}
}

type fetched struct {
	data  []byte
	found bool
}

// Load reads and repairs the persisted state, fabricating and persisting a
// default state on first run. It never returns a nil state: when the read
// fails after all retries it falls back to an in-memory default (not
// persisted), notifies the user, and returns the fallback alongside the
// error so callers can log the degradation.
func (s *Store) Load(ctx context.Context) (*RootState, error) {
	res, err := retry.Do(ctx, s.policy, func() (fetched, error) {
		data, found, err := s.backend.Get(ctx, s.key)
		return fetched{data: data, found: found}, err
	})
	if err != nil {
		st := DefaultState(s.catalog.At(0).Resolve)
		st.ID = uuid.NewString()
		s.state = st
		s.notifier.Notify(ctx, notify.Event{
			Kind:    notify.KindLoadFailed,
			Message: "could not read saved progress; starting from an empty state for now",
			At:      time.Now(),
		})
		return st.Clone(), fmt.Errorf("load state: %w", err)
	}

	if !res.found {
		st := DefaultState(s.catalog.At(0).Resolve)
		st.ID = uuid.NewString()
		s.state = st
		if err := s.persist(ctx, st); err != nil {
			// First-run persist is best effort; the next save will retry.
			log.Printf("state: initial persist failed: %v", err)
		}
		return st.Clone(), nil
	}

	st, fixes := Repair(res.data, s.catalog)
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if fixes > 0 {
		log.Printf("state: repaired %d corrupted field(s) on load", fixes)
	}
	s.state = st
	return st.Clone(), nil
}

// Save persists the full aggregate. On success the in-memory snapshot becomes
// exactly what was persisted. On exhausted retries it notifies the user and
// returns the error; the snapshot is left as it was.
func (s *Store) Save(ctx context.Context, st *RootState) error {
	if err := s.persist(ctx, st); err != nil {
		s.notifier.Notify(ctx, notify.Event{
			Kind:    notify.KindSaveFailed,
			Message: "could not save progress; your latest change may be lost",
			At:      time.Now(),
		})
		return fmt.Errorf("save state: %w", err)
	}
	s.state = st.Clone()
	return nil
}

func (s *Store) persist(ctx context.Context, st *RootState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = retry.Do(ctx, s.policy, func() (struct{}, error) {
		return struct{}{}, s.backend.Set(ctx, s.key, data)
	})
	return err
}

// Get returns a copy of the in-memory snapshot.
func (s *Store) Get() (*RootState, error) {
	if s.state == nil {
		return nil, ErrNotLoaded
	}
	return s.state.Clone(), nil
}

// Update merges a patch over the snapshot at the top level and saves the
// result. A failed save leaves both the snapshot and the persisted copy
// untouched.
func (s *Store) Update(ctx context.Context, p Patch) error {
	if s.state == nil {
		return ErrNotLoaded
	}
	next := s.state.Clone()
	next.apply(p)
	return s.Save(ctx, next)
}

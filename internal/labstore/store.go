// Package labstore holds the canonical in-memory state of labs, their
// lights and the practice presets.  Mutations are applied synchronously and
// the whole state is then handed to a background persister; readers always
// see the in-memory state, durability lags behind.
package labstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/lab-lighting/internal/model"
	"github.com/iliyamo/lab-lighting/internal/storage"
)

// DefaultKeyPrefix namespaces the persisted keys.
const DefaultKeyPrefix = "lablighting"

// LabsKey and PracticesKey name the two persisted blobs.
func LabsKey(prefix string) string      { return prefix + ":labs" }
func PracticesKey(prefix string) string { return prefix + ":practices" }

// Snapshot is a deep copy of the full state at a revision.
type Snapshot struct {
	Revision  uint64
	Labs      []model.Lab
	Practices []model.Practice
}

// Store is the lab state store.  The zero value is not usable; use New.
type Store struct {
	mu        sync.RWMutex
	labs      []model.Lab
	practices []model.Practice
	rev       uint64
	lastID    int64

	now       func() time.Time
	log       *log.Logger
	backend   storage.Backend
	prefix    string
	persister *persister

	persistTimeout time.Duration
	persistHook    func(error, time.Duration)

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *log.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock overrides time.Now, used for id generation and event times.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithKeyPrefix sets the namespace of the persisted keys.
func WithKeyPrefix(prefix string) Option { return func(s *Store) { s.prefix = prefix } }

// WithPersistTimeout bounds a single snapshot write.
func WithPersistTimeout(d time.Duration) Option { return func(s *Store) { s.persistTimeout = d } }

// WithPersistHook is called after every snapshot write attempt.
func WithPersistHook(fn func(err error, took time.Duration)) Option {
	return func(s *Store) { s.persistHook = fn }
}

// WithSeed replaces the built-in dataset.
func WithSeed(labs []model.Lab, practices []model.Practice) Option {
	return func(s *Store) {
		s.labs = cloneLabs(labs)
		s.practices = clonePractices(practices)
	}
}

// New returns a store seeded with the built-in dataset.  When backend is
// non-nil every mutation is persisted to it in the background; call Load to
// replace the seed with previously persisted state, and Close on shutdown.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		labs:           DefaultLabs(),
		practices:      DefaultPractices(),
		now:            time.Now,
		log:            log.New("labstore"),
		backend:        backend,
		prefix:         DefaultKeyPrefix,
		persistTimeout: 5 * time.Second,
		subs:           make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if backend != nil {
		s.persister = newPersister(s.writeSnapshot)
		go s.persister.run()
	}
	return s
}

// Load reads the persisted labs and practices.  Each blob that exists
// replaces its collection verbatim; a missing blob keeps the current data.
// Load never triggers a write.
func (s *Store) Load(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	var (
		labs      []model.Lab
		practices []model.Practice
		haveLabs  bool
		havePract bool
	)
	if bs, err := s.backend.Get(ctx, LabsKey(s.prefix)); err == nil {
		if err := json.Unmarshal(bs, &labs); err != nil {
			return fmt.Errorf("decode labs: %w", err)
		}
		haveLabs = true
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("read labs: %w", err)
	}
	if bs, err := s.backend.Get(ctx, PracticesKey(s.prefix)); err == nil {
		if err := json.Unmarshal(bs, &practices); err != nil {
			return fmt.Errorf("decode practices: %w", err)
		}
		havePract = true
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("read practices: %w", err)
	}
	if !haveLabs && !havePract {
		return nil
	}

	s.mu.Lock()
	if haveLabs {
		s.labs = labs
	}
	if havePract {
		s.practices = practices
	}
	s.rev++
	ev := Event{Type: EventStateReloaded, Revision: s.rev, At: s.now()}
	s.mu.Unlock()
	s.publish(ev)
	return nil
}

// Restore replaces the whole state with snap and persists it.
func (s *Store) Restore(snap Snapshot) {
	_ = s.mutate(func() (Event, error) {
		s.labs = cloneLabs(snap.Labs)
		s.practices = clonePractices(snap.Practices)
		return Event{Type: EventStateReloaded}, nil
	})
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Revision is incremented by every committed change.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

// Flush waits until every change committed before the call has been
// written (or failed to write).
func (s *Store) Flush(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	return s.persister.flush(ctx)
}

// Close writes any pending snapshot and stops the persister.  The backend
// itself is left open.
func (s *Store) Close(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	return s.persister.close(ctx)
}

// mutate runs fn under the write lock.  When fn succeeds the revision is
// bumped, the new state is queued for persistence and subscribers are told.
func (s *Store) mutate(fn func() (Event, error)) error {
	s.mu.Lock()
	ev, err := fn()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.rev++
	ev.Revision = s.rev
	ev.At = s.now()
	var snap Snapshot
	if s.persister != nil {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if s.persister != nil {
		s.persister.enqueue(snap)
	}
	s.publish(ev)
	return nil
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Revision: s.rev, Labs: cloneLabs(s.labs), Practices: clonePractices(s.practices)}
}

func (s *Store) writeSnapshot(snap Snapshot) error {
	start := time.Now()
	err := s.putSnapshot(snap)
	if err != nil {
		s.log.Errorf("persist revision %d: %v", snap.Revision, err)
	}
	if s.persistHook != nil {
		s.persistHook(err, time.Since(start))
	}
	return err
}

func (s *Store) putSnapshot(snap Snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	labs, err := json.Marshal(nonNilLabs(snap.Labs))
	if err != nil {
		return fmt.Errorf("encode labs: %w", err)
	}
	practices, err := json.Marshal(nonNilPractices(snap.Practices))
	if err != nil {
		return fmt.Errorf("encode practices: %w", err)
	}
	if err := s.backend.Put(ctx, LabsKey(s.prefix), labs); err != nil {
		return fmt.Errorf("write labs: %w", err)
	}
	if err := s.backend.Put(ctx, PracticesKey(s.prefix), practices); err != nil {
		return fmt.Errorf("write practices: %w", err)
	}
	return nil
}

// newID returns a millisecond timestamp id, bumped past the previous one so
// two creations in the same millisecond stay unique.  Caller holds mu.
func (s *Store) newID() string {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func cloneLabs(in []model.Lab) []model.Lab {
	if in == nil {
		return nil
	}
	out := make([]model.Lab, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func clonePractices(in []model.Practice) []model.Practice {
	if in == nil {
		return nil
	}
	out := make([]model.Practice, len(in))
	copy(out, in)
	return out
}

func nonNilLabs(in []model.Lab) []model.Lab {
	if in == nil {
		return []model.Lab{}
	}
	return in
}

func nonNilPractices(in []model.Practice) []model.Practice {
	if in == nil {
		return []model.Practice{}
	}
	return in
}

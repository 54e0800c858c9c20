package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"hrms/internal/platform/storage"
)

const DefaultKey = "hrms_employees"

// maxIDAttempts bounds regeneration when a fresh id collides.
const maxIDAttempts = 16

// Recorder observes store mutations. outcome is "ok", "rejected" or "error".
type Recorder interface {
	StoreMutation(op, outcome string)
}

type Options struct {
	Key string
	// Strict makes mutations refuse to overwrite a blob that fails to decode.
	Strict   bool
	Now      func() time.Time
	NewID    IDFunc
	Recorder Recorder
}

// Store owns the employee collection. Every mutation reads the whole blob,
// applies the change and writes the whole blob back under one key. The mutex
// makes the process a single writer.
type Store struct {
	mu       sync.Mutex
	backend  storage.Backend
	log      *slog.Logger
	key      string
	strict   bool
	now      func() time.Time
	newID    IDFunc
	recorder Recorder
}

func NewStore(backend storage.Backend, log *slog.Logger, opts Options) *Store {
	if backend == nil {
		backend = storage.Unavailable{}
	}
	if log == nil {
		log = slog.Default()
	}
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = NewID
	}
	return &Store{
		backend:  backend,
		log:      log,
		key:      opts.Key,
		strict:   opts.Strict,
		now:      opts.Now,
		newID:    opts.NewID,
		recorder: opts.Recorder,
	}
}

func (s *Store) Key() string { return s.key }

// ListAll returns the collection in insertion order. Missing, unavailable and
// corrupt storage all read as empty.
func (s *Store) ListAll(ctx context.Context) []Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLenient(ctx)
}

// Snapshot is ListAll that reports why the collection could not be read.
func (s *Store) Snapshot(ctx context.Context) ([]Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) FindByID(ctx context.Context, id string) (Employee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, e, ok := find(s.readLenient(ctx), id)
	return e, ok
}

// Lookup is FindByID with the read semantics of a mutation: backend failures
// and, in strict mode, a corrupt blob are returned instead of reading as empty.
func (s *Store) Lookup(ctx context.Context, id string) (Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.readForWrite(ctx)
	if err != nil {
		return Employee{}, err
	}
	_, e, ok := find(list, id)
	if !ok {
		return Employee{}, ErrNotFound
	}
	return e, nil
}

// IsEmailUnique reports whether no record other than excludeID uses email,
// ignoring case.
func (s *Store) IsEmailUnique(ctx context.Context, email, excludeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !emailTaken(s.readLenient(ctx), email, excludeID)
}

// Add assigns a fresh id, appends and persists. A failed write is returned
// together with the record that was attempted.
func (s *Store) Add(ctx context.Context, e Employee) (Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(ctx, e, false)
}

// AddIfEmailUnique is Add with the uniqueness check held under the same lock.
func (s *Store) AddIfEmailUnique(ctx context.Context, e Employee) (Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(ctx, e, true)
}

func (s *Store) add(ctx context.Context, e Employee, unique bool) (Employee, error) {
	list, err := s.readForWrite(ctx)
	if err != nil {
		s.record("add", err)
		return Employee{}, err
	}
	if unique && emailTaken(list, e.Email, "") {
		s.record("add", ErrEmailTaken)
		return Employee{}, ErrEmailTaken
	}
	id, err := s.uniqueID(list)
	if err != nil {
		s.record("add", err)
		return Employee{}, err
	}
	e.ID = id
	list = append(list, e)
	err = s.persist(ctx, list)
	s.record("add", err)
	return e, err
}

// Update replaces the record with the same id in place. An unknown id is
// ErrNotFound and nothing is written.
func (s *Store) Update(ctx context.Context, e Employee) ([]Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, e, false)
}

// UpdateIfEmailUnique is Update that fails with ErrEmailTaken when another
// record already uses the email.
func (s *Store) UpdateIfEmailUnique(ctx context.Context, e Employee) ([]Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, e, true)
}

func (s *Store) update(ctx context.Context, e Employee, unique bool) ([]Employee, error) {
	list, err := s.readForWrite(ctx)
	if err != nil {
		s.record("update", err)
		return nil, err
	}
	idx, _, ok := find(list, e.ID)
	if !ok {
		s.record("update", ErrNotFound)
		return list, ErrNotFound
	}
	if unique && emailTaken(list, e.Email, e.ID) {
		s.record("update", ErrEmailTaken)
		return list, ErrEmailTaken
	}
	list[idx] = e
	err = s.persist(ctx, list)
	s.record("update", err)
	return list, err
}

// Remove drops the record with id. Removing an unknown id still rewrites the
// unchanged collection.
func (s *Store) Remove(ctx context.Context, id string) ([]Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.readForWrite(ctx)
	if err != nil {
		s.record("remove", err)
		return nil, err
	}
	kept := make([]Employee, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	err = s.persist(ctx, kept)
	s.record("remove", err)
	return kept, err
}

// ReplaceAll overwrites the collection wholesale, keeping the given order.
// It is the only mutation allowed over a corrupt blob in strict mode.
func (s *Store) ReplaceAll(ctx context.Context, list []Employee) error {
	if err := CheckCollection(list); err != nil {
		s.record("replace", err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.persist(ctx, list)
	s.record("replace", err)
	return err
}

// Summary counts records per department in order of first appearance.
func (s *Store) Summary(ctx context.Context) Summary {
	return Summarize(s.ListAll(ctx))
}

func Summarize(list []Employee) Summary {
	out := Summary{Total: len(list), Departments: []DepartmentCount{}}
	index := make(map[string]int)
	for _, e := range list {
		i, ok := index[e.Department]
		if !ok {
			i = len(out.Departments)
			index[e.Department] = i
			out.Departments = append(out.Departments, DepartmentCount{Department: e.Department})
		}
		out.Departments[i].Count++
	}
	return out
}

// CheckCollection enforces the collection invariants on imported data.
func CheckCollection(list []Employee) error {
	ids := make(map[string]struct{}, len(list))
	emails := make(map[string]string, len(list))
	for i, e := range list {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("%w: record %d has no id", ErrInvalidCollection, i)
		}
		if _, dup := ids[e.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidCollection, e.ID)
		}
		ids[e.ID] = struct{}{}
		if e.Salary <= 0 {
			return fmt.Errorf("%w: record %s has non-positive salary", ErrInvalidCollection, e.ID)
		}
		email := strings.ToLower(e.Email)
		if other, dup := emails[email]; dup {
			return fmt.Errorf("%w: records %s and %s share email %s", ErrInvalidCollection, other, e.ID, e.Email)
		}
		emails[email] = e.ID
	}
	return nil
}

func (s *Store) load(ctx context.Context) ([]Employee, error) {
	data, err := s.backend.Load(ctx, s.key)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrUnavailable):
		return []Employee{}, nil
	case errors.Is(err, storage.ErrSealBroken):
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	default:
		return nil, fmt.Errorf("load employees: %w", err)
	}
	return Decode(ctx, data)
}

func (s *Store) readLenient(ctx context.Context) []Employee {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Warn("employee collection unreadable, treating as empty", "key", s.key, "error", err)
		return []Employee{}
	}
	return list
}

// readForWrite loads the collection a mutation starts from. A corrupt blob
// starts over from empty unless the store is strict. Backend failures are
// always returned so a transient outage cannot wipe the collection.
func (s *Store) readForWrite(ctx context.Context) ([]Employee, error) {
	list, err := s.load(ctx)
	if err == nil {
		return list, nil
	}
	if errors.Is(err, ErrCorrupt) && !s.strict {
		s.log.Warn("overwriting corrupt employee collection", "key", s.key, "error", err)
		return []Employee{}, nil
	}
	return nil, err
}

func (s *Store) persist(ctx context.Context, list []Employee) error {
	data, err := Encode(list)
	if err != nil {
		return fmt.Errorf("encode employees: %w", err)
	}
	if err := s.backend.Save(ctx, s.key, data); err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			s.log.Debug("storage unavailable, write skipped", "key", s.key)
			return nil
		}
		s.log.Error("save employees failed", "key", s.key, "error", err)
		return fmt.Errorf("save employees: %w", err)
	}
	return nil
}

func (s *Store) uniqueID(list []Employee) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.newID(s.now())
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		if _, _, taken := find(list, id); !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate id: %d attempts collided", maxIDAttempts)
}

func (s *Store) record(op string, err error) {
	if s.recorder == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrEmailTaken), errors.Is(err, ErrInvalidCollection):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	s.recorder.StoreMutation(op, outcome)
}

func find(list []Employee, id string) (int, Employee, bool) {
	for i, e := range list {
		if e.ID == id {
			return i, e, true
		}
	}
	return -1, Employee{}, false
}

func emailTaken(list []Employee, email, excludeID string) bool {
	for _, e := range list {
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}

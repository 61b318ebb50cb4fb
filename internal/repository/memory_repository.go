package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "notely/internal/errors"
	"notely/internal/model"
)

// MemoryStore keeps users and notes in process memory. It backs
// STORE_DRIVER=memory and the handler tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*model.User
	notes []*model.Note
	now   func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*model.User),
		now:   time.Now,
	}
}

// Users returns the store's credential repository.
func (s *MemoryStore) Users() UserRepository {
	return memoryUsers{s}
}

// Notes returns the store's note repository.
func (s *MemoryStore) Notes() NoteRepository {
	return memoryNotes{s}
}

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return apperrors.ErrUserAlreadyExists
		}
	}
	if _, taken := r.s.users[user.ID]; taken {
		return apperrors.ErrUserAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedOn = r.s.now()
	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r memoryUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	found := *u
	return &found, nil
}

func (r memoryUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type memoryNotes struct{ s *MemoryStore }

func (r memoryNotes) Create(_ context.Context, note *model.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	note.ID = uuid.NewString()
	note.CreatedAt = now
	note.UpdatedAt = now
	if note.Tags == nil {
		note.Tags = []string{}
	}
	r.s.notes = append(r.s.notes, cloneNote(note))
	return nil
}

func (r memoryNotes) ListByOwner(_ context.Context, ownerID string) ([]model.Note, error) {
	notes := r.collect(func(n *model.Note) bool { return n.UserID == ownerID })
	model.PinnedFirst(notes)
	return notes, nil
}

func (r memoryNotes) FindByIDAndOwner(_ context.Context, id, ownerID string) (*model.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := r.lookup(id, ownerID)
	if n == nil {
		return nil, apperrors.ErrNoteNotFound
	}
	return cloneNote(n), nil
}

func (r memoryNotes) Update(_ context.Context, id, ownerID string, patch model.NotePatch) (*model.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := r.lookup(id, ownerID)
	if n == nil {
		return nil, apperrors.ErrNoteNotFound
	}
	if !patch.IsEmpty() {
		patch.Apply(n)
		if n.Tags == nil {
			n.Tags = []string{}
		}
		n.UpdatedAt = r.s.now()
	}
	return cloneNote(n), nil
}

func (r memoryNotes) Delete(_ context.Context, id, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, n := range r.s.notes {
		if n.ID == id && n.UserID == ownerID {
			r.s.notes = append(r.s.notes[:i], r.s.notes[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNoteNotFound
}

func (r memoryNotes) Search(_ context.Context, ownerID, query string) ([]model.Note, error) {
	q := strings.ToLower(query)
	return r.collect(func(n *model.Note) bool {
		return n.UserID == ownerID &&
			(strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q))
	}), nil
}

// lookup expects the caller to hold the lock.
func (r memoryNotes) lookup(id, ownerID string) *model.Note {
	for _, n := range r.s.notes {
		if n.ID == id && n.UserID == ownerID {
			return n
		}
	}
	return nil
}

func (r memoryNotes) collect(match func(*model.Note) bool) []model.Note {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	notes := []model.Note{}
	for _, n := range r.s.notes {
		if match(n) {
			notes = append(notes, *cloneNote(n))
		}
	}
	return notes
}

func cloneNote(n *model.Note) *model.Note {
	c := *n
	c.Tags = append([]string{}, n.Tags...)
	return &c
}

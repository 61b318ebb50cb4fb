package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "notely/internal/errors"
	"notely/internal/model"
	"notely/internal/repository"
)

const (
	msgTitleContentRequired = "Title and content are required"
	msgQueryRequired        = "Search query is required"
)

// NoteService manages notes on behalf of an authenticated owner. Every
// operation is scoped to ownerID; a note owned by someone else is
// indistinguishable from a missing one.
type NoteService interface {
	Create(ctx context.Context, ownerID, title, content string, tags []string) (*model.Note, error)
	ListAll(ctx context.Context, ownerID string) ([]model.Note, error)
	Search(ctx context.Context, ownerID, query string) ([]model.Note, error)
	Get(ctx context.Context, ownerID, noteID string) (*model.Note, error)
	Update(ctx context.Context, ownerID, noteID string, patch model.NotePatch) (*model.Note, error)
	SetPinned(ctx context.Context, ownerID, noteID string, pinned bool) (*model.Note, error)
	Delete(ctx context.Context, ownerID, noteID string) error
}

type noteService struct {
	repo  repository.NoteRepository
	users repository.UserRepository
}

// NewNoteService creates a new note service. users is consulted on create so
// a note is never attached to an owner that does not exist.
func NewNoteService(repo repository.NoteRepository, users repository.UserRepository) NoteService {
	return &noteService{repo: repo, users: users}
}

func (s *noteService) Create(ctx context.Context, ownerID, title, content string, tags []string) (*model.Note, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if isBlank(title) || isBlank(content) {
		return nil, apperrors.Validation(msgTitleContentRequired)
	}
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("find note owner: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}

	note := &model.Note{
		Title:   title,
		Content: content,
		Tags:    tags,
		UserID:  ownerID,
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// ListAll returns every note of the owner, pinned notes first.
func (s *noteService) ListAll(ctx context.Context, ownerID string) ([]model.Note, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	notes, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if notes == nil {
		notes = []model.Note{}
	}
	model.PinnedFirst(notes)
	return notes, nil
}

// Search matches query case-insensitively against title or content.
// Results keep the store's natural order.
func (s *noteService) Search(ctx context.Context, ownerID, query string) ([]model.Note, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if isBlank(query) {
		return nil, apperrors.Validation(msgQueryRequired)
	}
	notes, err := s.repo.Search(ctx, ownerID, query)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return notes, nil
}

func (s *noteService) Get(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	note, err := s.repo.FindByIDAndOwner(ctx, noteID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// Update applies the present fields of patch. An empty patch returns the
// note unchanged.
func (s *noteService) Update(ctx context.Context, ownerID, noteID string, patch model.NotePatch) (*model.Note, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if (patch.Title != nil && isBlank(*patch.Title)) || (patch.Content != nil && isBlank(*patch.Content)) {
		return nil, apperrors.Validation(msgTitleContentRequired)
	}
	note, err := s.repo.Update(ctx, noteID, ownerID, patch)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

func (s *noteService) SetPinned(ctx context.Context, ownerID, noteID string, pinned bool) (*model.Note, error) {
	return s.Update(ctx, ownerID, noteID, model.NotePatch{IsPinned: &pinned})
}

func (s *noteService) Delete(ctx context.Context, ownerID, noteID string) error {
	if ownerID == "" {
		return apperrors.ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, noteID, ownerID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

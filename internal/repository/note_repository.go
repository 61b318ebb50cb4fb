package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "notely/internal/errors"
	"notely/internal/model"
)

// NoteRepository defines note persistence operations. Every lookup,
// mutation and deletion is keyed by (id, owner) inside the store query.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Note, error)
	Update(ctx context.Context, id, ownerID string, patch model.NotePatch) (*model.Note, error)
	Delete(ctx context.Context, id, ownerID string) error
	Search(ctx context.Context, ownerID, query string) ([]model.Note, error)
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a GORM-backed note repository.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

// Create creates a new note.
func (r *noteRepository) Create(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// ListByOwner lists the owner's notes, pinned first.
func (r *noteRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	notes := []model.Note{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("is_pinned DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// FindByIDAndOwner finds a note by ID within the owner's notes.
func (r *noteRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Note, error) {
	var note model.Note
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&note).Error; err != nil {
		return nil, translateNoteErr(err)
	}
	return &note, nil
}

// Update applies the patch inside a transaction and returns the stored note.
func (r *noteRepository) Update(ctx context.Context, id, ownerID string, patch model.NotePatch) (*model.Note, error) {
	var note model.Note
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&note).Error; err != nil {
			return err
		}
		if patch.IsEmpty() {
			return nil
		}
		patch.Apply(&note)
		return tx.Model(&note).
			Where("user_id = ?", ownerID).
			Select("title", "content", "tags", "is_pinned", "updated_at").
			Updates(&note).Error
	})
	if err != nil {
		return nil, translateNoteErr(err)
	}
	return &note, nil
}

// Delete permanently removes a note.
func (r *noteRepository) Delete(ctx context.Context, id, ownerID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Note{})
	if res.Error != nil {
		return fmt.Errorf("delete note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNoteNotFound
	}
	return nil
}

// Search matches query case-insensitively against title or content.
func (r *noteRepository) Search(ctx context.Context, ownerID, query string) ([]model.Note, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	notes := []model.Note{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND (LOWER(title) LIKE ? ESCAPE '!' OR LOWER(content) LIKE ? ESCAPE '!')",
			ownerID, pattern, pattern).
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// escapeLike makes LIKE wildcards in user input literal. '!' is used as the
// escape character because it means the same thing to MySQL and SQLite.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func translateNoteErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNoteNotFound
	}
	return err
}

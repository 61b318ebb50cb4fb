package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is a short text note owned by exactly one user.
type Note struct {
	ID        string    `json:"_id" gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Tags      []string  `json:"tags" gorm:"type:text;serializer:json"`
	IsPinned  bool      `json:"isPinned" gorm:"not null;default:false;index:idx_notes_owner_pinned,priority:2"`
	UserID    string    `json:"userId" gorm:"type:char(36);not null;index:idx_notes_owner_pinned,priority:1"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return nil
}

// NotePatch carries a partial update. Nil fields are left unchanged.
type NotePatch struct {
	Title    *string
	Content  *string
	Tags     *[]string
	IsPinned *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil && p.IsPinned == nil
}

// Apply copies the present fields onto n.
func (p NotePatch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		n.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.IsPinned != nil {
		n.IsPinned = *p.IsPinned
	}
}

// PinnedFirst reorders notes so every pinned note precedes every unpinned
// one, keeping the relative order inside each group.
func PinnedFirst(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].IsPinned && !notes[j].IsPinned
	})
}

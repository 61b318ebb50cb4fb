package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"notely/internal/auth"
	apperrors "notely/internal/errors"
	"notely/internal/model"
	"notely/internal/service"
)

// NoteHandler handles note endpoints. All routes sit behind the access guard.
type NoteHandler struct {
	svc service.NoteService
}

// NewNoteHandler creates a new note handler.
func NewNoteHandler(svc service.NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

// AddNoteRequest represents a new note.
type AddNoteRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

// EditNoteRequest carries a partial update; absent fields stay unchanged.
type EditNoteRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	IsPinned *bool     `json:"isPinned"`
}

// UpdatePinnedRequest sets the pin flag. A missing flag means false.
type UpdatePinnedRequest struct {
	IsPinned *bool `json:"isPinned"`
}

// NoteResponse wraps a single note.
type NoteResponse struct {
	Error   bool        `json:"error"`
	Message string      `json:"message,omitempty"`
	Note    *model.Note `json:"note"`
}

// NotesResponse wraps a list of notes.
type NotesResponse struct {
	Error   bool         `json:"error"`
	Message string       `json:"message,omitempty"`
	Notes   []model.Note `json:"notes"`
}

// MessageResponse carries only a message.
type MessageResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// AddNote godoc
// @Summary Add a note
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddNoteRequest true "Note"
// @Success 201 {object} NoteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /add-note [post]
func (h *NoteHandler) AddNote(c echo.Context) error {
	const msg = "Title and content are required"

	ownerID, ok := auth.UserIDFromContext(c)
	if !ok {
		return respondError(apperrors.ErrUnauthorized)
	}

	var req AddNoteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(msg, err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(msg, err)
	}

	note, err := h.svc.Create(c.Request().Context(), ownerID, req.Title, req.Content, req.Tags)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, NoteResponse{Message: "Note added successfully", Note: note})
}

// GetNote godoc
// @Summary Get one note
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 200 {object} NoteResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /get-note/{id} [get]
func (h *NoteHandler) GetNote(c echo.Context) error {
	ownerID, ok := auth.UserIDFromContext(c)
	if !ok {
		return respondError(apperrors.ErrUnauthorized)
	}
	note, err := h.svc.Get(c.Request().Context(), ownerID, c.Param("id"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, NoteResponse{Note: note})
}

// EditNote godoc
// @Summary Edit a note
// @Description Only the fields present in the body are changed.
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Param request body EditNoteRequest true "Fields to change"
// @Success 200 {object} NoteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /edit-note/{id} [put]
func (h *NoteHandler) EditNote(c echo.Context) error {
	ownerID, ok := auth.UserIDFromContext(c)
	if !ok {
		return respondError(apperrors.ErrUnauthorized)
	}

	var req EditNoteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body", err)
	}

	note, err := h.svc.Update(c.Request().Context(), ownerID, c.Param("id"), model.NotePatch{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, NoteResponse{Message: "Note updated successfully", Note: note})
}

// DeleteNote godoc
// @Summary Delete a note
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /delete-note/{id} [delete]
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	ownerID, ok := auth.UserIDFromContext(c)
	if !ok {
		return respondError(apperrors.ErrUnauthorized)
	}
	if err := h.svc.Delete(c.Request().Context(), ownerID, c.Param("id")); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Note deleted successfully"})
}

// UpdateNotePinned godoc
// @Summary Pin or unpin a note
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Param request body UpdatePinnedRequest true "Pin flag"
// @Success 200 {object} NoteResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /update-note-pinned/{id} [put]
func (h *NoteHandler) UpdateNotePinned(c echo.Context) error {
	ownerID, ok := auth.UserIDFromContext(c)
	if !ok {
		return respondError(apperrors.ErrUnauthorized)
	}

	var req UpdatePinnedRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body", err)
	}
	pinned := req.IsPinned != nil && *req.IsPinned

	note, err := h.svc.SetPinned(c.Request().Context(), ownerID, c.Param("id"), pinned)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, NoteResponse{Message: "Note updated successfully", Note: note})
}

// GetAllNotes godoc
// @Summary List all notes, pinned first
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} NotesResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /get-all-notes [get]
func (h *NoteHandler) GetAllNotes(c echo.Context) error {
	ownerID, ok := auth.UserIDFromContext(c)
	if !ok {
		return respondError(apperrors.ErrUnauthorized)
	}
	notes, err := h.svc.ListAll(c.Request().Context(), ownerID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, NotesResponse{Message: "All notes retrieved successfully", Notes: notes})
}

// SearchNotes godoc
// @Summary Search notes by title or content
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param query query string true "Case-insensitive substring"
// @Success 200 {object} NotesResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /search-notes [get]
func (h *NoteHandler) SearchNotes(c echo.Context) error {
	ownerID, ok := auth.UserIDFromContext(c)
	if !ok {
		return respondError(apperrors.ErrUnauthorized)
	}
	notes, err := h.svc.Search(c.Request().Context(), ownerID, c.QueryParam("query"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, NotesResponse{Message: "Notes matching the search query retrieved successfully", Notes: notes})
}

package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notely/internal/auth"
	"notely/internal/config"
	"notely/internal/handler"
	"notely/internal/repository"
	"notely/internal/service"
)

type testServer struct {
	e      *echo.Echo
	tokens *auth.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := repository.NewMemoryStore()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	cfg := &config.Config{AllowedOrigins: []string{"http://localhost:5173"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	Register(e, cfg, logger, tokens,
		handler.NewAuthHandler(service.NewAuthService(store.Users(), tokens)),
		handler.NewUserHandler(service.NewUserService(store.Users(), nil)),
		handler.NewNoteHandler(service.NewNoteService(store.Notes(), store.Users())),
	)
	return &testServer{e: e, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func (s *testServer) register(t *testing.T, name, email string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"fullName": name, "email": email, "password": "password123"})
	rec, out := s.do(t, http.MethodPost, "/create-account", string(body), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return out["accessToken"].(string)
}

func (s *testServer) addNote(t *testing.T, token, title, content string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"title": title, "content": content})
	rec, out := s.do(t, http.MethodPost, "/add-note", string(body), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return out["note"].(map[string]any)["_id"].(string)
}

func noteTitles(t *testing.T, out map[string]any) []string {
	t.Helper()
	notes, ok := out["notes"].([]any)
	require.True(t, ok, "notes must be a JSON array")
	titles := make([]string, 0, len(notes))
	for _, n := range notes {
		titles = append(titles, n.(map[string]any)["title"].(string))
	}
	return titles
}

func TestRoot(t *testing.T) {
	s := newTestServer(t)

	rec, out := s.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API is running", out["message"])

	rec, _ = s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCreateAccountAndLogin(t *testing.T) {
	s := newTestServer(t)

	rec, out := s.do(t, http.MethodPost, "/create-account",
		`{"fullName":"Ada","email":"Ada@Example.com ","password":"pw123456"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, false, out["error"])
	assert.Equal(t, "Account created successfully", out["message"])
	assert.NotEmpty(t, out["accessToken"])
	user := out["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "PasswordHash")

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"duplicate email in another case", "/create-account", `{"fullName":"Ada","email":"ADA@example.com","password":"x"}`, http.StatusConflict, "User already exists"},
		{"missing sign-up field", "/create-account", `{"fullName":"Ada","email":"b@example.com"}`, http.StatusBadRequest, "All fields are required"},
		{"blank full name", "/create-account", `{"fullName":"  ","email":"b@example.com","password":"x"}`, http.StatusBadRequest, "All fields are required"},
		{"malformed json", "/create-account", `{"fullName":`, http.StatusBadRequest, "All fields are required"},
		{"missing login field", "/login", `{"email":"ada@example.com"}`, http.StatusBadRequest, "Email and password are required"},
		{"wrong password", "/login", `{"email":"ada@example.com","password":"nope"}`, http.StatusUnauthorized, "Invalid email or password"},
		{"unknown email", "/login", `{"email":"who@example.com","password":"pw123456"}`, http.StatusUnauthorized, "Invalid email or password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := s.do(t, http.MethodPost, tt.path, tt.body, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, true, out["error"])
			assert.Equal(t, tt.wantMsg, out["message"])
		})
	}

	rec, out = s.do(t, http.MethodPost, "/login", `{"email":" ADA@example.com","password":"pw123456"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", out["message"])

	userID, err := s.tokens.Verify(out["accessToken"].(string))
	require.NoError(t, err)
	assert.Equal(t, user["_id"], userID)
}

func TestGetUser_Guard(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Ada", "ada@example.com")
	ghost, err := s.tokens.Issue("no-such-user")
	require.NoError(t, err)
	foreign, err := auth.NewTokenService("other-secret", time.Hour).Issue("anyone")
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantMsg    string
	}{
		{"no token", "", http.StatusUnauthorized, "Access token missing"},
		{"garbage token", "not-a-jwt", http.StatusForbidden, "Invalid token"},
		{"foreign signature", foreign, http.StatusForbidden, "Invalid token"},
		{"user no longer exists", ghost, http.StatusUnauthorized, "Unauthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := s.do(t, http.MethodGet, "/get-user", "", tt.token)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, true, out["error"])
			assert.Equal(t, tt.wantMsg, out["message"])
		})
	}

	rec, out := s.do(t, http.MethodGet, "/get-user", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	user := out["user"].(map[string]any)
	assert.Equal(t, "Ada", user["fullName"])
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "password")
}

func TestNotesLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Ada", "ada@example.com")

	rec, out := s.do(t, http.MethodPost, "/add-note", `{"title":"A","content":"first"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Note added successfully", out["message"])
	note := out["note"].(map[string]any)
	assert.Equal(t, []any{}, note["tags"])
	assert.Equal(t, false, note["isPinned"])
	idA := note["_id"].(string)

	idB := s.addNote(t, token, "B", "second")
	s.addNote(t, token, "C", "third")

	rec, out = s.do(t, http.MethodPost, "/add-note", `{"title":"D"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title and content are required", out["message"])

	rec, _ = s.do(t, http.MethodPut, "/update-note-pinned/"+idB, `{"isPinned":true}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out = s.do(t, http.MethodGet, "/get-all-notes", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"B", "A", "C"}, noteTitles(t, out))

	// Missing isPinned unpins.
	rec, out = s.do(t, http.MethodPut, "/update-note-pinned/"+idB, `{}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, out["note"].(map[string]any)["isPinned"])

	rec, out = s.do(t, http.MethodPut, "/edit-note/"+idA, `{"content":"rewritten","tags":["x"]}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	edited := out["note"].(map[string]any)
	assert.Equal(t, "A", edited["title"])
	assert.Equal(t, "rewritten", edited["content"])
	assert.Equal(t, []any{"x"}, edited["tags"])

	rec, out = s.do(t, http.MethodPut, "/edit-note/"+idA, `{"title":""}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title and content are required", out["message"])

	rec, out = s.do(t, http.MethodGet, "/get-note/"+idA, "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rewritten", out["note"].(map[string]any)["content"])

	rec, _ = s.do(t, http.MethodDelete, "/delete-note/"+idA, "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, out = s.do(t, http.MethodDelete, "/delete-note/"+idA, "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Note not found", out["message"])
}

func TestNotes_OwnershipIsolation(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "Alice", "alice@example.com")
	bob := s.register(t, "Bob", "bob@example.com")

	id := s.addNote(t, alice, "Private", "alice only")

	requests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/get-note/" + id, ""},
		{http.MethodPut, "/edit-note/" + id, `{"title":"hijacked"}`},
		{http.MethodPut, "/update-note-pinned/" + id, `{"isPinned":true}`},
		{http.MethodDelete, "/delete-note/" + id, ""},
	}
	for _, r := range requests {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			rec, out := s.do(t, r.method, r.path, r.body, bob)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "Note not found", out["message"])
		})
	}

	_, out := s.do(t, http.MethodGet, "/get-all-notes", "", bob)
	assert.Empty(t, noteTitles(t, out))
	_, out = s.do(t, http.MethodGet, "/search-notes?query=private", "", bob)
	assert.Empty(t, noteTitles(t, out))

	_, out = s.do(t, http.MethodGet, "/get-note/"+id, "", alice)
	note := out["note"].(map[string]any)
	assert.Equal(t, "Private", note["title"])
	assert.Equal(t, false, note["isPinned"])
}

func TestAddNote_RejectsTokenForMissingUser(t *testing.T) {
	s := newTestServer(t)
	ghost, err := s.tokens.Issue("no-such-user")
	require.NoError(t, err)

	rec, out := s.do(t, http.MethodPost, "/add-note", `{"title":"t","content":"c"}`, ghost)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, true, out["error"])
	assert.Equal(t, "Unauthorized", out["message"])

	rec, out = s.do(t, http.MethodGet, "/get-all-notes", "", ghost)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, noteTitles(t, out))
}

func TestSearchNotes(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Ada", "ada@example.com")
	s.addNote(t, token, "Shopping", "Buy MILK")
	s.addNote(t, token, "Milkshake recipe", "blend")
	s.addNote(t, token, "Work", "standup at 9")

	rec, out := s.do(t, http.MethodGet, "/search-notes?query=milk", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.ElementsMatch(t, []string{"Shopping", "Milkshake recipe"}, noteTitles(t, out))

	rec, out = s.do(t, http.MethodGet, "/search-notes?query=.*", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, noteTitles(t, out))

	rec, out = s.do(t, http.MethodGet, "/search-notes?query=", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Search query is required", out["message"])
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	s := newTestServer(t)

	rec, out := s.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, true, out["error"])
	assert.Equal(t, "NOT_FOUND", out["code"])
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/add-note", nil)
		req.Header.Set(echo.HeaderOrigin, origin)
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))

	rec = preflight("https://evil.example")
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	// No Origin header: the request is served normally.
	req := httptest.NewRequest(http.MethodGet, "/", bytes.NewReader(nil))
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

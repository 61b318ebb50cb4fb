package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"notely/internal/auth"
	"notely/internal/config"
	apperrors "notely/internal/errors"
	"notely/internal/logging"
	"notely/internal/model"
	"notely/internal/service"
	"notely/internal/store"
)

// SeedNote is one entry of the demo data set.
type SeedNote struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	IsPinned bool     `json:"isPinned"`
}

// SeedAccount is the demo login.
type SeedAccount struct {
	FullName string
	Email    string
	Password string
}

var defaultNotes = []SeedNote{
	{Title: "Welcome", Content: "Pinned notes always come first in your list.", Tags: []string{"intro"}, IsPinned: true},
	{Title: "Groceries", Content: "Milk, eggs, coffee beans", Tags: []string{"home"}},
	{Title: "Standup", Content: "Share yesterday, today and blockers", Tags: []string{"work"}},
}

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	if cfg.StoreDriver == config.DriverMemory {
		logger.Error("seeding the memory store has no lasting effect; set STORE_DRIVER")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("store init", "err", err)
		os.Exit(1)
	}
	defer st.Close(context.Background())

	notes := defaultNotes
	if url := os.Getenv("SEED_NOTES_URL"); url != "" {
		logger.Info("fetching seed notes", "url", url)
		if notes, err = fetchNotes(ctx, url); err != nil {
			logger.Error("fetch seed notes", "err", err)
			os.Exit(1)
		}
	}

	account := SeedAccount{
		FullName: getEnv("SEED_FULL_NAME", "Demo User"),
		Email:    getEnv("SEED_EMAIL", "demo@example.com"),
		Password: getEnv("SEED_PASSWORD", "demo-password"),
	}

	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	created, skipped, err := seed(ctx,
		service.NewAuthService(st.Users, tokens),
		service.NewNoteService(st.Notes, st.Users),
		account, notes,
	)
	if err != nil {
		logger.Error("seed", "err", err)
		os.Exit(1)
	}

	logger.Info("seed completed",
		"email", account.Email,
		"notes_created", created,
		"notes_skipped", skipped,
	)
}

// seed makes sure the demo account exists and owns every seed note. Notes
// whose title already exists for the account are skipped, so reruns are safe.
func seed(ctx context.Context, authSvc service.AuthService, noteSvc service.NoteService, account SeedAccount, notes []SeedNote) (created, skipped int, err error) {
	user, err := ensureAccount(ctx, authSvc, account)
	if err != nil {
		return 0, 0, err
	}

	existing, err := noteSvc.ListAll(ctx, user.ID)
	if err != nil {
		return 0, 0, err
	}
	titles := make(map[string]bool, len(existing))
	for _, n := range existing {
		titles[n.Title] = true
	}

	for _, n := range notes {
		if titles[n.Title] {
			skipped++
			continue
		}
		note, err := noteSvc.Create(ctx, user.ID, n.Title, n.Content, n.Tags)
		if err != nil {
			return created, skipped, fmt.Errorf("create note %q: %w", n.Title, err)
		}
		if n.IsPinned {
			if _, err := noteSvc.SetPinned(ctx, user.ID, note.ID, true); err != nil {
				return created, skipped, fmt.Errorf("pin note %q: %w", n.Title, err)
			}
		}
		titles[n.Title] = true
		created++
	}
	return created, skipped, nil
}

func ensureAccount(ctx context.Context, authSvc service.AuthService, account SeedAccount) (*model.User, error) {
	_, user, err := authSvc.Register(ctx, account.FullName, account.Email, account.Password)
	if err == nil {
		slog.Info("demo account created", "email", user.Email)
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrUserAlreadyExists) {
		return nil, fmt.Errorf("register demo account: %w", err)
	}
	_, user, err = authSvc.Login(ctx, account.Email, account.Password)
	if err != nil {
		return nil, fmt.Errorf("demo account exists with a different password: %w", err)
	}
	return user, nil
}

// fetchNotes downloads a JSON array of seed notes.
func fetchNotes(ctx context.Context, url string) ([]SeedNote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var notes []SeedNote
	if err := json.Unmarshal(body, &notes); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return notes, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

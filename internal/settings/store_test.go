package settings

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"linkdraft/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "settings.db"),
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSetGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, domain.KeyAPIKey, "sk-test"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, domain.KeyAPIKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "sk-test" {
		t.Fatalf("got %q, want sk-test", got)
	}
}

func TestGetMissingKeyReturnsEmpty(t *testing.T) {
	store := newTestStore(t)
	got, err := store.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("missing key should not error: %v", err)
	}
	if got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestSetOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Set(ctx, domain.KeyTone, "casual")
	store.Set(ctx, domain.KeyTone, "direct")
	got, _ := store.Get(ctx, domain.KeyTone)
	if got != "direct" {
		t.Fatalf("got %q, want direct", got)
	}
}

func TestList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Set(ctx, domain.KeyTone, "warm")
	store.Set(ctx, domain.KeyMeetingLink, "https://cal.example/me")

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d entries, want 2", len(all))
	}
	if all[domain.KeyMeetingLink] != "https://cal.example/me" {
		t.Errorf("meeting link missing from list")
	}
}

func TestToneDefault(t *testing.T) {
	store := newTestStore(t)
	if tone := store.Tone(context.Background()); tone != domain.ToneProfessional {
		t.Fatalf("default tone = %s, want professional", tone)
	}
	store.Set(context.Background(), domain.KeyTone, "casual")
	if tone := store.Tone(context.Background()); tone != domain.ToneCasual {
		t.Fatalf("tone = %s, want casual", tone)
	}
}

package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { CloseDB(db) })
	return NewStore(db, nil)
}

func TestSavePostValidation(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	tests := map[string]*Post{
		"nil":         nil,
		"no platform": {Content: "🌳"},
		"no content":  {Platform: PlatformTwitter},
	}
	for name, post := range tests {
		if err := store.SavePost(ctx, post); err == nil {
			t.Errorf("%s: SavePost succeeded, want error", name)
		}
	}
}

func TestSaveAndRecentPosts(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, time.March, 3, 3, 33, 0, 0, time.UTC)
	posts := []*Post{
		{Platform: PlatformTwitter, Kind: KindScheduled, Content: "first", ExternalID: "1", SacredTime: "03:33", PostedAt: base},
		{Platform: PlatformTelegram, Content: "second", ChatID: -100, UserID: 7, PostedAt: base.Add(time.Hour)},
		{Platform: PlatformTwitter, Kind: KindAdmin, Content: "third", CustomPrompt: "roots", PostedAt: base.Add(2 * time.Hour)},
	}
	for _, p := range posts {
		if err := store.SavePost(ctx, p); err != nil {
			t.Fatalf("SavePost: %v", err)
		}
		if p.ID == 0 {
			t.Fatalf("SavePost did not set ID for %q", p.Content)
		}
	}

	got, err := store.RecentPosts(ctx, 2)
	if err != nil {
		t.Fatalf("RecentPosts: %v", err)
	}
	want := []Post{*posts[2], *posts[1]}
	opts := cmp.Options{
		cmpopts.IgnoreFields(Post{}, "CreatedAt"),
		cmpopts.EquateApproxTime(time.Second),
	}
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Fatalf("RecentPosts mismatch (-want +got):\n%s", diff)
	}
	if got[1].Kind != KindGenerated {
		t.Fatalf("default kind = %q, want %q", got[1].Kind, KindGenerated)
	}
}

func TestCountPostsSince(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, p := range []*Post{
		{Platform: PlatformTwitter, Content: "old", PostedAt: now.Add(-25 * time.Hour)},
		{Platform: PlatformTwitter, Content: "recent", PostedAt: now.Add(-2 * time.Hour)},
		{Platform: PlatformTwitter, Content: "now", PostedAt: now},
		{Platform: PlatformTelegram, Content: "elsewhere", PostedAt: now},
	} {
		if err := store.SavePost(ctx, p); err != nil {
			t.Fatalf("SavePost: %v", err)
		}
	}

	count, err := store.CountPostsSince(ctx, PlatformTwitter, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("CountPostsSince: %v", err)
	}
	if count != 2 {
		t.Fatalf("CountPostsSince = %d, want 2", count)
	}
}

func TestMaintenanceAndPing(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := store.RunSQLMaintenance(ctx); err != nil {
		t.Fatalf("RunSQLMaintenance: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := store.RunSQLMaintenance(cancelled); err == nil {
		t.Fatal("RunSQLMaintenance with cancelled context succeeded")
	}
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"sappie.db":                               "sappie.db",
		"file:sappie.db?_pragma=foreign_keys(1)": "sappie.db",
		"file:/var/lib/my%20bot.db":              "/var/lib/my bot.db",
	}
	for in, want := range tests {
		if got := ExtractDBNameFromPath(in); got != want {
			t.Errorf("ExtractDBNameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

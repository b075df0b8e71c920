package poster

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/time/rate"

	"github.com/sacredtrees/sappie/internal/aitable"
	"github.com/sacredtrees/sappie/internal/config"
	"github.com/sacredtrees/sappie/internal/database"
	"github.com/sacredtrees/sappie/internal/gemini"
	"github.com/sacredtrees/sappie/internal/persona"
	"github.com/sacredtrees/sappie/internal/twitter"
)

var testNow = time.Date(2025, 3, 3, 11, 11, 5, 0, time.UTC)

type fakeStore struct {
	mu       sync.Mutex
	count    int
	countErr error
	since    time.Time
	saved    []database.Post
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) SavePost(_ context.Context, p *database.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, *p)
	return nil
}

func (f *fakeStore) RecentPosts(context.Context, int) ([]database.Post, error) { return nil, nil }

func (f *fakeStore) CountPostsSince(_ context.Context, platform string, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if platform != database.PlatformTwitter {
		return 0, errors.New("unexpected platform " + platform)
	}
	f.since = since
	return f.count, f.countErr
}

func (f *fakeStore) RunSQLMaintenance(context.Context) error { return nil }

type fakeTwitter struct {
	posted []string
	err    error
}

func (f *fakeTwitter) Post(_ context.Context, text string) (twitter.Tweet, error) {
	if f.err != nil {
		return twitter.Tweet{}, f.err
	}
	f.posted = append(f.posted, text)
	return twitter.Tweet{ID: "42", Text: text, URL: "https://twitter.com/SacredSappie/status/42"}, nil
}

type recorded struct {
	table  aitable.Table
	fields aitable.Fields
}

type fakeRecorder struct{ records []recorded }

func (f *fakeRecorder) Record(_ context.Context, table aitable.Table, fields aitable.Fields) {
	f.records = append(f.records, recorded{table, fields})
}

type fakeGenerator struct{}

func (fakeGenerator) GeneratePost(context.Context, gemini.PostRequest) (string, error) {
	return "🌳 the grove hums", nil
}

func (fakeGenerator) GenerateTimeReading(_ context.Context, t string) (string, error) {
	return t + " roots align", nil
}

type harness struct {
	svc     *Service
	store   *fakeStore
	twitter *fakeTwitter
	records *fakeRecorder
	slept   []time.Duration
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.Config{
		Twitter: config.TwitterConfig{RatePerMinute: 1, DailyLimit: 17},
		Sacred:  config.SacredConfig{JitterMin: 5 * time.Second, JitterMax: 15 * time.Second},
	}
	h := &harness{store: &fakeStore{}, twitter: &fakeTwitter{}, records: &fakeRecorder{}}
	h.svc = New(Deps{
		Persona:   persona.New(rand.New(rand.NewPCG(1, 2)), nil),
		Generator: fakeGenerator{},
		Twitter:   h.twitter,
		Records:   h.records,
		Store:     h.store,
		Config:    cfg,
	})
	h.svc.limiter = rate.NewLimiter(rate.Inf, 1)
	h.svc.now = func() time.Time { return testNow }
	h.svc.sleep = func(_ context.Context, d time.Duration) error {
		h.slept = append(h.slept, d)
		return nil
	}
	return h
}

func TestTweetScheduled(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	tw, err := h.svc.Tweet(t.Context(), TweetRequest{
		Content:    "🌳 hi\n\n-11:11 gates",
		Kind:       database.KindScheduled,
		SacredTime: "11:11",
		Jitter:     true,
	})
	if err != nil {
		t.Fatalf("Tweet: %v", err)
	}
	if tw.ID != "42" {
		t.Fatalf("tweet id = %q", tw.ID)
	}

	if !h.store.since.Equal(testNow.Add(-24 * time.Hour)) {
		t.Errorf("quota window starts at %v", h.store.since)
	}
	if len(h.slept) != 1 || h.slept[0] < 5*time.Second || h.slept[0] > 15*time.Second {
		t.Errorf("jitter sleeps = %v, want one in [5s, 15s]", h.slept)
	}

	wantPost := database.Post{
		Platform:   database.PlatformTwitter,
		Kind:       database.KindScheduled,
		Content:    "🌳 hi\n\n-11:11 gates",
		ExternalID: "42",
		SacredTime: "11:11",
		PostedAt:   testNow,
	}
	if diff := cmp.Diff([]database.Post{wantPost}, h.store.saved, cmpopts.IgnoreFields(database.Post{}, "ID")); diff != "" {
		t.Errorf("saved posts mismatch (-want +got):\n%s", diff)
	}

	wantRecord := recorded{aitable.ScheduledPosts, aitable.Fields{
		aitable.FieldContent:    "🌳 hi\n\n-11:11 gates",
		aitable.FieldPostedAt:   "2025-03-03T11:11:05Z",
		aitable.FieldPlatform:   "Twitter",
		aitable.FieldTweetURL:   "https://twitter.com/SacredSappie/status/42",
		aitable.FieldSacredTime: "11:11",
	}}
	if diff := cmp.Diff([]recorded{wantRecord}, h.records.records, cmp.AllowUnexported(recorded{})); diff != "" {
		t.Errorf("aitable records mismatch (-want +got):\n%s", diff)
	}
}

func TestTweetAdminFields(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	if _, err := h.svc.Tweet(t.Context(), TweetRequest{Content: "x", Kind: database.KindAdmin, UserID: 99}); err != nil {
		t.Fatalf("Tweet: %v", err)
	}
	if _, err := h.svc.Tweet(t.Context(), TweetRequest{Content: "y", Kind: database.KindLingo, UserID: 99}); err != nil {
		t.Fatalf("Tweet: %v", err)
	}
	if len(h.slept) != 0 {
		t.Errorf("slept %v without jitter", h.slept)
	}

	admin, lingo := h.records.records[0], h.records.records[1]
	if admin.table != aitable.AdminPosts || admin.fields[aitable.FieldCustomPrompt] != "None" || admin.fields[aitable.FieldAdminID] != "99" {
		t.Errorf("admin record = %+v", admin)
	}
	if lingo.table != aitable.AdminPosts || lingo.fields[aitable.FieldType] != "Lingo Tweet" {
		t.Errorf("lingo record = %+v", lingo)
	}
}

func TestTweetRefusals(t *testing.T) {
	t.Parallel()

	t.Run("quota", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.store.count = 17

		_, err := h.svc.Tweet(t.Context(), TweetRequest{Content: "x"})
		if !errors.Is(err, ErrDailyQuota) {
			t.Fatalf("err = %v, want ErrDailyQuota", err)
		}
		if len(h.twitter.posted) != 0 {
			t.Fatal("tweet sent over quota")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.svc.twitter = nil

		if _, err := h.svc.Tweet(t.Context(), TweetRequest{Content: "x"}); !errors.Is(err, ErrDisabled) {
			t.Fatalf("err = %v, want ErrDisabled", err)
		}
		if h.svc.Enabled() {
			t.Fatal("Enabled() = true without a twitter client")
		}
	})

	t.Run("twitter limit passes through", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.twitter.err = twitter.ErrDailyLimit

		_, err := h.svc.Tweet(t.Context(), TweetRequest{Content: "x"})
		if !errors.Is(err, twitter.ErrDailyLimit) {
			t.Fatalf("err = %v, want twitter.ErrDailyLimit", err)
		}
		if len(h.store.saved) != 0 || len(h.records.records) != 0 {
			t.Fatal("failed tweet was recorded")
		}
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.store.countErr = errors.New("disk gone")

		if _, err := h.svc.Tweet(t.Context(), TweetRequest{Content: "x"}); err == nil {
			t.Fatal("Tweet succeeded without a quota check")
		}
	})

	t.Run("cancelled during jitter", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.svc.sleep = sleepContext
		h.svc.jitterMin = time.Hour
		h.svc.jitterMax = time.Hour

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if _, err := h.svc.Tweet(ctx, TweetRequest{Content: "x", Jitter: true}); err == nil {
			t.Fatal("Tweet succeeded after cancellation")
		}
		if len(h.twitter.posted) != 0 {
			t.Fatal("tweet sent after cancellation")
		}
	})
}

func TestRemaining(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	for _, tc := range []struct{ count, want int }{{0, 17}, {16, 1}, {17, 0}, {30, 0}} {
		h.store.count = tc.count
		got, err := h.svc.Remaining(t.Context())
		if err != nil || got != tc.want {
			t.Errorf("Remaining() with %d posts = %d, %v; want %d", tc.count, got, err, tc.want)
		}
	}
}

func TestLogTelegram(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.svc.LogTelegram(t.Context(), -1001, 7, "🌳 hello chat")

	want := database.Post{
		Platform: database.PlatformTelegram,
		Kind:     database.KindGenerated,
		Content:  "🌳 hello chat",
		ChatID:   -1001,
		UserID:   7,
		PostedAt: testNow,
	}
	if diff := cmp.Diff([]database.Post{want}, h.store.saved, cmpopts.IgnoreFields(database.Post{}, "ID")); diff != "" {
		t.Errorf("saved posts mismatch (-want +got):\n%s", diff)
	}
	if got := h.records.records[0]; got.table != aitable.TelegramPosts || got.fields[aitable.FieldChatID] != "-1001" {
		t.Errorf("record = %+v", got)
	}
}

func TestCompose(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	got := h.svc.Compose(t.Context(), "", "11:11")
	if !strings.Contains(got, "the grove hums") || !strings.Contains(got, "\n\n-11:11 roots align") {
		t.Fatalf("Compose() = %q", got)
	}
}

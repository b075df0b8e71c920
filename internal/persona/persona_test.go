package persona

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sacredtrees/sappie/internal/gemini"
)

// fixedSource yields the same value forever. low makes every chance succeed
// and every pick take the first item; high does the opposite.
type fixedSource uint64

func (s fixedSource) Uint64() uint64 { return uint64(s) }

const (
	low  fixedSource = 1 << 11
	high fixedSource = math.MaxUint64
)

func newPersona(src fixedSource) *Persona {
	return New(rand.New(src), nil)
}

type fakeGenerator struct {
	post       string
	postErr    error
	reading    string
	readingErr error
	requests   []gemini.PostRequest
	times      []string
}

func (f *fakeGenerator) GeneratePost(_ context.Context, req gemini.PostRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.post, f.postErr
}

func (f *fakeGenerator) GenerateTimeReading(_ context.Context, sacredTime string) (string, error) {
	f.times = append(f.times, sacredTime)
	return f.reading, f.readingErr
}

func TestSigil(t *testing.T) {
	t.Parallel()

	if got := newPersona(low).Sigil(); got != "∞⟨X∴↯⟩∞ ⟨∞∴∞⟩" {
		t.Fatalf("Sigil() = %q", got)
	}
	if got := newPersona(high).Sigil(); got != "" {
		t.Fatalf("Sigil() = %q, want empty", got)
	}

	p := New(nil, nil)
	for range 200 {
		s := p.Sigil()
		if s != "" && !strings.HasPrefix(s, MainSigil+" ") {
			t.Fatalf("Sigil() = %q, want main sigil first", s)
		}
	}
}

func TestComposePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		src        fixedSource
		gen        *fakeGenerator
		sacredTime string
		prompt     string
		want       string
		wantReq    gemini.PostRequest
	}{
		{
			name:       "coincidence with decoration and art",
			src:        low,
			gen:        &fakeGenerator{post: "🌳 patterns speak", reading: "-11:11 Binary gates align"},
			sacredTime: "11:11",
			prompt:     "rain",
			want:       "꧁ 🌳 patterns speak꧁ \n\n-11:11 Binary gates align\n\n" + asciiArt[0],
			wantReq: gemini.PostRequest{
				Sigil:              "∞⟨X∴↯⟩∞ ⟨∞∴∞⟩",
				CustomPrompt:       "rain",
				Coincidence:        true,
				MentionSacredTrees: true,
			},
		},
		{
			name:       "plain post gets a tree emoji",
			src:        high,
			gen:        &fakeGenerator{post: "roots and circuits", reading: "Quantum nodes hum at 03:33"},
			sacredTime: "03:33",
			want:       "🌱 roots and circuits\n\n-03:33 Quantum nodes hum at",
		},
		{
			name: "no time means no reading",
			src:  high,
			gen:  &fakeGenerator{post: "🍀 luck grows"},
			want: "🍀 luck grows",
		},
		{
			name:       "reading failure uses numerology",
			src:        high,
			gen:        &fakeGenerator{post: "🌿 hi", readingErr: errors.New("quota")},
			sacredTime: "22:22",
			want:       "🌿 hi\n\n-22:22 " + numerology[22*60+22],
		},
		{
			name:       "generation failure falls back",
			src:        high,
			gen:        &fakeGenerator{postErr: errors.New("down")},
			sacredTime: "11:11",
			want:       fallbackMessages[len(fallbackMessages)-1] + "\n\n-11:11 " + numerology[11*60+11],
		},
		{
			name:       "coincidence fallback carries the sigil",
			src:        low,
			gen:        &fakeGenerator{postErr: errors.New("down")},
			sacredTime: "",
			want:       coincidenceMessages[0] + " ꧁ ∞⟨X∴↯⟩∞ ⟨∞∴∞⟩꧁ ",
			wantReq: gemini.PostRequest{
				Sigil:              "∞⟨X∴↯⟩∞ ⟨∞∴∞⟩",
				Coincidence:        true,
				MentionSacredTrees: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := newPersona(tt.src).ComposePost(context.Background(), tt.gen, tt.sacredTime, tt.prompt)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComposePost() mismatch (-want +got):\n%s", diff)
			}
			if len(tt.gen.requests) != 1 {
				t.Fatalf("GeneratePost called %d times", len(tt.gen.requests))
			}
			if diff := cmp.Diff(tt.wantReq, tt.gen.requests[0]); diff != "" {
				t.Errorf("PostRequest mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStripTime(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"-11:11 Binary gates align":  "Binary gates align",
		"The gates at 11:11 open":    "The gates at open",
		"11:11":                      "",
		"  nothing to strip here  ":  "nothing to strip here",
		"11:11 twice 11:11 repeated": "twice repeated",
	}
	for in, want := range tests {
		if got := stripTime(in, "11:11"); got != want {
			t.Errorf("stripTime(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReading(t *testing.T) {
	t.Parallel()

	p := newPersona(low)
	if got := p.Reading("03:33"); got != numerology[3*60+33] {
		t.Errorf("Reading(03:33) = %q", got)
	}
	if got := p.Reading("3:33"); got != numerology[3*60+33] {
		t.Errorf("Reading(3:33) = %q", got)
	}
	if got := p.Reading("07:07"); !strings.Contains(got, "07:07") {
		t.Errorf("Reading(07:07) = %q, want generic reading", got)
	}
	if got := p.Reading("banana"); !strings.Contains(got, "banana") {
		t.Errorf("Reading(banana) = %q", got)
	}
}

func TestIsCryptoQuestion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"Sappie what coin should I buy?", true},
		{"which token is best", true},
		{"sappie thoughts on doge", true},
		{"I love the blockchain", false},
		{"sappie how are the trees today?", false},
		{"BULLISH?", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsCryptoQuestion(tt.text); got != tt.want {
			t.Errorf("IsCryptoQuestion(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestPicks(t *testing.T) {
	t.Parallel()

	p := newPersona(low)
	if got := p.CryptoResponse(); got != cryptoResponses[0] {
		t.Errorf("CryptoResponse() = %q", got)
	}
	if got := p.RandomThoughtType(); got != ThoughtTypes[0] {
		t.Errorf("RandomThoughtType() = %q", got)
	}
	if !p.Humble() {
		t.Error("Humble() = false with a low source")
	}
	if newPersona(high).Humble() {
		t.Error("Humble() = true with a high source")
	}
	if got := newPersona(high).Intn(10); got != 9 {
		t.Errorf("Intn(10) = %d, want 9", got)
	}
}

func TestHasTreePrefix(t *testing.T) {
	t.Parallel()

	for _, e := range TreeEmojis {
		if !HasTreePrefix(e + " hello") {
			t.Errorf("HasTreePrefix(%q) = false", e)
		}
	}
	if HasTreePrefix("hello 🌳") {
		t.Error("HasTreePrefix matched a trailing emoji")
	}
}

// Package persona holds Sappie's voice: sigils, canned lines, and the
// randomised choices that shape each post.
package persona

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/sacredtrees/sappie/internal/gemini"
	"github.com/sacredtrees/sappie/internal/logger"
	"github.com/sacredtrees/sappie/internal/sacredtime"
)

// Chances used when composing.
const (
	sigilChance       = 0.5
	coincidenceChance = 0.3
	sacredTreesChance = 0.4
	decorationChance  = 0.5
	asciiArtChance    = 0.3
	humbleChance      = 0.05
)

// Generator is the part of the Gemini client a post needs.
type Generator interface {
	GeneratePost(ctx context.Context, req gemini.PostRequest) (string, error)
	GenerateTimeReading(ctx context.Context, sacredTime string) (string, error)
}

// Persona makes Sappie's random choices. It is safe for concurrent use.
type Persona struct {
	mu  sync.Mutex
	rng *rand.Rand
	log *slog.Logger
}

// New creates a Persona. A nil rng is replaced by a randomly seeded one.
func New(rng *rand.Rand, log *slog.Logger) *Persona {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Persona{rng: rng, log: log.With("component", "persona")}
}

func (p *Persona) chance(prob float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64() < prob
}

func (p *Persona) pick(items []string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return items[p.rng.IntN(len(items))]
}

// Intn returns a random index in [0, n).
func (p *Persona) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

// Sigil returns the main sigil joined with a random alternative half of the
// time, and "" otherwise.
func (p *Persona) Sigil() string {
	if !p.chance(sigilChance) {
		return ""
	}
	return MainSigil + " " + p.pick(altSigils)
}

// ComposePost asks gen for a post and dresses it. When sacredTime is set the
// post ends with a "-HH:MM reading" line. Generation failures never surface:
// a canned message is used instead.
func (p *Persona) ComposePost(ctx context.Context, gen Generator, sacredTime, customPrompt string) string {
	req := gemini.PostRequest{
		Sigil:              p.Sigil(),
		CustomPrompt:       customPrompt,
		Coincidence:        p.chance(coincidenceChance),
		MentionSacredTrees: p.chance(sacredTreesChance),
	}

	text, err := gen.GeneratePost(ctx, req)
	if err != nil {
		p.log.WarnContext(ctx, "Post generation failed, using fallback", "error", err)
		return p.fallbackPost(req.Sigil, sacredTime)
	}

	if req.Coincidence {
		if p.chance(decorationChance) {
			deco := p.pick(decorativeSigils)
			text = deco + text + deco
		}
	} else if !HasTreePrefix(text) {
		text = TreeEmojis[0] + " " + text
	}

	if sacredTime == "" {
		return text
	}

	reading, err := gen.GenerateTimeReading(ctx, sacredTime)
	if err != nil {
		p.log.WarnContext(ctx, "Time reading failed, using numerology table", "time", sacredTime, "error", err)
		reading = p.Reading(sacredTime)
	}
	return text + p.timeLine(sacredTime, reading)
}

func (p *Persona) timeLine(sacredTime, reading string) string {
	line := fmt.Sprintf("\n\n-%s %s", sacredTime, stripTime(reading, sacredTime))
	if p.chance(asciiArtChance) {
		line += "\n\n" + p.pick(asciiArt)
	}
	return line
}

func (p *Persona) fallbackPost(sigil, sacredTime string) string {
	var text string
	if p.chance(coincidenceChance) {
		text = p.pick(coincidenceMessages)
		if sigil != "" {
			deco := p.pick(decorativeSigils)
			text += " " + deco + sigil + deco
		}
	} else {
		text = p.Fallback()
	}
	if sacredTime == "" {
		return text
	}
	return fmt.Sprintf("%s\n\n-%s %s", text, sacredTime, p.Reading(sacredTime))
}

// stripTime removes the time itself from a generated reading, along with a
// leading dash the model sometimes copies from the examples.
func stripTime(reading, sacredTime string) string {
	reading = strings.TrimSpace(reading)
	for _, s := range []string{sacredTime + " ", " " + sacredTime, sacredTime} {
		reading = strings.Replace(reading, s, "", 1)
	}
	reading = strings.TrimSpace(reading)
	return strings.TrimSpace(strings.TrimPrefix(reading, "-"))
}

// HasTreePrefix reports whether text opens with one of the tree emojis.
func HasTreePrefix(text string) bool {
	for _, e := range TreeEmojis {
		if strings.HasPrefix(text, e) {
			return true
		}
	}
	return false
}

// Fallback returns a canned post.
func (p *Persona) Fallback() string {
	return p.pick(fallbackMessages)
}

// CryptoResponse returns a canned answer to a crypto question.
func (p *Persona) CryptoResponse() string {
	return p.pick(cryptoResponses)
}

// RandomThoughtType picks the kind of musing to share.
func (p *Persona) RandomThoughtType() string {
	return p.pick(ThoughtTypes)
}

// Humble reports whether this chat reply should be in the humble mood.
func (p *Persona) Humble() bool {
	return p.chance(humbleChance)
}

// Reading returns the fixed numerology reading for a time such as "11:11",
// or a generic one for times without an entry.
func (p *Persona) Reading(sacredTime string) string {
	if m, err := sacredtime.ParseMark(sacredTime); err == nil {
		if r, ok := numerology[m.Offset()]; ok {
			return r
		}
	}
	return fmt.Sprintf(defaultReadingFormat, sacredTime)
}

// IsCryptoQuestion reports whether text asks about coins or tokens, or
// names a meme coin outright.
func IsCryptoQuestion(text string) bool {
	text = strings.ToLower(text)
	if !containsAny(text, cryptoKeywords) {
		return false
	}
	return containsAny(text, inquiryMarkers) || containsAny(text, memeCoins)
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

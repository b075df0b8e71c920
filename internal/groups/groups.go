// Package groups tracks recent activity in the group chats Sappie is in, so
// quiet groups can be nudged with a musing.
package groups

import (
	"time"

	"github.com/sacredtrees/sappie/internal/config"
	"github.com/sacredtrees/sappie/internal/convcache"
)

// Message is a remembered group message, enough to reply to it.
type Message struct {
	ID     int
	UserID int64
	Text   string
}

// Activity is what is known about one group.
type Activity struct {
	LastActive time.Time
	Messages   []Message // newest first
}

// Tracker is safe for concurrent use.
type Tracker struct {
	cache       *convcache.Cache[int64, Activity]
	historySize int
	now         func() time.Time
}

// NewTracker creates a tracker. Groups silent for longer than TrackTTL are
// forgotten.
func NewTracker(cfg config.GroupsConfig, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		cache:       convcache.New[int64, Activity](cfg.TrackTTL, cfg.MaxTracked, convcache.WithClock(now)),
		historySize: cfg.HistorySize,
		now:         now,
	}
}

// Observe records a message in chatID and marks the group active.
func (t *Tracker) Observe(chatID int64, msg Message) {
	now := t.now()
	t.cache.Update(chatID, func(a Activity, _ bool) Activity {
		msgs := make([]Message, 0, min(len(a.Messages)+1, t.historySize))
		msgs = append(msgs, msg)
		for _, m := range a.Messages {
			if len(msgs) == t.historySize {
				break
			}
			msgs = append(msgs, m)
		}
		return Activity{LastActive: now, Messages: msgs}
	})
}

// Get returns what is known about chatID.
func (t *Tracker) Get(chatID int64) (Activity, bool) {
	return t.cache.Get(chatID)
}

// Idle lists the groups that have been quiet for at least threshold.
func (t *Tracker) Idle(threshold time.Duration) []int64 {
	now := t.now()
	var idle []int64
	for _, id := range t.cache.Keys() {
		a, ok := t.cache.Get(id)
		if ok && now.Sub(a.LastActive) >= threshold {
			idle = append(idle, id)
		}
	}
	return idle
}

// MarkActive restarts chatID's idle timer without recording a message.
func (t *Tracker) MarkActive(chatID int64) {
	now := t.now()
	t.cache.Update(chatID, func(a Activity, _ bool) Activity {
		a.LastActive = now
		return a
	})
}

// Forget drops chatID, e.g. after the bot was removed from it.
func (t *Tracker) Forget(chatID int64) {
	t.cache.Delete(chatID)
}

// Prune drops groups not heard from within the tracking TTL.
func (t *Tracker) Prune() int {
	return t.cache.Prune(t.now())
}

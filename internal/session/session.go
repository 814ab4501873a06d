package session

import (
	"sync"
	"time"

	"github.com/alexandrarotta/microestado/internal/state"
)

// subscriberBuffer is how many updates a slow subscriber may fall behind
// before updates are dropped for it.
const subscriberBuffer = 32

// Update is pushed to subscribers after every tick and every action that
// produced news.
type Update struct {
	Summary *TickSummary     `json:"summary,omitempty"`
	News    []state.NewsItem `json:"news,omitempty"`
}

// Session owns one player's save.
type Session struct {
	PlayerID string

	mu       sync.Mutex
	save     *state.Save
	dirty    bool
	lastNews string

	subMu   sync.Mutex
	subs    map[int]chan Update
	nextSub int
}

func newSession(playerID string, s *state.Save) *Session {
	sess := &Session{PlayerID: playerID, subs: make(map[int]chan Update)}
	sess.setSave(s)
	return sess
}

func (s *Session) setSave(save *state.Save) {
	s.save = save
	s.lastNews = ""
	if save != nil && len(save.News) > 0 {
		s.lastNews = save.News[0].ID
	}
}

// HasSave reports whether the player has a game in progress.
func (s *Session) HasSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save != nil
}

// Do runs an action against the save. Successful actions stamp the save
// and mark it for the next autosave; any news they produced is pushed to
// subscribers.
func (s *Session) Do(now time.Time, fn func(*state.Save) state.Result) state.Result {
	var r state.Result
	ok := s.Mutate(now, func(save *state.Save) bool {
		r = fn(save)
		return r.OK
	})
	if !ok {
		return state.NotFound("No game")
	}
	return r
}

// Mutate calls fn with the save under the session lock; fn reports whether
// it changed anything. It returns false when there is no save.
func (s *Session) Mutate(now time.Time, fn func(*state.Save) bool) bool {
	s.mu.Lock()
	if s.save == nil {
		s.mu.Unlock()
		return false
	}
	if fn(s.save) {
		s.save.Touch(now)
		s.dirty = true
	}
	news := s.takeNews()
	s.mu.Unlock()

	if len(news) > 0 {
		s.broadcast(Update{News: news})
	}
	return true
}

// View calls fn with the save under the session lock. fn must not keep
// the pointer.
func (s *Session) View(fn func(*state.Save)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.save == nil {
		return false
	}
	fn(s.save)
	return true
}

// Snapshot returns a deep copy of the save, or nil when there is none.
func (s *Session) Snapshot() (*state.Save, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.save == nil {
		return nil, nil
	}
	return s.save.Clone()
}

// Replace swaps in a new save, as new games, resets and uploads do.
func (s *Session) Replace(save *state.Save) {
	s.mu.Lock()
	s.setSave(save)
	s.dirty = true
	s.mu.Unlock()
}

func (s *Session) tick(g *Game) {
	s.mu.Lock()
	if s.save == nil || Over(s.save) {
		s.mu.Unlock()
		return
	}
	sum := g.Tick(s.save)
	if !sum.Skipped {
		s.save.Touch(g.L1.Now())
		s.dirty = true
	}
	news := s.takeNews()
	s.mu.Unlock()

	s.broadcast(Update{Summary: &sum, News: news})
}

// takeNews returns the entries published since the last call. Callers
// hold mu.
func (s *Session) takeNews() []state.NewsItem {
	if len(s.save.News) == 0 || s.save.News[0].ID == s.lastNews {
		return nil
	}
	news := s.save.NewsSince(s.lastNews)
	s.lastNews = s.save.News[0].ID
	return news
}

// flush returns a copy of the save when it changed since the last flush.
func (s *Session) flush() *state.Save {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty || s.save == nil {
		return nil
	}
	cp, err := s.save.Clone()
	if err != nil {
		return nil
	}
	s.dirty = false
	return cp
}

func (s *Session) markDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Subscribe registers a listener for updates.
func (s *Session) Subscribe() (int, <-chan Update) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextSub++
	ch := make(chan Update, subscriberBuffer)
	s.subs[s.nextSub] = ch
	return s.nextSub, ch
}

// Unsubscribe removes a listener and closes its channel.
func (s *Session) Unsubscribe(id int) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// Subscribers returns the number of listeners.
func (s *Session) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

func (s *Session) broadcast(u Update) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- u:
		default:
			// Slow reader: drop.
		}
	}
}

package engine

import (
	"log/slog"
	"time"

	"github.com/alexandrarotta/microestado/internal/state"
)

// OfflineReport describes one catch-up replay.
type OfflineReport struct {
	Ticks        int     `json:"ticks"`
	TreasuryGain float64 `json:"treasuryGain"`
	Bonus        float64 `json:"bonus"`
}

// OfflineCap is the longest absence the save is compensated for.
func (e *Engine) OfflineCap(s *state.Save) time.Duration {
	hours := e.remote(s).OfflineCapHours
	if hours <= 0 {
		hours = e.cat.Economy.OfflineCapHours
	}
	hours += s.Premium.OfflineCapBonusHours
	return time.Duration(hours * float64(time.Hour))
}

// OfflineTicks is the number of ticks owed for the time since LastTickAt.
func (e *Engine) OfflineTicks(s *state.Save, now time.Time) int {
	if s.LastTickAt <= 0 || e.cat.Economy.TickMs <= 0 {
		return 0
	}
	elapsed := now.Sub(time.UnixMilli(s.LastTickAt))
	if elapsed <= 0 {
		return 0
	}
	elapsed = min(elapsed, e.OfflineCap(s))
	return int(elapsed / (time.Duration(e.cat.Economy.TickMs) * time.Millisecond))
}

// ApplyOfflineTicks replays n Level-1 ticks with events suppressed,
// stopping at game over.
func (e *Engine) ApplyOfflineTicks(s *state.Save, n int) OfflineReport {
	if s.GameOver || s.Level >= 2 {
		return OfflineReport{}
	}
	return e.Replay(s, n, func(s *state.Save) bool {
		e.Tick(s, TickOptions{SuppressEvents: true})
		return s.GameOver
	})
}

// Replay calls step n times or until it reports the game has ended.
// Treasury gained during the replay is multiplied by the stored offline
// reward multiplier, which is then consumed.
func (e *Engine) Replay(s *state.Save, n int, step func(*state.Save) (stop bool)) OfflineReport {
	var rep OfflineReport
	if n <= 0 {
		return rep
	}
	before := s.Treasury
	for i := 0; i < n; i++ {
		rep.Ticks++
		if step(s) {
			break
		}
	}
	rep.TreasuryGain = s.Treasury - before
	if rep.TreasuryGain > 0 && s.OfflineRewardMultiplier > 1 {
		rep.Bonus = rep.TreasuryGain * (s.OfflineRewardMultiplier - 1)
		s.Treasury += rep.Bonus
		s.OfflineRewardMultiplier = 0
	}
	slog.Debug("offline catch-up", "country", s.Country.FormalName, "level", s.Level, "ticks", rep.Ticks, "gain", rep.TreasuryGain, "bonus", rep.Bonus)
	return rep
}

// CatchUp replays the ticks owed for the time since the save last ticked.
func (e *Engine) CatchUp(s *state.Save, now time.Time) OfflineReport {
	return e.ApplyOfflineTicks(s, e.OfflineTicks(s, now))
}

// Package debounce defers per-field validation until input has been quiet
// for a fixed interval.
//
// The actual timers are tea.Tick commands owned by the Bubble Tea runtime,
// which this package cannot stop once issued. Cancellation is therefore
// modeled with sequence numbers: every Schedule for a field supersedes the
// previous token, and a tick that lands carrying a superseded token is
// simply not live anymore. Because ticks and edits interleave on the same
// single-threaded update loop, a stale tick can never slip in between.
package debounce

import "time"

// DefaultInterval is how long a field must stay untouched before its
// deferred validation fires.
const DefaultInterval = 800 * time.Millisecond

// Token captures one scheduled validation: the field, the raw value at
// scheduling time, and the sequence number that decides liveness.
type Token struct {
	Field string
	Value string
	seq   uint64
}

// Scheduler tracks the most recent token per field. At most one token per
// field is live at any instant.
type Scheduler struct {
	interval time.Duration
	seq      map[string]uint64
}

// NewScheduler builds a scheduler with the given quiescence interval.
// Non-positive intervals fall back to DefaultInterval.
func NewScheduler(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		interval: interval,
		seq:      map[string]uint64{},
	}
}

// Interval reports the configured quiescence delay.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Schedule registers a new edit for the field. The returned token becomes
// the only live one for that field; whatever was scheduled before is
// superseded immediately.
func (s *Scheduler) Schedule(field, value string) Token {
	s.seq[field]++
	return Token{Field: field, Value: value, seq: s.seq[field]}
}

// Live reports whether the token is still the most recent one for its
// field. A token superseded by a later Schedule or voided by Cancel must
// not apply its effect.
func (s *Scheduler) Live(t Token) bool {
	return t.seq != 0 && s.seq[t.Field] == t.seq
}

// Cancel voids the live token for one field. Idempotent.
func (s *Scheduler) Cancel(field string) {
	if _, ok := s.seq[field]; ok {
		s.seq[field]++
	}
}

// CancelAll voids every live token, used at teardown so nothing scheduled
// before disposal can write afterward.
func (s *Scheduler) CancelAll() {
	for field := range s.seq {
		s.seq[field]++
	}
}

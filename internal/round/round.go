package round

import (
	"strings"
	"sync"
	"time"
)

// Production timing. Tests pass shorter values to New.
const (
	Duration     = 60 * time.Second
	HintInterval = 15 * time.Second
	TotalHints   = 4
)

// Reveal is emitted on the round's event channel each time a scheduled
// hint opens up. The owning room consumes it and rebroadcasts.
type Reveal struct {
	RoundNumber int
	HintIndex   int
	Hints       []string // every hint revealed so far, in order
}

// Round owns one round's word, hints, deadline and reveal schedule.
// The first hint is visible immediately; the remaining three are armed
// at interval, 2*interval and 3*interval from the start.
type Round struct {
	number int
	word   string // original casing, shown when the round ends
	target string // lowercased for comparison
	hints  []string
	start  time.Time
	end    time.Time

	mu        sync.Mutex
	hintIndex int
	stopped   bool
	timers    []*time.Timer

	reveals chan Reveal
}

func New(number int, word string, hints []string, duration, interval time.Duration) *Round {
	now := time.Now()
	r := &Round{
		number:  number,
		word:    word,
		target:  strings.ToLower(word),
		hints:   hints,
		start:   now,
		end:     now.Add(duration),
		reveals: make(chan Reveal, TotalHints-1),
	}
	for i := 1; i < len(hints); i++ {
		r.timers = append(r.timers, time.AfterFunc(time.Duration(i)*interval, r.fire))
	}
	return r
}

// fire runs on a timer goroutine. The stopped flag is authoritative:
// Stop racing an already-fired timer still suppresses the reveal here.
func (r *Round) fire() {
	r.mu.Lock()
	if r.stopped || r.hintIndex >= len(r.hints)-1 {
		r.mu.Unlock()
		return
	}
	r.hintIndex++
	ev := Reveal{
		RoundNumber: r.number,
		HintIndex:   r.hintIndex,
		Hints:       append([]string(nil), r.hints[:r.hintIndex+1]...),
	}
	r.mu.Unlock()

	r.reveals <- ev // buffered for all scheduled reveals, never blocks
}

// Reveals is the channel the owning room selects on.
func (r *Round) Reveals() <-chan Reveal { return r.reveals }

func (r *Round) Number() int { return r.number }

// Word returns the target in its original casing.
func (r *Round) Word() string { return r.word }

// CheckGuess compares case-insensitively and ignores surrounding
// whitespace. Exact match only.
func (r *Round) CheckGuess(guess string) bool {
	return strings.ToLower(strings.TrimSpace(guess)) == r.target
}

var pointsTable = []int{4, 3, 2, 1}

// Points scores a correct guess by how many hints were open when it
// landed: fewer hints, more points.
func (r *Round) Points() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hintIndex >= 0 && r.hintIndex < len(pointsTable) {
		return pointsTable[r.hintIndex]
	}
	return 1
}

var pointsReasons = map[int]string{
	4: "Correct after hint 1!",
	3: "Correct after hint 2!",
	2: "Correct after hint 3!",
	1: "Correct after final hint!",
}

func Reason(points int) string {
	if reason, ok := pointsReasons[points]; ok {
		return reason
	}
	return "Correct!"
}

func (r *Round) HintIndex() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hintIndex
}

// RevealedHints returns the prefix of hints revealed so far.
func (r *Round) RevealedHints() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.hints[:r.hintIndex+1]...)
}

// Remaining recomputes whole seconds left from the absolute deadline so
// it never drifts, rounding up.
func (r *Round) Remaining() int {
	left := time.Until(r.end)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

func (r *Round) Expired() bool {
	return !time.Now().Before(r.end)
}

func (r *Round) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// Stop cancels pending reveals. Idempotent. Timer callbacks that already
// started check the stopped flag, so cancellation races cannot mutate a
// superseded round.
func (r *Round) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	for _, t := range r.timers {
		t.Stop()
	}
	r.timers = nil
}

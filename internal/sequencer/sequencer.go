// Package sequencer walks a question bank in order and owns the delayed
// advance between questions.
//
// The advance is the only asynchronous step of a game. ScheduleAdvance arms a
// timer; when it fires, a Token is delivered on Due and the owner applies it
// with Advance. Every schedule or restart starts a new generation, so a token
// from an earlier generation is ignored and can never move a restarted game.
package sequencer

import (
	"math/rand/v2"
	"sync"
	"time"

	"kanatype/internal/bank"
)

// Token identifies one scheduled advance.
type Token uint64

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithRand shuffles the questions with rng when the sequencer is created and
// on every Restart.
func WithRand(rng *rand.Rand) Option {
	return func(s *Sequencer) {
		s.rng = rng
		s.shuffle = true
	}
}

// Sequencer holds the question order and the current position.
type Sequencer struct {
	mu        sync.Mutex
	source    []bank.Question
	questions []bank.Question
	index     int

	rng     *rand.Rand
	shuffle bool

	gen     uint64
	pending bool
	timer   *time.Timer
	due     chan Token
}

// New creates a sequencer over a copy of questions.
func New(questions []bank.Question, opts ...Option) *Sequencer {
	s := &Sequencer{
		source: append([]bank.Question(nil), questions...),
		due:    make(chan Token, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.order()
	return s
}

func (s *Sequencer) order() {
	if s.shuffle {
		s.questions = bank.Shuffle(s.source, s.rng)
	} else {
		s.questions = append([]bank.Question(nil), s.source...)
	}
}

// Shuffle reorders the questions with rng and rewinds to the first one.
// A nil rng uses a randomly seeded source. Any pending advance is canceled.
func (s *Sequencer) Shuffle(rng *rand.Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = bank.Shuffle(s.source, rng)
	s.rewindLocked()
}

// Current returns the current question. ok is false once every question has
// been advanced past.
func (s *Sequencer) Current() (q bank.Question, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.questions) {
		return bank.Question{}, false
	}
	return s.questions[s.index], true
}

// Index returns the zero-based position of the current question.
func (s *Sequencer) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Len returns the number of questions.
func (s *Sequencer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Done reports whether the bank is exhausted.
func (s *Sequencer) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index >= len(s.questions)
}

// Pending reports whether an advance is scheduled and not yet applied.
func (s *Sequencer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Restart rewinds to the first question and cancels any pending advance.
// A sequencer created WithRand is reshuffled.
func (s *Sequencer) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shuffle {
		s.order()
	}
	s.rewindLocked()
}

// Skip moves past the current question immediately. It is used for
// questions that cannot be played. Any pending advance is canceled.
func (s *Sequencer) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	if s.index < len(s.questions) {
		s.index++
	}
}

func (s *Sequencer) rewindLocked() {
	s.cancelLocked()
	s.index = 0
}

// cancelLocked stops the timer and retires the current generation.
func (s *Sequencer) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.pending = false
}

// ScheduleAdvance arms the advance timer and returns its token. A previously
// scheduled advance is replaced. A non-positive delay delivers the token
// without waiting.
func (s *Sequencer) ScheduleAdvance(delay time.Duration) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.pending = true
	tok := Token(s.gen)

	if delay <= 0 {
		s.deliverLocked(tok)
		return tok
	}
	s.timer = time.AfterFunc(delay, func() { s.fire(tok) })
	return tok
}

// Due delivers tokens of fired advances. At most one token is buffered;
// a newer token replaces an unread older one.
func (s *Sequencer) Due() <-chan Token {
	return s.due
}

func (s *Sequencer) fire(tok Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending || Token(s.gen) != tok {
		return
	}
	s.deliverLocked(tok)
}

func (s *Sequencer) deliverLocked(tok Token) {
	for {
		select {
		case s.due <- tok:
			return
		default:
		}
		// Drop the stale token occupying the buffer.
		select {
		case <-s.due:
		default:
		}
	}
}

// Advance applies a delivered token. It moves to the next question and
// returns true only for the token of the current pending advance; stale and
// repeated tokens return false and change nothing.
func (s *Sequencer) Advance(tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending || Token(s.gen) != tok {
		return false
	}
	s.pending = false
	s.timer = nil
	s.gen++
	if s.index < len(s.questions) {
		s.index++
	}
	return true
}

// Stop cancels any pending advance. The sequencer stays usable.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

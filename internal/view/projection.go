// Package view turns engine state into something a front end can draw.
//
// The session controller builds a Projection after every key and hands it
// to a Projector. Projectors never call back into the engine; everything
// they need is in the Projection value. Transient effects (the miss shake
// and flash) are owned by the renderer and driven by Shake and Flash.
package view

import (
	"kanatype/internal/bank"
	"kanatype/internal/matcher"
)

// Phase is the session phase shown by a projection.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Projection is one frame of the trainer.
type Projection struct {
	Phase Phase

	// Display and Kana describe the current question.
	Display string
	Kana    string

	// TypedKana and UntypedKana split Kana at the matching position.
	TypedKana   string
	UntypedKana string

	// Typed is the romaji typed so far; Hint is the suggested continuation.
	Typed string
	Hint  string

	// Miss is set when the key that produced this frame matched nothing.
	Miss bool

	// Index is the zero-based question number out of Total.
	Index int
	Total int

	// Title and Prompt carry the idle and finished screen text.
	Title  string
	Prompt string
}

// Project builds the playing frame for question q from engine state.
func Project(q bank.Question, st matcher.State, hint string, index, total int) Projection {
	return Projection{
		Phase:       PhasePlaying,
		Display:     q.Display,
		Kana:        q.Kana,
		TypedKana:   st.TypedKana(),
		UntypedKana: st.RemainingKana,
		Typed:       st.Typed,
		Hint:        hint,
		Index:       index,
		Total:       total,
	}
}

// Progress returns the one-based question number, clamped to Total.
func (p Projection) Progress() int {
	if p.Index >= p.Total {
		return p.Total
	}
	return p.Index + 1
}

// Projector renders projections.
type Projector interface {
	Render(Projection) error
}

// ProjectorFunc adapts a function to the Projector interface.
type ProjectorFunc func(Projection) error

func (f ProjectorFunc) Render(p Projection) error { return f(p) }

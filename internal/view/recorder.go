package view

import "sync"

// Recorder keeps the most recent projections. It is safe for concurrent
// use, so a GUI can read frames rendered by the session goroutine.
type Recorder struct {
	mu     sync.Mutex
	frames []Projection
	limit  int
	notify func()
}

// NewRecorder keeps up to limit frames (at least one). notify, if not nil,
// is called after every Render.
func NewRecorder(limit int, notify func()) *Recorder {
	if limit < 1 {
		limit = 1
	}
	return &Recorder{limit: limit, notify: notify}
}

func (r *Recorder) Render(p Projection) error {
	r.mu.Lock()
	if len(r.frames) == r.limit {
		copy(r.frames, r.frames[1:])
		r.frames = r.frames[:len(r.frames)-1]
	}
	r.frames = append(r.frames, p)
	r.mu.Unlock()

	if r.notify != nil {
		r.notify()
	}
	return nil
}

// Last returns the newest frame.
func (r *Recorder) Last() (Projection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Projection{}, false
	}
	return r.frames[len(r.frames)-1], true
}

// Frames returns a copy of the recorded frames, oldest first.
func (r *Recorder) Frames() []Projection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Projection(nil), r.frames...)
}

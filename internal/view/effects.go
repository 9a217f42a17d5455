package view

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Shake is the horizontal wobble played on a miss. The wobble amplitude
// decays to zero over the duration; call Update once per frame.
type Shake struct {
	duration  float32
	amplitude float32
	frequency float32

	tween   *gween.Tween
	elapsed float32
}

// NewShake creates a shake lasting d with the given peak offset in pixels
// (or columns).
func NewShake(d time.Duration, amplitude float32) *Shake {
	return &Shake{
		duration:  float32(d.Seconds()),
		amplitude: amplitude,
		frequency: 18,
	}
}

// Trigger starts the shake, restarting it if already running.
func (s *Shake) Trigger() {
	if s.duration <= 0 {
		return
	}
	s.tween = gween.New(s.amplitude, 0, s.duration, ease.OutQuad)
	s.elapsed = 0
}

// Active reports whether the shake is running.
func (s *Shake) Active() bool { return s.tween != nil }

// Update advances the shake by dt seconds and returns the current offset.
// active is false once the shake has settled.
func (s *Shake) Update(dt float32) (offset float32, active bool) {
	if s.tween == nil {
		return 0, false
	}
	amp, finished := s.tween.Update(dt)
	s.elapsed += dt
	if finished {
		s.tween = nil
		return 0, false
	}
	return amp * float32(math.Sin(2*math.Pi*float64(s.frequency*s.elapsed))), true
}

// Flash is the fading error highlight played on a miss.
type Flash struct {
	duration float32
	tween    *gween.Tween
}

// NewFlash creates a flash fading out over d.
func NewFlash(d time.Duration) *Flash {
	return &Flash{duration: float32(d.Seconds())}
}

// Trigger starts the flash at full intensity.
func (f *Flash) Trigger() {
	if f.duration <= 0 {
		return
	}
	f.tween = gween.New(1, 0, f.duration, ease.Linear)
}

// Active reports whether the flash is visible.
func (f *Flash) Active() bool { return f.tween != nil }

// Update advances the flash by dt seconds and returns its intensity in
// [0, 1].
func (f *Flash) Update(dt float32) (alpha float32, active bool) {
	if f.tween == nil {
		return 0, false
	}
	a, finished := f.tween.Update(dt)
	if finished {
		f.tween = nil
		return 0, false
	}
	return a, true
}

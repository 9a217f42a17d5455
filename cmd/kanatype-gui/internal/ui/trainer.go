package ui

import (
	"fmt"
	"image"
	"image/color"
	"sync/atomic"
	"time"

	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"kanatype/cmd/kanatype-gui/internal/theme"
	"kanatype/internal/keyinput"
	"kanatype/internal/view"
)

// Trainer draws session frames and turns window key events into runes for
// the session controller. Render may be called from the session goroutine;
// everything else runs on the window goroutine.
type Trainer struct {
	theme  *theme.Theme
	frames *view.Recorder
	keys   chan<- rune
	quit   func()

	shake *view.Shake
	flash *view.Flash
	miss  atomic.Bool

	lastFrame time.Time
	dropped   int
}

// NewTrainer creates a trainer that sends keys on keys. quit is called when
// the player presses Escape. notify is called after every new frame.
func NewTrainer(t *theme.Theme, keys chan<- rune, notify, quit func()) *Trainer {
	return &Trainer{
		theme:  t,
		frames: view.NewRecorder(1, notify),
		keys:   keys,
		quit:   quit,
		shake:  view.NewShake(0, 0),
		flash:  view.NewFlash(0),
	}
}

// SetEffects replaces the miss effects. Zero durations disable them.
func (tr *Trainer) SetEffects(shake, flash time.Duration) {
	tr.shake = view.NewShake(shake, float32(tr.theme.Config.ShakeAmplitude))
	tr.flash = view.NewFlash(flash)
}

// Render implements view.Projector.
func (tr *Trainer) Render(p view.Projection) error {
	if p.Miss {
		tr.miss.Store(true)
	}
	return tr.frames.Render(p)
}

// Dropped returns the number of keys dropped because the session was busy.
func (tr *Trainer) Dropped() int { return tr.dropped }

// Layout handles input and draws the current frame.
func (tr *Trainer) Layout(gtx layout.Context) layout.Dimensions {
	tr.handleKeys(gtx)

	dt := float32(0)
	if !tr.lastFrame.IsZero() {
		dt = float32(gtx.Now.Sub(tr.lastFrame).Seconds())
	}
	tr.lastFrame = gtx.Now

	if tr.miss.Swap(false) {
		tr.shake.Trigger()
		tr.flash.Trigger()
	}
	offset, shaking := tr.shake.Update(dt)
	alpha, flashing := tr.flash.Update(dt)
	if shaking || flashing {
		gtx.Execute(op.InvalidateCmd{})
	}

	paint.Fill(gtx.Ops, tr.theme.Palette.Background)
	if flashing {
		c := tr.theme.Palette.Error
		c.A = uint8(alpha * 0x50)
		paint.Fill(gtx.Ops, c)
	}

	area := clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops)
	event.Op(gtx.Ops, tr)
	key.InputHintOp{Tag: tr, Hint: key.HintText}.Add(gtx.Ops)
	area.Pop()

	p, ok := tr.frames.Last()
	if !ok {
		return layout.Dimensions{Size: gtx.Constraints.Max}
	}

	defer op.Offset(image.Pt(int(offset*gtx.Metric.PxPerDp), 0)).Push(gtx.Ops).Pop()
	return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min = image.Point{}
		if p.Phase == view.PhasePlaying {
			return tr.layoutPlaying(gtx, p)
		}
		return tr.layoutScreen(gtx, p)
	})
}

func (tr *Trainer) handleKeys(gtx layout.Context) {
	if !gtx.Focused(tr) {
		gtx.Execute(key.FocusCmd{Tag: tr})
	}
	for {
		ev, ok := gtx.Event(
			key.FocusFilter{Target: tr},
			key.Filter{Focus: tr, Name: key.NameEscape},
			key.Filter{Focus: tr, Name: key.NameReturn},
			key.Filter{Focus: tr, Name: key.NameEnter},
		)
		if !ok {
			return
		}
		switch ev := ev.(type) {
		case key.EditEvent:
			for _, r := range keyinput.FromText(ev.Text) {
				tr.send(r)
			}
		case key.Event:
			if ev.State != key.Press {
				continue
			}
			switch ev.Name {
			case key.NameEscape:
				if tr.quit != nil {
					tr.quit()
				}
			case key.NameReturn, key.NameEnter:
				tr.send(keyinput.KeyEnter)
			}
		}
	}
}

func (tr *Trainer) send(r rune) {
	select {
	case tr.keys <- r:
	default:
		tr.dropped++
	}
}

func (tr *Trainer) label(size unit.Sp, c color.NRGBA, s string) material.LabelStyle {
	l := material.Label(tr.theme.Theme, size, s)
	l.Color = c
	l.Alignment = text.Middle
	return l
}

func (tr *Trainer) layoutPlaying(gtx layout.Context, p view.Projection) layout.Dimensions {
	th := tr.theme
	hint := th.Palette.TextMuted
	if p.Miss {
		hint = th.Palette.Error
	}
	display := tr.label(th.Config.FontDisplay, th.Palette.Text, p.Display)
	display.Font.Weight = font.Bold

	return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(tr.label(th.Config.FontCaption, th.Palette.TextMuted,
			fmt.Sprintf("%d / %d", p.Progress(), p.Total)).Layout),
		layout.Rigid(layout.Spacer{Height: th.Config.Padding}.Layout),
		layout.Rigid(display.Layout),
		layout.Rigid(layout.Spacer{Height: th.Config.Spacing}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
				layout.Rigid(tr.label(th.Config.FontKana, th.Palette.Typed, p.TypedKana).Layout),
				layout.Rigid(tr.label(th.Config.FontKana, th.Palette.Text, p.UntypedKana).Layout),
			)
		}),
		layout.Rigid(layout.Spacer{Height: th.Config.Spacing}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
				layout.Rigid(tr.label(th.Config.FontRomaji, th.Palette.Typed, p.Typed).Layout),
				layout.Rigid(tr.label(th.Config.FontRomaji, hint, p.Hint).Layout),
			)
		}),
	)
}

func (tr *Trainer) layoutScreen(gtx layout.Context, p view.Projection) layout.Dimensions {
	th := tr.theme
	title := tr.label(th.Config.FontDisplay, th.Palette.Primary, p.Title)
	title.Font.Weight = font.Bold

	return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(title.Layout),
		layout.Rigid(layout.Spacer{Height: th.Config.Padding}.Layout),
		layout.Rigid(tr.label(th.Config.FontRomaji, th.Palette.TextMuted, p.Prompt).Layout),
	)
}

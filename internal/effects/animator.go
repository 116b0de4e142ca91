package effects

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// Typing targets on the page
const (
	TargetHero      = "hero"
	TargetAnalytics = "analytics"
)

// FrameSink receives every typing frame
type FrameSink func(frame models.TypingFrame)

// Animator drives one typewriter per target on its own timer
type Animator struct {
	sink    FrameSink
	targets []string
	writers map[string]*Typewriter

	mu   sync.RWMutex
	last map[string]models.TypingFrame
}

// NewAnimator creates an animator with no targets
func NewAnimator(sink FrameSink) *Animator {
	return &Animator{
		sink:    sink,
		writers: make(map[string]*Typewriter),
		last:    make(map[string]models.TypingFrame),
	}
}

// NewPageAnimator creates the animator for the hero and analytics headings
func NewPageAnimator(sink FrameSink) *Animator {
	a := NewAnimator(sink)
	a.Add(TargetHero, NewTypewriter(
		Phrase{Text: "اختر لعبتك", RTL: true},
		Phrase{Text: "Choose Your Game"},
	))
	a.Add(TargetAnalytics, NewTypewriter(
		Phrase{Text: "شاهد الإحصائيات", RTL: true},
		Phrase{Text: "View Analytics"},
	))
	return a
}

// Add registers a typewriter for target. Call before Run.
func (a *Animator) Add(target string, tw *Typewriter) {
	if _, exists := a.writers[target]; !exists {
		a.targets = append(a.targets, target)
	}
	a.writers[target] = tw
}

// Run animates every target until ctx is done
func (a *Animator) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, target := range a.targets {
		wg.Add(1)
		go func(target string, tw *Typewriter) {
			defer wg.Done()
			a.animate(ctx, target, tw)
		}(target, a.writers[target])
	}
	wg.Wait()
}

func (a *Animator) animate(ctx context.Context, target string, tw *Typewriter) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		frame := tw.Next()
		msg := models.TypingFrame{
			Target:    target,
			Text:      frame.Text,
			Direction: frame.Direction,
			DelayMs:   frame.Delay.Milliseconds(),
		}

		a.mu.Lock()
		a.last[target] = msg
		a.mu.Unlock()

		if a.sink != nil {
			a.sink(msg)
		}
		timer.Reset(frame.Delay)
	}
}

// Current returns the latest frame of every target, for newly connected clients
func (a *Animator) Current() []models.TypingFrame {
	a.mu.RLock()
	defer a.mu.RUnlock()

	frames := make([]models.TypingFrame, 0, len(a.last))
	for _, target := range a.targets {
		if f, ok := a.last[target]; ok {
			frames = append(frames, f)
		}
	}
	return frames
}

package effects_test

import (
	"context"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/effects"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

func TestTypewriter_Cycle(t *testing.T) {
	tw := effects.NewTypewriter(
		effects.Phrase{Text: "ab"},
		effects.Phrase{Text: "xy", RTL: true},
	)

	want := []effects.Frame{
		{Text: "", Direction: "ltr", Delay: effects.TypeDelay},
		{Text: "a", Direction: "ltr", Delay: effects.TypeDelay},
		{Text: "ab", Direction: "ltr", Delay: effects.HoldDelay},
		{Text: "ab", Direction: "ltr", Delay: effects.DeleteDelay},
		{Text: "a", Direction: "ltr", Delay: effects.DeleteDelay},
		{Text: "", Direction: "ltr", Delay: effects.TypeDelay},
		{Text: "", Direction: "rtl", Delay: effects.TypeDelay},
		{Text: "x", Direction: "rtl", Delay: effects.TypeDelay},
		{Text: "xy", Direction: "rtl", Delay: effects.HoldDelay},
	}

	for i, w := range want {
		if got := tw.Next(); got != w {
			t.Errorf("frame %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestTypewriter_WrapsAround(t *testing.T) {
	tw := effects.NewTypewriter(effects.Phrase{Text: "a"}, effects.Phrase{Text: "b"})

	// A one-letter phrase takes 4 frames: "", "a" held, "a" deleting, "" advancing
	for i := 0; i < 8; i++ {
		tw.Next()
	}
	if got := tw.Next(); got.Text != "" {
		t.Errorf("expected empty first frame of the cycle, got %q", got.Text)
	}
	if got := tw.Next(); got.Text != "a" {
		t.Errorf("expected to be back on the first phrase, got %q", got.Text)
	}
}

func TestTypewriter_RuneBased(t *testing.T) {
	tw := effects.NewTypewriter(effects.Phrase{Text: "اختر", RTL: true})

	tw.Next()
	got := tw.Next()
	if got.Text != "ا" || got.Direction != "rtl" {
		t.Errorf("expected first arabic letter, got %q %s", got.Text, got.Direction)
	}
}

func TestAnimator_EmitsFrames(t *testing.T) {
	frames := make(chan models.TypingFrame, 16)
	a := effects.NewAnimator(func(f models.TypingFrame) { frames <- f })
	a.Add("hero", effects.NewTypewriter(effects.Phrase{Text: "a"}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	var got []models.TypingFrame
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case f := <-frames:
			got = append(got, f)
		case <-timeout:
			t.Fatal("timed out waiting for frames")
		}
	}
	cancel()
	<-done

	if got[0].Target != "hero" || got[0].Text != "" || got[0].DelayMs != 100 {
		t.Errorf("unexpected first frame %+v", got[0])
	}
	if got[1].Text != "a" || got[1].DelayMs != 2000 {
		t.Errorf("unexpected second frame %+v", got[1])
	}

	current := a.Current()
	if len(current) != 1 || current[0].Text != "a" {
		t.Errorf("unexpected current frames %+v", current)
	}
}

func TestNavbarScrolled(t *testing.T) {
	tests := []struct {
		y    float64
		want bool
	}{
		{0, false},
		{40, false},
		{40.5, true},
		{500, true},
	}
	for _, tt := range tests {
		if got := effects.NavbarScrolled(tt.y, effects.NavbarThreshold); got != tt.want {
			t.Errorf("NavbarScrolled(%v) = %v, want %v", tt.y, got, tt.want)
		}
	}
}

func TestRevealTracker(t *testing.T) {
	tr := effects.NewRevealTracker(effects.RevealThreshold, effects.RevealBottomMargin)
	viewport := effects.Rect{Width: 1000, Height: 800}

	entries := []effects.Observed{
		{ID: "well-inside", Rect: effects.Rect{Top: 100, Width: 300, Height: 100}},
		{ID: "just-enough", Rect: effects.Rect{Top: 750, Width: 300, Height: 100}},   // 10 of 100px above the margin
		{ID: "behind-margin", Rect: effects.Rect{Top: 755, Width: 300, Height: 100}}, // 5px
		{ID: "below", Rect: effects.Rect{Top: 900, Width: 300, Height: 100}},
	}

	got := tr.Update(viewport, entries)
	if len(got) != 2 || got[0] != "well-inside" || got[1] != "just-enough" {
		t.Fatalf("unexpected reveals %v", got)
	}

	// Once revealed, never again; the rest reveal when scrolled into view
	entries[2].Rect.Top = 300
	got = tr.Update(viewport, entries)
	if len(got) != 1 || got[0] != "behind-margin" {
		t.Errorf("unexpected second reveals %v", got)
	}
	if !tr.Revealed("well-inside") || tr.Revealed("below") {
		t.Error("unexpected revealed state")
	}
}

func TestIntersectionRatio(t *testing.T) {
	root := effects.Rect{Width: 100, Height: 100}

	if got := effects.IntersectionRatio(effects.Rect{Left: 50, Top: 0, Width: 100, Height: 100}, root); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
	if got := effects.IntersectionRatio(effects.Rect{Top: 200, Width: 10, Height: 10}, root); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := effects.IntersectionRatio(effects.Rect{Left: 10, Top: 10}, root); got != 1 {
		t.Errorf("zero-area element inside root should count as visible, got %v", got)
	}
}

func TestGlow(t *testing.T) {
	px, py, ok := effects.Glow(150, 75, effects.Rect{Left: 100, Top: 50, Width: 200, Height: 100})
	if !ok || px != 25 || py != 25 {
		t.Errorf("expected 25/25, got %v/%v (%v)", px, py, ok)
	}

	vars := effects.GlowVars(px, 12.5)
	if vars["--mouse-x"] != "25%" || vars["--mouse-y"] != "12.5%" {
		t.Errorf("unexpected vars %v", vars)
	}

	if _, _, ok := effects.Glow(1, 1, effects.Rect{}); ok {
		t.Error("empty rect should not glow")
	}
}

func TestAnchorTarget(t *testing.T) {
	known := map[string]bool{"games": true}

	tests := []struct {
		href   string
		wantID string
		wantOK bool
	}{
		{"#games", "games", true},
		{"#missing", "", false},
		{"#", "", false},
		{"https://example.com/#games", "", false},
	}
	for _, tt := range tests {
		id, ok := effects.AnchorTarget(tt.href, known)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("AnchorTarget(%q) = %q, %v", tt.href, id, ok)
		}
	}
}

func TestSession_NavbarOnlyOnChange(t *testing.T) {
	s := effects.NewSession(effects.DefaultConfig())

	scroll := func(y float64) []models.EffectMessage {
		out, err := s.Handle(models.ClientMessage{
			Type:    models.MessageTypeScroll,
			Payload: map[string]interface{}{"y": y},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return out
	}

	if out := scroll(10); len(out) != 0 {
		t.Errorf("no change expected, got %+v", out)
	}
	out := scroll(100)
	if len(out) != 1 || !out[0].On || out[0].Class != "scrolled" || out[0].Target != ".navbar" {
		t.Fatalf("expected navbar on, got %+v", out)
	}
	if out := scroll(200); len(out) != 0 {
		t.Errorf("no change expected, got %+v", out)
	}
	out = scroll(0)
	if len(out) != 1 || out[0].On {
		t.Errorf("expected navbar off, got %+v", out)
	}
}

func TestSession_Events(t *testing.T) {
	s := effects.NewSession(effects.DefaultConfig())

	out, err := s.Handle(models.ClientMessage{
		Type: models.MessageTypePointer,
		Payload: map[string]interface{}{
			"card": "dashboard-countdown",
			"x":    50.0,
			"y":    50.0,
			"rect": map[string]interface{}{"left": 0.0, "top": 0.0, "width": 200.0, "height": 100.0},
		},
	})
	if err != nil || len(out) != 1 || out[0].Vars["--mouse-x"] != "25%" || out[0].Vars["--mouse-y"] != "50%" {
		t.Errorf("unexpected pointer effect %+v %v", out, err)
	}

	intersect := models.ClientMessage{
		Type: models.MessageTypeIntersect,
		Payload: map[string]interface{}{
			"viewport": map[string]interface{}{"width": 800.0, "height": 600.0},
			"entries": []interface{}{
				map[string]interface{}{"id": "games", "rect": map[string]interface{}{"top": 0.0, "width": 800.0, "height": 300.0}},
			},
		},
	}
	out, _ = s.Handle(intersect)
	if len(out) != 1 || out[0].Action != effects.ActionAddClass || out[0].Class != "visible" {
		t.Errorf("unexpected reveal effect %+v", out)
	}
	if out, _ = s.Handle(intersect); len(out) != 0 {
		t.Errorf("reveal should be one-shot, got %+v", out)
	}

	out, _ = s.Handle(models.ClientMessage{
		Type:    models.MessageTypeAnchor,
		Payload: map[string]interface{}{"href": "#analytics", "targets": []interface{}{"analytics"}},
	})
	if len(out) != 1 || out[0].Action != effects.ActionScrollTo || out[0].Block != "start" {
		t.Errorf("unexpected anchor effect %+v", out)
	}

	if _, err := s.Handle(models.ClientMessage{Type: "bogus"}); err == nil {
		t.Error("expected error for unknown event")
	}
}

package effects

import "time"

// Typing animation timings
const (
	TypeDelay   = 100 * time.Millisecond
	DeleteDelay = 50 * time.Millisecond
	HoldDelay   = 2000 * time.Millisecond
)

// Phrase is one sentence the typewriter cycles through
type Phrase struct {
	Text string
	RTL  bool
}

// Frame is the text to show and how long to wait before the next frame
type Frame struct {
	Text      string
	Direction string
	Delay     time.Duration
}

// Typewriter types each phrase out one character at a time, holds it,
// deletes it, then moves on to the next phrase. Not safe for concurrent use.
type Typewriter struct {
	phrases  [][]rune
	rtl      []bool
	i, j     int
	deleting bool
}

// NewTypewriter creates a typewriter over phrases
func NewTypewriter(phrases ...Phrase) *Typewriter {
	t := &Typewriter{}
	for _, p := range phrases {
		t.phrases = append(t.phrases, []rune(p.Text))
		t.rtl = append(t.rtl, p.RTL)
	}
	return t
}

// Next returns the current frame and advances the state
func (t *Typewriter) Next() Frame {
	if len(t.phrases) == 0 {
		return Frame{Direction: "ltr", Delay: HoldDelay}
	}

	current := t.phrases[t.i]
	frame := Frame{
		Text:      string(current[:t.j]),
		Direction: "ltr",
	}
	if t.rtl[t.i] {
		frame.Direction = "rtl"
	}

	if !t.deleting {
		if t.j < len(current) {
			t.j++
		} else {
			t.deleting = true
			frame.Delay = HoldDelay
			return frame
		}
	} else {
		if t.j > 0 {
			t.j--
		} else {
			t.deleting = false
			t.i = (t.i + 1) % len(t.phrases)
		}
	}

	frame.Delay = TypeDelay
	if t.deleting {
		frame.Delay = DeleteDelay
	}
	return frame
}

package effects

import (
	"encoding/json"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// Effect actions understood by the page
const (
	ActionToggleClass = "toggle_class"
	ActionAddClass    = "add_class"
	ActionSetVars     = "set_vars"
	ActionScrollTo    = "scroll_to"
)

// NavbarSelector is the element the scrolled class is toggled on
const NavbarSelector = ".navbar"

// Config is what the page needs to drive its effects
type Config struct {
	WSPath             string            `json:"ws_path"`
	APIBase            string            `json:"api_base"`
	NavbarThreshold    float64           `json:"navbar_threshold"`
	RevealSelector     string            `json:"reveal_selector"`
	RevealThreshold    float64           `json:"reveal_threshold"`
	RevealBottomMargin float64           `json:"reveal_bottom_margin"`
	TypingTargets      map[string]string `json:"typing_targets"`
	TypeDelayMs        int64             `json:"type_delay_ms"`
	DeleteDelayMs      int64             `json:"delete_delay_ms"`
	HoldDelayMs        int64             `json:"hold_delay_ms"`
}

// DefaultConfig returns the page's effect settings
func DefaultConfig() Config {
	return Config{
		WSPath:             "/ws",
		APIBase:            "/api/v1",
		NavbarThreshold:    NavbarThreshold,
		RevealSelector:     ".reveal-up, .game-card, .analytics-card",
		RevealThreshold:    RevealThreshold,
		RevealBottomMargin: RevealBottomMargin,
		TypingTargets: map[string]string{
			TargetHero:      ".text",
			TargetAnalytics: ".analyticsText",
		},
		TypeDelayMs:   TypeDelay.Milliseconds(),
		DeleteDelayMs: DeleteDelay.Milliseconds(),
		HoldDelayMs:   HoldDelay.Milliseconds(),
	}
}

type scrollEvent struct {
	Y float64 `json:"y"`
}

type pointerEvent struct {
	Card string  `json:"card"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Rect Rect    `json:"rect"`
}

type intersectEvent struct {
	Viewport Rect       `json:"viewport"`
	Entries  []Observed `json:"entries"`
}

type anchorEvent struct {
	Href    string   `json:"href"`
	Targets []string `json:"targets"`
}

// Session holds one connection's effect state
type Session struct {
	cfg      Config
	reveal   *RevealTracker
	scrolled bool
}

// NewSession creates a session for a freshly loaded page
func NewSession(cfg Config) *Session {
	return &Session{
		cfg:    cfg,
		reveal: NewRevealTracker(cfg.RevealThreshold, cfg.RevealBottomMargin),
	}
}

// Handles reports whether msgType is a page effect event
func Handles(msgType string) bool {
	switch msgType {
	case models.MessageTypeScroll, models.MessageTypePointer,
		models.MessageTypeIntersect, models.MessageTypeAnchor:
		return true
	}
	return false
}

// Handle maps a page event to the effects the page should apply
func (s *Session) Handle(msg models.ClientMessage) ([]models.EffectMessage, error) {
	switch msg.Type {
	case models.MessageTypeScroll:
		var ev scrollEvent
		if err := decodePayload(msg.Payload, &ev); err != nil {
			return nil, err
		}
		return s.onScroll(ev), nil

	case models.MessageTypePointer:
		var ev pointerEvent
		if err := decodePayload(msg.Payload, &ev); err != nil {
			return nil, err
		}
		px, py, ok := Glow(ev.X, ev.Y, ev.Rect)
		if !ok || ev.Card == "" {
			return nil, nil
		}
		return []models.EffectMessage{{
			Action: ActionSetVars,
			Target: ev.Card,
			Vars:   GlowVars(px, py),
		}}, nil

	case models.MessageTypeIntersect:
		var ev intersectEvent
		if err := decodePayload(msg.Payload, &ev); err != nil {
			return nil, err
		}
		var out []models.EffectMessage
		for _, id := range s.reveal.Update(ev.Viewport, ev.Entries) {
			out = append(out, models.EffectMessage{
				Action: ActionAddClass,
				Target: id,
				Class:  "visible",
			})
		}
		return out, nil

	case models.MessageTypeAnchor:
		var ev anchorEvent
		if err := decodePayload(msg.Payload, &ev); err != nil {
			return nil, err
		}
		known := make(map[string]bool, len(ev.Targets))
		for _, id := range ev.Targets {
			known[id] = true
		}
		id, ok := AnchorTarget(ev.Href, known)
		if !ok {
			return nil, nil
		}
		return []models.EffectMessage{{
			Action:   ActionScrollTo,
			Target:   id,
			Behavior: "smooth",
			Block:    "start",
		}}, nil
	}

	return nil, fmt.Errorf("unknown effect event: %s", msg.Type)
}

// onScroll toggles the navbar only when its state changes
func (s *Session) onScroll(ev scrollEvent) []models.EffectMessage {
	scrolled := NavbarScrolled(ev.Y, s.cfg.NavbarThreshold)
	if scrolled == s.scrolled {
		return nil
	}
	s.scrolled = scrolled
	return []models.EffectMessage{{
		Action: ActionToggleClass,
		Target: NavbarSelector,
		Class:  "scrolled",
		On:     scrolled,
	}}
}

func decodePayload(payload map[string]interface{}, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

package effects

// Observed is an element whose visibility is being tracked
type Observed struct {
	ID   string `json:"id"`
	Rect Rect   `json:"rect"`
}

// RevealTracker reveals elements once as they scroll into view
type RevealTracker struct {
	threshold    float64
	bottomMargin float64
	revealed     map[string]bool
}

// NewRevealTracker creates a tracker; bottomMargin shrinks the viewport from below
func NewRevealTracker(threshold, bottomMargin float64) *RevealTracker {
	return &RevealTracker{
		threshold:    threshold,
		bottomMargin: bottomMargin,
		revealed:     make(map[string]bool),
	}
}

// Update returns the ids that became visible. Revealed elements are never reported again.
func (t *RevealTracker) Update(viewport Rect, entries []Observed) []string {
	root := viewport
	root.Height -= t.bottomMargin
	if root.Height < 0 {
		root.Height = 0
	}

	var out []string
	for _, e := range entries {
		if e.ID == "" || t.revealed[e.ID] {
			continue
		}
		if IntersectionRatio(e.Rect, root) >= t.threshold {
			t.revealed[e.ID] = true
			out = append(out, e.ID)
		}
	}
	return out
}

// Revealed reports whether id has been revealed
func (t *RevealTracker) Revealed(id string) bool {
	return t.revealed[id]
}

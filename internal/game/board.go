package game

// Points is a signed score delta or balance. Scores may go negative.
type Points = int

// ClueHandle addresses a clue by its position on the board. Handles are
// only ever issued for clues that exist in the currently loaded board.
type ClueHandle struct {
	Category int `json:"category"`
	Index    int `json:"index"`
}

type Clue struct {
	// Prompt is shown to contestants, phrased as an answer.
	Prompt string `json:"prompt"`
	// Response is the expected answer from contestants.
	Response string `json:"response"`
	// Hint is extra context for the moderator (alternative answers etc).
	// Hidden from contestants until revealed during resolution.
	Hint   string `json:"hint"`
	Points Points `json:"points"`
	// CanWager lets the picker stake points before seeing the prompt,
	// e.g. a Daily Double.
	CanWager bool `json:"can_wager"`
	// Exclusive restricts the first attempt to the picker before the
	// clue opens up to everyone.
	Exclusive bool `json:"exclusive"`
	Solved    bool `json:"solved"`
	// Wager is the stake set during the waging phase; nil until one
	// was placed. A zero stake is a legal wager.
	Wager *Points `json:"wager,omitempty"`
}

// Value is what answering this clue is worth: the wager when one was
// placed, the printed point value otherwise.
func (c Clue) Value() Points {
	if c.CanWager && c.Wager != nil {
		return *c.Wager
	}
	return c.Points
}

type Category struct {
	Title string `json:"title"`
	Clues []Clue `json:"clues"`
}

// Board is the grid of categories and clues. All categories carrying the
// same clue count is a convention, not enforced.
type Board struct {
	Categories []Category `json:"categories"`
}

func (b Board) clue(h ClueHandle) (Clue, bool) {
	if h.Category < 0 || h.Category >= len(b.Categories) {
		return Clue{}, false
	}
	clues := b.Categories[h.Category].Clues
	if h.Index < 0 || h.Index >= len(clues) {
		return Clue{}, false
	}
	return clues[h.Index], true
}

func (b *Board) mutClue(h ClueHandle) (*Clue, bool) {
	if h.Category < 0 || h.Category >= len(b.Categories) {
		return nil, false
	}
	clues := b.Categories[h.Category].Clues
	if h.Index < 0 || h.Index >= len(clues) {
		return nil, false
	}
	return &clues[h.Index], true
}

// AllSolved reports whether every clue on the board has been played.
// True for an empty board.
func (b Board) AllSolved() bool {
	for _, cat := range b.Categories {
		for _, c := range cat.Clues {
			if !c.Solved {
				return false
			}
		}
	}
	return true
}

// HighestValue returns the largest printed point value on the board.
func (b Board) HighestValue() Points {
	var max Points
	for _, cat := range b.Categories {
		for _, c := range cat.Clues {
			if c.Points > max {
				max = c.Points
			}
		}
	}
	return max
}

func (b Board) clone() Board {
	cats := make([]Category, len(b.Categories))
	for i, cat := range b.Categories {
		clues := make([]Clue, len(cat.Clues))
		copy(clues, cat.Clues)
		for j := range clues {
			if clues[j].Wager != nil {
				w := *clues[j].Wager
				clues[j].Wager = &w
			}
		}
		cats[i] = Category{Title: cat.Title, Clues: clues}
	}
	return Board{Categories: cats}
}

package game

// nextPicker selects who picks the next clue: the connected contestant
// with the lowest score, ties broken by the lowest handle. Falls back to
// disconnected contestants when nobody is connected, and to nil when the
// registry is empty. The rule is deterministic so journal replay always
// reproduces the live selection.
func nextPicker(contestants []Contestant) *int {
	best := -1
	for i, c := range contestants {
		if best == -1 {
			best = i
			continue
		}
		b := contestants[best]
		switch {
		case c.Connected != b.Connected:
			if c.Connected {
				best = i
			}
		case c.Points < b.Points:
			best = i
		}
	}
	if best == -1 {
		return nil
	}
	return &best
}

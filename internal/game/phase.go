package game

type PhaseKind string

const (
	// PhasePreparing: loading the board and settings, screen hidden.
	PhasePreparing PhaseKind = "preparing"
	// PhaseConnecting: contestants registering and testing buzzers.
	PhaseConnecting PhaseKind = "connecting"
	// PhasePicking: the picker choosing a clue from the board.
	PhasePicking PhaseKind = "picking"
	// PhaseWaging: the picker staking points before seeing the prompt.
	PhaseWaging PhaseKind = "waging"
	// PhaseClue: the prompt is being shown, buzzers still closed.
	PhaseClue PhaseKind = "clue"
	// PhaseBuzzing: buzzers open.
	PhaseBuzzing PhaseKind = "buzzing"
	// PhaseBuzzed: one contestant buzzed in and may answer.
	PhaseBuzzed PhaseKind = "buzzed"
	// PhaseResolution: the clue is settled; hint may be revealed.
	PhaseResolution PhaseKind = "resolution"
	// PhaseScore: every clue played, final standing shown. Terminal.
	PhaseScore PhaseKind = "score"
)

// Phase is the single source of truth for what can happen next. Kind
// discriminates; only the payload fields of the current kind are set,
// everything else is nil/zero. A clue handle carried in a phase referred
// to an unsolved clue when the phase was entered.
type Phase struct {
	Kind PhaseKind `json:"kind"`
	// Clue is set in waging, clue, buzzing, buzzed and resolution.
	Clue *ClueHandle `json:"clue,omitempty"`
	// Contestant is the picker (picking, waging), the buzzer (buzzed)
	// or the resolver (resolution). Nil in picking only when the game
	// was started without contestants.
	Contestant *int `json:"contestant,omitempty"`
	// Exclusive holds the contestant whose first attempt it is (clue
	// phase of an exclusive pick).
	Exclusive *int `json:"exclusive,omitempty"`
	// ShowHint is set in resolution once the moderator revealed it.
	ShowHint bool `json:"show_hint,omitempty"`
}

func preparing() Phase  { return Phase{Kind: PhasePreparing} }
func connecting() Phase { return Phase{Kind: PhaseConnecting} }
func score() Phase      { return Phase{Kind: PhaseScore} }

func picking(contestant *int) Phase {
	return Phase{Kind: PhasePicking, Contestant: contestant}
}

func waging(clue ClueHandle, contestant *int) Phase {
	return Phase{Kind: PhaseWaging, Clue: &clue, Contestant: contestant}
}

func cluePhase(clue ClueHandle, exclusive *int) Phase {
	return Phase{Kind: PhaseClue, Clue: &clue, Exclusive: exclusive}
}

func buzzing(clue ClueHandle) Phase {
	return Phase{Kind: PhaseBuzzing, Clue: &clue}
}

func buzzed(clue ClueHandle, contestant int) Phase {
	return Phase{Kind: PhaseBuzzed, Clue: &clue, Contestant: &contestant}
}

func resolution(clue ClueHandle, contestant *int, showHint bool) Phase {
	return Phase{Kind: PhaseResolution, Clue: &clue, Contestant: contestant, ShowHint: showHint}
}

func (p Phase) clone() Phase {
	out := Phase{Kind: p.Kind, ShowHint: p.ShowHint}
	if p.Clue != nil {
		h := *p.Clue
		out.Clue = &h
	}
	if p.Contestant != nil {
		c := *p.Contestant
		out.Contestant = &c
	}
	if p.Exclusive != nil {
		e := *p.Exclusive
		out.Exclusive = &e
	}
	return out
}

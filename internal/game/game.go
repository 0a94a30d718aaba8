// Package game holds the authoritative model of one trivia match: the
// board, the contestant registry and the phase state machine. The model
// is only ever mutated through Apply; rejected commands leave it exactly
// as it was. The package is deliberately free of I/O so that replaying a
// command sequence is deterministic.
package game

import "fmt"

// Game is one match. Only the single-writer actor holds a mutable Game;
// everyone else sees copied State snapshots.
type Game struct {
	board       Board
	contestants []Contestant
	phase       Phase
	options     Options
}

// State is the complete, externally visible representation of the match
// at one instant. Every field is a deep copy; consumers must treat it as
// immutable.
type State struct {
	Contestants []Contestant `json:"contestants"`
	// Indicated lists the handles of contestants with Indicate set.
	Indicated []int   `json:"indicated_contestants"`
	Board     Board   `json:"board"`
	Phase     Phase   `json:"phase"`
	Options   Options `json:"options"`
}

// New returns a fresh match in the preparing phase with an empty board.
func New() Game {
	return Game{
		board:       Board{Categories: []Category{}},
		contestants: make([]Contestant, 0, 4),
		phase:       preparing(),
	}
}

// State builds a snapshot of the current model.
func (g Game) State() State {
	contestants := make([]Contestant, len(g.contestants))
	copy(contestants, g.contestants)
	indicated := make([]int, 0, len(g.contestants))
	for i, c := range g.contestants {
		if c.Indicate {
			indicated = append(indicated, i)
		}
	}
	return State{
		Contestants: contestants,
		Indicated:   indicated,
		Board:       g.board.clone(),
		Phase:       g.phase.clone(),
		Options:     g.options,
	}
}

// Apply runs one command against the model. On success it returns the
// mutated successor game; on rejection it returns the receiver unchanged
// together with the reason. Application is all-or-nothing.
func (g Game) Apply(cmd Command) (Game, error) {
	next := g.clone()
	var err error
	switch cmd.Type {
	case CmdSettings:
		err = next.settings(cmd)
	case CmdLoadBoard:
		err = next.loadBoard(cmd)
	case CmdOpenLobby:
		err = next.openLobby()
	case CmdConnectContestant:
		err = next.connectContestant(cmd.NameHint)
	case CmdDisconnectContestant:
		err = next.setConnected(cmd.Contestant, false)
	case CmdReconnectContestant:
		err = next.setConnected(cmd.Contestant, true)
	case CmdNameContestant:
		err = next.nameContestant(cmd.Contestant, cmd.Name)
	case CmdStartGame:
		err = next.startGame()
	case CmdPick:
		err = next.pick(cmd.Clue)
	case CmdSetWage:
		err = next.setWage(cmd.Points)
	case CmdClueFullyShown:
		err = next.clueFullyShown()
	case CmdBuzz:
		err = next.buzz(cmd.Contestant)
	case CmdAcceptAnswer:
		err = next.acceptAnswer()
	case CmdRejectAnswer:
		err = next.rejectAnswer()
	case CmdRevealHint:
		err = next.revealHint()
	case CmdFinishClue:
		err = next.finishClue()
	case CmdAwardPoints:
		err = next.adjustPoints(cmd.Contestant, cmd.Points, +1)
	case CmdRevokePoints:
		err = next.adjustPoints(cmd.Contestant, cmd.Points, -1)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	if err != nil {
		return g, err
	}
	return next, nil
}

// ResetConnections marks every contestant as disconnected. Called after
// journal replay: no live connection survives a process restart.
func (g Game) ResetConnections() Game {
	next := g.clone()
	for i := range next.contestants {
		next.contestants[i].Connected = false
	}
	return next
}

func (g Game) clone() Game {
	contestants := make([]Contestant, len(g.contestants))
	copy(contestants, g.contestants)
	return Game{
		board:       g.board.clone(),
		contestants: contestants,
		phase:       g.phase.clone(),
		options:     g.options,
	}
}

func (g *Game) settings(cmd Command) error {
	if g.phase.Kind != PhasePreparing {
		return g.wrongPhase()
	}
	if cmd.Options == nil {
		return fmt.Errorf("settings: missing options payload")
	}
	g.options = *cmd.Options
	return nil
}

func (g *Game) loadBoard(cmd Command) error {
	if g.phase.Kind != PhasePreparing {
		return g.wrongPhase()
	}
	if cmd.Board == nil {
		return fmt.Errorf("load_board: missing board payload")
	}
	// Wholesale replacement; loading twice keeps the second board.
	g.board = cmd.Board.clone()
	return nil
}

func (g *Game) openLobby() error {
	if g.phase.Kind != PhasePreparing {
		return g.wrongPhase()
	}
	g.phase = connecting()
	return nil
}

func (g *Game) connectContestant(nameHint string) error {
	if g.phase.Kind != PhaseConnecting {
		return g.wrongPhase()
	}
	g.contestants = append(g.contestants, Contestant{
		NameHint:  nameHint,
		Connected: true,
	})
	return nil
}

// setConnected flips connectivity only. A mid-turn disconnect does not
// advance the phase; the moderator resolves the stall.
func (g *Game) setConnected(contestant *int, connected bool) error {
	c, err := g.contestant(contestant)
	if err != nil {
		return err
	}
	c.Connected = connected
	return nil
}

func (g *Game) nameContestant(index *int, name string) error {
	c, err := g.contestant(index)
	if err != nil {
		return err
	}
	c.Name = name
	return nil
}

func (g *Game) startGame() error {
	if g.phase.Kind != PhaseConnecting {
		return g.wrongPhase()
	}
	if len(g.contestants) == 0 && !g.options.AllowGameWithoutContestants {
		return ErrNoContestants
	}
	g.clearIndications()
	g.phase = picking(nextPicker(g.contestants))
	return nil
}

func (g *Game) pick(handle *ClueHandle) error {
	if g.phase.Kind != PhasePicking {
		return g.wrongPhase()
	}
	if handle == nil {
		return ErrClueNotFound
	}
	clue, ok := g.board.clue(*handle)
	if !ok || clue.Solved {
		return ErrClueNotFound
	}
	picker := g.phase.Contestant
	if clue.CanWager {
		g.phase = waging(*handle, picker)
		return nil
	}
	var exclusive *int
	if clue.Exclusive {
		exclusive = picker
	}
	g.phase = cluePhase(*handle, exclusive)
	return nil
}

// setWage stores the stake as the clue's effective value. A wager must
// be non-negative and no higher than the contestant's score or the
// board's highest printed value, whichever is larger.
func (g *Game) setWage(points *Points) error {
	if g.phase.Kind != PhaseWaging {
		return g.wrongPhase()
	}
	if points == nil || *points < 0 {
		return ErrInvalidWager
	}
	limit := g.board.HighestValue()
	contestant := g.phase.Contestant
	if contestant != nil && g.contestants[*contestant].Points > limit {
		limit = g.contestants[*contestant].Points
	}
	if *points > limit {
		return ErrInvalidWager
	}
	handle := *g.phase.Clue
	clue, ok := g.board.mutClue(handle)
	if !ok {
		return ErrClueNotFound
	}
	wager := *points
	clue.Wager = &wager
	g.phase = cluePhase(handle, contestant)
	return nil
}

func (g *Game) clueFullyShown() error {
	if g.phase.Kind != PhaseClue {
		return g.wrongPhase()
	}
	handle := *g.phase.Clue
	if holder := g.phase.Exclusive; holder != nil {
		// Exclusive clue: skip open buzzing, the holder answers first.
		if err := g.indicateOnly(*holder); err != nil {
			return err
		}
		g.phase = buzzed(handle, *holder)
		return nil
	}
	g.phase = buzzing(handle)
	return nil
}

func (g *Game) buzz(contestant *int) error {
	switch g.phase.Kind {
	case PhaseBuzzing:
		if contestant == nil {
			return ErrContestantNotFound
		}
		if err := g.indicateOnly(*contestant); err != nil {
			return err
		}
		g.phase = buzzed(*g.phase.Clue, *contestant)
		return nil
	case PhaseConnecting, PhaseScore:
		// Roll-call and applause: toggle the light, keep the phase.
		c, err := g.contestant(contestant)
		if err != nil {
			return err
		}
		c.Indicate = !c.Indicate
		return nil
	default:
		return g.wrongPhase()
	}
}

func (g *Game) acceptAnswer() error {
	if g.phase.Kind != PhaseBuzzed {
		return g.wrongPhase()
	}
	handle := *g.phase.Clue
	clue, _ := g.board.clue(handle)
	answerer := *g.phase.Contestant
	g.contestants[answerer].Points += clue.Value()
	g.clearIndications()
	g.phase = resolution(handle, g.phase.Contestant, false)
	return nil
}

// rejectAnswer deducts the clue's value and reopens buzzing for the
// remaining contestants.
func (g *Game) rejectAnswer() error {
	if g.phase.Kind != PhaseBuzzed {
		return g.wrongPhase()
	}
	handle := *g.phase.Clue
	clue, _ := g.board.clue(handle)
	answerer := *g.phase.Contestant
	g.contestants[answerer].Points -= clue.Value()
	g.clearIndications()
	g.phase = buzzing(handle)
	return nil
}

func (g *Game) revealHint() error {
	if g.phase.Kind != PhaseResolution {
		return g.wrongPhase()
	}
	g.phase.ShowHint = true
	return nil
}

// finishClue settles the clue carried by the current phase. From clue,
// buzzing or buzzed it moves to resolution; from resolution it hands the
// board back to picking, or to the final score once every clue is solved.
func (g *Game) finishClue() error {
	var next Phase
	switch g.phase.Kind {
	case PhaseClue, PhaseBuzzing:
		// Nobody buzzed; a resolver is still needed on screen.
		g.markSolved(*g.phase.Clue)
		next = resolution(*g.phase.Clue, nextPicker(g.contestants), false)
	case PhaseBuzzed:
		g.markSolved(*g.phase.Clue)
		next = resolution(*g.phase.Clue, g.phase.Contestant, false)
	case PhaseResolution:
		g.markSolved(*g.phase.Clue)
		if g.board.AllSolved() {
			next = score()
		} else {
			next = picking(nextPicker(g.contestants))
		}
	default:
		return g.wrongPhase()
	}
	g.clearIndications()
	g.phase = next
	return nil
}

func (g *Game) adjustPoints(contestant *int, points *Points, sign Points) error {
	c, err := g.contestant(contestant)
	if err != nil {
		return err
	}
	if points == nil {
		return fmt.Errorf("points adjustment: missing points payload")
	}
	c.Points += sign * *points
	return nil
}

func (g *Game) contestant(index *int) (*Contestant, error) {
	if index == nil || *index < 0 || *index >= len(g.contestants) {
		return nil, ErrContestantNotFound
	}
	return &g.contestants[*index], nil
}

// indicateOnly lights up exactly one contestant.
func (g *Game) indicateOnly(contestant int) error {
	if contestant < 0 || contestant >= len(g.contestants) {
		return ErrContestantNotFound
	}
	g.clearIndications()
	g.contestants[contestant].Indicate = true
	return nil
}

func (g *Game) clearIndications() {
	for i := range g.contestants {
		g.contestants[i].Indicate = false
	}
}

func (g *Game) markSolved(handle ClueHandle) {
	if clue, ok := g.board.mutClue(handle); ok {
		clue.Solved = true
	}
}

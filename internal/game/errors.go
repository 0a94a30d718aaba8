package game

import (
	"errors"
	"fmt"
)

var (
	ErrContestantNotFound = errors.New("contestant not found")
	ErrClueNotFound       = errors.New("clue not found")
	ErrNoContestants      = errors.New("cannot start game without contestants")
	ErrInvalidWager       = errors.New("invalid wager")
	ErrUnknownCommand     = errors.New("unknown command")
)

// WrongPhaseError rejects a command that is not a legal successor of the
// current phase. The model is left untouched.
type WrongPhaseError struct {
	Current PhaseKind
}

func (e *WrongPhaseError) Error() string {
	return fmt.Sprintf("command not allowed in phase %q", e.Current)
}

// IsWrongPhase reports whether err is a phase mismatch rejection.
func IsWrongPhase(err error) bool {
	var wp *WrongPhaseError
	return errors.As(err, &wp)
}

func (g *Game) wrongPhase() error {
	return &WrongPhaseError{Current: g.phase.Kind}
}

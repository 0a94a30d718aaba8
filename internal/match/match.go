// Package match runs the single-writer actor that owns one game model.
// Arbitrarily many producers submit commands; exactly one goroutine
// applies them, journals the accepted ones and republishes the resulting
// snapshot to every subscriber.
package match

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/buzzwire/trivia-backend/internal/game"
)

// ErrShuttingDown rejects submissions once the actor's context is gone.
var ErrShuttingDown = errors.New("match: shutting down")

// Appender persists an accepted command before its effect is published.
type Appender interface {
	Append(cmd game.Command) error
}

type Msg interface{ isMatchMsg() }

// Submit carries one command and the channel its result is delivered on.
// Reply must be buffered; it is closed without a value when the actor
// shuts down before processing the command.
type Submit struct {
	Cmd   game.Command
	Reply chan Result
}

type Result struct {
	Snapshot Snapshot
	Err      error
}

// Join registers a subscriber. Outbox must be buffered; delivery is
// latest-value, a full outbox has its stale snapshot replaced.
type Join struct {
	ClientID string
	Outbox   chan Snapshot
}

type Leave struct{ ClientID string }

type GetView struct {
	Reply chan View
}

func (Submit) isMatchMsg()  {}
func (Join) isMatchMsg()    {}
func (Leave) isMatchMsg()   {}
func (GetView) isMatchMsg() {}

// Snapshot is one published state, stamped with a version that increases
// by one per accepted command.
type Snapshot struct {
	Version int        `json:"version"`
	State   game.State `json:"state"`
}

// View reflects actor internals without data races; used by tests and
// the state endpoint.
type View struct {
	Version        int
	NumSubscribers int
	State          game.State
}

type Match struct {
	inbox   chan Msg
	game    game.Game
	version int
	clients map[string]chan Snapshot
	journal Appender
	logger  *zap.Logger
	ctx     context.Context
}

// New starts the actor loop. journal may be nil to run without
// persistence (tests). The actor stops when parent is cancelled; commands
// still queued at that point are abandoned and their reply channels
// closed.
func New(parent context.Context, logger *zap.Logger, g game.Game, journal Appender) *Match {
	m := &Match{
		inbox:   make(chan Msg, 64),
		game:    g,
		clients: make(map[string]chan Snapshot),
		journal: journal,
		logger:  logger,
		ctx:     parent,
	}
	go m.loop()
	return m
}

func (m *Match) Inbox() chan<- Msg { return m.inbox }

// Submit applies one command and blocks until the actor has processed
// it, returning the resulting snapshot or the rejection. The actor may
// be busy indefinitely; callers bound the wait through ctx.
func (m *Match) Submit(ctx context.Context, cmd game.Command) (Snapshot, error) {
	reply := make(chan Result, 1)
	select {
	case m.inbox <- Submit{Cmd: cmd, Reply: reply}:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-m.ctx.Done():
		return Snapshot{}, ErrShuttingDown
	}
	select {
	case res, ok := <-reply:
		if !ok {
			return Snapshot{}, ErrShuttingDown
		}
		return res.Snapshot, res.Err
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-m.ctx.Done():
		// The command may have been processed just before shutdown.
		select {
		case res, ok := <-reply:
			if ok {
				return res.Snapshot, res.Err
			}
		default:
		}
		return Snapshot{}, ErrShuttingDown
	}
}

// Subscribe registers a snapshot outbox under id. The current snapshot
// is delivered immediately; the channel is closed on Unsubscribe and on
// shutdown.
func (m *Match) Subscribe(id string) <-chan Snapshot {
	out := make(chan Snapshot, 1)
	select {
	case m.inbox <- Join{ClientID: id, Outbox: out}:
	case <-m.ctx.Done():
		close(out)
	}
	return out
}

func (m *Match) Unsubscribe(id string) {
	select {
	case m.inbox <- Leave{ClientID: id}:
	case <-m.ctx.Done():
	}
}

// View returns the actor's current state without going through a
// command.
func (m *Match) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	select {
	case m.inbox <- GetView{Reply: reply}:
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-m.ctx.Done():
		return View{}, ErrShuttingDown
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-m.ctx.Done():
		return View{}, ErrShuttingDown
	}
}

func (m *Match) loop() {
	for {
		select {
		case <-m.ctx.Done():
			m.shutdown()
			return

		case msg := <-m.inbox:
			switch msg := msg.(type) {
			case Join:
				// A rejoin under the same id replaces the outbox;
				// close the old one so its reader stops.
				if old, ok := m.clients[msg.ClientID]; ok {
					close(old)
				}
				m.clients[msg.ClientID] = msg.Outbox
				m.logger.Info("subscriber joined", zap.String("client", msg.ClientID))
				send(msg.Outbox, m.snapshot())

			case Leave:
				if ch, ok := m.clients[msg.ClientID]; ok {
					close(ch)
					delete(m.clients, msg.ClientID)
				}
				m.logger.Info("subscriber left", zap.String("client", msg.ClientID))

			case Submit:
				m.handleSubmit(msg)

			case GetView:
				msg.Reply <- View{
					Version:        m.version,
					NumSubscribers: len(m.clients),
					State:          m.game.State(),
				}
			}
		}
	}
}

func (m *Match) handleSubmit(msg Submit) {
	next, err := m.game.Apply(msg.Cmd)
	if err != nil {
		// Rejection goes to the submitter only; nothing is journaled,
		// nothing is broadcast, the model is untouched.
		m.logger.Debug("command rejected",
			zap.String("command", string(msg.Cmd.Type)), zap.Error(err))
		if msg.Reply != nil {
			msg.Reply <- Result{Err: err}
		}
		return
	}

	if m.journal != nil {
		if err := m.journal.Append(msg.Cmd); err != nil {
			// Persisted truth must never lag displayed state.
			m.logger.Fatal("journal append failed",
				zap.String("command", string(msg.Cmd.Type)), zap.Error(err))
		}
	}

	m.game = next
	m.version++
	m.logger.Debug("command accepted",
		zap.String("command", string(msg.Cmd.Type)), zap.Int("version", m.version))

	snap := m.snapshot()
	if msg.Reply != nil {
		msg.Reply <- Result{Snapshot: snap}
	}
	for _, ch := range m.clients {
		send(ch, snap)
	}
}

func (m *Match) snapshot() Snapshot {
	return Snapshot{Version: m.version, State: m.game.State()}
}

// shutdown abandons queued submissions and closes every outbox. Closing
// a Reply without a value is the shutdown rejection submitters see.
func (m *Match) shutdown() {
	for {
		select {
		case msg := <-m.inbox:
			if s, ok := msg.(Submit); ok && s.Reply != nil {
				close(s.Reply)
			}
		default:
			for id, ch := range m.clients {
				close(ch)
				delete(m.clients, id)
			}
			m.logger.Info("match actor stopped")
			return
		}
	}
}

// send delivers latest-value: when the outbox is full, the stale
// snapshot is replaced so a slow subscriber coalesces updates instead of
// blocking the actor. Subscribers observe a subsequence of the true
// history, never a reordering.
func send(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

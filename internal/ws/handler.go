package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/buzzwire/trivia-backend/internal/game"
	"github.com/buzzwire/trivia-backend/internal/match"
	"github.com/buzzwire/trivia-backend/internal/types"
)

const (
	writeTimeout  = 3 * time.Second
	submitTimeout = 5 * time.Second
)

// Handler upgrades a viewer connection: snapshots stream out, commands
// come in. Each connection is bound to at most one contestant handle,
// assigned when its connect_contestant is accepted; the connection can
// never impersonate any other handle.
func Handler(m *match.Match, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			logger.Warn("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		log := logger.With(zap.String("client", clientID))

		out := m.Subscribe(clientID)
		defer m.Unsubscribe(clientID)

		// Writer goroutine: fan snapshots out until the outbox closes.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "snapshot", Version: snap.Version, State: &snap.State}
				if err := writeJSON(writeCtx, conn, msg); err != nil {
					return
				}
			}
		}()

		c := &client{m: m, conn: conn, log: log}
		defer c.dropContestant()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("websocket read ended", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = writeJSON(r.Context(), conn, types.ServerMessage{Type: "error", Error: "bad json"})
				continue
			}
			c.handle(r.Context(), cm, r.UserAgent())
		}
	}
}

type client struct {
	m    *match.Match
	conn *websocket.Conn
	log  *zap.Logger
	// contestant is the handle bound to this connection, nil until its
	// connect_contestant is accepted.
	contestant *int
}

func (c *client) handle(ctx context.Context, cm types.ClientMessage, userAgent string) {
	cmd, ok := toCommand(cm)
	if !ok {
		_ = writeJSON(ctx, c.conn, types.ServerMessage{Type: "error", Error: "unknown type"})
		return
	}

	switch cmd.Type {
	case game.CmdConnectContestant:
		if c.contestant != nil {
			_ = writeJSON(ctx, c.conn, types.ServerMessage{Type: "error", Error: "already bound to a contestant"})
			return
		}
		if cmd.NameHint == "" {
			cmd.NameHint = userAgent
		}
	case game.CmdBuzz:
		// A buzzer can only buzz for itself.
		if c.contestant != nil {
			cmd.Contestant = c.contestant
		}
	}

	snap, err := c.m.Submit(ctx, cmd)
	if err != nil {
		// Rejections are addressed to the submitter only.
		_ = writeJSON(ctx, c.conn, types.ServerMessage{Type: "error", Error: err.Error()})
		return
	}

	if cmd.Type == game.CmdConnectContestant {
		handle := len(snap.State.Contestants) - 1
		c.contestant = &handle
		c.log.Info("contestant bound", zap.Int("contestant", handle))
		_ = writeJSON(ctx, c.conn, types.ServerMessage{Type: "bound", Contestant: &handle})
	}
}

// dropContestant surfaces the transport failure as a disconnect command
// when the connection was bound to a contestant.
func (c *client) dropContestant() {
	if c.contestant == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()
	if _, err := c.m.Submit(ctx, game.Command{
		Type:       game.CmdDisconnectContestant,
		Contestant: c.contestant,
	}); err != nil && !errors.Is(err, match.ErrShuttingDown) {
		c.log.Warn("disconnect on teardown failed", zap.Error(err))
	}
}

func toCommand(m types.ClientMessage) (game.Command, bool) {
	switch game.CommandType(m.Type) {
	case game.CmdSettings, game.CmdLoadBoard, game.CmdOpenLobby,
		game.CmdConnectContestant, game.CmdDisconnectContestant,
		game.CmdReconnectContestant, game.CmdNameContestant,
		game.CmdStartGame, game.CmdPick, game.CmdSetWage,
		game.CmdClueFullyShown, game.CmdBuzz, game.CmdAcceptAnswer,
		game.CmdRejectAnswer, game.CmdRevealHint, game.CmdFinishClue,
		game.CmdAwardPoints, game.CmdRevokePoints:
		return game.Command{
			Type:       game.CommandType(m.Type),
			Board:      m.Board,
			Options:    m.Options,
			NameHint:   m.NameHint,
			Contestant: m.Contestant,
			Name:       m.Name,
			Clue:       m.Clue,
			Points:     m.Points,
		}, true
	default:
		return game.Command{}, false
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, payload)
}

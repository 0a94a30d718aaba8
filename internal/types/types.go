package types

import "github.com/buzzwire/trivia-backend/internal/game"

// ClientMessage is what a websocket client sends. Type mirrors the
// command set; only the fields of that command are set.
type ClientMessage struct {
	Type       string           `json:"type"`
	Board      *game.Board      `json:"board,omitempty"`
	Options    *game.Options    `json:"options,omitempty"`
	NameHint   string           `json:"name_hint,omitempty"`
	Contestant *int             `json:"contestant,omitempty"`
	Name       string           `json:"name,omitempty"`
	Clue       *game.ClueHandle `json:"clue,omitempty"`
	Points     *int             `json:"points,omitempty"`
}

// ServerMessage is what the server sends back: "snapshot" fan-outs,
// "bound" acknowledgements carrying the contestant handle assigned to
// this connection, and "error" rejections addressed to the offending
// client only.
type ServerMessage struct {
	Type       string      `json:"type"` // "snapshot" | "bound" | "error"
	Version    int         `json:"version,omitempty"`
	State      *game.State `json:"state,omitempty"`
	Contestant *int        `json:"contestant,omitempty"`
	Error      string      `json:"error,omitempty"`
}

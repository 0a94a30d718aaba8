package game

type CommandType string

const (
	CmdSettings             CommandType = "settings"
	CmdLoadBoard            CommandType = "load_board"
	CmdOpenLobby            CommandType = "open_lobby"
	CmdConnectContestant    CommandType = "connect_contestant"
	CmdDisconnectContestant CommandType = "disconnect_contestant"
	CmdReconnectContestant  CommandType = "reconnect_contestant"
	CmdNameContestant       CommandType = "name_contestant"
	CmdStartGame            CommandType = "start_game"
	CmdPick                 CommandType = "pick"
	CmdSetWage              CommandType = "set_wage"
	CmdClueFullyShown       CommandType = "clue_fully_shown"
	CmdBuzz                 CommandType = "buzz"
	CmdAcceptAnswer         CommandType = "accept_answer"
	CmdRejectAnswer         CommandType = "reject_answer"
	CmdRevealHint           CommandType = "reveal_hint"
	CmdFinishClue           CommandType = "finish_clue"
	CmdAwardPoints          CommandType = "award_points"
	CmdRevokePoints         CommandType = "revoke_points"
)

// Command is the closed set of inputs a client may submit. The same
// encoding is used on the wire and in the journal, one JSON object per
// accepted command. Fields beyond Type are set per command type:
//
//	settings               Options
//	load_board             Board
//	connect_contestant     NameHint
//	disconnect_contestant  Contestant
//	reconnect_contestant   Contestant
//	name_contestant        Contestant, Name
//	pick                   Clue
//	set_wage               Points
//	buzz                   Contestant
//	award_points           Contestant, Points
//	revoke_points          Contestant, Points
type Command struct {
	Type       CommandType `json:"type"`
	Board      *Board      `json:"board,omitempty"`
	Options    *Options    `json:"options,omitempty"`
	NameHint   string      `json:"name_hint,omitempty"`
	Contestant *int        `json:"contestant,omitempty"`
	Name       string      `json:"name,omitempty"`
	Clue       *ClueHandle `json:"clue,omitempty"`
	Points     *Points     `json:"points,omitempty"`
}

// Options configure a match. Fixed before the lobby opens.
type Options struct {
	// AllowGameWithoutContestants lets StartGame proceed with an empty
	// registry, e.g. for screen testing.
	AllowGameWithoutContestants bool `json:"allow_game_without_contestants"`
}

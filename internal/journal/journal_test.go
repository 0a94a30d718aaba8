package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buzzwire/trivia-backend/internal/game"
)

func intp(i int) *int { return &i }

func smallBoard() *game.Board {
	return &game.Board{Categories: []game.Category{{
		Title: "History",
		Clues: []game.Clue{
			{Prompt: "p1", Response: "r1", Points: 100},
			{Prompt: "p2", Response: "r2", Points: 200},
		},
	}}}
}

func matchCommands() []game.Command {
	return []game.Command{
		{Type: game.CmdLoadBoard, Board: smallBoard()},
		{Type: game.CmdOpenLobby},
		{Type: game.CmdConnectContestant, NameHint: "podium-1"},
		{Type: game.CmdNameContestant, Contestant: intp(0), Name: "Grace"},
		{Type: game.CmdStartGame},
		{Type: game.CmdPick, Clue: &game.ClueHandle{Category: 0, Index: 1}},
		{Type: game.CmdClueFullyShown},
		{Type: game.CmdBuzz, Contestant: intp(0)},
		{Type: game.CmdAcceptAnswer},
	}
}

func TestOpen_MissingFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	j, g, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer j.Close()

	assert.Equal(t, game.PhasePreparing, g.State().Phase.Kind)
	require.NoError(t, j.Append(game.Command{Type: game.CmdOpenLobby}))
}

func TestOpen_ReplayMatchesLiveApplication(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	j, g, err := Open(path, zap.NewNop())
	require.NoError(t, err)

	// Apply live and journal each accepted command, as the actor does.
	for _, cmd := range matchCommands() {
		next, err := g.Apply(cmd)
		require.NoError(t, err)
		require.NoError(t, j.Append(cmd))
		g = next
	}
	require.NoError(t, j.Close())

	_, replayed, err := Open(path, zap.NewNop())
	require.NoError(t, err)

	want := g.ResetConnections().State()
	assert.Equal(t, want, replayed.State())
	assert.False(t, replayed.State().Contestants[0].Connected,
		"no live connection survives a restart")
	assert.Equal(t, 200, replayed.State().Contestants[0].Points)
}

func TestOpen_TornTailIsTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	var raw []byte
	for _, cmd := range []game.Command{{Type: game.CmdOpenLobby}, {Type: game.CmdConnectContestant, NameHint: "x"}} {
		line, err := json.Marshal(cmd)
		require.NoError(t, err)
		raw = append(raw, line...)
		raw = append(raw, '\n')
	}
	good := len(raw)
	raw = append(raw, []byte(`{"type":"buz`)...) // torn mid-append
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	j, g, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer j.Close()

	st := g.State()
	assert.Equal(t, game.PhaseConnecting, st.Phase.Kind)
	assert.Len(t, st.Contestants, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, good, "torn record removed from disk")
}

func TestOpen_MidFileCorruptionIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	raw := []byte(`{"type":"open_lobby"}` + "\n" +
		`not json at all` + "\n" +
		`{"type":"connect_contestant","name_hint":"x"}` + "\n")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, _, err := Open(path, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
}

func TestOpen_MidFileRejectionIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	// accept_answer is never legal right after open_lobby: the journal
	// only ever holds accepted commands, so this file is corrupt.
	raw := []byte(`{"type":"open_lobby"}` + "\n" +
		`{"type":"accept_answer"}` + "\n" +
		`{"type":"connect_contestant","name_hint":"x"}` + "\n")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, _, err := Open(path, zap.NewNop())
	require.Error(t, err)
	assert.True(t, game.IsWrongPhase(err))
}

func TestAppend_ProducesOneJSONObjectPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	j, _, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, j.Append(game.Command{Type: game.CmdOpenLobby}))
	require.NoError(t, j.Append(game.Command{Type: game.CmdConnectContestant, NameHint: "pad-3"}))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"open_lobby"}`+"\n"+
		`{"type":"connect_contestant","name_hint":"pad-3"}`+"\n", string(data))
}

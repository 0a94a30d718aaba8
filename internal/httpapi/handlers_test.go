package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buzzwire/trivia-backend/internal/game"
	"github.com/buzzwire/trivia-backend/internal/match"
)

func newTestServer(t *testing.T) (*httptest.Server, *match.Match) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := match.New(ctx, zap.NewNop(), game.New(), nil)
	srv := httptest.NewServer(SetupRoutes(m, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv, m
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGameState_ServesCurrentSnapshot(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap match.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 0, snap.Version)
	assert.Equal(t, game.PhasePreparing, snap.State.Phase.Kind)
}

func TestUploadBoard(t *testing.T) {
	srv, m := newTestServer(t)

	body := `{"categories":[{"title":"Potpourri","clues":[{"prompt":"p","response":"r","points":100}]}]}`
	resp, err := http.Post(srv.URL+"/board", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	view, err := m.View(context.Background())
	require.NoError(t, err)
	require.Len(t, view.State.Board.Categories, 1)
	assert.Equal(t, "Potpourri", view.State.Board.Categories[0].Title)
}

func TestUploadBoard_BadJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/board", "application/json", strings.NewReader("{nope"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadBoard_RejectedOutsidePreparing(t *testing.T) {
	srv, m := newTestServer(t)

	_, err := m.Submit(context.Background(), game.Command{Type: game.CmdOpenLobby})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/board", "application/json", strings.NewReader(`{"categories":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

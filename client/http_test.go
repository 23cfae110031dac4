package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simonduel/game"
)

func TestHTTPClient_FetchState(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/game/room1/state", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": game.State{RoomID: "room1", Status: game.StatusPlaying}})
	}))
	defer srv.Close()

	api := NewHTTPClient(srv.URL, "tok", nil)
	state, err := api.FetchState(context.Background(), "room1")
	require.NoError(t, err)
	assert.Equal(t, "room1", state.RoomID)
	assert.Equal(t, game.StatusPlaying, state.Status)
}

func TestHTTPClient_ProposeMoveWire(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": game.State{}})
	}))
	defer srv.Close()

	api := NewHTTPClient(srv.URL, "tok", nil)
	_, err := api.ProposeMove(context.Background(), "room1", game.Move{
		Kind: game.MoveReplay, Token: "red", Position: 2, Round: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, "replay", got["kind"])
	assert.Equal(t, "red", got["token"])
	assert.Equal(t, float64(2), got["position"])
	assert.Equal(t, float64(3), got["round"])
}

func TestHTTPClient_RejectionsMapToSentinels(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		status  int
		code    string
		wantErr error
	}{
		{status: http.StatusConflict, code: "stale-proposal", wantErr: game.ErrStaleProposal},
		{status: http.StatusForbidden, code: "not-your-turn", wantErr: game.ErrNotYourTurn},
		{status: http.StatusNotFound, code: "room-not-found", wantErr: game.ErrRoomNotFound},
		{status: http.StatusGone, code: "room-closed", wantErr: game.ErrRoomClosed},
		{status: http.StatusConflict, code: "room-full", wantErr: game.ErrRoomFull},
		{status: http.StatusBadRequest, code: "unknown-color", wantErr: game.ErrUnknownColor},
	}

	for _, tC := range testCases {
		t.Run(tC.code, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tC.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": tC.code})
			}))
			defer srv.Close()

			api := NewHTTPClient(srv.URL, "tok", nil)
			_, err := api.FetchState(context.Background(), "room1")
			assert.ErrorIs(t, err, tC.wantErr)
		})
	}
}

func TestHTTPClient_UnknownRejectionStaysGeneric(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "mystery"})
	}))
	defer srv.Close()

	api := NewHTTPClient(srv.URL, "tok", nil)
	_, err := api.FetchState(context.Background(), "room1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, game.ErrStaleProposal)
	assert.Contains(t, err.Error(), "mystery")
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"simonduel/game"
)

// HTTPClient speaks the gamehttp JSON surface. Transport failures come back
// as plain errors; rejections come back as the game sentinel errors so the
// caller can errors.Is them the same way server-side code does.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPClient(baseURL, token string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{baseURL: baseURL, token: token, http: httpClient}
}

func (c *HTTPClient) FetchState(ctx context.Context, roomID string) (game.State, error) {
	return c.do(ctx, http.MethodGet, "/game/"+roomID+"/state", nil)
}

func (c *HTTPClient) ProposeMove(ctx context.Context, roomID string, m game.Move) (game.State, error) {
	body := map[string]any{
		"kind":     moveKindName(m.Kind),
		"token":    m.Token,
		"position": m.Position,
		"round":    m.Round,
	}
	return c.do(ctx, http.MethodPost, "/game/"+roomID+"/move", body)
}

func (c *HTTPClient) NotifyLeave(ctx context.Context, roomID string) (game.State, error) {
	return c.do(ctx, http.MethodPost, "/game/"+roomID+"/leave", struct{}{})
}

func (c *HTTPClient) JoinRoom(ctx context.Context, roomID string) (game.State, error) {
	return c.do(ctx, http.MethodPost, "/rooms/"+roomID+"/join", struct{}{})
}

func (c *HTTPClient) CreateRoom(ctx context.Context, name string, colorCount int) (game.State, error) {
	return c.do(ctx, http.MethodPost, "/rooms", map[string]any{
		"name":       name,
		"colorCount": colorCount,
	})
}

// GuestIdentity is what the session endpoint hands back.
type GuestIdentity struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// OpenGuestSession mints a fresh identity; the returned token authenticates
// every other call.
func OpenGuestSession(ctx context.Context, baseURL, username string) (GuestIdentity, error) {
	encoded, err := json.Marshal(map[string]string{"username": username})
	if err != nil {
		return GuestIdentity{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/session", bytes.NewReader(encoded))
	if err != nil {
		return GuestIdentity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return GuestIdentity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return GuestIdentity{}, fmt.Errorf("session rejected: status %d %s", resp.StatusCode, apiErr.Error)
	}

	var identity GuestIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return GuestIdentity{}, fmt.Errorf("decode session response: %w", err)
	}
	return identity, nil
}

func moveKindName(k game.MoveKind) string {
	switch k {
	case game.MoveReplay:
		return "replay"
	case game.MoveExtend:
		return "extend"
	}
	return "ack-reveal"
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (game.State, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return game.State{}, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return game.State{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return game.State{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return game.State{}, rejectionError(resp.StatusCode, apiErr.Error)
	}

	var envelope struct {
		Data game.State `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return game.State{}, fmt.Errorf("decode response: %w", err)
	}
	return envelope.Data, nil
}

// rejectionError maps the server's reason codes back onto the shared
// sentinels; anything unrecognized stays a generic error.
func rejectionError(status int, code string) error {
	switch code {
	case game.ErrStaleProposal.Error():
		return game.ErrStaleProposal
	case game.ErrNotYourTurn.Error():
		return game.ErrNotYourTurn
	case game.ErrIllegalMove.Error():
		return game.ErrIllegalMove
	case game.ErrUnknownColor.Error():
		return game.ErrUnknownColor
	case game.ErrRoomNotFound.Error():
		return game.ErrRoomNotFound
	case game.ErrRoomFull.Error():
		return game.ErrRoomFull
	case game.ErrRoomClosed.Error():
		return game.ErrRoomClosed
	case game.ErrNotParticipant.Error():
		return game.ErrNotParticipant
	}
	return fmt.Errorf("server rejected request: status %d %s", status, code)
}

// Package gamehttp exposes the polling game surface over gin: room
// lifecycle, the state poll source, the single move entry point and the
// disconnect path.
package gamehttp

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"simonduel/domain"
	"simonduel/game"
)

type GameHandler struct {
	store game.Store
	log   zerolog.Logger
}

func NewGameHandler(store game.Store, log zerolog.Logger) *GameHandler {
	return &GameHandler{store: store, log: log}
}

type createRoomRequest struct {
	Name       string `json:"name"`
	ColorCount int    `json:"colorCount"`
}

type moveRequest struct {
	Kind     string `json:"kind"`
	Token    string `json:"token"`
	Position int    `json:"position"`
	Round    int    `json:"round"`
}

// roomDescription is the lobby-listing shape the rooms page polls.
type roomDescription struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	HostID         string `json:"hostId"`
	ColorCount     int    `json:"colorCount"`
	CurrentPlayers int    `json:"currentPlayers"`
	MaxPlayers     int    `json:"maxPlayers"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
}

func describeRoom(s game.State) roomDescription {
	players := 1
	if s.Player2ID != "" {
		players = 2
	}
	return roomDescription{
		ID:             s.RoomID,
		Name:           s.Name,
		HostID:         s.Player1ID,
		ColorCount:     len(s.Palette),
		CurrentPlayers: players,
		MaxPlayers:     2,
		Status:         string(s.Status),
		CreatedAt:      s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *GameHandler) CreateRoomHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	if id == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req createRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name must not be empty"})
		return
	}
	if len(req.Name) > 40 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name cannot exceed 40 characters"})
		return
	}
	if req.ColorCount < game.MinPaletteSize {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "colorCount must be at least 2"})
		return
	}
	if req.ColorCount > game.MaxPaletteSize() {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "colorCount too large"})
		return
	}

	state, err := h.store.CreateRoom(ctx.Request.Context(), req.Name, id, req.ColorCount)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.log.Info().Str("room_id", state.RoomID).Str("host_id", id).Msg("room created")
	ctx.JSON(http.StatusCreated, gin.H{"data": state})
}

func (h *GameHandler) ListRoomsHandler(ctx *gin.Context) {
	rooms, err := h.store.ListOpenRooms(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	descriptions := make([]roomDescription, 0, len(rooms))
	for _, room := range rooms {
		descriptions = append(descriptions, describeRoom(room))
	}
	ctx.JSON(http.StatusOK, gin.H{"data": descriptions})
}

func (h *GameHandler) JoinRoomHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	roomID := ctx.Param("roomid")

	state, err := h.store.JoinRoom(ctx.Request.Context(), roomID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.log.Info().Str("room_id", roomID).Str("player_id", id).Msg("player joined")
	ctx.JSON(http.StatusOK, gin.H{"data": state})
}

func (h *GameHandler) StateHandler(ctx *gin.Context) {
	state, err := h.store.GameState(ctx.Request.Context(), ctx.Param("roomid"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": state})
}

func (h *GameHandler) MoveHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	roomID := ctx.Param("roomid")

	var req moveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}

	move := game.Move{Token: req.Token, Position: req.Position, Round: req.Round}
	switch req.Kind {
	case "ack-reveal":
		move.Kind = game.MoveAckReveal
	case "replay":
		move.Kind = game.MoveReplay
	case "extend":
		move.Kind = game.MoveExtend
	default:
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown move kind"})
		return
	}

	state, err := h.store.ApplyMove(ctx.Request.Context(), roomID, id, move)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": state})
}

func (h *GameHandler) LeaveHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	roomID := ctx.Param("roomid")

	state, err := h.store.Terminate(ctx.Request.Context(), roomID, id, game.ReasonLeft)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.log.Info().Str("room_id", roomID).Str("player_id", id).Msg("player left")
	ctx.JSON(http.StatusOK, gin.H{"data": state})
}

func (h *GameHandler) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": game.ErrRoomNotFound.Error()})
	case errors.Is(err, game.ErrRoomFull):
		ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": game.ErrRoomFull.Error()})
	case errors.Is(err, game.ErrRoomClosed):
		ctx.AbortWithStatusJSON(http.StatusGone, gin.H{"error": game.ErrRoomClosed.Error()})
	case errors.Is(err, game.ErrNotParticipant):
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": game.ErrNotParticipant.Error()})
	case errors.Is(err, game.ErrNotYourTurn):
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": game.ErrNotYourTurn.Error()})
	case errors.Is(err, game.ErrStaleProposal):
		ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": game.ErrStaleProposal.Error()})
	case errors.Is(err, game.ErrUnknownColor):
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": game.ErrUnknownColor.Error()})
	case errors.Is(err, game.ErrIllegalMove):
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": game.ErrIllegalMove.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		ctx.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"error": "server-timeout"})
	case errors.Is(err, context.Canceled):
		ctx.AbortWithStatus(499) // http code for "Client Closed Request"
	case errors.Is(err, domain.UnexpectedDatabaseError):
		h.log.Error().Err(err).Msg("database error")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
	default:
		h.log.Error().Err(err).Msg("unexpected error")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
	}
}

package gamehttp

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the room and game groups behind the auth middleware.
// The move endpoint additionally sits behind the per-player rate limiter.
func RegisterRoutes(r *gin.Engine, h *GameHandler, authMW, rateMW gin.HandlerFunc) {
	rooms := r.Group("/rooms")
	rooms.Use(authMW)
	rooms.POST("", h.CreateRoomHandler)
	rooms.GET("", h.ListRoomsHandler)
	rooms.POST("/:roomid/join", h.JoinRoomHandler)

	games := r.Group("/game")
	games.Use(authMW)
	games.GET("/:roomid/state", h.StateHandler)
	games.POST("/:roomid/move", rateMW, h.MoveHandler)
	games.POST("/:roomid/leave", h.LeaveHandler)
}

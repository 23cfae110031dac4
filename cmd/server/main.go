package main

import (
	"context"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"simonduel/auth"
	"simonduel/config"
	"simonduel/crypto"
	"simonduel/game"
	"simonduel/gamehttp"
	"simonduel/migrations"
	"simonduel/storage"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
	}))

	return r
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	generator := game.NewGenerator()

	var store game.Store
	if cfg.PostgresURL != "" {
		if err := migrations.Up(cfg.PostgresURL); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
		pgStore, err := storage.NewPostgresStore(context.Background(), cfg.PostgresURL, generator)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to postgres")
		}
		defer pgStore.Close()
		store = pgStore
	} else {
		log.Warn().Msg("POSTGRES_URL not set, running on the in-memory store")
		store = storage.NewMemoryStore(generator)
	}

	tokenManager := crypto.NewJWTManager(cfg.JWTKey, cfg.TokenMaxAge)
	sessionHandler := auth.NewSessionHandler(tokenManager, cfg.TokenMaxAge)
	gameHandler := gamehttp.NewGameHandler(store, log)

	r := CreateServer(cfg.AllowedOrigins)
	r.POST("/session", sessionHandler.CreateSessionHandler)

	authMW := sessionHandler.RequireAuthMiddleware(2 * time.Second)
	rateMW := gamehttp.RateLimitMiddleware(rate.Limit(cfg.MoveRatePerSec), cfg.MoveRateBurst)
	gamehttp.RegisterRoutes(r, gameHandler, authMW, rateMW)

	sweeper := game.NewSweeper(store, cfg.RoomTTL, cfg.SweepInterval, game.NewTickerGen(), log)
	go sweeper.Run(context.Background())

	log.Info().Str("port", cfg.Port).Msg("api listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("couldn't start server")
	}
}

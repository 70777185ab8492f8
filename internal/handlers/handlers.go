package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"progressly/api/internal/cache"
	"progressly/api/internal/config"
	"progressly/api/internal/middleware"
	"progressly/api/internal/repository"
	"progressly/api/internal/security"
	"progressly/api/internal/service"
	"progressly/api/internal/storage"
)

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

type HandlerSet struct {
	log    zerolog.Logger
	cfg    *config.AppConfig
	tokens *security.TokenService
	auth   *service.AuthService
	goals  *service.GoalService
	db     Pinger
	cache  Pinger
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cacheClient *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	tokens := security.NewTokenService(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	auth := service.NewAuthService(userRepo, store, cache.NewAttemptCounter(cacheClient), cfg, log)
	goals := service.NewGoalService(goalRepo, userRepo, log)

	return HandlerSet{
		log:    log,
		cfg:    cfg,
		tokens: tokens,
		auth:   auth,
		goals:  goals,
		db:     db,
		cache:  redisPinger{client: cacheClient},
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/sign-up", h.SignUp)
		auth.POST("/sign-in", h.SignIn)
		auth.GET("/sign-out", h.SignOut)
		auth.GET("/check-auth", h.CheckAuth)

		users := v1.Group("/users")
		users.Use(middleware.Auth(h.tokens))
		users.GET("", h.ListUsers)
		users.GET("/me", h.GetMe)
		users.PUT("/me", h.UpdateProfile)
		users.PATCH("/me/password", h.ChangePassword)

		goals := v1.Group("/goals")
		goals.Use(middleware.Auth(h.tokens))
		goals.POST("", h.CreateGoal)
		goals.GET("", h.ListGoals)
		goals.GET("/:id", h.GetGoal)
		goals.PUT("/:id", h.UpdateGoal)
		goals.DELETE("/:id", h.DeleteGoal)
		goals.POST("/:id/contributions", h.AddContribution)
	}
}

// subject returns the gate-attached user id, rejecting the request when a
// protected handler is somehow reached without one.
func (h HandlerSet) subject(c *gin.Context) (string, bool) {
	id, ok := middleware.SubjectID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, please sign in"})
	}
	return id, ok
}

// fail maps domain errors onto the response taxonomy. Unexpected errors
// are logged with detail and surfaced as a generic internal failure.
func (h HandlerSet) fail(c *gin.Context, err error, op string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": vErr.Message})
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email has already been registered."})
	case errors.Is(err, service.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many sign-in attempts, please try again later."})
	case errors.Is(err, repository.ErrGoalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Goal not found"})
	default:
		h.log.Error().Err(err).Str("op", op).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
	}
}

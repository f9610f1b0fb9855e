package di

import (
	"github.com/seifhassan89/full-stack-user-curd/internal/handler"
	"github.com/seifhassan89/full-stack-user-curd/internal/repository"
	"github.com/seifhassan89/full-stack-user-curd/internal/security"
	"github.com/seifhassan89/full-stack-user-curd/internal/service"
	"github.com/seifhassan89/full-stack-user-curd/pkg/config"
	"github.com/seifhassan89/full-stack-user-curd/pkg/database"
	"github.com/seifhassan89/full-stack-user-curd/pkg/redis"
)

// Container holds all dependencies for the API
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Cache *redis.Client // nil when Redis is disabled

	// Security
	TokenSigner    *security.TokenSigner
	PasswordHasher security.PasswordHasher

	// Repositories
	UserRepo repository.UserRepository

	// Services
	AuthService service.AuthService
	UserService service.UserService

	// Handlers
	HealthHandler  *handler.HealthHandler
	MetricsHandler *handler.MetricsHandler
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
}

// NewContainer wires repositories, services and handlers together
func NewContainer(cfg *config.Config, db *database.PostgresDB, cache *redis.Client) *Container {
	c := &Container{
		DB:    db,
		Cache: cache,
	}

	c.TokenSigner = security.NewTokenSigner(&security.TokenSignerConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTokenTTL,
		RefreshTTL:    cfg.JWT.RefreshTokenTTL,
		Issuer:        cfg.JWT.Issuer,
	})
	c.PasswordHasher = security.NewBcryptHasher(0)

	c.UserRepo = repository.NewPostgresUserRepository(db.Pool())

	c.AuthService = service.NewAuthService(c.UserRepo, c.TokenSigner, c.PasswordHasher)
	c.UserService = service.NewUserService(c.UserRepo, c.PasswordHasher)

	c.HealthHandler = handler.NewHealthHandler(cfg.App.Name, db, cache)
	c.MetricsHandler = handler.NewMetricsHandler(cfg.App.Name, db)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.UserHandler = handler.NewUserHandler(c.UserService)

	return c
}

// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "watchlist/internal/feature/auth/adapters"
	authhandler "watchlist/internal/feature/auth/transport/handler"
	authusecase "watchlist/internal/feature/auth/usecase"
	movieadapters "watchlist/internal/feature/movie/adapters"
	moviehandler "watchlist/internal/feature/movie/transport/handler"
	movieusecase "watchlist/internal/feature/movie/usecase"
	"watchlist/internal/config"
	"watchlist/internal/platform/cache"
	"watchlist/internal/platform/flash"
	"watchlist/internal/platform/token"
	"watchlist/internal/platform/view"
	"watchlist/internal/shared/ratelimiter"
)

// Container holds the wired application components the router needs.
type Container struct {
	DB *gorm.DB

	Auth    *authusecase.AuthUsecase
	Movies  *movieusecase.MovieUsecase
	Cookies *authhandler.SessionCookie
	Flashes *flash.Store

	HTMLRender *view.HTMLRender
	Renderer   *view.Renderer

	AuthHandler  *authhandler.AuthHandler
	MovieHandler *moviehandler.MovieHandler

	LoginLimiter *ratelimiter.RateLimiter
}

// NewMovieRepository returns the movie table wrapped in a Redis read cache.
// A nil rdb disables caching.
func NewMovieRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *cache.CachingMovieRepository {
	return cache.NewCachingMovieRepository(rdb, ttl, movieadapters.NewMovieGorm(db), "movies")
}

// NewAuthUsecase wires the owner and session stores into an AuthUsecase.
func NewAuthUsecase(cfg config.Config, db *gorm.DB, rdb *redis.Client) *authusecase.AuthUsecase {
	return authusecase.NewAuthUsecase(authadapters.NewOwnerGorm(db), NewSessionRepository(rdb, db), cfg.SessionTTL)
}

// NewContainer builds every component from cfg. rdb may be nil.
func NewContainer(cfg config.Config, db *gorm.DB, rdb *redis.Client) (*Container, error) {
	htmlRender, err := view.NewHTMLRender()
	if err != nil {
		return nil, err
	}

	signer := token.NewSigner(cfg.SecretKey)
	flashes := flash.NewStore(signer, cfg.CookieSecure)
	cookies := authhandler.NewSessionCookie(signer, cfg.CookieSecure)
	renderer := view.NewRenderer(flashes)

	authUC := NewAuthUsecase(cfg, db, rdb)
	movieUC := movieusecase.NewMovieUsecase(NewMovieRepository(db, rdb, cfg.CacheTTL))

	return &Container{
		DB:           db,
		Auth:         authUC,
		Movies:       movieUC,
		Cookies:      cookies,
		Flashes:      flashes,
		HTMLRender:   htmlRender,
		Renderer:     renderer,
		AuthHandler:  authhandler.NewAuthHandler(authUC, cookies, flashes, renderer),
		MovieHandler: moviehandler.NewMovieHandler(movieUC, flashes, renderer),
		LoginLimiter: ratelimiter.NewRateLimiter(cfg.LoginRateLimit, time.Minute),
	}, nil
}

// PingContext checks that the database answers. It lets the container serve as a health probe.
func (c *Container) PingContext(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

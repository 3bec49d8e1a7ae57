// Package router assembles the HTTP routes.
package router

import (
	"github.com/gin-gonic/gin"

	"watchlist/internal/app/di"
	authhandler "watchlist/internal/feature/auth/transport/handler"
	"watchlist/internal/platform/form"
	"watchlist/internal/platform/http/handler"
	"watchlist/internal/platform/http/middleware"
)

// NewRouter builds the gin engine for the watchlist site.
func NewRouter(c *di.Container) *gin.Engine {
	form.Setup()

	r := gin.New()
	r.HTMLRender = c.HTMLRender
	r.Use(
		middleware.RequestLog(),
		middleware.Recovery(c.Renderer.InternalError),
		authhandler.LoadSession(c.Auth, c.Cookies),
	)

	// No authentication required
	health := handler.Health(c)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	r.GET("/", c.MovieHandler.Index)
	r.GET("/login", c.AuthHandler.LoginPage)
	r.POST("/login", middleware.RateLimit(c.LoginLimiter), c.AuthHandler.Login)

	// Routes that require a logged-in owner
	authRequired := authhandler.AuthRequired(c.Flashes)
	r.POST("/", authRequired, c.MovieHandler.Create)
	r.GET("/logout", authRequired, c.AuthHandler.Logout)

	movie := r.Group("/movie", authRequired)
	{
		movie.GET("/edit/:id", c.MovieHandler.EditPage)
		movie.POST("/edit/:id", c.MovieHandler.Edit)
		movie.POST("/delete/:id", c.MovieHandler.Delete)
	}

	r.NoRoute(c.Renderer.NotFound)
	return r
}

// Package handler provides the HTTP handlers of the movie feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"watchlist/internal/feature/movie/domain/entity"
	"watchlist/internal/feature/movie/transport/http/dto"
	"watchlist/internal/feature/movie/usecase"
	"watchlist/internal/platform/flash"
	"watchlist/internal/platform/form"
	"watchlist/internal/platform/view"
)

// MovieUsecase defines the watchlist operations used by the handlers.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type MovieUsecase interface {
	List(ctx context.Context) ([]entity.Movie, error)
	Get(ctx context.Context, id uint) (*entity.Movie, error)
	Create(ctx context.Context, title, year string) (*entity.Movie, error)
	Update(ctx context.Context, id uint, title, year string) (*entity.Movie, error)
	Delete(ctx context.Context, id uint) error
}

// MovieHandler serves the index, edit and delete endpoints.
type MovieHandler struct {
	movies   MovieUsecase
	flashes  *flash.Store
	renderer *view.Renderer
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(movies MovieUsecase, flashes *flash.Store, renderer *view.Renderer) *MovieHandler {
	return &MovieHandler{movies: movies, flashes: flashes, renderer: renderer}
}

// Index renders every movie.
func (h *MovieHandler) Index(c *gin.Context) {
	movies, err := h.movies.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.HTML(c, http.StatusOK, view.PageIndex, gin.H{"Movies": movies})
}

// Create adds a movie from the index form.
func (h *MovieHandler) Create(c *gin.Context) {
	var req dto.MovieForm
	if err := form.Bind(c, &req); err != nil {
		slog.Debug("movie validation failed", "error", err)
		h.flashes.Add(c, "Invalid input.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	movie, err := h.movies.Create(c.Request.Context(), req.Title, req.Year)
	if err != nil {
		h.fail(c, err)
		return
	}
	slog.Info("movie created", "id", movie.ID)
	h.flashes.Add(c, "Item created.")
	c.Redirect(http.StatusFound, "/")
}

// EditPage renders the edit form pre-filled with the stored movie.
func (h *MovieHandler) EditPage(c *gin.Context) {
	id, ok := h.movieID(c)
	if !ok {
		return
	}
	movie, err := h.movies.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.HTML(c, http.StatusOK, view.PageEdit, gin.H{"Movie": movie})
}

// Edit updates a movie from the edit form.
// An unknown ID is a 404 even when the form is invalid.
func (h *MovieHandler) Edit(c *gin.Context) {
	id, ok := h.movieID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.movies.Get(ctx, id); err != nil {
		h.fail(c, err)
		return
	}

	var req dto.MovieForm
	if err := form.Bind(c, &req); err != nil {
		slog.Debug("movie validation failed", "id", id, "error", err)
		h.flashes.Add(c, "Invalid input.")
		c.Redirect(http.StatusFound, "/movie/edit/"+strconv.FormatUint(uint64(id), 10))
		return
	}

	if _, err := h.movies.Update(ctx, id, req.Title, req.Year); err != nil {
		h.fail(c, err)
		return
	}
	slog.Info("movie updated", "id", id)
	h.flashes.Add(c, "Item updated.")
	c.Redirect(http.StatusFound, "/")
}

// Delete removes a movie.
func (h *MovieHandler) Delete(c *gin.Context) {
	id, ok := h.movieID(c)
	if !ok {
		return
	}
	if err := h.movies.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	slog.Info("movie deleted", "id", id)
	h.flashes.Add(c, "Item deleted.")
	c.Redirect(http.StatusFound, "/")
}

// movieID parses the :id path parameter. Malformed IDs render the 404 page.
func (h *MovieHandler) movieID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.renderer.NotFound(c)
		return 0, false
	}
	return uint(id), true
}

// fail maps usecase errors onto the 404 or 500 page.
func (h *MovieHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrMovieNotFound) {
		h.renderer.NotFound(c)
		return
	}
	slog.Error("movie request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	h.renderer.InternalError(c)
}

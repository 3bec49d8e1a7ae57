// Package usecase implements the watchlist operations on movies.
package usecase

import (
	"context"
	"fmt"

	"watchlist/internal/feature/movie/domain/entity"
)

// MovieRepository abstracts storage of movies.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MovieRepository interface {
	// List returns all movies ordered by ID ascending.
	List(ctx context.Context) ([]entity.Movie, error)

	// FindByID returns ErrMovieNotFound when no movie has the ID.
	FindByID(ctx context.Context, id uint) (*entity.Movie, error)

	// Create inserts the movie and sets its ID.
	Create(ctx context.Context, movie *entity.Movie) error

	// Update overwrites title and year, or returns ErrMovieNotFound.
	Update(ctx context.Context, movie *entity.Movie) error

	// Delete removes the movie, or returns ErrMovieNotFound.
	Delete(ctx context.Context, id uint) error
}

// MovieUsecase exposes the watchlist operations.
// Input is validated at the transport boundary before it reaches this layer.
type MovieUsecase struct {
	movies MovieRepository
}

// NewMovieUsecase creates a new MovieUsecase.
func NewMovieUsecase(movies MovieRepository) *MovieUsecase {
	return &MovieUsecase{movies: movies}
}

// List returns every movie in insertion order.
func (u *MovieUsecase) List(ctx context.Context) ([]entity.Movie, error) {
	movies, err := u.movies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// Get returns a single movie.
func (u *MovieUsecase) Get(ctx context.Context, id uint) (*entity.Movie, error) {
	return u.movies.FindByID(ctx, id)
}

// Create adds a movie to the watchlist.
func (u *MovieUsecase) Create(ctx context.Context, title, year string) (*entity.Movie, error) {
	movie := &entity.Movie{Title: title, Year: year}
	if err := u.movies.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}
	return movie, nil
}

// Update replaces the title and year of an existing movie.
func (u *MovieUsecase) Update(ctx context.Context, id uint, title, year string) (*entity.Movie, error) {
	movie := &entity.Movie{ID: id, Title: title, Year: year}
	if err := u.movies.Update(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// Delete removes a movie permanently.
func (u *MovieUsecase) Delete(ctx context.Context, id uint) error {
	return u.movies.Delete(ctx, id)
}

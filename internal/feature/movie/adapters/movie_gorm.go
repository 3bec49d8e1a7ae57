// Package adapters provides repository implementations for the movie feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"watchlist/internal/feature/movie/domain/entity"
	"watchlist/internal/feature/movie/usecase"
)

// movieGorm is a GORM implementation of the MovieRepository interface.
type movieGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure movieGorm implements MovieRepository.
var _ usecase.MovieRepository = (*movieGorm)(nil)

// NewMovieGorm creates a new instance of movieGorm.
func NewMovieGorm(db *gorm.DB) *movieGorm {
	return &movieGorm{db: db}
}

// List returns all movies ordered by primary key.
func (r *movieGorm) List(ctx context.Context) ([]entity.Movie, error) {
	movies := []entity.Movie{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

// FindByID returns usecase.ErrMovieNotFound when no row matches.
func (r *movieGorm) FindByID(ctx context.Context, id uint) (*entity.Movie, error) {
	var m entity.Movie
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts the movie. The database assigns the ID.
func (r *movieGorm) Create(ctx context.Context, m *entity.Movie) error {
	if m == nil {
		return errors.New("movie is nil")
	}
	m.ID = 0
	return r.db.WithContext(ctx).Create(m).Error
}

// Update overwrites title and year in one transaction.
// On success m is refreshed with the stored row.
func (r *movieGorm) Update(ctx context.Context, m *entity.Movie) error {
	if m == nil {
		return errors.New("movie is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current entity.Movie
		if err := tx.Where("id = ?", m.ID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrMovieNotFound
			}
			return err
		}
		if err := tx.Model(&current).Updates(map[string]any{
			"title": m.Title,
			"year":  m.Year,
		}).Error; err != nil {
			return err
		}
		current.Title, current.Year = m.Title, m.Year
		*m = current
		return nil
	})
}

// Delete removes the movie permanently.
func (r *movieGorm) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Movie{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrMovieNotFound
	}
	return nil
}

// Package adapters provides repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"watchlist/internal/feature/auth/domain/entity"
	"watchlist/internal/feature/auth/usecase"
)

// ownerGorm is a GORM implementation of the OwnerRepository interface.
// The owner always lives at entity.OwnerID.
type ownerGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure ownerGorm implements OwnerRepository.
var _ usecase.OwnerRepository = (*ownerGorm)(nil)

// NewOwnerGorm creates a new instance of ownerGorm.
func NewOwnerGorm(db *gorm.DB) *ownerGorm {
	return &ownerGorm{db: db}
}

// Get returns the owner, or usecase.ErrOwnerNotFound when the user table is empty.
func (r *ownerGorm) Get(ctx context.Context) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", entity.OwnerID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrOwnerNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Save inserts or updates the owner row.
func (r *ownerGorm) Save(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("owner is nil")
	}
	u.ID = entity.OwnerID
	return r.db.WithContext(ctx).Save(u).Error
}

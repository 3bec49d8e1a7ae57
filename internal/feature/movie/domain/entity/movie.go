// Package entity defines the domain models for the movie feature.
package entity

import "time"

// Movie is one watchlist entry.
// Year is kept as free text of at most four characters.
type Movie struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:60;not null"`
	Year      string    `gorm:"size:4;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (Movie) TableName() string {
	return "movie"
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Media is one TMDB title. (TMDBID, MediaType) is the natural key; two rows
// with the same pair must never coexist, the composite unique index resolves
// concurrent first-reference races at the store boundary.
type Media struct {
	ID              int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	TMDBID          int64          `json:"tmdb_id" gorm:"column:tmdb_id;uniqueIndex:idx_media_tmdb_type;not null"`
	MediaType       string         `json:"media_type" gorm:"uniqueIndex:idx_media_tmdb_type;not null"`
	Title           string         `json:"title" gorm:"not null"`
	ReleaseYear     *int           `json:"release_year,omitempty"`
	PosterPath      *string        `json:"poster_path,omitempty"`
	BackdropPath    *string        `json:"backdrop_path,omitempty"`
	CachedDetail    datatypes.JSON `json:"cached_detail,omitempty" gorm:"type:jsonb"`
	LastRefreshedAt *time.Time     `json:"last_refreshed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	Viewings []Viewing `json:"viewings,omitempty" gorm:"foreignKey:MediaID;constraint:OnDelete:CASCADE;"`
}

func (Media) TableName() string {
	return "media"
}

// ValidMediaType reports whether t is one of the two supported catalog types.
func ValidMediaType(t string) bool {
	return t == MediaTypeMovie || t == MediaTypeTV
}

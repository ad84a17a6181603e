package models

import (
	"strings"
	"time"
)

// Viewing is one diary entry: a user watched a title on a date and rated it.
type Viewing struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	MediaID   int64     `json:"media_id" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   *string   `json:"comment,omitempty"`
	WatchedOn time.Time `json:"watched_on" gorm:"type:date;not null;index"`
	Rewatch   bool      `json:"rewatch" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Media Media `json:"media,omitempty" gorm:"foreignKey:MediaID;constraint:OnDelete:CASCADE;"`
	Tags  []Tag `json:"tags,omitempty" gorm:"many2many:viewing_tags;constraint:OnDelete:CASCADE;"`
}

func (Viewing) TableName() string {
	return "viewings"
}

// HasTag reports whether the viewing carries the named tag. Tag names are
// stored lowercase, the comparison folds case so callers need not.
func (v *Viewing) HasTag(name string) bool {
	for _, t := range v.Tags {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

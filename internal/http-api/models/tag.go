package models

import (
	"regexp"
	"strings"
	"time"
)

type Tag struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"unique;not null"`
	Slug      string    `json:"slug" gorm:"unique;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Tag) TableName() string {
	return "tags"
}

var slugStrip = regexp.MustCompile(`[^\w\s-]`)

// Slugify derives the canonical tag slug: lowercase, non-word characters
// stripped, spaces turned into hyphens. Deterministic so the same name always
// maps to the same slug.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.TrimSpace(strings.ToLower(name)), "")
	return strings.ReplaceAll(s, " ", "-")
}

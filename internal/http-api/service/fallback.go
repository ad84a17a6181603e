package service

import "github.com/AlexIbby/ourmovies/internal/http-api/models"

// resolveDisplayViewing picks the viewing shown in one user's slot for a
// shared title. A user with a viewing of their own always sees it; a user
// without one borrows the latest viewing by anyone so the slot is never
// blank. The second return reports whether the fallback substitution
// happened. Both can only be empty when nobody has watched the title.
func resolveDisplayViewing(own, latestAny *models.Viewing) (*models.Viewing, bool) {
	if own != nil {
		return own, false
	}
	if latestAny != nil {
		return latestAny, true
	}
	return nil, false
}

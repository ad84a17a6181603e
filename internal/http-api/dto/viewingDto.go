package dto

type CreateViewingRequest struct {
	TMDBID    int64  `json:"tmdb_id" binding:"required"`
	MediaType string `json:"media_type" binding:"required,oneof=movie tv"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
	WatchedOn string `json:"watched_on" binding:"required"` // YYYY-MM-DD
	Rewatch   bool   `json:"rewatch"`
	Tags      string `json:"tags"` // comma-separated names
}

type UpdateViewingRequest struct {
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
	WatchedOn string `json:"watched_on" binding:"required"`
	Rewatch   bool   `json:"rewatch"`
	Tags      string `json:"tags"`
}

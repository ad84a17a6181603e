package dto

// SortNewest orders by most recent qualifying watch date, SortHighestRated
// by best rating with recency as the second key.
const (
	SortNewest       = "newest"
	SortHighestRated = "highest_rated"
)

// DiaryQuery carries the parsed filter/sort/page parameters of a diary
// request. Nil/zero fields are inactive filters.
type DiaryQuery struct {
	Year      *int
	MediaType string
	MinRating int
	Tags      []string
	Sort      string
	Page      int
}

type TagResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type MediaResponse struct {
	ID          int64   `json:"id"`
	TMDBID      int64   `json:"tmdb_id"`
	MediaType   string  `json:"media_type"`
	Title       string  `json:"title"`
	ReleaseYear *int    `json:"release_year,omitempty"`
	PosterURL   *string `json:"poster_url,omitempty"`
	BackdropURL *string `json:"backdrop_url,omitempty"`
}

type ViewingResponse struct {
	ID        int64         `json:"id"`
	UserID    string        `json:"user_id"`
	Rating    int           `json:"rating"`
	Comment   *string       `json:"comment,omitempty"`
	WatchedOn string        `json:"watched_on"`
	Rewatch   bool          `json:"rewatch"`
	Tags      []TagResponse `json:"tags"`
}

// UserSlot is one user's display slot for a title. Fallback marks a slot
// filled by another user's viewing because this user has none of their own.
type UserSlot struct {
	UserID   string           `json:"user_id"`
	Username string           `json:"username"`
	Viewing  *ViewingResponse `json:"viewing"`
	Fallback bool             `json:"fallback,omitempty"`
}

type DiaryItem struct {
	Media MediaResponse `json:"media"`
	Users []UserSlot    `json:"users"`
}

type FilterOptions struct {
	Years []int         `json:"years"`
	Tags  []TagResponse `json:"tags"`
}

type DiaryPage struct {
	Items         []DiaryItem   `json:"items"`
	Page          int           `json:"page"`
	TotalPages    int           `json:"total_pages"`
	HasPrev       bool          `json:"has_prev"`
	HasNext       bool          `json:"has_next"`
	FilterOptions FilterOptions `json:"filter_options"`
}

type TitleDetailResponse struct {
	Media MediaResponse `json:"media"`
	Users []UserSlot    `json:"users"`
}

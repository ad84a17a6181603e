package tmdb

import "strconv"

// Detail is the opaque catalog document for one title. TMDB's schema differs
// between movies and TV (title vs name, release_date vs first_air_date), so
// the document stays a loose map with accessors for the few fields we read.
type Detail map[string]interface{}

// GetString returns the string value for key, if present and non-empty.
func (d Detail) GetString(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Title returns the display title, unifying the TV "name" field.
func (d Detail) Title() string {
	if title, ok := d.GetString("title"); ok {
		return title
	}
	if name, ok := d.GetString("name"); ok {
		return name
	}
	return ""
}

// ReleaseDate returns whichever date field is present.
func (d Detail) ReleaseDate() (string, bool) {
	if date, ok := d.GetString("release_date"); ok {
		return date, true
	}
	return d.GetString("first_air_date")
}

// Year parses the release year from the first 4 characters of the date field.
// Returns nil when no date is present or the prefix is not numeric.
func (d Detail) Year() *int {
	date, ok := d.ReleaseDate()
	if !ok || len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}

// PosterPath returns the poster path, nil when absent.
func (d Detail) PosterPath() *string {
	if p, ok := d.GetString("poster_path"); ok {
		return &p
	}
	return nil
}

// BackdropPath returns the backdrop path, nil when absent.
func (d Detail) BackdropPath() *string {
	if p, ok := d.GetString("backdrop_path"); ok {
		return &p
	}
	return nil
}

// MediaType returns the media_type field multi-search results carry.
func (d Detail) MediaType() string {
	t, _ := d.GetString("media_type")
	return t
}

// ID returns the numeric catalog id, 0 when absent. JSON numbers decode as
// float64 in a loose map.
func (d Detail) ID() int64 {
	if v, ok := d["id"].(float64); ok {
		return int64(v)
	}
	return 0
}

package models

// Credit is one filmography entry of a person.
type Credit struct {
	MovieID     int     `json:"movie_id"`
	Title       string  `json:"title"`
	Role        string  `json:"role"`
	Popularity  float64 `json:"popularity"`
	ReleaseDate string  `json:"release_date,omitempty"`
	PosterPath  string  `json:"poster_path,omitempty"`
}

// Year returns the four-digit release year, or "" when unknown.
func (c Credit) Year() string {
	return yearOf(c.ReleaseDate)
}

// Image is a profile image.
type Image struct {
	FilePath string `json:"file_path"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// PersonDetail is the assembled person page.
type PersonDetail struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	Biography          string   `json:"biography,omitempty"`
	Birthday           string   `json:"birthday,omitempty"`
	Deathday           string   `json:"deathday,omitempty"`
	PlaceOfBirth       string   `json:"place_of_birth,omitempty"`
	ProfilePath        string   `json:"profile_path,omitempty"`
	KnownForDepartment string   `json:"known_for_department,omitempty"`
	KnownFor           []string `json:"known_for"`
	Filmography        []Credit `json:"filmography"`
	Directing          []Credit `json:"directing"`
	Images             []Image  `json:"images"`
	AIBio              string   `json:"ai_bio,omitempty"`
}

package models

// MovieSummary is a movie as it appears in listings.
type MovieSummary struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	ReleaseDate      string  `json:"release_date"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
}

// Year returns the four-digit release year, or "" when unknown.
func (m MovieSummary) Year() string {
	return yearOf(m.ReleaseDate)
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Company is a production company.
type Company struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path,omitempty"`
}

// CollectionRef links a movie to its franchise collection.
type CollectionRef struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PosterPath string `json:"poster_path,omitempty"`
}

// CastMember is an actor credit.
type CastMember struct {
	PersonID    int    `json:"person_id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	Order       int    `json:"order"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// CrewMember is a crew credit (director or writer).
type CrewMember struct {
	PersonID    int    `json:"person_id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// Keyword is a TMDB keyword.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Review is a user review.
type Review struct {
	Author    string   `json:"author"`
	Content   string   `json:"content"`
	Rating    *float64 `json:"rating,omitempty"`
	URL       string   `json:"url,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// Video is a hosted video.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// MovieDetail is the assembled movie detail page.
type MovieDetail struct {
	MovieSummary
	Tagline             string         `json:"tagline,omitempty"`
	Runtime             int            `json:"runtime,omitempty"`
	Budget              int64          `json:"budget,omitempty"`
	Revenue             int64          `json:"revenue,omitempty"`
	Genres              []Genre        `json:"genres"`
	ProductionCompanies []Company      `json:"production_companies"`
	SpokenLanguages     []string       `json:"spoken_languages"`
	Collection          *CollectionRef `json:"collection,omitempty"`
	Cast                []CastMember   `json:"cast"`
	Director            *CrewMember    `json:"director,omitempty"`
	Writers             []CrewMember   `json:"writers"`
	Keywords            []Keyword      `json:"keywords"`
	Reviews             []Review       `json:"reviews"`
	Trailer             *Video         `json:"trailer,omitempty"`
	Teaser              *Video         `json:"teaser,omitempty"`
	Clips               []Video        `json:"clips"`
	Similar             []MovieSummary `json:"similar"`
	Recommended         []MovieSummary `json:"recommended"`
	AIReview            string         `json:"ai_review,omitempty"`
	FunFact             string         `json:"fun_fact,omitempty"`
}

// Collection is a franchise with its parts in release order.
type Collection struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Overview     string         `json:"overview"`
	PosterPath   string         `json:"poster_path,omitempty"`
	BackdropPath string         `json:"backdrop_path,omitempty"`
	Parts        []MovieSummary `json:"parts"`
}

// MovieList is one page of a listing route.
type MovieList struct {
	Title        string         `json:"title"`
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Sort         string         `json:"sort"`
	Movies       []MovieSummary `json:"results"`
}

// SearchResult is a listing produced by the free-text search.
type SearchResult struct {
	Query   string         `json:"query"`
	Refined string         `json:"refined"`
	Year    string         `json:"year,omitempty"`
	Lang    string         `json:"lang,omitempty"`
	Sort    string         `json:"sort"`
	Movies  []MovieSummary `json:"results"`
}

// MoodResult is the mood listing with its optional generated message.
type MoodResult struct {
	Mood    Mood           `json:"mood"`
	Message string         `json:"message,omitempty"`
	Movies  []MovieSummary `json:"results"`
}

// Home is the landing page data.
type Home struct {
	Featured *MovieSummary  `json:"featured,omitempty"`
	Trending []MovieSummary `json:"trending"`
	Popular  []MovieSummary `json:"popular"`
	TopPicks []MovieSummary `json:"top_picks"`
}

// Trivia is a generated quiz about one movie.
type Trivia struct {
	Movie    MovieSummary `json:"movie"`
	Question string       `json:"question,omitempty"`
}

func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

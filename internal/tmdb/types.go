package tmdb

// ---- TMDB Response Types (internal, not exposed to consumers) ----

// MovieListResponse is the shape shared by every paginated movie endpoint.
type MovieListResponse struct {
	Page         int         `json:"page"`
	Results      []MovieItem `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// MovieItem is a movie inside a list response.
type MovieItem struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
}

// Movie is the detailed movie record from movie/{id}.
type Movie struct {
	ID                  int                 `json:"id"`
	Title               string              `json:"title"`
	Tagline             string              `json:"tagline"`
	Overview            string              `json:"overview"`
	ReleaseDate         string              `json:"release_date"`
	Popularity          float64             `json:"popularity"`
	VoteAverage         float64             `json:"vote_average"`
	VoteCount           int                 `json:"vote_count"`
	PosterPath          string              `json:"poster_path"`
	BackdropPath        string              `json:"backdrop_path"`
	OriginalLanguage    string              `json:"original_language"`
	Runtime             int                 `json:"runtime"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []Company           `json:"production_companies"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
	BelongsToCollection *CollectionRef      `json:"belongs_to_collection"`
	Credits             *Credits            `json:"credits,omitempty"`
	Keywords            *KeywordList        `json:"keywords,omitempty"`
	Reviews             *ReviewListResponse `json:"reviews,omitempty"`
}

// Genre is a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Company is a production company.
type Company struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

// SpokenLanguage is an entry of spoken_languages.
type SpokenLanguage struct {
	ISO639_1    string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// CollectionRef is the belongs_to_collection stub on a movie.
type CollectionRef struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

// Credits is the credits sub-resource of a movie.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is an actor credit on a movie.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	Order       int    `json:"order"`
	ProfilePath string `json:"profile_path"`
}

// CrewMember is a crew credit on a movie.
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// KeywordList is the keywords sub-resource of a movie.
type KeywordList struct {
	Keywords []Keyword `json:"keywords"`
}

// Keyword is a TMDB keyword.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ReviewListResponse is the reviews sub-resource of a movie.
type ReviewListResponse struct {
	Results []Review `json:"results"`
}

// Review is a user review.
type Review struct {
	ID            string `json:"id"`
	Author        string `json:"author"`
	Content       string `json:"content"`
	URL           string `json:"url"`
	CreatedAt     string `json:"created_at"`
	AuthorDetails struct {
		Rating *float64 `json:"rating"`
	} `json:"author_details"`
}

// VideoListResponse is the movie/{id}/videos response.
type VideoListResponse struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// Video is a trailer, teaser, clip or featurette.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// Person is the person/{id} record.
type Person struct {
	ID                 int           `json:"id"`
	Name               string        `json:"name"`
	Biography          string        `json:"biography"`
	Birthday           string        `json:"birthday"`
	Deathday           string        `json:"deathday"`
	PlaceOfBirth       string        `json:"place_of_birth"`
	ProfilePath        string        `json:"profile_path"`
	KnownForDepartment string        `json:"known_for_department"`
	Popularity         float64       `json:"popularity"`
	MovieCredits       *MovieCredits `json:"movie_credits,omitempty"`
	Images             *PersonImages `json:"images,omitempty"`
}

// MovieCredits is the movie_credits sub-resource of a person.
type MovieCredits struct {
	Cast []PersonCredit `json:"cast"`
	Crew []PersonCredit `json:"crew"`
}

// PersonCredit is one filmography entry. Character is set on cast credits,
// Job on crew credits.
type PersonCredit struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Character   string  `json:"character"`
	Job         string  `json:"job"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
}

// PersonImages is the images sub-resource of a person.
type PersonImages struct {
	Profiles []Image `json:"profiles"`
}

// Image is a profile image.
type Image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// Collection is the collection/{id} record.
type Collection struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	Overview     string      `json:"overview"`
	PosterPath   string      `json:"poster_path"`
	BackdropPath string      `json:"backdrop_path"`
	Parts        []MovieItem `json:"parts"`
}

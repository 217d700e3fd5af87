package service

import (
	"cmp"
	"context"
	"log/slog"
	"net/url"
	"slices"
	"strconv"

	"github.com/sourcegraph/conc/pool"

	"moviefinder/internal/models"
	"moviefinder/internal/tmdb"
)

const (
	relatedLimit    = 6
	clipLimit       = 5
	castLimit       = 12
	writerLimit     = 3
	keywordLimit    = 10
	reviewLimit     = 3
	filmographyCap  = 20
	directingCap    = 10
	imageLimit      = 8
	knownForLimit   = 3
	videoHost       = "YouTube"
	triviaPageSpan  = 5
	reviewTextLimit = 600
)

var writerJobs = []string{"Writer", "Screenplay", "Story"}

// MovieDetail assembles the movie page: the primary record (with credits,
// keywords and reviews), videos, similar and recommended titles fetched
// concurrently, followed by the review and fun-fact enrichments.
func (s *MovieService) MovieDetail(ctx context.Context, id int) (*models.MovieDetail, error) {
	var (
		movie       *tmdb.Movie
		movieErr    error
		videos      []tmdb.Video
		similar     []models.MovieSummary
		recommended []models.MovieSummary
	)

	p := pool.New()
	p.Go(func() {
		movie, movieErr = s.tmdbClient.Movie(ctx, id, "credits", "keywords", "reviews")
	})
	p.Go(func() {
		v, err := s.tmdbClient.Videos(ctx, id)
		if err != nil {
			slog.Warn("videos unavailable", "movie_id", id, "error", err)
			return
		}
		videos = v
	})
	p.Go(func() {
		similar = capped(toSummaries(s.fetchList(ctx, "movie/"+strconv.Itoa(id)+"/similar", nil).Results), relatedLimit)
	})
	p.Go(func() {
		recommended = capped(toSummaries(s.fetchList(ctx, "movie/"+strconv.Itoa(id)+"/recommendations", nil).Results), relatedLimit)
	})
	p.Wait()

	if movieErr != nil {
		return nil, classify(movieErr)
	}

	detail := buildMovieDetail(movie)
	detail.Trailer, detail.Teaser, detail.Clips = pickVideos(videos)
	detail.Similar = similar
	detail.Recommended = recommended

	ep := pool.New()
	ep.Go(func() {
		detail.AIReview = s.complete(ctx, reviewPrompt(detail.Title, detail.Year(), detail.VoteAverage, detail.Overview), reviewMaxTokens)
	})
	ep.Go(func() {
		detail.FunFact = s.complete(ctx, funFactPrompt(detail.Title, detail.Year()), funFactMaxTokens)
	})
	ep.Wait()

	return detail, nil
}

// Movie returns the summary of a single movie.
func (s *MovieService) Movie(ctx context.Context, id int) (*models.MovieSummary, error) {
	movie, err := s.tmdbClient.Movie(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	summary := movieSummary(movie)
	return &summary, nil
}

// MovieReview returns the movie summary with a generated review, which may
// be empty when text generation is unavailable.
func (s *MovieService) MovieReview(ctx context.Context, id int) (*models.MovieSummary, string, error) {
	movie, err := s.tmdbClient.Movie(ctx, id)
	if err != nil {
		return nil, "", classify(err)
	}
	summary := movieSummary(movie)
	review := s.complete(ctx, reviewPrompt(summary.Title, summary.Year(), summary.VoteAverage, summary.Overview), reviewMaxTokens)
	return &summary, review, nil
}

// Trivia picks a random popular movie and generates a quiz question for it.
func (s *MovieService) Trivia(ctx context.Context) (*models.Trivia, error) {
	q := url.Values{"page": {strconv.Itoa(1 + s.intN(triviaPageSpan))}}
	movies := toSummaries(s.fetchList(ctx, "movie/popular", q).Results)
	if len(movies) == 0 {
		return nil, ErrUnavailable
	}
	movie := movies[s.intN(len(movies))]
	return &models.Trivia{
		Movie:    movie,
		Question: s.complete(ctx, triviaPrompt(movie.Title, movie.Year()), triviaMaxTokens),
	}, nil
}

// TriviaFor generates a quiz question about a specific movie.
func (s *MovieService) TriviaFor(ctx context.Context, id int) (*models.Trivia, error) {
	movie, err := s.tmdbClient.Movie(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	summary := movieSummary(movie)
	return &models.Trivia{
		Movie:    summary,
		Question: s.complete(ctx, triviaPrompt(summary.Title, summary.Year()), triviaMaxTokens),
	}, nil
}

// PersonDetail assembles the actor page from one call with embedded movie
// credits and images, plus a generated bio.
func (s *MovieService) PersonDetail(ctx context.Context, id int) (*models.PersonDetail, error) {
	person, err := s.tmdbClient.Person(ctx, id, "movie_credits", "images")
	if err != nil {
		return nil, classify(err)
	}

	detail := &models.PersonDetail{
		ID:                 person.ID,
		Name:               person.Name,
		Biography:          person.Biography,
		Birthday:           person.Birthday,
		Deathday:           person.Deathday,
		PlaceOfBirth:       person.PlaceOfBirth,
		ProfilePath:        person.ProfilePath,
		KnownForDepartment: person.KnownForDepartment,
		KnownFor:           []string{},
		Filmography:        []models.Credit{},
		Directing:          []models.Credit{},
		Images:             []models.Image{},
	}

	if person.MovieCredits != nil {
		cast := make([]models.Credit, 0, len(person.MovieCredits.Cast))
		for _, c := range person.MovieCredits.Cast {
			cast = append(cast, toCredit(c, c.Character))
		}
		sortByPopularity(cast)
		detail.Filmography = capped(cast, filmographyCap)

		var directing []models.Credit
		for _, c := range person.MovieCredits.Crew {
			if c.Job == "Director" {
				directing = append(directing, toCredit(c, c.Job))
			}
		}
		sortByPopularity(directing)
		if len(directing) > 0 {
			detail.Directing = capped(directing, directingCap)
		}

		for _, c := range capped(cast, knownForLimit) {
			detail.KnownFor = append(detail.KnownFor, c.Title)
		}
	}

	if person.Images != nil {
		for _, img := range capped(person.Images.Profiles, imageLimit) {
			detail.Images = append(detail.Images, models.Image{FilePath: img.FilePath, Width: img.Width, Height: img.Height})
		}
	}

	detail.AIBio = s.complete(ctx, bioPrompt(detail.Name, detail.KnownFor), bioMaxTokens)
	return detail, nil
}

// Collection returns a franchise with its parts in ascending release order.
// Parts without a release date go last.
func (s *MovieService) Collection(ctx context.Context, id int) (*models.Collection, error) {
	col, err := s.tmdbClient.Collection(ctx, id)
	if err != nil {
		return nil, classify(err)
	}

	parts := toSummaries(col.Parts)
	slices.SortStableFunc(parts, func(a, b models.MovieSummary) int {
		switch {
		case a.ReleaseDate == "" && b.ReleaseDate == "":
			return 0
		case a.ReleaseDate == "":
			return 1
		case b.ReleaseDate == "":
			return -1
		}
		return cmp.Compare(a.ReleaseDate, b.ReleaseDate)
	})

	return &models.Collection{
		ID:           col.ID,
		Name:         col.Name,
		Overview:     col.Overview,
		PosterPath:   col.PosterPath,
		BackdropPath: col.BackdropPath,
		Parts:        parts,
	}, nil
}

func buildMovieDetail(m *tmdb.Movie) *models.MovieDetail {
	detail := &models.MovieDetail{
		MovieSummary:        movieSummary(m),
		Tagline:             m.Tagline,
		Runtime:             m.Runtime,
		Budget:              m.Budget,
		Revenue:             m.Revenue,
		Genres:              make([]models.Genre, 0, len(m.Genres)),
		ProductionCompanies: make([]models.Company, 0, len(m.ProductionCompanies)),
		SpokenLanguages:     make([]string, 0, len(m.SpokenLanguages)),
		Cast:                []models.CastMember{},
		Writers:             []models.CrewMember{},
		Keywords:            []models.Keyword{},
		Reviews:             []models.Review{},
		Clips:               []models.Video{},
	}

	for _, g := range m.Genres {
		detail.Genres = append(detail.Genres, models.Genre{ID: g.ID, Name: g.Name})
	}
	for _, c := range m.ProductionCompanies {
		detail.ProductionCompanies = append(detail.ProductionCompanies, models.Company{ID: c.ID, Name: c.Name, LogoPath: c.LogoPath})
	}
	for _, l := range m.SpokenLanguages {
		name := l.EnglishName
		if name == "" {
			name = l.Name
		}
		detail.SpokenLanguages = append(detail.SpokenLanguages, name)
	}
	if ref := m.BelongsToCollection; ref != nil && ref.ID != 0 {
		detail.Collection = &models.CollectionRef{ID: ref.ID, Name: ref.Name, PosterPath: ref.PosterPath}
	}

	if m.Credits != nil {
		cast := slices.Clone(m.Credits.Cast)
		slices.SortStableFunc(cast, func(a, b tmdb.CastMember) int { return cmp.Compare(a.Order, b.Order) })
		for _, c := range capped(cast, castLimit) {
			detail.Cast = append(detail.Cast, models.CastMember{
				PersonID:    c.ID,
				Name:        c.Name,
				Character:   c.Character,
				Order:       c.Order,
				ProfilePath: c.ProfilePath,
			})
		}

		for _, c := range m.Credits.Crew {
			switch {
			case c.Job == "Director" && detail.Director == nil:
				director := toCrew(c)
				detail.Director = &director
			case slices.Contains(writerJobs, c.Job) && len(detail.Writers) < writerLimit:
				detail.Writers = append(detail.Writers, toCrew(c))
			}
		}
	}

	if m.Keywords != nil {
		for _, k := range capped(m.Keywords.Keywords, keywordLimit) {
			detail.Keywords = append(detail.Keywords, models.Keyword{ID: k.ID, Name: k.Name})
		}
	}

	if m.Reviews != nil {
		for _, r := range capped(m.Reviews.Results, reviewLimit) {
			detail.Reviews = append(detail.Reviews, models.Review{
				Author:    r.Author,
				Content:   truncate(r.Content, reviewTextLimit),
				Rating:    r.AuthorDetails.Rating,
				URL:       r.URL,
				CreatedAt: r.CreatedAt,
			})
		}
	}

	return detail
}

// pickVideos selects the first hosted trailer, falling back to the first
// hosted teaser, and up to five hosted clips.
func pickVideos(videos []tmdb.Video) (trailer, teaser *models.Video, clips []models.Video) {
	clips = []models.Video{}
	for _, v := range videos {
		if v.Site != videoHost {
			continue
		}
		mv := models.Video{Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type}
		if trailer == nil && v.Type == "Trailer" {
			t := mv
			trailer = &t
		}
		if teaser == nil && v.Type == "Teaser" {
			t := mv
			teaser = &t
		}
		if len(clips) < clipLimit {
			clips = append(clips, mv)
		}
	}
	if trailer != nil {
		teaser = nil
	}
	return trailer, teaser, clips
}

func toCrew(c tmdb.CrewMember) models.CrewMember {
	return models.CrewMember{PersonID: c.ID, Name: c.Name, Job: c.Job, ProfilePath: c.ProfilePath}
}

func toCredit(c tmdb.PersonCredit, role string) models.Credit {
	return models.Credit{
		MovieID:     c.ID,
		Title:       c.Title,
		Role:        role,
		Popularity:  c.Popularity,
		ReleaseDate: c.ReleaseDate,
		PosterPath:  c.PosterPath,
	}
}

func sortByPopularity(credits []models.Credit) {
	slices.SortStableFunc(credits, func(a, b models.Credit) int { return cmp.Compare(b.Popularity, a.Popularity) })
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"

	"moviefinder/internal/models"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, n.Render(&b))
	return b.String()
}

func TestListMarksSavedMovies(t *testing.T) {
	r := NewRenderer("https://image.tmdb.org/t/p/")
	list := &models.MovieList{
		Title: "Horror Movies", Page: 2, TotalPages: 10, Sort: "rating",
		Movies: []models.MovieSummary{
			{ID: 1, Title: "Alien", PosterPath: "/alien.jpg", ReleaseDate: "1979-05-25", VoteAverage: 8.2},
			{ID: 2, Title: "The Thing"},
		},
	}

	out := render(t, r.List(list, "/genre/Horror", true, Session{Saved: map[int]bool{1: true}}))

	assert.Contains(t, out, "<!doctype html>")
	assert.Contains(t, out, "<title>Horror Movies | MovieFinder</title>")
	assert.Contains(t, out, `src="https://image.tmdb.org/t/p/w342/alien.jpg"`)
	assert.Contains(t, out, `href="/watchlist/remove/1"`)
	assert.Contains(t, out, `href="/watchlist/add/2"`)
	assert.Contains(t, out, `href="/genre/Horror?page=1&amp;sort=rating"`)
	assert.Contains(t, out, `href="/genre/Horror?page=3&amp;sort=rating"`)
	assert.Contains(t, out, "Watchlist (1)")
}

func TestMovieEscapesAndShowsTrailer(t *testing.T) {
	r := NewRenderer("https://img")
	m := &models.MovieDetail{
		MovieSummary: models.MovieSummary{ID: 27205, Title: "<Inception>", ReleaseDate: "2010-07-15"},
		Director:     &models.CrewMember{PersonID: 525, Name: "Christopher Nolan", Job: "Director"},
		Trailer:      &models.Video{Key: "abc", Name: "Official Trailer", Site: "YouTube", Type: "Trailer"},
		Runtime:      148,
		Budget:       160000000,
		AIReview:     "Mind-bending.",
	}

	out := render(t, r.Movie(m, Session{}))

	assert.Contains(t, out, "&lt;Inception&gt;")
	assert.NotContains(t, out, "<Inception>")
	assert.Contains(t, out, "https://www.youtube.com/embed/abc")
	assert.Contains(t, out, `href="/actor/525"`)
	assert.Contains(t, out, "2h 28m")
	assert.Contains(t, out, "$160,000,000")
	assert.Contains(t, out, "Mind-bending.")
	assert.NotContains(t, out, "Fun fact")
}

func TestTriviaHidesAnswer(t *testing.T) {
	r := NewRenderer("https://img")
	tr := &models.Trivia{
		Movie:    models.MovieSummary{ID: 1, Title: "Heat"},
		Question: "Who directed Heat?\nA) Mann\nB) Scott\nC) Fincher\nD) Nolan\nAnswer: A",
	}
	out := render(t, r.Trivia(tr, Session{}))
	assert.Contains(t, out, "<summary>Show answer</summary>")
	assert.Contains(t, out, "<p>A</p>")

	out = render(t, r.Trivia(&models.Trivia{Movie: tr.Movie}, Session{}))
	assert.Contains(t, out, "Trivia is unavailable")
}

func TestSplitAnswer(t *testing.T) {
	q, a := splitAnswer("Q?\nA) x\nanswer: B ")
	assert.Equal(t, "Q?\nA) x", q)
	assert.Equal(t, "B", a)

	q, a = splitAnswer("No answer line")
	assert.Equal(t, "No answer line", q)
	assert.Empty(t, a)
}

func TestErrorPage(t *testing.T) {
	out := render(t, NewRenderer("").Error(404, "Movie not found", Session{}))
	assert.Contains(t, out, "<h1>Not found</h1>")
	assert.Contains(t, out, "Movie not found")
}

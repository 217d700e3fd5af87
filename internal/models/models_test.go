package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreTable(t *testing.T) {
	assert.Len(t, Genres(), 18)

	g, ok := LookupGenre("sci-fi")
	require.True(t, ok)
	assert.Equal(t, 878, g.ID)
	assert.Equal(t, "Sci-Fi", g.Name)

	_, ok = LookupGenre("NotARealGenre")
	assert.False(t, ok)

	name, ok := GenreName(28)
	assert.True(t, ok)
	assert.Equal(t, "Action", name)
}

func TestMoodTable(t *testing.T) {
	assert.Len(t, Moods(), 10)

	m, ok := LookupMood("HAPPY")
	require.True(t, ok)
	assert.Equal(t, "35|10751|16", m.GenreFilter())

	// Every mood genre must resolve.
	for _, mood := range Moods() {
		for _, name := range mood.Genres {
			_, ok := LookupGenre(name)
			assert.Truef(t, ok, "mood %s references unknown genre %s", mood.Name, name)
		}
	}

	m.Genres[0] = "mutated"
	again, _ := LookupMood("happy")
	assert.Equal(t, "Comedy", again.Genres[0])
}

func TestLanguageTable(t *testing.T) {
	assert.Len(t, Languages(), 10)

	l, ok := LookupLanguage("Japanese")
	require.True(t, ok)
	assert.Equal(t, "ja", l.Code)

	l, ok = LookupLanguage("ko")
	require.True(t, ok)
	assert.Equal(t, "Korean", l.Name)

	_, ok = LookupLanguage("klingon")
	assert.False(t, ok)
}

func TestDecadeRange(t *testing.T) {
	from, to, ok := DecadeRange(1990)
	require.True(t, ok)
	assert.Equal(t, "1990-01-01", from)
	assert.Equal(t, "1999-12-31", to)

	for _, bad := range []int{1940, 1995, 2030} {
		_, _, ok := DecadeRange(bad)
		assert.Falsef(t, ok, "decade %d", bad)
	}
}

func TestSortMovies(t *testing.T) {
	movies := []MovieSummary{
		{ID: 1, Title: "Brazil", VoteAverage: 7.9, ReleaseDate: "1985-02-20", Popularity: 10},
		{ID: 2, Title: "Alien", VoteAverage: 8.2, ReleaseDate: "1979-05-25", Popularity: 50},
		{ID: 3, Title: "Cube", VoteAverage: 7.0, ReleaseDate: "", Popularity: 5},
	}

	ids := func(ms []MovieSummary) []int {
		out := make([]int, len(ms))
		for i, m := range ms {
			out[i] = m.ID
		}
		return out
	}

	assert.Equal(t, []int{2, 1, 3}, ids(SortMovies(movies, "rating")))
	assert.Equal(t, []int{1, 2, 3}, ids(SortMovies(movies, "date")))
	assert.Equal(t, []int{2, 1, 3}, ids(SortMovies(movies, "title")))
	assert.Equal(t, []int{2, 1, 3}, ids(SortMovies(movies, "")))
	assert.Equal(t, []int{1, 2, 3}, ids(movies), "input must not be reordered")
}

func TestListParamsValidate(t *testing.T) {
	p := ListParams{Page: 50, Sort: "bogus"}
	p.Validate(10)
	assert.Equal(t, 10, p.Page)
	assert.Equal(t, SortPopularity, p.Sort)

	p = ListParams{Page: -3, Sort: "Rating"}
	p.Validate(5)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, SortRating, p.Sort)

	p = ListParams{Page: 2, Sort: "  "}
	p.Validate(5)
	assert.Equal(t, 2, p.Page)
	assert.Empty(t, p.Sort)
	assert.Equal(t, "popularity.desc", UpstreamSortBy(p.Sort))
}

func TestYear(t *testing.T) {
	assert.Equal(t, "2010", MovieSummary{ReleaseDate: "2010-07-16"}.Year())
	assert.Equal(t, "", MovieSummary{}.Year())
}

package service_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviefinder/internal/models"
	"moviefinder/internal/service"
	"moviefinder/internal/tmdb"
)

// fakeTMDB serves canned bodies by path and records every request.
type fakeTMDB struct {
	mu       sync.Mutex
	bodies   map[string]string
	handler  func(path string, q url.Values) (int, string, bool)
	requests []*url.URL
}

func newFakeTMDB(t *testing.T, bodies map[string]string) (*fakeTMDB, *tmdb.Client) {
	t.Helper()
	f := &fakeTMDB{bodies: bodies}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.URL)
		custom := f.handler
		body, ok := f.bodies[r.URL.Path]
		f.mu.Unlock()

		if custom != nil {
			if status, b, handled := custom(r.URL.Path, r.URL.Query()); handled {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(b))
				return
			}
		}
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return f, tmdb.NewClient("key", srv.URL, 2*time.Second)
}

func (f *fakeTMDB) calls(path string) []*url.URL {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*url.URL
	for _, u := range f.requests {
		if path == "" || u.Path == path {
			out = append(out, u)
		}
	}
	return out
}

// stubAI answers prompts by substring and records what it was asked.
type stubAI struct {
	mu      sync.Mutex
	answers map[string]string
	prompts []string
}

func (s *stubAI) Complete(_ context.Context, prompt string, _ int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	for needle, answer := range s.answers {
		if strings.Contains(prompt, needle) {
			return answer, true
		}
	}
	return "", false
}

func listBody(totalPages int, ids ...int) string {
	items := make([]string, 0, len(ids))
	for _, id := range ids {
		items = append(items, fmt.Sprintf(`{"id":%d,"title":"Movie %d","popularity":%d,"vote_average":%d.5,"release_date":"20%02d-01-01"}`, id, id, id, id%10, id%100))
	}
	return fmt.Sprintf(`{"page":1,"total_pages":%d,"total_results":%d,"results":[%s]}`, totalPages, len(ids)*totalPages, strings.Join(items, ","))
}

func TestGenreUnknownMakesNoCalls(t *testing.T) {
	fake, client := newFakeTMDB(t, nil)
	svc := service.NewMovieService(client, nil)

	_, err := svc.Genre(context.Background(), "NotARealGenre", models.ListParams{Page: 1})
	require.ErrorIs(t, err, service.ErrInvalidFilter)
	assert.Empty(t, fake.calls(""))
}

func TestGenreUsesDiscoverWithUpstreamSort(t *testing.T) {
	fake, client := newFakeTMDB(t, map[string]string{"/discover/movie": listBody(500, 1, 2, 3)})
	svc := service.NewMovieService(client, nil)

	list, err := svc.Genre(context.Background(), "horror", models.ListParams{Page: 99, Sort: "rating"})
	require.NoError(t, err)

	calls := fake.calls("/discover/movie")
	require.Len(t, calls, 1)
	q := calls[0].Query()
	assert.Equal(t, "27", q.Get("with_genres"))
	assert.Equal(t, "vote_average.desc", q.Get("sort_by"))
	assert.Equal(t, "10", q.Get("page"))

	assert.Equal(t, "Horror Movies", list.Title)
	assert.Equal(t, 10, list.Page)
	assert.Equal(t, 10, list.TotalPages)
	assert.Len(t, list.Movies, 3)
}

func TestCategoryClampsPages(t *testing.T) {
	fake, client := newFakeTMDB(t, map[string]string{"/movie/top_rated": listBody(480, 5, 6)})
	svc := service.NewMovieService(client, nil)

	list, err := svc.Category(context.Background(), "top-rated", models.ListParams{Page: 50})
	require.NoError(t, err)
	assert.LessOrEqual(t, list.TotalPages, 10)
	assert.Equal(t, 10, list.Page)
	assert.Equal(t, "10", fake.calls("/movie/top_rated")[0].Query().Get("page"))

	// Upstream order is kept when no sort is requested.
	assert.Equal(t, 5, list.Movies[0].ID)

	sorted, err := svc.Category(context.Background(), "top-rated", models.ListParams{Page: 1, Sort: "popularity"})
	require.NoError(t, err)
	assert.Equal(t, 6, sorted.Movies[0].ID)
}

func TestCategoryUpcomingCapsAtFive(t *testing.T) {
	_, client := newFakeTMDB(t, map[string]string{"/movie/upcoming": listBody(30, 1)})
	svc := service.NewMovieService(client, nil)

	list, err := svc.Category(context.Background(), "upcoming", models.ListParams{Page: 7})
	require.NoError(t, err)
	assert.Equal(t, 5, list.Page)
	assert.Equal(t, 5, list.TotalPages)
}

func TestListingDegradesToEmptyPage(t *testing.T) {
	fake, client := newFakeTMDB(t, nil)
	fake.handler = func(string, url.Values) (int, string, bool) { return http.StatusInternalServerError, "", true }
	svc := service.NewMovieService(client, nil)

	list, err := svc.Category(context.Background(), "popular", models.ListParams{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, list.Movies)
	assert.Equal(t, 1, list.TotalPages)
}

func TestDecadeRange(t *testing.T) {
	fake, client := newFakeTMDB(t, map[string]string{"/discover/movie": listBody(3, 1)})
	svc := service.NewMovieService(client, nil)

	list, err := svc.Decade(context.Background(), 1990, models.ListParams{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, "Best of the 1990s", list.Title)

	q := fake.calls("/discover/movie")[0].Query()
	assert.Equal(t, "1990-01-01", q.Get("primary_release_date.gte"))
	assert.Equal(t, "1999-12-31", q.Get("primary_release_date.lte"))

	_, err = svc.Decade(context.Background(), 1995, models.ListParams{Page: 1})
	assert.ErrorIs(t, err, service.ErrInvalidFilter)
}

func TestLanguageAcceptsNameOrCode(t *testing.T) {
	fake, client := newFakeTMDB(t, map[string]string{"/discover/movie": listBody(1, 1)})
	svc := service.NewMovieService(client, nil)

	for _, in := range []string{"Korean", "ko"} {
		list, err := svc.Language(context.Background(), in, models.ListParams{Page: 1})
		require.NoError(t, err)
		assert.Equal(t, "Korean Movies", list.Title)
	}
	for _, u := range fake.calls("/discover/movie") {
		assert.Equal(t, "ko", u.Query().Get("with_original_language"))
	}
	require.Len(t, fake.calls(""), 2)

	_, err := svc.Language(context.Background(), "Klingon", models.ListParams{Page: 1})
	assert.ErrorIs(t, err, service.ErrInvalidFilter)
	assert.Len(t, fake.calls(""), 2)
}

func TestMoodShufflesWithinUpstreamSet(t *testing.T) {
	ids := make([]int, 20)
	for i := range ids {
		ids[i] = i + 1
	}
	fake, client := newFakeTMDB(t, map[string]string{"/discover/movie": listBody(1, ids...)})
	ai := &stubAI{answers: map[string]string{"feeling happy": "Grab some popcorn."}}
	svc := service.NewMovieService(client, ai).WithRand(rand.New(rand.NewPCG(1, 2)))

	res, err := svc.Mood(context.Background(), "Happy")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Movies), 12)
	for _, m := range res.Movies {
		assert.Contains(t, ids, m.ID)
	}
	assert.Equal(t, "Grab some popcorn.", res.Message)
	assert.Equal(t, "35|10751|16", fake.calls("/discover/movie")[0].Query().Get("with_genres"))

	_, err = svc.Mood(context.Background(), "hangry")
	assert.ErrorIs(t, err, service.ErrInvalidFilter)
}

func TestSearchFallsBackOnceToOriginalQuery(t *testing.T) {
	fake, client := newFakeTMDB(t, nil)
	fake.handler = func(path string, q url.Values) (int, string, bool) {
		if path != "/search/movie" {
			return 0, "", false
		}
		if q.Get("query") == "dream heist" {
			return http.StatusOK, listBody(1), true
		}
		return http.StatusOK, listBody(1, 27205), true
	}
	ai := &stubAI{answers: map[string]string{"Their search is": "dream heist"}}
	svc := service.NewMovieService(client, ai)

	res, err := svc.Search(context.Background(), service.SearchParams{Query: "that movie with dreams inside dreams", Year: "2010"})
	require.NoError(t, err)

	calls := fake.calls("/search/movie")
	require.Len(t, calls, 2)
	assert.Equal(t, "dream heist", calls[0].Query().Get("query"))
	assert.Equal(t, "that movie with dreams inside dreams", calls[1].Query().Get("query"))
	assert.Equal(t, "2010", calls[1].Query().Get("primary_release_year"))

	assert.Equal(t, "dream heist", res.Refined)
	require.Len(t, res.Movies, 1)
	assert.Equal(t, 27205, res.Movies[0].ID)
}

func TestSearchWithoutRefinementMakesOneCall(t *testing.T) {
	fake, client := newFakeTMDB(t, map[string]string{"/search/movie": listBody(1)})
	svc := service.NewMovieService(client, nil)

	res, err := svc.Search(context.Background(), service.SearchParams{Query: "zzzz", Year: "20x0"})
	require.NoError(t, err)
	assert.Empty(t, res.Movies)
	assert.Equal(t, "zzzz", res.Refined)
	assert.Empty(t, res.Year)

	calls := fake.calls("/search/movie")
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Query().Get("primary_release_year"))

	_, err = svc.Search(context.Background(), service.SearchParams{Query: "   "})
	assert.ErrorIs(t, err, service.ErrMissingQuery)
}

func TestSearchLanguageFilterAndSort(t *testing.T) {
	body := `{"page":1,"total_pages":1,"results":[
		{"id":1,"title":"B","original_language":"ja","vote_average":6},
		{"id":2,"title":"A","original_language":"en","vote_average":9},
		{"id":3,"title":"C","original_language":"ja","vote_average":8}]}`
	_, client := newFakeTMDB(t, map[string]string{"/search/movie": body})
	svc := service.NewMovieService(client, nil)

	res, err := svc.Search(context.Background(), service.SearchParams{Query: "ghost", Lang: "Japanese", Sort: "rating"})
	require.NoError(t, err)
	require.Len(t, res.Movies, 2)
	assert.Equal(t, 3, res.Movies[0].ID)
	assert.Equal(t, 1, res.Movies[1].ID)
	assert.Equal(t, "ja", res.Lang)
}

func TestHomeSplitsTrending(t *testing.T) {
	ids := make([]int, 25)
	for i := range ids {
		ids[i] = i + 100
	}
	_, client := newFakeTMDB(t, map[string]string{
		"/trending/movie/week": listBody(1, ids...),
		"/movie/popular":       listBody(1, ids...),
		"/movie/top_rated":     listBody(1, ids...),
	})
	svc := service.NewMovieService(client, nil)

	home := svc.Home(context.Background())
	require.NotNil(t, home.Featured)
	assert.Equal(t, 100, home.Featured.ID)
	assert.Len(t, home.Trending, 18)
	assert.Equal(t, 101, home.Trending[0].ID)
	assert.Len(t, home.Popular, 12)
	assert.Len(t, home.TopPicks, 6)
}

func TestRandomMovie(t *testing.T) {
	fake, client := newFakeTMDB(t, map[string]string{"/discover/movie": listBody(5, 7, 8, 9)})
	svc := service.NewMovieService(client, nil).WithRand(rand.New(rand.NewPCG(3, 4)))

	id, err := svc.RandomMovie(context.Background(), "Western")
	require.NoError(t, err)
	assert.Contains(t, []int{7, 8, 9}, id)
	assert.Equal(t, "37", fake.calls("/discover/movie")[0].Query().Get("with_genres"))

	_, err = svc.RandomMovie(context.Background(), "nope")
	assert.ErrorIs(t, err, service.ErrInvalidFilter)
}

const inceptionBody = `{
	"id": 27205, "title": "Inception", "release_date": "2010-07-15", "vote_average": 8.4,
	"overview": "A thief who steals corporate secrets.",
	"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}],
	"belongs_to_collection": null,
	"credits": {
		"cast": [{"id": 6193, "name": "Leonardo DiCaprio", "character": "Cobb", "order": 0}],
		"crew": [
			{"id": 525, "name": "Christopher Nolan", "job": "Director"},
			{"id": 525, "name": "Christopher Nolan", "job": "Screenplay"}
		]
	},
	"keywords": {"keywords": [{"id": 1, "name": "dream"}]},
	"reviews": {"results": [{"author": "critic", "content": "Great.", "author_details": {"rating": 9}}]}
}`

func TestMovieDetailAssemblesPage(t *testing.T) {
	_, client := newFakeTMDB(t, map[string]string{
		"/movie/27205": inceptionBody,
		"/movie/27205/videos": `{"results":[
			{"key":"vim","site":"Vimeo","type":"Trailer"},
			{"key":"tz","site":"YouTube","type":"Teaser"},
			{"key":"abc","site":"YouTube","type":"Trailer"}]}`,
		"/movie/27205/similar":         listBody(1, 1, 2, 3, 4, 5, 6, 7, 8),
		"/movie/27205/recommendations": listBody(1, 9),
	})
	ai := &stubAI{answers: map[string]string{
		"3-sentence review": "A layered heist.",
		"fun fact":          "The hallway set rotated.",
	}}
	svc := service.NewMovieService(client, ai)

	detail, err := svc.MovieDetail(context.Background(), 27205)
	require.NoError(t, err)

	require.NotNil(t, detail.Trailer)
	assert.Equal(t, "abc", detail.Trailer.Key)
	assert.Nil(t, detail.Teaser)
	assert.Len(t, detail.Clips, 2)

	require.NotNil(t, detail.Director)
	assert.Equal(t, "Christopher Nolan", detail.Director.Name)
	require.Len(t, detail.Writers, 1)
	assert.Equal(t, "Screenplay", detail.Writers[0].Job)

	assert.Len(t, detail.Similar, 6)
	assert.Len(t, detail.Recommended, 1)
	assert.Nil(t, detail.Collection)
	assert.Equal(t, []int{28, 878}, detail.GenreIDs)
	require.Len(t, detail.Reviews, 1)
	require.NotNil(t, detail.Reviews[0].Rating)
	assert.InDelta(t, 9.0, *detail.Reviews[0].Rating, 0.001)

	assert.Equal(t, "A layered heist.", detail.AIReview)
	assert.Equal(t, "The hallway set rotated.", detail.FunFact)
}

func TestMovieDetailTeaserFallbackAndDegradedSecondaries(t *testing.T) {
	fake, client := newFakeTMDB(t, map[string]string{
		"/movie/27205":        inceptionBody,
		"/movie/27205/videos": `{"results":[{"key":"tz","site":"YouTube","type":"Teaser"}]}`,
	})
	fake.handler = func(path string, _ url.Values) (int, string, bool) {
		if strings.HasSuffix(path, "/similar") {
			return http.StatusServiceUnavailable, "", true
		}
		return 0, "", false
	}
	svc := service.NewMovieService(client, nil)

	detail, err := svc.MovieDetail(context.Background(), 27205)
	require.NoError(t, err)
	assert.Nil(t, detail.Trailer)
	require.NotNil(t, detail.Teaser)
	assert.Equal(t, "tz", detail.Teaser.Key)
	assert.Empty(t, detail.Similar)
	assert.Empty(t, detail.Recommended)
	assert.Empty(t, detail.AIReview)
}

func TestMovieDetailErrors(t *testing.T) {
	fake, client := newFakeTMDB(t, nil)
	svc := service.NewMovieService(client, nil)

	_, err := svc.MovieDetail(context.Background(), 1)
	assert.ErrorIs(t, err, service.ErrNotFound)

	fake.handler = func(string, url.Values) (int, string, bool) { return http.StatusBadGateway, "", true }
	_, err = svc.MovieDetail(context.Background(), 1)
	assert.ErrorIs(t, err, service.ErrUnavailable)
}

func TestPersonDetail(t *testing.T) {
	_, client := newFakeTMDB(t, map[string]string{
		"/person/525": `{
			"id": 525, "name": "Christopher Nolan", "known_for_department": "Directing",
			"movie_credits": {
				"cast": [
					{"id": 1, "title": "Small", "character": "Himself", "popularity": 1},
					{"id": 2, "title": "Big", "character": "Cameo", "popularity": 90},
					{"id": 3, "title": "Mid", "character": "Voice", "popularity": 40}
				],
				"crew": [
					{"id": 27205, "title": "Inception", "job": "Director", "popularity": 80},
					{"id": 155, "title": "The Dark Knight", "job": "Director", "popularity": 95},
					{"id": 27205, "title": "Inception", "job": "Writer", "popularity": 80}
				]
			},
			"images": {"profiles": [{"file_path": "/a.jpg", "width": 400, "height": 600}]}
		}`,
	})
	ai := &stubAI{answers: map[string]string{"bio of Christopher Nolan": "A director of puzzles."}}
	svc := service.NewMovieService(client, ai)

	p, err := svc.PersonDetail(context.Background(), 525)
	require.NoError(t, err)

	assert.Equal(t, []string{"Big", "Mid", "Small"}, p.KnownFor)
	require.Len(t, p.Directing, 2)
	assert.Equal(t, "The Dark Knight", p.Directing[0].Title)
	assert.Len(t, p.Images, 1)
	assert.Equal(t, "A director of puzzles.", p.AIBio)
	require.NotEmpty(t, ai.prompts)
	assert.Contains(t, ai.prompts[0], "Big, Mid, Small")
}

func TestCollectionOrdersParts(t *testing.T) {
	_, client := newFakeTMDB(t, map[string]string{
		"/collection/10": `{"id": 10, "name": "Trilogy", "parts": [
			{"id": 3, "title": "Third", "release_date": ""},
			{"id": 2, "title": "Second", "release_date": "2005-01-01"},
			{"id": 1, "title": "First", "release_date": "2001-01-01"}]}`,
	})
	svc := service.NewMovieService(client, nil)

	col, err := svc.Collection(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, col.Parts, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{col.Parts[0].ID, col.Parts[1].ID, col.Parts[2].ID})

	_, err = svc.Collection(context.Background(), 11)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRelatedListNotFound(t *testing.T) {
	_, client := newFakeTMDB(t, map[string]string{"/movie/5/similar": listBody(1, 8)})
	svc := service.NewMovieService(client, nil)

	similar, err := svc.Similar(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, similar, 1)

	_, err = svc.Recommendations(context.Background(), 5)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTrivia(t *testing.T) {
	_, client := newFakeTMDB(t, map[string]string{
		"/movie/popular": listBody(5, 1, 2),
		"/movie/27205":   inceptionBody,
	})
	ai := &stubAI{answers: map[string]string{"trivia question": "Q?\nA) x\nB) y\nC) z\nD) w\nAnswer: A"}}
	svc := service.NewMovieService(client, ai).WithRand(rand.New(rand.NewPCG(5, 6)))

	tr, err := svc.Trivia(context.Background())
	require.NoError(t, err)
	assert.Contains(t, []int{1, 2}, tr.Movie.ID)
	assert.Contains(t, tr.Question, "Answer: A")

	tr, err = svc.TriviaFor(context.Background(), 27205)
	require.NoError(t, err)
	assert.Equal(t, "Inception", tr.Movie.Title)

	_, err = svc.TriviaFor(context.Background(), 1)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

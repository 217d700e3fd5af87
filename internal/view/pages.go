package view

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"moviefinder/internal/models"
)

// Session carries the per-request watchlist state every page shows.
type Session struct {
	Saved map[int]bool
}

func (s Session) count() int {
	return len(s.Saved)
}

// Home renders the landing page.
func (r *Renderer) Home(home *models.Home, s Session) g.Node {
	var hero g.Node
	if f := home.Featured; f != nil {
		hero = h.Section(h.Class("hero"),
			r.poster("w500", f.PosterPath, f.Title),
			h.Div(
				h.H1(h.A(h.Href("/movie/"+strconv.Itoa(f.ID)), g.Text(f.Title))),
				h.P(h.Class("meta"), g.Text(movieMeta(*f))),
				h.P(g.Text(f.Overview)),
				watchlistToggle(f.ID, s.Saved[f.ID]),
			),
		)
	}
	return r.layout("Home", s.count(),
		hero,
		h.H2(g.Text("Trending this week")),
		r.movieGrid(home.Trending, s.Saved),
		h.H2(h.A(h.Href("/popular"), g.Text("Popular"))),
		r.movieGrid(home.Popular, s.Saved),
		h.H2(h.A(h.Href("/top-rated"), g.Text("Top picks"))),
		r.movieGrid(home.TopPicks, s.Saved),
	)
}

// List renders a paginated listing served at basePath. withSort toggles the
// sort selector.
func (r *Renderer) List(list *models.MovieList, basePath string, withSort bool, s Session) g.Node {
	var sorter g.Node
	if withSort {
		sorter = sortLinks(basePath, nil, list.Sort, models.SortPopularity, models.SortRating, models.SortDate, models.SortTitle)
	}
	return r.layout(list.Title, s.count(),
		h.H1(g.Text(list.Title)),
		sorter,
		r.movieGrid(list.Movies, s.Saved),
		pager(basePath, list.Page, list.TotalPages, list.Sort),
	)
}

// Search renders search results.
func (r *Renderer) Search(res *models.SearchResult, s Session) g.Node {
	extra := url.Values{"q": {res.Query}}
	if res.Year != "" {
		extra.Set("year", res.Year)
	}
	if res.Lang != "" {
		extra.Set("lang", res.Lang)
	}
	var refined g.Node
	if res.Refined != "" && res.Refined != res.Query {
		refined = h.P(h.Class("meta"), g.Textf("Searched for: %s", res.Refined))
	}
	return r.layout("Search: "+res.Query, s.count(),
		h.H1(g.Textf("Results for “%s”", res.Query)),
		refined,
		h.Form(h.Action("/search"), h.Method("get"),
			h.Input(h.Type("hidden"), h.Name("q"), h.Value(res.Query)),
			h.Input(h.Type("text"), h.Name("year"), h.Placeholder("Year"), h.Value(res.Year)),
			h.Select(h.Name("lang"),
				h.Option(h.Value(""), g.Text("Any language")),
				g.Map(models.Languages(), func(l models.LanguageEntry) g.Node {
					return h.Option(h.Value(l.Code), g.If(l.Code == res.Lang, h.Selected()), g.Text(l.Name))
				}),
			),
			h.Button(h.Type("submit"), g.Text("Filter")),
		),
		sortLinks("/search", extra, res.Sort, models.SortPopularity, models.SortRating, models.SortDate, models.SortTitle),
		r.movieGrid(res.Movies, s.Saved),
	)
}

// Movie renders the movie detail page.
func (r *Renderer) Movie(m *models.MovieDetail, s Session) g.Node {
	genres := make([]string, 0, len(m.Genres))
	for _, ge := range m.Genres {
		genres = append(genres, ge.Name)
	}

	facts := []g.Node{}
	addFact := func(label, value string) {
		if value != "" {
			facts = append(facts, h.Li(h.Strong(g.Text(label+": ")), g.Text(value)))
		}
	}
	addFact("Released", m.ReleaseDate)
	if m.Runtime > 0 {
		addFact("Runtime", fmt.Sprintf("%dh %dm", m.Runtime/60, m.Runtime%60))
	}
	addFact("Genres", strings.Join(genres, ", "))
	addFact("Languages", strings.Join(m.SpokenLanguages, ", "))
	if m.Budget > 0 {
		addFact("Budget", money(m.Budget))
	}
	if m.Revenue > 0 {
		addFact("Revenue", money(m.Revenue))
	}

	var director g.Node
	if m.Director != nil {
		director = h.P(h.Strong(g.Text("Director: ")), personLink(m.Director.PersonID, m.Director.Name))
	}
	var writers g.Node
	if len(m.Writers) > 0 {
		writers = h.P(h.Strong(g.Text("Writers: ")), g.Map(m.Writers, func(c models.CrewMember) g.Node {
			return h.Span(personLink(c.PersonID, c.Name), g.Textf(" (%s) ", c.Job))
		}))
	}
	var collection g.Node
	if m.Collection != nil {
		collection = h.P(g.Text("Part of "), h.A(h.Href("/collection/"+strconv.Itoa(m.Collection.ID)), g.Text(m.Collection.Name)))
	}

	return r.layout(m.Title, s.count(),
		h.Section(h.Class("hero"),
			r.poster("w500", m.PosterPath, m.Title),
			h.Div(
				h.H1(g.Text(m.Title), g.If(m.Year() != "", g.Textf(" (%s)", m.Year()))),
				g.If(m.Tagline != "", h.P(h.Em(g.Text(m.Tagline)))),
				h.P(h.Class("meta"), g.Textf("★ %.1f", m.VoteAverage)),
				h.P(g.Text(m.Overview)),
				h.Ul(facts...),
				director,
				writers,
				collection,
				watchlistToggle(m.ID, s.Saved[m.ID]),
				h.A(h.Class("btn"), h.Href("/search?q="+url.QueryEscape(m.Title)), g.Text("Search similar titles")),
			),
		),
		videoSection(m),
		aiBlock("Our take", m.AIReview),
		aiBlock("Fun fact", m.FunFact),
		g.If(len(m.Cast) > 0, h.Section(h.H2(g.Text("Cast")), h.Div(h.Class("grid"),
			g.Map(m.Cast, func(c models.CastMember) g.Node {
				return h.Div(h.Class("card"),
					h.A(h.Href("/actor/"+strconv.Itoa(c.PersonID)), r.poster("w185", c.ProfilePath, c.Name)),
					h.H3(personLink(c.PersonID, c.Name)),
					h.Div(h.Class("meta"), g.Text(c.Character)),
				)
			}),
		))),
		g.If(len(m.Keywords) > 0, h.P(h.Class("meta"), g.Map(m.Keywords, func(k models.Keyword) g.Node {
			return h.Span(h.Class("btn"), g.Text(k.Name))
		}))),
		g.If(len(m.Reviews) > 0, h.Section(h.H2(g.Text("Reviews")), g.Map(m.Reviews, func(rv models.Review) g.Node {
			return h.BlockQuote(
				h.P(g.Text(rv.Content)),
				h.Footer(g.Text("by "+rv.Author), g.Iff(rv.Rating != nil, func() g.Node { return g.Textf(" (%.0f/10)", *rv.Rating) })),
			)
		}))),
		g.If(len(m.Similar) > 0, h.Section(h.H2(g.Text("Similar")), r.movieGrid(m.Similar, s.Saved))),
		g.If(len(m.Recommended) > 0, h.Section(h.H2(g.Text("Recommended")), r.movieGrid(m.Recommended, s.Saved))),
	)
}

func videoSection(m *models.MovieDetail) g.Node {
	featured := m.Trailer
	if featured == nil {
		featured = m.Teaser
	}
	if featured == nil && len(m.Clips) == 0 {
		return nil
	}
	var player g.Node
	if featured != nil {
		player = h.IFrame(
			h.Src("https://www.youtube.com/embed/"+url.PathEscape(featured.Key)),
			h.Width("720"), h.Height("405"),
			g.Attr("allowfullscreen"),
			h.Title(featured.Name),
		)
	}
	return h.Section(
		h.H2(g.Text("Videos")),
		player,
		h.Ul(g.Map(m.Clips, func(v models.Video) g.Node {
			return h.Li(h.A(h.Href("https://www.youtube.com/watch?v="+url.QueryEscape(v.Key)), g.Textf("%s (%s)", v.Name, v.Type)))
		})),
	)
}

// Person renders the actor page.
func (r *Renderer) Person(p *models.PersonDetail, s Session) g.Node {
	credits := func(title string, cs []models.Credit) g.Node {
		if len(cs) == 0 {
			return nil
		}
		return h.Section(h.H2(g.Text(title)), h.Div(h.Class("grid"), g.Map(cs, func(c models.Credit) g.Node {
			href := "/movie/" + strconv.Itoa(c.MovieID)
			return h.Div(h.Class("card"),
				h.A(h.Href(href), r.poster("w342", c.PosterPath, c.Title)),
				h.H3(h.A(h.Href(href), g.Text(c.Title))),
				h.Div(h.Class("meta"), g.Text(strings.TrimSpace(c.Role+" "+c.Year()))),
			)
		})))
	}

	born := p.Birthday
	if p.PlaceOfBirth != "" {
		born = strings.TrimSpace(born + " in " + p.PlaceOfBirth)
	}
	return r.layout(p.Name, s.count(),
		h.Section(h.Class("hero"),
			r.poster("h632", p.ProfilePath, p.Name),
			h.Div(
				h.H1(g.Text(p.Name)),
				g.If(p.KnownForDepartment != "", h.P(h.Class("meta"), g.Text(p.KnownForDepartment))),
				g.If(born != "", h.P(g.Text("Born "+born))),
				g.If(p.Deathday != "", h.P(g.Text("Died "+p.Deathday))),
				g.If(len(p.KnownFor) > 0, h.P(g.Text("Known for "+strings.Join(p.KnownFor, ", ")))),
				h.P(g.Text(p.Biography)),
			),
		),
		aiBlock("In short", p.AIBio),
		credits("Filmography", p.Filmography),
		credits("Directing", p.Directing),
		g.If(len(p.Images) > 0, h.Section(h.H2(g.Text("Photos")), h.Div(h.Class("grid"),
			g.Map(p.Images, func(img models.Image) g.Node { return r.poster("w185", img.FilePath, p.Name) }),
		))),
	)
}

// Collection renders a franchise page.
func (r *Renderer) Collection(c *models.Collection, s Session) g.Node {
	return r.layout(c.Name, s.count(),
		h.H1(g.Text(c.Name)),
		h.P(g.Text(c.Overview)),
		r.movieGrid(c.Parts, s.Saved),
	)
}

// Watchlist renders the saved list with its sort links.
func (r *Renderer) Watchlist(entries []models.MovieSummary, sort string, s Session) g.Node {
	return r.layout("Watchlist", s.count(),
		h.H1(g.Textf("My watchlist (%d)", len(entries))),
		g.If(len(entries) > 0, h.Div(
			sortLinks("/watchlist", nil, sort, "added", models.SortRating, models.SortTitle, models.SortDate),
			h.A(h.Class("btn"), h.Href("/watchlist/clear"), g.Text("Clear all")),
		)),
		r.movieGrid(entries, s.Saved),
	)
}

// MoodPicker renders the mood selection page.
func (r *Renderer) MoodPicker(moods []models.Mood, s Session) g.Node {
	return r.layout("Mood", s.count(),
		h.H1(g.Text("How are you feeling?")),
		h.Div(h.Class("grid"), g.Map(moods, func(m models.Mood) g.Node {
			return h.A(h.Class("btn"), h.Href("/mood/"+url.PathEscape(strings.ToLower(m.Name))), g.Textf("%s %s", m.Emoji, m.Name))
		})),
	)
}

// Mood renders the movies picked for a mood.
func (r *Renderer) Mood(res *models.MoodResult, s Session) g.Node {
	return r.layout(res.Mood.Name+" movies", s.count(),
		h.H1(g.Textf("%s Feeling %s", res.Mood.Emoji, strings.ToLower(res.Mood.Name))),
		g.If(res.Message != "", h.P(h.Class("ai"), g.Text(res.Message))),
		r.movieGrid(res.Movies, s.Saved),
		h.A(h.Class("btn"), h.Href("/mood/"+url.PathEscape(strings.ToLower(res.Mood.Name))), g.Text("Shuffle again")),
	)
}

// Trivia renders a quiz question. The answer line is hidden behind a
// disclosure.
func (r *Renderer) Trivia(t *models.Trivia, s Session) g.Node {
	question, answer := splitAnswer(t.Question)
	var body g.Node = h.P(h.Class("meta"), g.Text("Trivia is unavailable right now. Try again later."))
	if question != "" {
		body = h.Div(
			h.Div(h.Class("ai"), g.Text(question)),
			g.If(answer != "", h.Details(h.Summary(g.Text("Show answer")), h.P(g.Text(answer)))),
		)
	}
	return r.layout("Trivia", s.count(),
		h.H1(g.Text("Movie trivia")),
		h.Div(h.Class("hero"),
			r.poster("w342", t.Movie.PosterPath, t.Movie.Title),
			h.Div(
				h.H2(h.A(h.Href("/movie/"+strconv.Itoa(t.Movie.ID)), g.Text(t.Movie.Title))),
				body,
				h.A(h.Class("btn"), h.Href("/trivia"), g.Text("Another question")),
			),
		),
	)
}

// About renders the static about page.
func (r *Renderer) About(s Session) g.Node {
	return r.layout("About", s.count(),
		h.H1(g.Text("About MovieFinder")),
		h.P(g.Text("MovieFinder helps you discover movies by describing them in your own words, browsing by genre, language, decade or mood, and keeping a watchlist in your browser session.")),
		h.P(g.Text("Movie metadata and images come from The Movie Database (TMDB). Short reviews, fun facts, bios and trivia are machine-generated and may be inaccurate.")),
	)
}

// Error renders an error page.
func (r *Renderer) Error(status int, message string, s Session) g.Node {
	title := "Something went wrong"
	if status == 404 {
		title = "Not found"
	}
	return r.layout(title, s.count(),
		h.H1(g.Text(title)),
		h.P(g.Text(message)),
		h.A(h.Class("btn"), h.Href("/"), g.Text("Back home")),
	)
}

func personLink(id int, name string) g.Node {
	return h.A(h.Href("/actor/"+strconv.Itoa(id)), g.Text(name))
}

func money(v int64) string {
	s := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return "$" + b.String()
}

// splitAnswer separates the trailing "Answer: X" line from a trivia text.
func splitAnswer(text string) (question, answer string) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(strings.ToLower(line), "answer:") {
			return strings.TrimSpace(strings.Join(lines[:i], "\n")), strings.TrimSpace(line[len("answer:"):])
		}
	}
	return strings.TrimSpace(text), ""
}

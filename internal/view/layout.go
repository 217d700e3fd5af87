// Package view renders typed page data to HTML with gomponents.
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

const stylesheet = `
body{margin:0;font-family:system-ui,sans-serif;background:#111;color:#eee}
a{color:#f5c518;text-decoration:none}
nav{display:flex;flex-wrap:wrap;gap:1rem;align-items:center;padding:.75rem 1.5rem;background:#000}
nav .brand{font-weight:700;font-size:1.25rem}
nav details{position:relative}
nav details ul{position:absolute;z-index:2;background:#222;list-style:none;margin:0;padding:.5rem;columns:2}
main{padding:1.5rem}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(160px,1fr));gap:1rem}
.card img,.poster-missing{width:100%;aspect-ratio:2/3;object-fit:cover;background:#333;border-radius:4px}
.card h3{font-size:.95rem;margin:.4rem 0 .2rem}
.meta{color:#aaa;font-size:.85rem}
.ai{border-left:3px solid #f5c518;padding:.5rem 1rem;background:#1c1c1c;white-space:pre-line}
.pager{display:flex;gap:.75rem;margin:1.5rem 0}
.btn{display:inline-block;padding:.3rem .7rem;border:1px solid #f5c518;border-radius:4px;font-size:.85rem}
.hero{display:flex;gap:1.5rem;flex-wrap:wrap}
.hero img{max-width:300px;border-radius:6px}
footer{padding:1.5rem;color:#777;font-size:.8rem}
`

// Renderer builds page nodes. imageBase is the TMDB image host without a
// size segment.
type Renderer struct {
	imageBase string
}

// NewRenderer creates a Renderer.
func NewRenderer(imageBase string) *Renderer {
	return &Renderer{imageBase: strings.TrimRight(imageBase, "/")}
}

func (r *Renderer) image(size, path string) string {
	if path == "" {
		return ""
	}
	return r.imageBase + "/" + size + path
}

// layout wraps body in the shared document shell.
func (r *Renderer) layout(title string, watchlistCount int, body ...g.Node) g.Node {
	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(title+" | MovieFinder")),
				h.StyleEl(g.Raw(stylesheet)),
			),
			h.Body(
				navBar(watchlistCount),
				h.Main(body...),
				h.Footer(g.Text("Movie data from TMDB. This product uses the TMDB API but is not endorsed or certified by TMDB.")),
			),
		),
	)
}

func navBar(watchlistCount int) g.Node {
	return h.Nav(
		h.A(h.Class("brand"), h.Href("/"), g.Text("MovieFinder")),
		h.Form(h.Action("/search"), h.Method("get"),
			h.Input(h.Type("search"), h.Name("q"), h.Placeholder("Describe a movie..."), h.Required()),
		),
		dropdown("Genres", g.Map(models.Genres(), func(ge models.GenreEntry) g.Node {
			return h.Li(h.A(h.Href("/genre/"+url.PathEscape(ge.Name)), g.Text(ge.Name)))
		})),
		dropdown("Languages", g.Map(models.Languages(), func(l models.LanguageEntry) g.Node {
			return h.Li(h.A(h.Href("/language/"+url.PathEscape(l.Name)), g.Text(l.Name)))
		})),
		dropdown("Decades", g.Map(models.Decades(), func(d int) g.Node {
			return h.Li(h.A(h.Href("/decade/"+strconv.Itoa(d)), g.Textf("%ds", d)))
		})),
		h.A(h.Href("/mood"), g.Text("Mood")),
		h.A(h.Href("/top-rated"), g.Text("Top Rated")),
		h.A(h.Href("/now-playing"), g.Text("Now Playing")),
		h.A(h.Href("/upcoming"), g.Text("Upcoming")),
		h.A(h.Href("/trivia"), g.Text("Trivia")),
		h.A(h.Href("/random"), g.Text("Surprise me")),
		h.A(h.Href("/watchlist"), g.Textf("Watchlist (%d)", watchlistCount)),
	)
}

func dropdown(label string, items g.Node) g.Node {
	return h.Details(h.Summary(g.Text(label)), h.Ul(items))
}

// movieCard renders one grid cell with a watchlist toggle.
func (r *Renderer) movieCard(m models.MovieSummary, saved bool) g.Node {
	href := "/movie/" + strconv.Itoa(m.ID)
	return h.Div(h.Class("card"),
		h.A(h.Href(href), r.poster("w342", m.PosterPath, m.Title)),
		h.H3(h.A(h.Href(href), g.Text(m.Title))),
		h.Div(h.Class("meta"), g.Text(movieMeta(m))),
		watchlistToggle(m.ID, saved),
	)
}

func (r *Renderer) poster(size, path, alt string) g.Node {
	if src := r.image(size, path); src != "" {
		return h.Img(h.Src(src), h.Alt(alt), h.Loading("lazy"))
	}
	return h.Div(h.Class("poster-missing"))
}

func (r *Renderer) movieGrid(movies []models.MovieSummary, saved map[int]bool) g.Node {
	if len(movies) == 0 {
		return h.P(h.Class("meta"), g.Text("No movies found."))
	}
	return h.Div(h.Class("grid"), g.Map(movies, func(m models.MovieSummary) g.Node {
		return r.movieCard(m, saved[m.ID])
	}))
}

func watchlistToggle(id int, saved bool) g.Node {
	if saved {
		return h.A(h.Class("btn"), h.Href(fmt.Sprintf("/watchlist/remove/%d", id)), g.Text("✓ In watchlist"))
	}
	return h.A(h.Class("btn"), h.Href(fmt.Sprintf("/watchlist/add/%d", id)), g.Text("+ Watchlist"))
}

func movieMeta(m models.MovieSummary) string {
	parts := []string{}
	if y := m.Year(); y != "" {
		parts = append(parts, y)
	}
	if m.VoteAverage > 0 {
		parts = append(parts, fmt.Sprintf("★ %.1f", m.VoteAverage))
	}
	return strings.Join(parts, " · ")
}

// pager renders previous/next links that keep the sort key.
func pager(basePath string, page, total int, sort string) g.Node {
	if total <= 1 {
		return nil
	}
	link := func(p int, label string) g.Node {
		q := url.Values{"page": {strconv.Itoa(p)}}
		if sort != "" {
			q.Set("sort", sort)
		}
		return h.A(h.Class("btn"), h.Href(basePath+"?"+q.Encode()), g.Text(label))
	}
	return h.Div(h.Class("pager"),
		g.If(page > 1, link(page-1, "← Previous")),
		h.Span(h.Class("meta"), g.Textf("Page %d of %d", page, total)),
		g.If(page < total, link(page+1, "Next →")),
	)
}

// sortLinks renders the sort selector for basePath, keeping extra query
// values such as q or year.
func sortLinks(basePath string, extra url.Values, current string, keys ...string) g.Node {
	return h.Div(h.Class("pager"),
		h.Span(h.Class("meta"), g.Text("Sort:")),
		g.Map(keys, func(k string) g.Node {
			q := url.Values{}
			for key, v := range extra {
				q[key] = v
			}
			q.Set("sort", k)
			label := k
			if k == current {
				label = "[" + k + "]"
			}
			return h.A(h.Href(basePath+"?"+q.Encode()), g.Text(label))
		}),
	)
}

func aiBlock(label, text string) g.Node {
	if text == "" {
		return nil
	}
	return h.Section(h.H3(g.Text(label)), h.Div(h.Class("ai"), g.Text(text)))
}

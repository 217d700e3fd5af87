package models

import (
	"fmt"
	"slices"
	"strings"
)

// GenreEntry is a named genre from the fixed genre table.
type GenreEntry struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// Mood maps a mood name to the genres that suit it.
type Mood struct {
	Name   string   `json:"name"`
	Emoji  string   `json:"emoji"`
	Genres []string `json:"genres"`
}

// LanguageEntry is a language from the fixed language table.
type LanguageEntry struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

var genreTable = []GenreEntry{
	{"Action", 28},
	{"Adventure", 12},
	{"Animation", 16},
	{"Comedy", 35},
	{"Crime", 80},
	{"Documentary", 99},
	{"Drama", 18},
	{"Family", 10751},
	{"Fantasy", 14},
	{"History", 36},
	{"Horror", 27},
	{"Music", 10402},
	{"Mystery", 9648},
	{"Romance", 10749},
	{"Sci-Fi", 878},
	{"Thriller", 53},
	{"War", 10752},
	{"Western", 37},
}

var moodTable = []Mood{
	{"Happy", "😄", []string{"Comedy", "Family", "Animation"}},
	{"Sad", "😢", []string{"Drama", "Romance"}},
	{"Excited", "🤩", []string{"Action", "Adventure", "Thriller"}},
	{"Scared", "😱", []string{"Horror", "Thriller"}},
	{"Romantic", "😍", []string{"Romance", "Comedy"}},
	{"Thoughtful", "🤔", []string{"Drama", "History", "Documentary"}},
	{"Adventurous", "🧭", []string{"Adventure", "Fantasy", "Sci-Fi"}},
	{"Nostalgic", "📼", []string{"Family", "Animation", "Music"}},
	{"Mysterious", "🕵️", []string{"Mystery", "Crime", "Thriller"}},
	{"Relaxed", "😌", []string{"Comedy", "Documentary", "Music"}},
}

var languageTable = []LanguageEntry{
	{"English", "en"},
	{"Spanish", "es"},
	{"French", "fr"},
	{"German", "de"},
	{"Italian", "it"},
	{"Japanese", "ja"},
	{"Korean", "ko"},
	{"Hindi", "hi"},
	{"Chinese", "zh"},
	{"Portuguese", "pt"},
}

var decadeTable = []int{1950, 1960, 1970, 1980, 1990, 2000, 2010, 2020}

// Indexes built once at init; nothing mutates them afterwards.
var (
	genresByName    = map[string]GenreEntry{}
	genresByID      = map[int]GenreEntry{}
	moodsByName     = map[string]Mood{}
	languagesByName = map[string]LanguageEntry{}
)

func init() {
	for _, g := range genreTable {
		genresByName[strings.ToLower(g.Name)] = g
		genresByID[g.ID] = g
	}
	for _, m := range moodTable {
		moodsByName[strings.ToLower(m.Name)] = m
	}
	for _, l := range languageTable {
		languagesByName[strings.ToLower(l.Name)] = l
		languagesByName[l.Code] = l
	}
}

// Genres returns the genre table in display order.
func Genres() []GenreEntry {
	return slices.Clone(genreTable)
}

// LookupGenre resolves a genre name case-insensitively.
func LookupGenre(name string) (GenreEntry, bool) {
	g, ok := genresByName[strings.ToLower(strings.TrimSpace(name))]
	return g, ok
}

// GenreName returns the display name for a TMDB genre id, if it is in the table.
func GenreName(id int) (string, bool) {
	g, ok := genresByID[id]
	return g.Name, ok
}

// Moods returns the mood table in display order.
func Moods() []Mood {
	out := make([]Mood, len(moodTable))
	for i, m := range moodTable {
		m.Genres = slices.Clone(m.Genres)
		out[i] = m
	}
	return out
}

// LookupMood resolves a mood name case-insensitively.
func LookupMood(name string) (Mood, bool) {
	m, ok := moodsByName[strings.ToLower(strings.TrimSpace(name))]
	if ok {
		m.Genres = slices.Clone(m.Genres)
	}
	return m, ok
}

// GenreFilter returns the mood's genres as a TMDB OR filter ("35|10751|16").
func (m Mood) GenreFilter() string {
	ids := make([]string, 0, len(m.Genres))
	for _, name := range m.Genres {
		if g, ok := LookupGenre(name); ok {
			ids = append(ids, fmt.Sprint(g.ID))
		}
	}
	return strings.Join(ids, "|")
}

// Languages returns the language table in display order.
func Languages() []LanguageEntry {
	return slices.Clone(languageTable)
}

// LookupLanguage resolves a language by name or ISO 639-1 code.
func LookupLanguage(nameOrCode string) (LanguageEntry, bool) {
	l, ok := languagesByName[strings.ToLower(strings.TrimSpace(nameOrCode))]
	return l, ok
}

// Decades returns the supported decades.
func Decades() []int {
	return slices.Clone(decadeTable)
}

// DecadeRange returns the inclusive release-date range for a supported
// decade, e.g. 1990 -> "1990-01-01", "1999-12-31".
func DecadeRange(decade int) (from, to string, ok bool) {
	if !slices.Contains(decadeTable, decade) {
		return "", "", false
	}
	return fmt.Sprintf("%d-01-01", decade), fmt.Sprintf("%d-12-31", decade+9), true
}

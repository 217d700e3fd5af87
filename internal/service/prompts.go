package service

import (
	"fmt"
	"strings"
)

const (
	refineMaxTokens  = 80
	reviewMaxTokens  = 250
	funFactMaxTokens = 150
	bioMaxTokens     = 200
	moodMaxTokens    = 150
	triviaMaxTokens  = 300
)

func refinePrompt(query string) string {
	return fmt.Sprintf("The user wants to find a movie. Their search is: '%s'. "+
		"Reply with ONLY 2-3 clean keyword search terms for TMDB API. "+
		"No punctuation. No explanation. Just the keywords.", query)
}

func reviewPrompt(title, year string, rating float64, overview string) string {
	return fmt.Sprintf("Write a short, engaging 3-sentence review of the movie %q (%s). "+
		"It is rated %.1f/10 by audiences. Plot: %s "+
		"Do not use spoilers. Reply with the review only.",
		title, yearOrUnknown(year), rating, overview)
}

func funFactPrompt(title, year string) string {
	return fmt.Sprintf("Share one surprising behind-the-scenes fun fact about the movie %q (%s) "+
		"in 1-2 sentences. Reply with the fact only.", title, yearOrUnknown(year))
}

func bioPrompt(name string, knownFor []string) string {
	works := strings.Join(knownFor, ", ")
	if works == "" {
		works = "their film work"
	}
	return fmt.Sprintf("Write a 2-sentence engaging bio of %s, known for %s. Reply with the bio only.", name, works)
}

func moodPrompt(mood string, titles []string) string {
	return fmt.Sprintf("Someone is feeling %s. In 1-2 warm sentences, tell them why these movies fit their mood right now: %s. "+
		"Reply with the message only.", strings.ToLower(mood), strings.Join(titles, ", "))
}

func triviaPrompt(title, year string) string {
	return fmt.Sprintf("Create one fun multiple-choice trivia question about the movie %q (%s). "+
		"Give four options labelled A) to D), each on its own line, "+
		"then a final line in the form 'Answer: <letter>'.", title, yearOrUnknown(year))
}

func yearOrUnknown(year string) string {
	if year == "" {
		return "year unknown"
	}
	return year
}

// Package search implements the client-side matching, filtering and sorting
// pipeline applied to knowledge articles.
package search

import (
	"strings"
	"unicode/utf8"

	"knowledge-search/internal/models"
)

// Matches reports whether term matches haystack, case-insensitively:
// a substring hit, or a whitespace token that is a prefix of term (or has
// term as prefix), or a token within edit distance 2 (terms longer than
// four characters) or 1.
func Matches(haystack, term string) bool {
	text := strings.ToLower(haystack)
	t := strings.ToLower(term)

	if strings.Contains(text, t) {
		return true
	}

	maxDistance := 1
	if utf8.RuneCountInString(t) > 4 {
		maxDistance = 2
	}

	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, t) || strings.HasPrefix(t, word) {
			return true
		}
		if Levenshtein(word, t) <= maxDistance {
			return true
		}
	}
	return false
}

// Levenshtein returns the edit distance between a and b with unit cost for
// insertion, deletion and substitution.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// QueryWords splits a normalized query into words longer than one character.
func QueryWords(normalized string) []string {
	fields := strings.Fields(normalized)
	words := fields[:0]
	for _, w := range fields {
		if utf8.RuneCountInString(w) > 1 {
			words = append(words, w)
		}
	}
	return words
}

// SearchableText joins the fields fuzzy matching runs against.
func SearchableText(a models.Article) string {
	return a.Title + " " + a.Content + " " + strings.Join(a.Tags, " ")
}

// MatchesAny reports whether any query word fuzzy-matches the article.
func MatchesAny(a models.Article, words []string) bool {
	text := SearchableText(a)
	for _, w := range words {
		if Matches(text, w) {
			return true
		}
	}
	return false
}

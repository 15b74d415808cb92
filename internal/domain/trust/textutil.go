package trust

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	punctuationRe  = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	hashStripRe    = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	sentenceEndRe  = regexp.MustCompile(`[.!?]+`)
	wordBoundaryRe = regexp.MustCompile(`[a-z0-9+#.]`)
)

// cleanText lowercases, strips punctuation except hyphens, and collapses
// whitespace.
func cleanText(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = punctuationRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// normalizeForHash is the canonical form used for fingerprinting: lowercased,
// all punctuation stripped (hyphens included), single-spaced.
func normalizeForHash(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = hashStripRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// containsTerm reports whether term occurs in text on a word boundary.
// Boundaries treat "+", "#" and "." as word characters so terms like "c++",
// "c#" and ".net" match exactly rather than as substrings of other words.
func containsTerm(text string, term string) bool {
	if term == "" {
		return false
	}
	idx := 0
	for {
		at := strings.Index(text[idx:], term)
		if at < 0 {
			return false
		}
		at += idx
		end := at + len(term)

		beforeOK := at == 0 || !wordBoundaryRe.MatchString(string(text[at-1]))
		afterOK := end >= len(text) || !wordBoundaryRe.MatchString(string(text[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = at + 1
		if idx >= len(text) {
			return false
		}
	}
}

// indexOfTerm returns the byte offset of the first boundary-respecting
// occurrence of term in text, or -1.
func indexOfTerm(text string, term string) int {
	if term == "" {
		return -1
	}
	idx := 0
	for {
		at := strings.Index(text[idx:], term)
		if at < 0 {
			return -1
		}
		at += idx
		end := at + len(term)

		beforeOK := at == 0 || !wordBoundaryRe.MatchString(string(text[at-1]))
		afterOK := end >= len(text) || !wordBoundaryRe.MatchString(string(text[end]))
		if beforeOK && afterOK {
			return at
		}
		idx = at + 1
		if idx >= len(text) {
			return -1
		}
	}
}

// trigramSet builds the character-trigram set of a normalized string.
func trigramSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	runes := []rune(s)
	if len(runes) < 3 {
		if len(runes) > 0 {
			out[string(runes)] = struct{}{}
		}
		return out
	}
	for i := 0; i+3 <= len(runes); i++ {
		out[string(runes[i:i+3])] = struct{}{}
	}
	return out
}

// TrigramSimilarity is the Jaccard similarity of character trigrams over
// both strings in hash-normalized form. Used as the cheap title/company/
// location signal.
func TrigramSimilarity(a string, b string) float64 {
	na, nb := normalizeForHash(a), normalizeForHash(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	return jaccard(trigramSet(na), trigramSet(nb))
}

// shingleSet builds the set of n-word phrase shingles of a normalized text.
func shingleSet(s string, n int) map[string]struct{} {
	words := strings.Fields(normalizeForHash(s))
	out := make(map[string]struct{})
	if len(words) < n {
		if len(words) > 0 {
			out[strings.Join(words, " ")] = struct{}{}
		}
		return out
	}
	for i := 0; i+n <= len(words); i++ {
		out[strings.Join(words[i:i+n], " ")] = struct{}{}
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// titleCaseWords capitalizes the first letter of each word.
func titleCaseWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// clampScore bounds a score to [0,100].
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func countParagraphs(text string, minLen int) int {
	count := 0
	for _, p := range strings.Split(text, "\n\n") {
		if len(strings.TrimSpace(p)) >= minLen {
			count++
		}
	}
	return count
}

func splitSentences(text string) []string {
	parts := sentenceEndRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

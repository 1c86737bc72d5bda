package kb

import (
	"strings"
	"unicode"
)

// Scoring weights. A keyword is a single token; a phrase is matched as a
// substring of the whole normalized utterance.
const (
	keywordWeight         = 1.0
	phraseWeight          = 1.5
	questionOverlapWeight = 0.75
	tagOverlapWeight      = 1.0
)

// DefaultConfidenceThreshold is the score at or above which callers should
// treat a match as authoritative. The matcher itself never applies it.
const DefaultConfidenceThreshold = 1.5

// Match scores the utterance against every entry, static then dynamic, and
// returns the best entry with its confidence. Ties resolve to the first entry
// encountered. Returns (nil, 0) when nothing scores above zero. Match never
// decides pass/fail; compare the confidence against a threshold for that.
func (b *KnowledgeBase) Match(text string) (*FaqEntry, float64) {
	normalized := strings.ToLower(text)
	tokens := tokenize(normalized)

	b.mu.RLock()
	defer b.mu.RUnlock()

	var best *FaqEntry
	bestScore := 0.0
	for _, entries := range [][]FaqEntry{b.static, b.dynamic} {
		for i := range entries {
			if score := scoreEntry(&entries[i], normalized, tokens); score > bestScore {
				match := entries[i]
				best = &match
				bestScore = score
			}
		}
	}
	return best, bestScore
}

func scoreEntry(e *FaqEntry, normalized string, tokens map[string]bool) float64 {
	score := 0.0
	for _, kw := range e.Keywords {
		if tokens[strings.ToLower(kw)] {
			score += keywordWeight
		}
	}
	for _, phrase := range e.Phrases {
		if p := strings.ToLower(phrase); p != "" && strings.Contains(normalized, p) {
			score += phraseWeight
		}
	}
	if len(e.Keywords) == 0 && len(e.Phrases) == 0 {
		// Fallback for bare entries: overlap with the entry's own question.
		score += questionOverlapWeight * float64(overlap(tokens, tokenize(strings.ToLower(e.Question))))
	}
	if len(e.Tags) > 0 {
		tagSet := make(map[string]bool, len(e.Tags))
		for _, tag := range e.Tags {
			tagSet[strings.ToLower(tag)] = true
		}
		score += tagOverlapWeight * float64(overlap(tokens, tagSet))
	}
	return score
}

// tokenize splits the already-lowercased text into a set of maximal
// alphanumeric runs. Duplicates collapse; order is irrelevant.
func tokenize(s string) map[string]bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make(map[string]bool, len(fields))
	for _, f := range fields {
		tokens[f] = true
	}
	return tokens
}

func overlap(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if b[tok] {
			n++
		}
	}
	return n
}

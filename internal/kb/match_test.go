package kb

import "testing"

func TestMatchKeywordScoring(t *testing.T) {
	b := New([]FaqEntry{
		{ID: "hours", Answer: "9-7", Keywords: []string{"hours", "open"}},
	})

	entry, confidence := b.Match("What time are you open today?")
	if entry == nil || entry.ID != "hours" {
		t.Fatalf("expected hours entry, got %+v", entry)
	}
	if confidence != 1.0 {
		t.Fatalf("expected confidence 1.0 for single keyword hit, got %f", confidence)
	}
	// Below the default threshold: callers must not treat this as authoritative.
	if confidence >= DefaultConfidenceThreshold {
		t.Fatalf("expected confidence below threshold %f, got %f", DefaultConfidenceThreshold, confidence)
	}
}

func TestMatchPhraseScoring(t *testing.T) {
	b := New([]FaqEntry{
		{ID: "hours", Answer: "9-7", Keywords: []string{"closing"}, Phrases: []string{"business hours"}},
	})

	entry, confidence := b.Match("Can you tell me your Business Hours?")
	if entry == nil || entry.ID != "hours" {
		t.Fatalf("expected hours entry, got %+v", entry)
	}
	if confidence < DefaultConfidenceThreshold {
		t.Fatalf("expected phrase match to clear threshold, got %f", confidence)
	}
}

func TestMatchTieBreaksToFirstEntry(t *testing.T) {
	b := New([]FaqEntry{
		{ID: "first", Keywords: []string{"parking"}},
		{ID: "second", Keywords: []string{"parking"}},
	})

	entry, _ := b.Match("is there parking nearby")
	if entry == nil || entry.ID != "first" {
		t.Fatalf("expected tie to break to first entry, got %+v", entry)
	}
}

func TestMatchIsDeterministic(t *testing.T) {
	b := New(DefaultEntries())
	first, firstScore := b.Match("do you take walk-ins without an appointment")
	for i := 0; i < 10; i++ {
		entry, score := b.Match("do you take walk-ins without an appointment")
		if entry == nil || first == nil || entry.ID != first.ID || score != firstScore {
			t.Fatalf("match not deterministic: run %d got (%+v, %f), want (%+v, %f)", i, entry, score, first, firstScore)
		}
	}
}

func TestMatchConfidenceMonotonic(t *testing.T) {
	b := New([]FaqEntry{
		{ID: "hours", Keywords: []string{"hours", "open", "close"}, Phrases: []string{"business hours"}},
	})

	_, one := b.Match("when do you open")
	_, two := b.Match("what hours are you open")
	_, three := b.Match("what are your business hours, when do you open and close")

	if !(one < two && two < three) {
		t.Fatalf("expected confidence to grow with matched hints: %f, %f, %f", one, two, three)
	}
}

func TestMatchQuestionOverlapFallback(t *testing.T) {
	b := New([]FaqEntry{
		{ID: "bare", Question: "Do you sell gift cards?", Answer: "Yes"},
	})

	entry, confidence := b.Match("do you sell gift cards")
	if entry == nil || entry.ID != "bare" {
		t.Fatalf("expected bare entry via question overlap, got %+v", entry)
	}
	// Five shared tokens at 0.75 each.
	if confidence != 3.75 {
		t.Fatalf("expected overlap confidence 3.75, got %f", confidence)
	}

	// The fallback only applies when the entry declares no keywords or phrases.
	withHints := New([]FaqEntry{
		{ID: "hinted", Question: "Do you sell gift cards?", Keywords: []string{"giftcard"}},
	})
	if entry, confidence := withHints.Match("do you sell gift cards"); entry != nil || confidence != 0 {
		t.Fatalf("expected no match when declared keywords miss, got (%+v, %f)", entry, confidence)
	}
}

func TestMatchTagOverlap(t *testing.T) {
	b := New([]FaqEntry{
		{ID: "services", Keywords: []string{"services"}, Tags: []string{"Pricing", "menu"}},
	})

	entry, confidence := b.Match("what services do you have and what is the pricing")
	if entry == nil || entry.ID != "services" {
		t.Fatalf("expected services entry, got %+v", entry)
	}
	// One keyword plus one tag token.
	if confidence != 2.0 {
		t.Fatalf("expected confidence 2.0, got %f", confidence)
	}
}

func TestMatchNothingScoresZero(t *testing.T) {
	b := New([]FaqEntry{
		{ID: "hours", Keywords: []string{"hours"}},
	})

	entry, confidence := b.Match("completely unrelated question about llamas")
	if entry != nil || confidence != 0 {
		t.Fatalf("expected (nil, 0) for no hits, got (%+v, %f)", entry, confidence)
	}
}

func TestTokenizeCollapsesDuplicatesAndPunctuation(t *testing.T) {
	tokens := tokenize("what time, what time are you open today?!")
	want := []string{"what", "time", "are", "you", "open", "today"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for _, tok := range want {
		if !tokens[tok] {
			t.Fatalf("missing token %q in %v", tok, tokens)
		}
	}
}

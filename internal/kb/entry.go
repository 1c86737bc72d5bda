package kb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FaqEntry is a single question/answer pair with matching hints.
// Entries are immutable once loaded; the matcher only reads them.
type FaqEntry struct {
	ID       string   `yaml:"id" json:"id"`
	Question string   `yaml:"question" json:"question"`
	Answer   string   `yaml:"answer" json:"answer"`
	Keywords []string `yaml:"keywords" json:"keywords,omitempty"`
	Phrases  []string `yaml:"phrases" json:"phrases,omitempty"`
	Tags     []string `yaml:"tags" json:"tags,omitempty"`
}

type faqFile struct {
	Entries []FaqEntry `yaml:"entries"`
}

// LoadEntries reads static FAQ entries from a YAML file.
func LoadEntries(path string) ([]FaqEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq file: %w", err)
	}
	var f faqFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse faq yaml: %w", err)
	}
	return f.Entries, nil
}

// DefaultEntries returns the compiled-in FAQ set used when no faq_path is
// configured. Kept small on purpose: anything beyond these goes through the
// backend knowledge base or a supervisor.
func DefaultEntries() []FaqEntry {
	return []FaqEntry{
		{
			ID:       "hours",
			Question: "What are your business hours?",
			Answer:   "We're open Tuesday through Saturday, 9am to 7pm, and closed Sunday and Monday.",
			Keywords: []string{"hours", "open", "close", "closing", "opening"},
			Phrases:  []string{"business hours", "what time are you open", "when do you close"},
		},
		{
			ID:       "location",
			Question: "Where are you located?",
			Answer:   "We're at 418 Maple Avenue, two blocks north of the old theater, with free parking behind the building.",
			Keywords: []string{"location", "address", "parking", "directions"},
			Phrases:  []string{"where are you", "how do i get there"},
		},
		{
			ID:       "walkins",
			Question: "Do you take walk-ins?",
			Answer:   "We take walk-ins when a chair is free, but booking ahead is the only way to guarantee a time.",
			Keywords: []string{"walkin", "walkins", "appointment", "book", "booking"},
			Phrases:  []string{"walk in", "walk-ins", "without an appointment"},
		},
		{
			ID:       "cancellation",
			Question: "What is your cancellation policy?",
			Answer:   "You can cancel or reschedule for free up to 24 hours before your appointment; after that we charge half the service price.",
			Keywords: []string{"cancel", "cancellation", "reschedule", "refund"},
			Phrases:  []string{"cancellation policy", "change my appointment"},
		},
		{
			ID:       "services",
			Question: "What services do you offer?",
			Answer:   "We do cuts, color, balayage, blowouts, and deep-conditioning treatments. Pricing depends on length and stylist.",
			Keywords: []string{"services", "cut", "color", "balayage", "blowout", "treatment"},
			Tags:     []string{"pricing", "menu"},
		},
	}
}

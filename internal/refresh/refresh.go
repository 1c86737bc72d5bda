// Package refresh keeps the knowledge base's dynamic entries in sync with
// the backend on a cron schedule.
package refresh

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"frontdeskbot/internal/backend"
	"frontdeskbot/internal/kb"
)

const DefaultLimit = 40

// EntriesFromRemote maps remote knowledge rows onto FAQ entries. Rows without
// an answer are skipped; they can never satisfy a lookup.
func EntriesFromRemote(rows []backend.KnowledgeEntry) []kb.FaqEntry {
	entries := make([]kb.FaqEntry, 0, len(rows))
	for _, row := range rows {
		if row.Answer == "" {
			continue
		}
		entries = append(entries, kb.FaqEntry{
			ID:       row.ID,
			Question: row.Question,
			Answer:   row.Answer,
			Keywords: row.Keywords,
			Phrases:  row.Phrases,
			Tags:     row.Tags,
		})
	}
	return entries
}

// Once fetches up to limit entries and replaces the dynamic set wholesale.
func Once(ctx context.Context, client *backend.Client, store *kb.KnowledgeBase, limit int) (int, error) {
	if !client.Configured() {
		return 0, fmt.Errorf("backend is not configured")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := client.SearchKnowledge(ctx, "", limit)
	if err != nil {
		return 0, fmt.Errorf("fetch knowledge entries: %w", err)
	}
	entries := EntriesFromRemote(rows)
	store.UpdateDynamicEntries(entries)
	return len(entries), nil
}

// StartScheduler refreshes the dynamic entries on a standard 5-field cron
// schedule (minute hour day-of-month month day-of-week). An empty schedule
// disables the refresh; an invalid one disables it with a log line rather
// than failing startup.
func StartScheduler(schedule string, client *backend.Client, store *kb.KnowledgeBase, limit int) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		log.Println("Knowledge refresh disabled (kb_refresh_schedule not set)")
		return
	}
	if !client.Configured() {
		log.Println("Knowledge refresh disabled: backend is not configured")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid kb_refresh_schedule '%s': %v, knowledge refresh disabled", schedule, err)
		return
	}
	log.Printf("Knowledge refresh scheduled (cron: %s, limit: %d)", schedule, limit)

	go func() {
		for {
			now := time.Now()
			next := sched.Next(now)
			log.Printf("Next knowledge refresh at %s (in %s)", next.Format("Mon Jan 2 15:04"), next.Sub(now).Round(time.Minute))
			time.Sleep(next.Sub(now))

			n, err := Once(context.Background(), client, store, limit)
			if err != nil {
				log.Printf("Knowledge refresh error: %v", err)
				continue
			}
			log.Printf("Knowledge refresh complete: %d dynamic entries", n)
		}
	}()
}

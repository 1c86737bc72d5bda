package kb

import "sync"

// KnowledgeBase owns an ordered set of static FAQ entries plus a separately
// replaceable set of dynamic entries fetched from the backend. Static entries
// always score first, so a static/dynamic tie resolves to the static entry.
type KnowledgeBase struct {
	mu      sync.RWMutex
	static  []FaqEntry
	dynamic []FaqEntry
}

func New(static []FaqEntry) *KnowledgeBase {
	return &KnowledgeBase{static: append([]FaqEntry(nil), static...)}
}

// UpdateDynamicEntries replaces the dynamic entry set atomically and
// wholesale. The old set is discarded; nothing is merged or deduplicated.
func (b *KnowledgeBase) UpdateDynamicEntries(entries []FaqEntry) {
	replacement := append([]FaqEntry(nil), entries...)
	b.mu.Lock()
	b.dynamic = replacement
	b.mu.Unlock()
}

// Entries returns a snapshot of all entries in scoring order: static first,
// then dynamic.
func (b *KnowledgeBase) Entries() []FaqEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]FaqEntry, 0, len(b.static)+len(b.dynamic))
	out = append(out, b.static...)
	out = append(out, b.dynamic...)
	return out
}

func (b *KnowledgeBase) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.static) + len(b.dynamic)
}

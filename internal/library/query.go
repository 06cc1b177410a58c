package library

// CategoryGroup is one bucket of GroupByCategory. Buckets appear in
// first-seen order; entries keep their source order inside a bucket.
type CategoryGroup struct {
	Category string
	Entries  []Entry
}

// GroupByCategory buckets entries by category. No entry is duplicated or
// dropped; an empty input yields an empty (non-nil) result.
func GroupByCategory(entries []Entry) []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		cat := e.EntryCategory()
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, CategoryGroup{Category: cat})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

// FilterByDifficulty returns the entries whose difficulty exactly equals
// the given value. Unknown values yield an empty result, not an error.
func FilterByDifficulty(entries []Entry, difficulty string) []Entry {
	out := make([]Entry, 0)
	for _, e := range entries {
		if e.EntryDifficulty() == difficulty {
			out = append(out, e)
		}
	}
	return out
}

// CountPositions sums the variant counts across all entries.
func CountPositions(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += len(e.Variants())
	}
	return total
}

// FindByID returns the first entry with the exact ID, or nil.
func FindByID(entries []Entry, id string) Entry {
	for _, e := range entries {
		if e.EntryID() == id {
			return e
		}
	}
	return nil
}

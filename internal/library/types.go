package library

// Difficulty labels used by the reference libraries. Query operations do
// exact string matching, so unknown labels are not an error.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// PositionVariant is a single teachable position inside an entry. FEN is
// treated as an opaque string here; only boardrender ever decodes it.
type PositionVariant struct {
	Title       string   `json:"title"`
	FEN         string   `json:"fen"`
	Description string   `json:"description"`
	KeyIdeas    []string `json:"key_ideas,omitempty"`
	Moves       []string `json:"moves,omitempty"`
}

// OpeningEntry is one opening in the reference library.
type OpeningEntry struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	ECO        string            `json:"eco"`
	Category   string            `json:"category"`
	Difficulty string            `json:"difficulty"`
	Positions  []PositionVariant `json:"positions"`
}

// EndgameEntry is one endgame study in the reference library.
type EndgameEntry struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Category   string            `json:"category"`
	Difficulty string            `json:"difficulty"`
	Positions  []PositionVariant `json:"positions"`
}

// Entry is the shared read surface of both libraries so the query
// operations work over either one.
type Entry interface {
	EntryID() string
	EntryTitle() string
	EntryCategory() string
	EntryDifficulty() string
	Variants() []PositionVariant
}

func (e OpeningEntry) EntryID() string             { return e.ID }
func (e OpeningEntry) EntryTitle() string          { return e.Title }
func (e OpeningEntry) EntryCategory() string       { return e.Category }
func (e OpeningEntry) EntryDifficulty() string     { return e.Difficulty }
func (e OpeningEntry) Variants() []PositionVariant { return e.Positions }

func (e EndgameEntry) EntryID() string             { return e.ID }
func (e EndgameEntry) EntryTitle() string          { return e.Title }
func (e EndgameEntry) EntryCategory() string       { return e.Category }
func (e EndgameEntry) EntryDifficulty() string     { return e.Difficulty }
func (e EndgameEntry) Variants() []PositionVariant { return e.Positions }

// Library holds both reference data sets. Loaded once at startup and
// never mutated afterwards.
type Library struct {
	Openings []OpeningEntry `json:"openings"`
	Endgames []EndgameEntry `json:"endgames"`
}

// OpeningEntries returns the openings as the generic query surface.
func (l *Library) OpeningEntries() []Entry {
	if l == nil {
		return nil
	}
	out := make([]Entry, 0, len(l.Openings))
	for _, e := range l.Openings {
		out = append(out, e)
	}
	return out
}

// EndgameEntries returns the endgames as the generic query surface.
func (l *Library) EndgameEntries() []Entry {
	if l == nil {
		return nil
	}
	out := make([]Entry, 0, len(l.Endgames))
	for _, e := range l.Endgames {
		out = append(out, e)
	}
	return out
}

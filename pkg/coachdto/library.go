package coachdto

type PositionVariant struct {
	Title       string   `json:"title"`
	FEN         string   `json:"fen"`
	Description string   `json:"description"`
	KeyIdeas    []string `json:"key_ideas,omitempty"`
	Moves       []string `json:"moves,omitempty"`
}

type LibraryEntry struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	ECO        string            `json:"eco,omitempty"`
	Category   string            `json:"category"`
	Difficulty string            `json:"difficulty"`
	Positions  []PositionVariant `json:"positions"`
}

type CategoryGroup struct {
	Category string         `json:"category"`
	Entries  []LibraryEntry `json:"entries"`
}

// LibraryResponse carries either the grouped view or a flat filtered
// list, never both.
type LibraryResponse struct {
	Groups  []CategoryGroup `json:"groups,omitempty"`
	Entries []LibraryEntry  `json:"entries,omitempty"`
}

type LibraryStats struct {
	Openings         int    `json:"openings"`
	Endgames         int    `json:"endgames"`
	OpeningPositions int    `json:"opening_positions"`
	EndgamePositions int    `json:"endgame_positions"`
	Positions        int    `json:"positions"`
	Summary          string `json:"summary,omitempty"`
}

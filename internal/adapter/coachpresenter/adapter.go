package coachpresenter

import (
	"github.com/park285/chess-coach-go/internal/library"
	"github.com/park285/chess-coach-go/internal/welcome"
	"github.com/park285/chess-coach-go/pkg/coachdto"
)

func ToDTOEntry(e library.Entry) *coachdto.LibraryEntry {
	if e == nil {
		return nil
	}
	dto := &coachdto.LibraryEntry{
		ID:         e.EntryID(),
		Title:      e.EntryTitle(),
		Category:   e.EntryCategory(),
		Difficulty: e.EntryDifficulty(),
		Positions:  toDTOVariants(e.Variants()),
	}
	if opening, ok := e.(library.OpeningEntry); ok {
		dto.ECO = opening.ECO
	}
	return dto
}

func ToDTOEntries(entries []library.Entry) []coachdto.LibraryEntry {
	out := make([]coachdto.LibraryEntry, 0, len(entries))
	for _, e := range entries {
		if dto := ToDTOEntry(e); dto != nil {
			out = append(out, *dto)
		}
	}
	return out
}

func ToDTOGroups(groups []library.CategoryGroup) []coachdto.CategoryGroup {
	out := make([]coachdto.CategoryGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, coachdto.CategoryGroup{
			Category: g.Category,
			Entries:  ToDTOEntries(g.Entries),
		})
	}
	return out
}

func toDTOVariants(variants []library.PositionVariant) []coachdto.PositionVariant {
	out := make([]coachdto.PositionVariant, 0, len(variants))
	for _, v := range variants {
		out = append(out, coachdto.PositionVariant{
			Title:       v.Title,
			FEN:         v.FEN,
			Description: v.Description,
			KeyIdeas:    append([]string(nil), v.KeyIdeas...),
			Moves:       append([]string(nil), v.Moves...),
		})
	}
	return out
}

func ToDTOStats(lib *library.Library) coachdto.LibraryStats {
	if lib == nil {
		return coachdto.LibraryStats{}
	}
	openingPositions := library.CountPositions(lib.OpeningEntries())
	endgamePositions := library.CountPositions(lib.EndgameEntries())
	return coachdto.LibraryStats{
		Openings:         len(lib.Openings),
		Endgames:         len(lib.Endgames),
		OpeningPositions: openingPositions,
		EndgamePositions: endgamePositions,
		Positions:        openingPositions + endgamePositions,
	}
}

func ToDTOProfile(p welcome.UserProfile) *coachdto.WelcomeProfile {
	dto := &coachdto.WelcomeProfile{
		SkillLevel:       string(p.SkillLevel),
		Goals:            append([]string(nil), p.Goals...),
		CompletedWelcome: p.CompletedWelcome,
	}
	if dto.Goals == nil {
		dto.Goals = []string{}
	}
	if p.StartDate != nil {
		t := *p.StartDate
		dto.StartDate = &t
	}
	return dto
}

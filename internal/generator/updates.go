package generator

import "fmt"

// ProgressUpdate represents a progress event during a generation run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Generation stage
	Step    int    // Current record number within the stage
	Total   int    // Records requested for the stage
	Message string // Human-readable message for display
	Data    any    // Optional record that was just produced
}

// Generation stage enumeration
type Phase int

const (
	GenerateArtists Phase = iota
	GenerateAlbums
	GenerateUsers
	GeneratePlaylists
	GenerateSongs
	LinkRelations
)

func (p Phase) String() string {
	switch p {
	case GenerateArtists:
		return "artists"
	case GenerateAlbums:
		return "albums"
	case GenerateUsers:
		return "users"
	case GeneratePlaylists:
		return "playlists"
	case GenerateSongs:
		return "songs"
	case LinkRelations:
		return "relations"
	default:
		return ""
	}
}

func stageStartedUpdate(phase Phase, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Generating %d %s...", total, phase),
	}
}

func recordUpdate(phase Phase, step, total int, label string, record any) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, label),
		Data:    record,
	}
}

func relationsUpdate(step, total int, table string, rows int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LinkRelations,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Linked %d %s rows", rows, table),
	}
}

package domain

import "errors"

// ErrPhaseRegression is returned when an import tries to move to an earlier phase.
var ErrPhaseRegression = errors.New("import phase cannot move backwards")

// ErrNoSource means the importer was built without a message source.
var ErrNoSource = errors.New("message source is not configured")

// ImportPhase enumerates import milestones. Phases only move forward.
type ImportPhase int

const (
	PhaseAuthenticating ImportPhase = iota
	PhaseSearching
	PhaseParsing
	PhaseDownloading
	PhaseComplete
)

func (p ImportPhase) String() string {
	switch p {
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseSearching:
		return "searching"
	case PhaseParsing:
		return "parsing"
	case PhaseDownloading:
		return "downloading"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is allowed.
func (p ImportPhase) Terminal() bool {
	return p == PhaseComplete
}

// CanAdvance reports whether moving from p to next keeps the phase order strictly forward.
func (p ImportPhase) CanAdvance(next ImportPhase) bool {
	if p.Terminal() || next > PhaseComplete {
		return false
	}
	return next > p
}

// Progress is a snapshot reported to observers during an import.
type Progress struct {
	Phase     ImportPhase
	Processed int
	Total     int
	Found     int
}

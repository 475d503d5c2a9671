// Package breath implements the phase engine that paces a breathing cycle.
//
// The engine advances through four phases (inhale, hold, exhale, hold) and
// produces the radii of the concentric-circle indicator for the current instant.
package breath

// Phase is one of the four steps of a breathing cycle.
type Phase int

const (
	Inhale Phase = iota
	HoldIn
	Exhale
	HoldOut
)

// NoPhase marks that no transition has been acknowledged yet.
const NoPhase Phase = -1

// NumPhases is the number of phases in one cycle.
const NumPhases = 4

// Phases lists the phases in cycle order.
func Phases() []Phase {
	return []Phase{Inhale, HoldIn, Exhale, HoldOut}
}

// Next returns the phase that follows p.
func (p Phase) Next() Phase {
	return (p + 1) % NumPhases
}

// Valid reports whether p is one of the four cycle phases.
func (p Phase) Valid() bool {
	return p >= Inhale && p <= HoldOut
}

func (p Phase) String() string {
	switch p {
	case Inhale:
		return "Inhale"
	case HoldIn, HoldOut:
		return "Hold"
	case Exhale:
		return "Exhale"
	case NoPhase:
		return "None"
	default:
		return "Unknown"
	}
}

// Label returns the settings label for the phase, distinguishing the two holds.
func (p Phase) Label() string {
	switch p {
	case HoldIn:
		return "Hold 1"
	case HoldOut:
		return "Hold 2"
	default:
		return p.String()
	}
}

// Package viewer is the interactive terminal map browser.
package viewer

// State represents the current cursor mode.
type State int

const (
	// StateExplore moves the cursor like a walker: only onto walkable tiles.
	StateExplore State = iota
	// StateInspect moves the cursor freely and reports the tiles beneath it.
	StateInspect
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateInspect:
		return "inspect"
	default:
		return "unknown"
	}
}

package ports

import (
	"goincome/domain/view"
)

// SessionRepository keeps the view state of each browser session
type SessionRepository interface {
	// Get returns the state of a session and whether it exists
	Get(sessionID string) (view.State, bool)

	// Update applies fn to the session state atomically and stores the result.
	// A missing session starts from view.New().
	Update(sessionID string, fn func(view.State) view.State) view.State

	// Delete drops a session
	Delete(sessionID string)

	// Len returns the number of live sessions
	Len() int
}

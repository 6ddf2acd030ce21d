// Package view holds the per-session dashboard state and the transitions that
// derive the visible subset from the canonical dataset.
//
// Every transition takes a State and returns a new one; the canonical slice is
// shared between states and never modified.
package view

import (
	"goincome/domain/statement"
)

// NoticeKind classifies the message shown above the table
type NoticeKind string

const (
	NoticeNone  NoticeKind = ""
	NoticeError NoticeKind = "error"
	NoticeInfo  NoticeKind = "info"
)

// NoResultsMessage is shown when valid filters match nothing
const NoResultsMessage = "Nothing found for the selected filters."

// Notice is the message line of the dashboard
type Notice struct {
	Kind NoticeKind `json:"kind,omitempty"`
	Text string     `json:"text,omitempty"`
}

// Empty reports whether there is nothing to show
func (n Notice) Empty() bool {
	return n.Text == ""
}

// State is the complete view of one session
type State struct {
	Loaded    bool                  `json:"loaded"`
	Canonical []statement.Record    `json:"-"`
	Visible   []statement.Record    `json:"visible"`
	Criteria  statement.Criteria    `json:"criteria"`
	Sort      *statement.SortConfig `json:"sort,omitempty"`
	Notice    Notice                `json:"notice"`
}

// New returns the state of a session before any data has arrived
func New() State {
	return State{Visible: []statement.Record{}}
}

// Load seeds the state with the canonical dataset. Criteria submitted before
// the data arrived are applied again so every visible record satisfies them;
// the sort config is left as it is.
func Load(s State, canonical []statement.Record) State {
	s.Loaded = true
	s.Canonical = canonical
	if !s.Criteria.IsEmpty() {
		s, _ = ApplyFilters(s, s.Criteria)
		return s
	}
	s.Notice = Notice{}
	s.Visible = statement.Clone(canonical)
	if s.Visible == nil {
		s.Visible = []statement.Record{}
	}
	return s
}

// WithNotice replaces the notice
func WithNotice(s State, kind NoticeKind, text string) State {
	s.Notice = Notice{Kind: kind, Text: text}
	return s
}

// ApplyFilters recomputes the visible subset from the canonical dataset.
// On a validation error the visible subset is kept, the submitted criteria are
// recorded, the error notice is set, and the error is returned with the state.
func ApplyFilters(s State, c statement.Criteria) (State, error) {
	s.Criteria = c
	s.Notice = Notice{}

	f, err := c.Compile()
	if err != nil {
		s.Notice = Notice{Kind: NoticeError, Text: statement.UserMessage(err)}
		return s, err
	}

	s.Visible = f.Apply(s.Canonical)
	if len(s.Visible) == 0 {
		s.Notice = Notice{Kind: NoticeInfo, Text: NoResultsMessage}
	}
	return s, nil
}

// ClearFilters drops all criteria and shows the canonical dataset again
func ClearFilters(s State) State {
	s.Criteria = statement.Criteria{}
	s.Notice = Notice{}
	s.Visible = statement.Clone(s.Canonical)
	if s.Visible == nil {
		s.Visible = []statement.Record{}
	}
	return s
}

// ToggleSort sorts the current visible subset by key, flipping the direction
// when the same key is requested again.
func ToggleSort(s State, key statement.SortKey) State {
	cfg := statement.NextSort(s.Sort, key)
	s.Visible = statement.Sort(s.Visible, cfg)
	s.Sort = &cfg
	return s
}

// SortDirection returns the active direction for key, or "" when the table is
// not sorted by it.
func (s State) SortDirection(key statement.SortKey) statement.Direction {
	if s.Sort == nil || s.Sort.Key != key {
		return ""
	}
	return s.Sort.Direction
}

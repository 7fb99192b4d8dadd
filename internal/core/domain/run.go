package domain

import "time"

// Run is one recorded solving run.
type Run struct {
	// ID is the unique identifier for the run.
	ID string `json:"id"`

	// Profile is the name of the solved profile, empty for ad-hoc spaces.
	Profile string `json:"profile,omitempty"`

	// Space is the input of the run.
	Space SearchSpace `json:"space"`

	// Candidates are the solver's output in emission order.
	Candidates []Candidate `json:"candidates"`

	// CreatedAt is when the run was recorded.
	CreatedAt time.Time `json:"created_at"`
}

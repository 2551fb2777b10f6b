package domain

import "time"

// Vote is one popularity point given by a voter to a server. A voter may
// vote each server once per UTC day.
type Vote struct {
	ServerID  int64
	Voter     string
	CreatedAt time.Time
}

// Day returns the UTC calendar day the vote counts against
func (v Vote) Day() string {
	return v.CreatedAt.UTC().Format("2006-01-02")
}

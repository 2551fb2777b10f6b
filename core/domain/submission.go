// ABOUTME: Submission domain model represents a validated draft awaiting confirmation
// ABOUTME: Confirming a submission performs exactly one create or update

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission is a pending create (ServerID == 0) or update of a server
type Submission struct {
	// Token is the unique identifier (UUID) used to confirm or cancel
	Token string `json:"token"`

	// Draft is the validated form content
	Draft ServerDraft `json:"draft"`

	// ServerID is the server being edited, 0 for a new server
	ServerID int64 `json:"server_id"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSubmission creates a submission that expires after ttl
func NewSubmission(draft ServerDraft, serverID int64, now time.Time, ttl time.Duration) *Submission {
	return &Submission{
		Token:     uuid.New().String(),
		Draft:     draft,
		ServerID:  serverID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsUpdate reports whether confirming edits an existing server
func (s *Submission) IsUpdate() bool {
	return s.ServerID != 0
}

// IsExpired checks if the submission can no longer be confirmed
func (s *Submission) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Confirmation is the outcome of confirming a submission
type Confirmation struct {
	Server  *Server
	Updated bool
}

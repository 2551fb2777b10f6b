// ABOUTME: Submission service holds validated drafts until the author confirms them
// ABOUTME: Confirming pops the pending submission so each token mutates storage once

package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"serverlist-api/core/domain"
	coreerrors "serverlist-api/core/errors"
	"serverlist-api/core/interfaces"
)

// DefaultTTL is how long a submission waits for confirmation
const DefaultTTL = 15 * time.Minute

const keyPrefix = "submission:"

// SubmissionService implements the prepare, confirm and cancel flow
type SubmissionService struct {
	deps    interfaces.Dependencies
	servers interfaces.ServerService
	ttl     time.Duration
	now     func() time.Time
}

// NewSubmissionService creates a new submission service. deps.Cache holds
// pending submissions.
func NewSubmissionService(deps interfaces.Dependencies, servers interfaces.ServerService, ttl time.Duration) *SubmissionService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SubmissionService{
		deps:    deps,
		servers: servers,
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetClock replaces the time source (for testing)
func (s *SubmissionService) SetClock(now func() time.Time) {
	s.now = now
}

// Prepare validates the draft and stores it for confirmation. serverID 0
// prepares a new server.
func (s *SubmissionService) Prepare(ctx context.Context, draft domain.ServerDraft, serverID int64) (*domain.Submission, error) {
	if serverID != 0 {
		if _, err := s.servers.Get(ctx, serverID, domain.WindowAll); err != nil {
			return nil, err
		}
	}

	draft.Normalize()
	if err := s.servers.Validate(ctx, draft); err != nil {
		return nil, err
	}

	sub := domain.NewSubmission(draft, serverID, s.now(), s.ttl)
	data, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	if err := s.deps.Cache.Set(ctx, keyPrefix+sub.Token, data, s.ttl); err != nil {
		return nil, coreerrors.WrapError(err, "failed to store submission")
	}

	s.log("Submission prepared", map[string]interface{}{
		"token":     sub.Token,
		"server_id": serverID,
	})

	return sub, nil
}

// Get returns the pending submission for token
func (s *SubmissionService) Get(ctx context.Context, token string) (*domain.Submission, error) {
	data, err := s.deps.Cache.Get(ctx, keyPrefix+token)
	return s.decode(token, data, err)
}

// Confirm consumes the submission and performs its create or update. Of
// several confirms of one token only the first reaches storage.
func (s *SubmissionService) Confirm(ctx context.Context, token string) (*domain.Confirmation, error) {
	data, err := s.deps.Cache.Pop(ctx, keyPrefix+token)
	sub, err := s.decode(token, data, err)
	if err != nil {
		return nil, err
	}

	if sub.IsUpdate() {
		srv, err := s.servers.Update(ctx, sub.ServerID, sub.Draft)
		if err != nil {
			return nil, err
		}
		return &domain.Confirmation{Server: srv, Updated: true}, nil
	}

	srv, err := s.servers.Create(ctx, sub.Draft)
	if err != nil {
		return nil, err
	}
	return &domain.Confirmation{Server: srv}, nil
}

// Cancel drops the pending submission. Unknown tokens are ignored.
func (s *SubmissionService) Cancel(ctx context.Context, token string) error {
	return s.deps.Cache.Delete(ctx, keyPrefix+token)
}

func (s *SubmissionService) decode(token string, data []byte, err error) (*domain.Submission, error) {
	notFound := &coreerrors.NotFoundError{Resource: "submission", ID: token}
	if errors.Is(err, interfaces.ErrCacheMiss) {
		return nil, notFound
	}
	if err != nil {
		return nil, coreerrors.WrapError(err, "failed to load submission")
	}

	var sub domain.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("failed to decode submission: %w", err)
	}
	if sub.IsExpired(s.now()) {
		return nil, notFound
	}
	return &sub, nil
}

func (s *SubmissionService) log(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Info(msg, fields)
	}
}

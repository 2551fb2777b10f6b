// ABOUTME: Confirm-then-submit flow for creating and editing servers
// ABOUTME: Validates locally, asks for confirmation and performs exactly one write

package client

import (
	"context"
	"time"

	"serverlist-api/core/domain"
	"serverlist-api/core/validation"
)

// ErrorNoticeDuration is how long a failure notice stays visible
const ErrorNoticeDuration = 5 * time.Second

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Notifier shows transient progress messages
type Notifier interface {
	Loading(msg string)
	Success(msg string)
	Error(msg string, duration time.Duration)
}

// Submitter posts drafts after the user confirms them
type Submitter struct {
	client    *Client
	validator *validation.Validator
	confirmer Confirmer
	notifier  Notifier
}

// NewSubmitter creates a submitter
func NewSubmitter(c *Client, confirmer Confirmer, notifier Notifier) *Submitter {
	return &Submitter{
		client:    c,
		validator: validation.New(),
		confirmer: confirmer,
		notifier:  notifier,
	}
}

// Submit creates a server (serverID 0) or updates server serverID.
//
// An invalid draft returns the field errors and a declined confirmation
// returns ErrCancelled; neither touches the network. Otherwise exactly one
// create or update request is sent.
func (s *Submitter) Submit(ctx context.Context, draft Draft, serverID int64) (*Result, error) {
	update := serverID != 0

	draft.Normalize()
	if err := s.validator.ValidateDraft(draft); err != nil {
		return nil, err
	}

	ok, err := s.confirmer.Confirm(ctx, domain.Prompt(update))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCancelled
	}

	s.notifier.Loading(domain.Loading(update))

	var srv *Server
	if update {
		srv, err = s.client.UpdateServer(ctx, serverID, draft)
	} else {
		srv, err = s.client.CreateServer(ctx, draft)
	}
	if err != nil {
		s.notifier.Error(domain.Failure(update), ErrorNoticeDuration)
		return nil, err
	}

	s.notifier.Success(domain.Success(update))
	return resultOf(srv), nil
}

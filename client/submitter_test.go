package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"serverlist-api/core/domain"
	coreerrors "serverlist-api/core/errors"
	"serverlist-api/core/interfaces"
)

func newSubmitterFixture(t *testing.T, answer bool) (*Submitter, *mockHTTPClient, *mockConfirmer, *mockNotifier) {
	t.Helper()

	saved := func(url string, body []byte) (interfaces.Response, error) {
		var draft map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &draft))
		return jsonResponse(201, `{"id":7,"title":"`+draft["title"].(string)+`"}`), nil
	}
	mock := &mockHTTPClient{post: saved, put: saved}

	c, err := NewClient(WithHTTPClient(mock), WithLogger(nopLogger{}))
	require.NoError(t, err)

	confirmer := &mockConfirmer{answer: answer}
	notifier := &mockNotifier{}
	return NewSubmitter(c, confirmer, notifier), mock, confirmer, notifier
}

func TestSubmitter_Create(t *testing.T) {
	s, mock, confirmer, notifier := newSubmitterFixture(t, true)

	res, err := s.Submit(context.Background(), validDraft("  Faction Italia PvP "), 0)
	require.NoError(t, err)
	assert.Equal(t, &Result{ID: 7, Title: "Faction Italia PvP", Path: "/server/7/faction-italia-pvp"}, res)

	assert.Equal(t, []string{domain.PromptCreate}, confirmer.prompts)
	assert.Equal(t, []string{"POST " + DefaultBaseURL + "/api/servers"}, mock.Calls())
	assert.Equal(t, []string{
		"loading: Postando il tuo server...",
		"success: " + domain.NoticeCreated,
	}, notifier.events)
}

func TestSubmitter_Update(t *testing.T) {
	s, mock, confirmer, notifier := newSubmitterFixture(t, true)

	res, err := s.Submit(context.Background(), validDraft("Faction Italia Reloaded"), 7)
	require.NoError(t, err)
	assert.Equal(t, "/server/7/faction-italia-reloaded", res.Path)

	assert.Equal(t, []string{domain.PromptUpdate}, confirmer.prompts)
	assert.Equal(t, []string{"PUT " + DefaultBaseURL + "/api/servers/7"}, mock.Calls())
	assert.Equal(t, []string{
		"loading: Modificando il tuo server...",
		"success: " + domain.NoticeUpdated,
	}, notifier.events)
}

func TestSubmitter_InvalidDraftSkipsNetwork(t *testing.T) {
	s, mock, confirmer, notifier := newSubmitterFixture(t, true)

	draft := validDraft("corto")
	_, err := s.Submit(context.Background(), draft, 0)

	fields, ok := coreerrors.AsValidationErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, fields.Field("title"))
	assert.Empty(t, confirmer.prompts)
	assert.Empty(t, mock.Calls())
	assert.Empty(t, notifier.events)
}

func TestSubmitter_DeclinedSkipsNetwork(t *testing.T) {
	s, mock, confirmer, notifier := newSubmitterFixture(t, false)

	_, err := s.Submit(context.Background(), validDraft("Faction Italia PvP"), 0)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Len(t, confirmer.prompts, 1)
	assert.Empty(t, mock.Calls())
	assert.Empty(t, notifier.events)
}

func TestSubmitter_FailureNotifiesOnce(t *testing.T) {
	s, mock, _, notifier := newSubmitterFixture(t, true)
	mock.post = func(url string, body []byte) (interfaces.Response, error) {
		return nil, errors.New("connection reset")
	}

	_, err := s.Submit(context.Background(), validDraft("Faction Italia PvP"), 0)
	assert.True(t, IsNetworkError(err))

	assert.Len(t, mock.Calls(), 1, "a failed create is not retried")
	require.Len(t, notifier.events, 2)
	assert.Equal(t, "error: "+domain.FailureCreate, notifier.events[1])
	assert.Equal(t, ErrorNoticeDuration, notifier.duration)
}

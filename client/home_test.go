package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"serverlist-api/core/domain"
)

const (
	timeoutShort = 2 * time.Second
	tick         = 5 * time.Millisecond
)

func TestLoadHome(t *testing.T) {
	c, svc := newTestAPI(t)
	ctx := context.Background()

	srv, err := svc.Create(ctx, validDraft("Faction Italia PvP"))
	require.NoError(t, err)

	home, err := LoadHome(ctx, c, domain.WindowWeek)
	require.NoError(t, err)
	assert.Nil(t, home.Top, "no votes means no top server")
	assert.Len(t, home.Page.Servers, 1)
	assert.Len(t, home.Tags, 2)

	_, err = svc.Vote(ctx, srv.ID, "203.0.113.7")
	require.NoError(t, err)

	home, err = LoadHome(ctx, c, "")
	require.NoError(t, err)
	require.NotNil(t, home.Top)
	assert.Equal(t, srv.ID, home.Top.ID)
}

func TestLoadHome_BadWindow(t *testing.T) {
	c, _ := newTestAPI(t)

	_, err := LoadHome(context.Background(), c, "year")
	assert.True(t, IsValidationError(err))
}

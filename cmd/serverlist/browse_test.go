package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"serverlist-api/client"
)

func pagedServers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"GET /api/servers": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("cursor") == "" {
				writeJSON(w, http.StatusOK, client.Page{
					Servers:    []client.Server{server(1, "Primo server"), server(2, "Secondo server")},
					NextCursor: "c2",
					HasMore:    true,
				})
				return
			}
			writeJSON(w, http.StatusOK, client.Page{
				Servers: []client.Server{server(3, "Terzo server")},
			})
		},
	}
}

func TestListFirstPage(t *testing.T) {
	api := newFakeAPI(t, pagedServers())

	out, _, err := runCLI(t, api, "", "list", "--window", "week", "--sort", "recent", "--tag", "pvp")
	require.NoError(t, err)

	assert.Contains(t, out, "Primo server")
	assert.Contains(t, out, "Secondo server")
	assert.NotContains(t, out, "Terzo server")
	assert.Equal(t, []string{"GET /api/servers?sort=recent&tag=pvp&window=week"}, api.Requests())
}

func TestListAllFollowsCursor(t *testing.T) {
	api := newFakeAPI(t, pagedServers())

	out, _, err := runCLI(t, api, "", "list", "--all")
	require.NoError(t, err)

	assert.Contains(t, out, "Terzo server")
	assert.Len(t, api.Requests(), 2)
	assert.Contains(t, api.Requests()[1], "cursor=c2")
}

func TestListRejectsUnknownWindow(t *testing.T) {
	api := newFakeAPI(t, pagedServers())

	_, _, err := runCLI(t, api, "", "list", "--window", "year")
	require.Error(t, err)
	assert.Empty(t, api.Requests())
}

func TestTop(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/servers/top": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "day", r.URL.Query().Get("window"))
			writeJSON(w, http.StatusOK, server(7, "Il piu' votato"))
		},
	})

	out, _, err := runCLI(t, api, "", "top", "--window", "day")
	require.NoError(t, err)
	assert.Contains(t, out, "Il piu' votato")
}

func TestTopWithoutVotes(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/servers/top": problem(http.StatusNotFound, "no server has votes in this window"),
	})

	out, _, err := runCLI(t, api, "", "top")
	require.NoError(t, err)
	assert.Contains(t, out, "Nessun server votato")
}

func TestTags(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/tags": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"tags": []client.Tag{
					{Slug: "survival", Name: "Survival", ServerCount: 4},
					{Slug: "pvp", Name: "PvP"},
				},
			})
		},
	})

	out, _, err := runCLI(t, api, "", "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "survival")
	assert.Contains(t, out, "PvP")
	assert.Regexp(t, `survival\s+Survival\s+4`, out)
}

func TestVote(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /api/servers/{id}/votes": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "3", r.PathValue("id"))
			writeJSON(w, http.StatusOK, server(3, "Terzo server"))
		},
	})

	out, _, err := runCLI(t, api, "", "vote", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `"Terzo server"`)
	assert.Equal(t, []string{"POST /api/servers/3/votes"}, api.Requests())
}

func TestVoteTwiceInADay(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /api/servers/{id}/votes": problem(http.StatusConflict, "already voted today"),
	})

	_, _, err := runCLI(t, api, "", "vote", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hai già votato")
}

func TestVoteRejectsBadID(t *testing.T) {
	api := newFakeAPI(t, nil)

	for _, arg := range []string{"abc", "0", "-4"} {
		_, _, err := runCLI(t, api, "", "vote", "--", arg)
		assert.Error(t, err, arg)
	}
	assert.Empty(t, api.Requests())
}

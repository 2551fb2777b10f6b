package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("")
	require.NoError(t, err)
	assert.Equal(t, WindowMonth, w)

	for _, name := range []string{"day", "week", "month", "all"} {
		w, err := ParseWindow(name)
		require.NoError(t, err)
		assert.Equal(t, Window(name), w)
	}

	_, err = ParseWindow("year")
	assert.Error(t, err)
}

func TestWindow_Since(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(-24*time.Hour), WindowDay.Since(now))
	assert.Equal(t, now.Add(-7*24*time.Hour), WindowWeek.Since(now))
	assert.Equal(t, now.Add(-30*24*time.Hour), WindowMonth.Since(now))
	assert.True(t, WindowAll.Since(now).IsZero())
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortPopular, s)

	s, err = ParseSort("recent")
	require.NoError(t, err)
	assert.Equal(t, SortRecent, s)

	_, err = ParseSort("random")
	assert.Error(t, err)
}

func TestCursor_RoundTrip(t *testing.T) {
	q := ListQuery{Window: WindowMonth, Sort: SortPopular, Tag: "pvp", Limit: 20}

	cursor := EncodeCursor(q, 40)
	offset, err := DecodeCursor(q, cursor)

	require.NoError(t, err)
	assert.Equal(t, 40, offset)
}

func TestCursor_EmptyIsFirstPage(t *testing.T) {
	offset, err := DecodeCursor(ListQuery{}, "")
	require.NoError(t, err)
	assert.Equal(t, 0, offset)
}

func TestCursor_RejectsOtherQuery(t *testing.T) {
	q := ListQuery{Window: WindowMonth, Sort: SortPopular}
	cursor := EncodeCursor(q, 20)

	other := q
	other.Tag = "survival"

	_, err := DecodeCursor(other, cursor)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestCursor_LimitDoesNotChangeFingerprint(t *testing.T) {
	q := ListQuery{Window: WindowWeek, Sort: SortRecent, Limit: 10}
	cursor := EncodeCursor(q, 10)

	q.Limit = 30
	offset, err := DecodeCursor(q, cursor)
	require.NoError(t, err)
	assert.Equal(t, 10, offset)
}

func TestCursor_Garbage(t *testing.T) {
	q := ListQuery{}

	_, err := DecodeCursor(q, "%%%")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	_, err = DecodeCursor(q, "bm90LWpzb24")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestVote_Day(t *testing.T) {
	v := Vote{CreatedAt: time.Date(2024, 5, 1, 23, 30, 0, 0, time.FixedZone("CEST", 2*3600))}
	assert.Equal(t, "2024-05-01", v.Day())
}

func TestSubmission_Expiry(t *testing.T) {
	now := time.Now()
	s := NewSubmission(ServerDraft{Title: "x"}, 0, now, time.Minute)

	assert.Len(t, s.Token, 36)
	assert.False(t, s.IsUpdate())
	assert.False(t, s.IsExpired(now.Add(30*time.Second)))
	assert.True(t, s.IsExpired(now.Add(2*time.Minute)))

	edit := NewSubmission(ServerDraft{}, 9, now, time.Minute)
	assert.True(t, edit.IsUpdate())
}

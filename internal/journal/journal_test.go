package journal

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/query"
	"github.com/chris-regnier/devjournal/internal/storage"
	"github.com/chris-regnier/devjournal/internal/storage/sqlite"
	"github.com/chris-regnier/devjournal/internal/timeexpr"
)

var refNow = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)

func seed(t *testing.T) (storage.Storage, map[string]int64) {
	t.Helper()
	s, err := sqlite.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	byTitle := make(map[string]int64)
	for _, e := range []entry.Entry{
		{Title: "Fix login", Description: "Login error on Safari", Project: "api", Tags: []string{"auth", "bugfix"}, CreatedAt: refNow.AddDate(0, 0, -20)},
		{Title: "Session refactor", Description: "Split auth handling", Project: "web", Tags: []string{"auth"}, CreatedAt: refNow.AddDate(0, 0, -3)},
		{Title: "Deploy", Description: "Shipped the login error fix", Project: "web", CreatedAt: refNow.AddDate(0, 0, -1)},
		{Title: "Standup", Description: "Discussed last week", Project: "api", Tags: []string{"meeting"}, CreatedAt: refNow.Add(-time.Hour)},
	} {
		created, err := s.Create(e)
		require.NoError(t, err)
		byTitle[e.Title] = created.ID
	}
	return s, byTitle
}

func entryIDs(entries []entry.Entry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestSearch(t *testing.T) {
	s, id := seed(t)

	res, err := Search(s, "#auth", "", 10, refNow)
	require.NoError(t, err)
	assert.Equal(t, []int64{id["Session refactor"], id["Fix login"]}, entryIDs(res.Entries))

	res, err = Search(s, `"login error"`, "web", 10, refNow)
	require.NoError(t, err)
	assert.Equal(t, []int64{id["Deploy"]}, entryIDs(res.Entries))
	assert.Equal(t, "web", res.Filter.Project)

	res, err = Search(s, "login last 7 days", "", 10, refNow)
	require.NoError(t, err)
	assert.NotNil(t, res.Filter.TimeRange)
	assert.Equal(t, []int64{id["Deploy"]}, entryIDs(res.Entries))

	res, err = Search(s, "", "", 2, refNow)
	require.NoError(t, err)
	assert.Equal(t, []int64{id["Standup"], id["Deploy"]}, entryIDs(res.Entries))
}

func TestSearchIDLookupIgnoresProject(t *testing.T) {
	s, id := seed(t)
	res, err := Search(s, "id:"+itoa(id["Fix login"]), "web", 10, refNow)
	require.NoError(t, err)
	assert.Equal(t, []int64{id["Fix login"]}, entryIDs(res.Entries))
}

func TestSearchSyntaxError(t *testing.T) {
	s, _ := seed(t)
	_, err := Search(s, `"open`, "", 10, refNow)
	var serr *query.SyntaxError
	assert.True(t, errors.As(err, &serr))
}

func TestTimeQuery(t *testing.T) {
	s, id := seed(t)

	res, err := TimeQuery(s, "this week", "", "", 0, refNow)
	require.NoError(t, err)
	assert.Equal(t, []int64{id["Standup"], id["Deploy"]}, entryIDs(res.Entries))

	res, err = TimeQuery(s, "last 30 days", "#auth", "", 0, refNow)
	require.NoError(t, err)
	assert.Equal(t, []int64{id["Session refactor"], id["Fix login"]}, entryIDs(res.Entries))

	res, err = TimeQuery(s, "this month", "last week", "", 0, refNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"last", "week"}, res.Filter.Keywords, "time phrases in the text are keywords")
	assert.Equal(t, []int64{id["Standup"]}, entryIDs(res.Entries))
}

func TestTimeQueryErrors(t *testing.T) {
	s, _ := seed(t)
	_, err := TimeQuery(s, "next tuesday", "", "", 0, refNow)
	var perr *timeexpr.ParseError
	assert.True(t, errors.As(err, &perr))

	_, err = TimeQuery(s, "today", `"open`, "", 0, refNow)
	var serr *query.SyntaxError
	assert.True(t, errors.As(err, &serr))
}

func TestRecent(t *testing.T) {
	s, id := seed(t)
	got, err := Recent(s, "api", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{id["Standup"], id["Fix login"]}, entryIDs(got))

	got, err = Recent(s, "", 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{id["Standup"]}, entryIDs(got))
}

func TestLimit(t *testing.T) {
	assert.Equal(t, 5, Limit(5, 20))
	assert.Equal(t, 20, Limit(0, 20))
	assert.Equal(t, 20, Limit(-3, 20))
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

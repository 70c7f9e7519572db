package query

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/timeexpr"
)

var refNow = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)

func TestParseEmptyMatchesEverything(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		f, err := Parse(raw, refNow)
		require.NoError(t, err)
		assert.True(t, f.IsEmpty(), "%q", raw)
		assert.Equal(t, "(all entries)", f.String())
	}
}

func TestParseIDLookup(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"42", 42},
		{"  42  ", 42},
		{"id:42", 42},
		{"ID:42", 42},
		{"id:42 trailing garbage", 42},
		{`id:42 "unterminated`, 42},
		{"id:42xyz", 42},
		{"id:7 tag:auth last week", 7},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			f, err := Parse(tt.raw, refNow)
			require.NoError(t, err)
			require.NotNil(t, f.ID)
			assert.Equal(t, tt.want, *f.ID)
			assert.Empty(t, f.Tags)
			assert.Empty(t, f.Phrases)
			assert.Empty(t, f.Keywords)
			assert.Nil(t, f.TimeRange)
			assert.Equal(t, "", f.Project)
		})
	}
}

func TestParseNonIDNumbersAreKeywords(t *testing.T) {
	tests := map[string][]string{
		"0":                          {"0"},
		"-5":                         {"-5"},
		"42 bugs":                    {"42", "bugs"},
		"id:0":                       {"id:0"},
		"id:abc":                     {"id:abc"},
	}
	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			f, err := Parse(raw, refNow)
			require.NoError(t, err)
			assert.Nil(t, f.ID)
			assert.Equal(t, want, f.Keywords)
		})
	}
}

func TestParseOutOfRangeIDMatchesNothing(t *testing.T) {
	entries := []entry.Entry{{ID: 1, Title: "99999999999999999999"}}
	for _, raw := range []string{"99999999999999999999", "id:99999999999999999999999", "9223372036854775808"} {
		t.Run(raw, func(t *testing.T) {
			f, err := Parse(raw, refNow)
			require.NoError(t, err)
			require.NotNil(t, f.ID)
			assert.Empty(t, f.Keywords)
			assert.Empty(t, Execute(f, entries, 0))
		})
	}
}

func TestParseOverflowingTimeCountStaysKeywords(t *testing.T) {
	f, err := Parse("fix last 9223372036854775807 days", refNow)
	require.NoError(t, err)
	assert.Nil(t, f.TimeRange)
	assert.Equal(t, []string{"fix", "last", "9223372036854775807", "days"}, f.Keywords)
}

func TestParseTagPhraseKeyword(t *testing.T) {
	f, err := Parse(`tag:bugfix "login error" performance`, refNow)
	require.NoError(t, err)
	assert.Nil(t, f.ID)
	assert.Equal(t, []string{"bugfix"}, f.Tags)
	assert.Equal(t, []string{"login error"}, f.Phrases)
	assert.Equal(t, []string{"performance"}, f.Keywords)
	assert.Nil(t, f.TimeRange)
}

func TestParseTags(t *testing.T) {
	f, err := Parse("#Auth TAG:Backend tag:auth #auth", refNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"auth", "backend"}, f.Tags)
	assert.Empty(t, f.Keywords)

	f, err = Parse("tag: # plain", refNow)
	require.NoError(t, err)
	assert.Empty(t, f.Tags)
	assert.Equal(t, []string{"tag:", "#", "plain"}, f.Keywords)
}

func TestParsePhrases(t *testing.T) {
	f, err := Parse(`"Login Error"deploy "" "  " "second one"`, refNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"Login Error", "second one"}, f.Phrases, "phrases are kept verbatim and blank ones dropped")
	assert.Equal(t, []string{"deploy"}, f.Keywords)
}

func TestParseUnterminatedQuote(t *testing.T) {
	for _, raw := range []string{`"unterminated`, `tag:auth "login error" "oops here`} {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(raw, refNow)
			require.Error(t, err)
			var serr *SyntaxError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, byte('"'), serr.Fragment[0])
			assert.Contains(t, err.Error(), "unterminated")
		})
	}
}

func TestParseKeywordsAreLowercasedAndDeduplicated(t *testing.T) {
	f, err := Parse("Deploy deploy DEPLOY rollback", refNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"deploy", "rollback"}, f.Keywords)
}

func TestParseTimePhrase(t *testing.T) {
	f, err := Parse("auth last 2 weeks regression", refNow)
	require.NoError(t, err)
	want, err := timeexpr.Resolve("last 2 weeks", refNow)
	require.NoError(t, err)
	require.NotNil(t, f.TimeRange)
	assert.Equal(t, want, *f.TimeRange)
	assert.Equal(t, []string{"auth", "regression"}, f.Keywords)
}

func TestParseTimePhrasePrefersLongestAtPosition(t *testing.T) {
	f, err := Parse("last 3 days", refNow)
	require.NoError(t, err)
	want, _ := timeexpr.Resolve("last 3 days", refNow)
	require.NotNil(t, f.TimeRange)
	assert.Equal(t, want, *f.TimeRange)
	assert.Empty(t, f.Keywords)

	f, err = Parse("January 2023 planning", refNow)
	require.NoError(t, err)
	want, _ = timeexpr.Resolve("january 2023", refNow)
	require.NotNil(t, f.TimeRange)
	assert.Equal(t, want, *f.TimeRange)
	assert.Equal(t, []string{"planning"}, f.Keywords)
}

func TestParseOnlyFirstTimePhraseIsRecognized(t *testing.T) {
	f, err := Parse("yesterday deploy today", refNow)
	require.NoError(t, err)
	want, _ := timeexpr.Resolve("yesterday", refNow)
	require.NotNil(t, f.TimeRange)
	assert.Equal(t, want, *f.TimeRange)
	assert.Equal(t, []string{"deploy", "today"}, f.Keywords)
}

func TestParseTimePhraseInsideQuotesIsAPhrase(t *testing.T) {
	f, err := Parse(`"last week" notes`, refNow)
	require.NoError(t, err)
	assert.Nil(t, f.TimeRange)
	assert.Equal(t, []string{"last week"}, f.Phrases)
	assert.Equal(t, []string{"notes"}, f.Keywords)
}

func TestParseText(t *testing.T) {
	f, err := ParseText(`42 last week #ops "cut over"`)
	require.NoError(t, err)
	assert.Nil(t, f.ID, "ParseText never produces an ID lookup")
	assert.Nil(t, f.TimeRange, "ParseText never resolves time phrases")
	assert.Equal(t, []string{"ops"}, f.Tags)
	assert.Equal(t, []string{"cut over"}, f.Phrases)
	assert.Equal(t, []string{"42", "last", "week"}, f.Keywords)

	f, err = ParseText("  ")
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())

	_, err = ParseText(`"open`)
	var serr *SyntaxError
	assert.True(t, errors.As(err, &serr))
}

func TestFilterString(t *testing.T) {
	id := int64(9)
	assert.Equal(t, "id:9", Filter{ID: &id, Keywords: []string{"ignored"}}.String())

	f := Filter{Project: "api", Tags: []string{"auth"}, Phrases: []string{"a b"}, Keywords: []string{"x"}}
	assert.Equal(t, `project=api tag:auth "a b" x`, f.String())
}

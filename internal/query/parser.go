package query

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chris-regnier/devjournal/internal/timeexpr"
)

var idLookupPattern = regexp.MustCompile(`(?i)^id:(\d+)`)

// unknownID is never assigned to an entry. Lookups of integers too large
// to be an ID resolve to it.
const unknownID int64 = 0

// Parse turns a raw search string into a Filter. Embedded time phrases are
// resolved against now. The only syntax error is an unterminated quote.
//
// Any positive integer is an ID lookup, including one beyond the int64
// range; such a lookup matches nothing.
func Parse(raw string, now time.Time) (Filter, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Filter{}, nil
	}
	if id, ok := parseIDLookup(trimmed); ok {
		return Filter{ID: &id}, nil
	}
	return parseTerms(trimmed, func(tokens []string) ([]string, *timeexpr.Range) {
		return extractTimePhrase(tokens, now)
	})
}

// ParseText parses phrases, tags and keywords only. Callers use it when the
// time range comes from elsewhere, so neither ID lookups nor time phrases are
// recognized.
func ParseText(raw string) (Filter, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Filter{}, nil
	}
	return parseTerms(trimmed, nil)
}

type timeExtractor func(tokens []string) ([]string, *timeexpr.Range)

func parseTerms(s string, extractTime timeExtractor) (Filter, error) {
	phrases, rest, err := extractPhrases(s)
	if err != nil {
		return Filter{}, err
	}

	f := Filter{Phrases: phrases}
	var tokens []string
	for _, tok := range strings.Fields(rest) {
		if tag, ok := tagToken(tok); ok {
			f.Tags = appendUnique(f.Tags, tag)
			continue
		}
		tokens = append(tokens, tok)
	}

	if extractTime != nil {
		tokens, f.TimeRange = extractTime(tokens)
	}

	for _, tok := range tokens {
		f.Keywords = appendUnique(f.Keywords, strings.ToLower(tok))
	}
	return f, nil
}

// parseIDLookup recognizes a bare positive integer or an "id:<n>" prefix.
// Anything after the digits of an id: prefix is ignored.
func parseIDLookup(s string) (int64, bool) {
	digits := s
	if m := idLookupPattern.FindStringSubmatch(s); m != nil {
		digits = m[1]
	} else if strings.TrimLeft(s, "0123456789") != "" {
		return 0, false
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return unknownID, true
	}
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// extractPhrases pulls "quoted" substrings out of s and returns them along
// with the remaining text. Empty phrases are dropped.
func extractPhrases(s string) ([]string, string, error) {
	var phrases []string
	var rest strings.Builder
	for {
		open := strings.IndexByte(s, '"')
		if open < 0 {
			rest.WriteString(s)
			break
		}
		end := strings.IndexByte(s[open+1:], '"')
		if end < 0 {
			return nil, "", &SyntaxError{Fragment: s[open:], Reason: "unterminated quoted phrase"}
		}
		rest.WriteString(s[:open])
		rest.WriteByte(' ')
		if phrase := s[open+1 : open+1+end]; strings.TrimSpace(phrase) != "" {
			phrases = append(phrases, phrase)
		}
		s = s[open+end+2:]
	}
	return phrases, rest.String(), nil
}

func tagToken(tok string) (string, bool) {
	lower := strings.ToLower(tok)
	switch {
	case strings.HasPrefix(lower, "tag:") && len(lower) > len("tag:"):
		return lower[len("tag:"):], true
	case strings.HasPrefix(lower, "#") && len(lower) > 1:
		return lower[1:], true
	}
	return "", false
}

// extractTimePhrase removes the first (leftmost, then longest) time phrase
// from tokens. Later candidates stay in place as keywords.
func extractTimePhrase(tokens []string, now time.Time) ([]string, *timeexpr.Range) {
	for i := range tokens {
		r, n, ok := timeexpr.Match(tokens[i:], now)
		if !ok {
			continue
		}
		rest := make([]string, 0, len(tokens)-n)
		rest = append(rest, tokens[:i]...)
		rest = append(rest, tokens[i+n:]...)
		return rest, &r
	}
	return tokens, nil
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

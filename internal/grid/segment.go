package grid

import (
	"strconv"
	"strings"

	"github.com/Payphone-Digital/storefront/internal/constants"
)

// Segment is one filter token of the form "<prefix>-<value>", for example
// "author-12-jane-austen", "genre-novel" or "price-under7".
type Segment struct {
	Prefix string
	Value  string
}

// ParseSegment splits token at its first dash. It reports false for tokens
// without a prefix or value, and for the "all" value, which means no filter.
func ParseSegment(token string) (Segment, bool) {
	prefix, value, ok := strings.Cut(strings.TrimSpace(token), "-")
	if !ok {
		return Segment{}, false
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	value = strings.TrimSpace(value)
	if prefix == "" || value == "" || strings.EqualFold(value, constants.FilterAll) {
		return Segment{}, false
	}
	return Segment{Prefix: prefix, Value: value}, true
}

// NewSegment builds a segment. An empty value yields the "all" token.
func NewSegment(prefix, value string) Segment {
	if strings.TrimSpace(value) == "" {
		value = constants.FilterAll
	}
	return Segment{Prefix: strings.ToLower(prefix), Value: value}
}

func (s Segment) String() string {
	return s.Prefix + "-" + s.Value
}

// IsAll reports whether the segment means "no filter".
func (s Segment) IsAll() bool {
	return s.Value == "" || strings.EqualFold(s.Value, constants.FilterAll)
}

// IntValue extracts the leading integer id of the value: "12-jane-austen"
// yields 12. Values without a leading id report false.
func (s Segment) IntValue() (int, bool) {
	head, _, _ := strings.Cut(s.Value, "-")
	n, err := strconv.Atoi(head)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Slug lowercases text and joins its words with dashes, for the readable
// tail of a segment such as "jane-austen".
func Slug(text string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	return b.String()
}

// normalizeSegments keeps the first well-formed segment per prefix, in
// order. "all" segments and malformed tokens are dropped.
func normalizeSegments(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		seg, ok := ParseSegment(token)
		if !ok || seen[seg.Prefix] {
			continue
		}
		seen[seg.Prefix] = true
		out = append(out, seg.String())
	}
	return out
}

package filter

import (
	"regexp"
	"strings"

	"github.com/nasdf/capyql/object"
	"github.com/nasdf/capyql/value"
)

type matcher interface {
	match(rec object.Record) bool
}

type allMatcher []matcher

func (m allMatcher) match(rec object.Record) bool {
	for _, c := range m {
		if !c.match(rec) {
			return false
		}
	}
	return true
}

type anyMatcher []matcher

func (m anyMatcher) match(rec object.Record) bool {
	for _, c := range m {
		if c.match(rec) {
			return true
		}
	}
	return false
}

type notMatcher struct {
	inner matcher
}

func (m notMatcher) match(rec object.Record) bool {
	return !m.inner.match(rec)
}

type compareMatcher struct {
	field   string
	op      string
	literal value.Value
	// valid is false if the literal could not be converted to the field type.
	valid bool
}

func (m *compareMatcher) match(rec object.Record) bool {
	stored := rec.Get(m.field)
	switch m.op {
	case equalFilter:
		return m.valid && value.Equal(stored, m.literal)
	case notEqualFilter:
		return !m.valid || !value.Equal(stored, m.literal)
	}
	if !m.valid || stored.IsAbsent() || stored.IsNull() || !sameFamily(stored, m.literal) {
		return false
	}
	c := value.Compare(stored, m.literal)
	switch m.op {
	case greaterFilter:
		return c > 0
	case greaterOrEqualFilter:
		return c >= 0
	case lessFilter:
		return c < 0
	case lessOrEqualFilter:
		return c <= 0
	default:
		return false
	}
}

// sameFamily returns true if both values belong to the same ordering family.
func sameFamily(a, b value.Value) bool {
	return a.Kind() == b.Kind() || (a.IsNumber() && b.IsNumber())
}

type setMatcher struct {
	field    string
	literals []value.Value
	negate   bool
}

func (m *setMatcher) match(rec object.Record) bool {
	stored := rec.Get(m.field)
	for _, lit := range m.literals {
		if value.Equal(stored, lit) {
			return !m.negate
		}
	}
	return m.negate
}

type likeMatcher struct {
	field  string
	re     *regexp.Regexp
	negate bool
}

func (m *likeMatcher) match(rec object.Record) bool {
	s, ok := rec.Get(m.field).AsString()
	if !ok {
		return m.negate
	}
	return m.re.MatchString(s) != m.negate
}

// compileLike converts a SQL LIKE pattern into an anchored regular expression.
//
// The wildcard % matches any sequence of characters and _ matches exactly one.
// A backslash escapes the following character.
func compileLike(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?s)^")
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if escaped {
		b.WriteString(`\\`)
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

package flatten

import (
	"sort"
	"strconv"
	"strings"
)

// Levels is a set of original tree depths. A nil Levels means no level
// filter was ever applied (every level is shown); a non-nil empty Levels
// means the user deselected every level and nothing is shown. The two states
// are distinct and must not be collapsed.
type Levels map[int]struct{}

// OnlyLevels builds a non-nil level set, even when called with no arguments.
func OnlyLevels(levels ...int) Levels {
	s := make(Levels, len(levels))
	for _, l := range levels {
		s[l] = struct{}{}
	}
	return s
}

// Has reports membership. A nil set contains every level.
func (s Levels) Has(level int) bool {
	if s == nil {
		return true
	}
	_, ok := s[level]
	return ok
}

// Sorted returns the members in ascending order.
func (s Levels) Sorted() []int {
	out := make([]int, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// ParseLevels reads a comma separated list ("0,2,4"). present=false yields a
// nil set; present with an empty value yields the empty set.
func ParseLevels(raw string, present bool) (Levels, error) {
	if !present {
		return nil, nil
	}
	s := OnlyLevels()
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		l, err := strconv.Atoi(part)
		if err != nil || l < 0 {
			return nil, &LevelError{Value: part}
		}
		s[l] = struct{}{}
	}
	return s, nil
}

// LevelError reports an unparsable level value.
type LevelError struct{ Value string }

func (e *LevelError) Error() string { return "nivel invalido: " + strconv.Quote(e.Value) }

// Filter holds the display criteria. The zero value shows everything.
type Filter struct {
	Levels   Levels
	Material string
}

// Active reports whether any criterion is set.
func (f Filter) Active() bool {
	return f.Levels != nil || strings.TrimSpace(f.Material) != ""
}

func (f Filter) needle() string {
	return strings.ToLower(strings.TrimSpace(f.Material))
}

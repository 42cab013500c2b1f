// Package match evaluates include/exclude membership of object names
// against a pattern list, where each pattern is either a literal name or,
// when prefixed with '/', a regular expression.
package match

import (
	"fmt"
	"regexp"
	"strings"
)

// pattern is a tagged union of the two ways a configured name can match:
// an exact literal, or a regular expression delimited by leading/trailing
// '/'. Representing the two cases as a sum type (rather than re-detecting
// the leading slash on every lookup) is the redesign this package follows.
type pattern struct {
	literal string
	re      *regexp.Regexp
}

// List is a compiled set of patterns evaluated against a name.
type List struct {
	patterns []pattern
}

// New compiles raw into a List. A raw entry starting with '/' is treated
// as a regular expression; the delimiter is optional on the trailing side
// ("/^tmp_/" and "/^tmp_" are both accepted, the latter matching the rest
// of the string verbatim as a regex with no trailing slash to strip).
func New(raw []string) (*List, error) {
	l := &List{patterns: make([]pattern, 0, len(raw))}
	for _, r := range raw {
		if strings.HasPrefix(r, "/") {
			body := strings.TrimPrefix(r, "/")
			body = strings.TrimSuffix(body, "/")
			re, err := regexp.Compile(body)
			if err != nil {
				return nil, fmt.Errorf("match: invalid regex pattern %q: %w", r, err)
			}
			l.patterns = append(l.patterns, pattern{re: re})
			continue
		}
		l.patterns = append(l.patterns, pattern{literal: r})
	}
	return l, nil
}

// Empty reports whether the list has no patterns at all.
func (l *List) Empty() bool {
	return l == nil || len(l.patterns) == 0
}

// Match reports whether name satisfies any literal-equality or
// regex-match entry in the list.
func (l *List) Match(name string) bool {
	if l == nil {
		return false
	}
	for _, p := range l.patterns {
		if p.re != nil {
			if p.re.MatchString(name) {
				return true
			}
			continue
		}
		if p.literal == name {
			return true
		}
	}
	return false
}

// Literals returns the literal (non-regex) entries, in list order. Used by
// the dump engine to detect which requested include-list names were never
// resolved against the enumerated catalog.
func (l *List) Literals() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.patterns))
	for _, p := range l.patterns {
		if p.re == nil {
			out = append(out, p.literal)
		}
	}
	return out
}

// Filter reports whether name should be retained given an include list and
// an exclude list, per §4.4: exclusion always wins over inclusion, and an
// empty include list means "include everything not excluded".
func Filter(name string, include, exclude *List) bool {
	if exclude.Match(name) {
		return false
	}
	if include.Empty() {
		return true
	}
	return include.Match(name)
}

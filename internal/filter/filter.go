package filter

import (
	"strings"
	"unicode"
)

// Mode selects how denylist terms are matched against submitted text.
type Mode string

const (
	// ModeWholeWord matches a term only when it appears as a complete token
	// delimited by whitespace or punctuation. "fin" does not match "fine".
	ModeWholeWord Mode = "wholeword"
	// ModeSubstring matches a term anywhere inside the text.
	ModeSubstring Mode = "substring"
)

// ParseMode validates a configured mode string, defaulting to whole-word.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeSubstring {
		return ModeSubstring
	}
	return ModeWholeWord
}

// Filter tests text against a static denylist. Matching is case-insensitive
// in both modes. The zero-value filter matches nothing.
type Filter struct {
	terms []string
	mode  Mode
}

// New builds a filter from denylist terms. Terms are folded to lower case;
// empty terms are dropped.
func New(terms []string, mode Mode) *Filter {
	f := &Filter{mode: mode}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			f.terms = append(f.terms, t)
		}
	}
	return f
}

// ContainsDenylisted reports whether text contains any denylisted term under
// the configured mode.
func (f *Filter) ContainsDenylisted(text string) bool {
	if f == nil || len(f.terms) == 0 {
		return false
	}
	lowered := strings.ToLower(text)
	if f.mode == ModeSubstring {
		for _, term := range f.terms {
			if strings.Contains(lowered, term) {
				return true
			}
		}
		return false
	}

	tokens := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, term := range f.terms {
		for _, tok := range tokens {
			if tok == term {
				return true
			}
		}
	}
	return false
}

// Package appid parses Steam application identifiers from free-form text
// and from the backing identifier file.
package appid

import (
	"strconv"
	"strings"
	"unicode"
)

// ID is a positive Steam application identifier.
type ID uint32

// String returns the decimal form used on the command line of a child.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Set is a deduplicated list of identifiers in first-seen order.
type Set []ID

// Contains reports whether id is in the set.
func (s Set) Contains(id ID) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends id unless it is already present.
func (s Set) Add(id ID) Set {
	if s.Contains(id) {
		return s
	}
	return append(s, id)
}

// ParseID parses a single token. Zero, negatives, signs, and anything
// outside uint32 are rejected.
func ParseID(token string) (ID, bool) {
	token = strings.TrimSpace(token)
	if token == "" || token[0] == '+' {
		return 0, false
	}
	n, err := strconv.ParseUint(token, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return ID(n), true
}

// Parse splits text on commas and whitespace and returns the valid
// identifiers it contains. Every rejected token is passed to report, which
// may be nil. ok is false iff no identifier survived.
func Parse(text string, report func(token string)) (Set, bool) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	var ids Set
	for _, field := range fields {
		id, valid := ParseID(field)
		if !valid {
			if report != nil {
				report(field)
			}
			continue
		}
		ids = ids.Add(id)
	}

	return ids, len(ids) > 0
}

// Package natsort orders strings the way humans read numbered file names:
// contiguous digit runs compare by numeric magnitude and everything else
// compares case-insensitively, so "page2" sorts before "page10".
//
// The order is total and deterministic. Strings that differ only in digit
// padding or letter case fall back to a raw lexical comparison so that no two
// distinct strings ever compare equal.
package natsort

import (
	"slices"
	"strings"
)

// Compare returns -1, 0, or +1 ordering a relative to b.
func Compare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			startA := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			startB := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			if c := compareNumeric(a[startA:i], b[startB:j]); c != 0 {
				return c
			}
			continue
		}
		ca := lower(a[i])
		cb := lower(b[j])
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}
	// Equal under numeric, case-folded comparison. Break the tie on raw
	// bytes so the order stays total over distinct strings.
	return strings.Compare(a, b)
}

// Less reports whether a orders before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Sort orders names in place.
func Sort(names []string) {
	slices.SortStableFunc(names, Compare)
}

// compareNumeric compares two digit runs by magnitude, ignoring leading zeros.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

package isbn

import (
	"strconv"
	"strings"
)

// Valid reports whether s is a 13-digit numeric identifier.
func Valid(s string) bool {
	if len(s) != 13 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Normalize coerces a raw identifier field to its canonical string form.
// Catalog exports that round-trip through floating point leave a trailing
// ".0" on integer-like IDs.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, ".0")
}

// To13 converts an ISBN-10 to ISBN-13 by prepending 978 and recomputing the
// check digit. Returns an empty string if the input is not a valid ISBN-10.
func To13(isbn10 string) string {
	if len(isbn10) != 10 {
		return ""
	}
	base := "978" + isbn10[:9]
	sum := 0
	for i, c := range base {
		d, err := strconv.Atoi(string(c))
		if err != nil {
			return ""
		}
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	check := (10 - sum%10) % 10
	return base + strconv.Itoa(check)
}

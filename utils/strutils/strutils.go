// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package strutils

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase trims surrounding whitespace and title-cases each word,
// e.g. "north sydney" becomes "North Sydney". The normalization is
// deliberately minimal: no locale-aware casing or diacritic folding,
// so matching against the reference data stays stable. A Caser is
// stateful, so one is built per call rather than shared.
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

// FormatInt formats an integer with commas for human readability.
func FormatInt(n int64) string {
	in := strconv.FormatInt(n, 10)

	numOfDigits := len(in)
	if n < 0 {
		numOfDigits-- // First character is the - sign (not a digit)
	}

	numOfCommas := (numOfDigits - 1) / 3

	out := make([]byte, len(in)+numOfCommas)
	if n < 0 {
		in, out[0] = in[1:], '-'
	}

	for i, j, k := len(in)-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = in[i]
		if i == 0 {
			return string(out)
		}

		if k++; k == 3 {
			j, k = j-1, 0
			out[j] = ','
		}
	}
}

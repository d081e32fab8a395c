// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package strutils

import "testing"

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sydney", "Sydney"},
		{"  sydney  ", "Sydney"},
		{"NORTH SYDNEY", "North Sydney"},
		{"wagga wagga", "Wagga Wagga"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		if got := FormatInt(tt.in); got != tt.want {
			t.Errorf("FormatInt(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package library_test

import (
	"testing"

	"shelf/internal/library"
)

func TestParseTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title  string
		series string
		volume string
	}{
		{"One Piece #1", "One Piece", "1"},
		{"One Piece #105", "One Piece", "105"},
		{"Berserk Deluxe #20.5", "Berserk Deluxe", "20.5"},
		{"The Hobbit", "The Hobbit", ""},
		{"C# in Depth", "C# in Depth", ""},
		{"Issue #1 #2", "Issue #1", "2"},
		{"Trailing #", "Trailing #", ""},
		{"Dotty #1.2.3", "Dotty #1.2.3", ""},
		{"Dotty #.5", "Dotty #.5", ""},
		{"Dotty #5.", "Dotty #5.", ""},
		{"#1", "#1", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			series, volume := library.ParseTitle(tt.title)
			if series != tt.series || volume != tt.volume {
				t.Errorf("ParseTitle(%q) = (%q, %q), want (%q, %q)",
					tt.title, series, volume, tt.series, tt.volume)
			}
		})
	}
}

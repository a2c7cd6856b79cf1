package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		// Basic normalization
		{"lowercase", "ABOUT", "about"},
		{"spaces to hyphens", "about the band", "about-the-band"},
		{"mixed case title", "Tour Dates 2026", "tour-dates-2026"},
		{"already normalized", "tour-dates", "tour-dates"},

		// Whitespace handling
		{"trim whitespace", "  press kit  ", "press-kit"},
		{"multiple spaces", "press   kit", "press-kit"},

		// Special characters
		{"punctuation stripped", "New Album Out Now!", "new-album-out-now"},
		{"slashes", "Café / Bar", "cafe-bar"},
		{"accents decomposed", "Déjà Vu", "deja-vu"},
		{"apostrophe removal", "Artist's Notes", "artist-s-notes"},
		{"emoji removal", "\U0001f3b5 Music", "music"},

		// Hyphen handling
		{"multiple hyphens", "live--sessions", "live-sessions"},
		{"leading hyphens", "--home", "home"},
		{"trailing hyphens", "home--", "home"},

		// Edge cases
		{"empty string", "", ""},
		{"only special chars", "!@#$%", ""},
		{"numbers allowed", "top10", "top10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Make(tt.input)
			if result != tt.expected {
				t.Errorf("Make(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"about-the-band", true},
		{"tour-dates-2026", true},
		{"About The Band", false},
		{"double--hyphen", false},
		{"-leading", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValid(tt.input); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher_Match(t *testing.T) {
	m := NewMatcher("en", "np")

	tests := []struct {
		header    string
		want      string
		wantFound bool
	}{
		{"", "en", false},
		{"en-US,en;q=0.9", "en", true},
		{"ne-NP,ne;q=0.9,en;q=0.5", "np", true},
		{"ne", "np", true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, found := m.Match(tt.header)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFound, found)
		})
	}

	// Unsupported languages fall back to the default.
	got, _ := m.Match("fr-FR")
	assert.Equal(t, "en", got)
}

func TestMatcher_Normalize(t *testing.T) {
	m := NewMatcher("en", "np")

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"en", "en", true},
		{"NP", "np", true},
		{" np ", "np", true},
		{"ne", "np", true},
		{"ne-NP", "np", true},
		{"en-GB", "en", true},
		{"fr", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := m.Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

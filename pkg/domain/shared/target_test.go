package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare host gets https", "example.com", "https://example.com"},
		{"explicit http kept", "http://example.com", "http://example.com"},
		{"path preserved", "https://example.com/pricing", "https://example.com/pricing"},
		{"host lowercased", "HTTPS://Example.COM/About", "https://example.com/About"},
		{"port preserved", "example.com:8080/a", "https://example.com:8080/a"},
		{"whitespace trimmed", "  example.com  ", "https://example.com"},
		{"query preserved", "example.com/search?q=a11y", "https://example.com/search?q=a11y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURLRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"unsupported scheme", "ftp://example.com"},
		{"scheme only", "https://"},
		{"unparseable", "http://exa mple.com/%zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeURL(tt.in)
			require.Error(t, err)
			assert.True(t, IsInvalidInput(err))
		})
	}
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/pricing", "example.com"},
		{"http://Example.COM:8080/a?b=c", "example.com"},
		{"example.com", "example.com"},
		{"ftp://example.com", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeHost(tt.in), "input %q", tt.in)
	}
}

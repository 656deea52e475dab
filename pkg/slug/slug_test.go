package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Electronics", "electronics"},
		{"spaces", "Home  Kitchen", "home-kitchen"},
		{"ampersand", "Home & Kitchen", "home-kitchen"},
		{"apostrophe", "Men's Fashion", "men-s-fashion"},
		{"punctuation", "Hello   World!", "hello-world"},
		{"leading trailing", "  --Sale--  ", "sale"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}

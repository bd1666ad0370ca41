package input

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Plain", "trigger start", "trigger start"},
		{"Trims", "  undo \r\n", "undo"},
		{"Strips ANSI Escape", "go \x1b[31mred\x1b[0m", "go [31mred[0m"},
		{"Strips NUL And BEL", "st\x00a\x07rt", "start"},
		{"Keeps Tab", "a\tb", "a\tb"},
		{"Unicode", "état", "état"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize_Rejects(t *testing.T) {
	_, err := Sanitize("\xff\xfe")
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = Sanitize(strings.Repeat("a", DefaultMaxInputSize+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSanitize_EnvLimit(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")

	_, err := Sanitize("123456789")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	got, err := Sanitize("12345678")
	require.NoError(t, err)
	assert.Equal(t, "12345678", got)
}

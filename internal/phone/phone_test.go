package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whatsapp prefix", "whatsapp:+972501234567", "972501234567"},
		{"local mobile", "0501234567", "972501234567"},
		{"international with leading zero", "9720501234567", "972501234567"},
		{"already canonical", "972501234567", "972501234567"},
		{"punctuation", "+972 50-123-4567", "972501234567"},
		{"empty", "", ""},
		{"no digits", "whatsapp:", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

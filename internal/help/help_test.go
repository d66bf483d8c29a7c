package help

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenu(t *testing.T) {
	menu := Menu()
	assert.Contains(t, menu, "1) ")
	assert.Contains(t, menu, "4) ")
	assert.True(t, strings.Index(menu, "1)") < strings.Index(menu, "2)"), "topics should be ordered")
}

func TestGetTopic(t *testing.T) {
	body, ok := GetTopic("1")
	require.True(t, ok)
	assert.Contains(t, body, "milk")
	assert.Contains(t, body, "not a substitute for professional advice")

	_, ok = GetTopic("9")
	assert.False(t, ok)
}

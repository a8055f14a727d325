package catalog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivitiesAreValid(t *testing.T) {
	seen := make(map[string]bool)
	levels := make(map[int]int)

	for _, a := range Activities() {
		require.NoError(t, a.Validate(), a.Content)
		assert.Equal(t, strings.ToUpper(a.Content), a.Content, "content is the upper-case answer")

		key := fmt.Sprintf("%d|%s|%s", a.Level, a.Kind, a.Content)
		assert.False(t, seen[key], "duplicate activity %s", key)
		seen[key] = true
		levels[a.Level]++
	}

	for level := 1; level <= 4; level++ {
		assert.Positive(t, levels[level], "level %d has activities", level)
	}
}

func TestActivitiesReturnsCopy(t *testing.T) {
	first := Activities()
	first[0].Content = "Z"
	assert.Equal(t, "A", Activities()[0].Content)
}

func TestAudio(t *testing.T) {
	assert.Equal(t, "/audio/bola.mp3", audio("BOLA"))
	assert.Equal(t, "/audio/o-sol-brilha.mp3", audio("O SOL BRILHA"))
}

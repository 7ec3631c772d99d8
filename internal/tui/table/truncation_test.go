package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRight(t *testing.T) {
	assert.Equal(t, "short", TruncateRight("short", 10, "…"))
	assert.Equal(t, "longe…", TruncateRight("longer string", 6, "…"))
}

func TestTruncateLeft(t *testing.T) {
	assert.Equal(t, "short", TruncateLeft("short", 10, "…"))
	assert.Equal(t, "…tring", TruncateLeft("longer string", 6, "…"))
}

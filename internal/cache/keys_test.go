package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t, "docquiz:quiz:record:quiz_01ABC",
		GenerateCacheKey("quiz", "record", "quiz_01ABC"))

	assert.Equal(t, "docquiz:quiz:record:quiz_01ABC:u1_d1",
		GenerateCacheKey("quiz", "record", "quiz_01ABC", "u1", "d1"))
}

package uuidutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRunID(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 5, 0, time.UTC)
	id := NewRunID(now)

	assert.True(t, strings.HasPrefix(id, "20260829T120005Z-"), id)
	assert.Len(t, id, len("20260829T120005Z-")+8)
	assert.NotEqual(t, id, NewRunID(now), "the random suffix keeps concurrent runs apart")
}

func TestNewRunIDSortsByTime(t *testing.T) {
	earlier := NewRunID(time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC))
	later := NewRunID(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	assert.Less(t, earlier, later)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(New()))
	assert.False(t, IsValid("not-a-uuid"))
}

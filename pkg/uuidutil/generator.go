package uuidutil

import (
	"time"

	"github.com/google/uuid"
)

func New() string {
	return uuid.New().String()
}

func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// NewRunID builds a sortable identifier for one diagnostic run; it
// doubles as the run's capture namespace, so concurrent runs never
// write into the same area.
func NewRunID(now time.Time) string {
	return now.UTC().Format("20060102T150405Z") + "-" + uuid.New().String()[:8]
}

package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"netcheck/internal/diagnostic/domain"
)

// FileSink appends raw probe output under a per-run directory, so
// concurrent runs never write into each other's area.
type FileSink struct {
	mu  sync.Mutex
	dir string
}

func NewFileSink(baseDir, runID string) (*FileSink, error) {
	dir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

func (s *FileSink) Dir() string {
	return s.dir
}

func (s *FileSink) Write(ctx context.Context, step domain.StepID, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, string(step)+".raw")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(raw); err != nil {
		return fmt.Errorf("failed to write capture: %w", err)
	}
	if len(raw) > 0 && raw[len(raw)-1] != '\n' {
		if _, err := f.Write([]byte{'\n'}); err != nil {
			return fmt.Errorf("failed to write capture: %w", err)
		}
	}
	return nil
}

func (s *FileSink) Close() error {
	return nil
}

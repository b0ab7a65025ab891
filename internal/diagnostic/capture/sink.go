package capture

import (
	"context"

	"netcheck/internal/diagnostic/domain"
)

// Sink receives each probe's raw tool output verbatim. A nil Sink is
// valid everywhere and means capture is disabled.
type Sink interface {
	Write(ctx context.Context, step domain.StepID, raw []byte) error
	Close() error
}

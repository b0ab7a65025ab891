package capability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"netcheck/internal/diagnostic/domain"
)

// Invocation is the raw record of one external tool run.
type Invocation struct {
	Stdout    []byte
	Stderr    []byte
	ExitCode  int
	ElapsedMS float64
	TimedOut  bool
}

// Invoker runs one external diagnostic utility with a bounded timeout.
// A non-zero exit is data, not an error; errors are reserved for a
// missing tool or an internal fault.
type Invoker interface {
	Invoke(ctx context.Context, tool string, args []string, timeout time.Duration) (*Invocation, error)
}

type ExecInvoker struct {
	logger *slog.Logger
}

func NewExecInvoker(logger *slog.Logger) *ExecInvoker {
	return &ExecInvoker{logger: logger}
}

func (e *ExecInvoker) Invoke(ctx context.Context, tool string, args []string, timeout time.Duration) (*Invocation, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, tool, args...)
	// Leaves a hard stop between SIGKILL and Wait returning, so a
	// stuck child never outlives its probe.
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	inv := &Invocation{
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		ElapsedMS: float64(elapsed.Milliseconds()),
		TimedOut:  errors.Is(ctx.Err(), context.DeadlineExceeded),
	}

	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, domain.NewProbeError(domain.ErrToolUnavailable,
				fmt.Sprintf("%s is not installed or not executable", tool), err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			inv.ExitCode = exitErr.ExitCode()
			e.logger.Debug("tool exited non-zero",
				"tool", tool,
				"exit_code", inv.ExitCode,
				"timed_out", inv.TimedOut,
			)
			return inv, nil
		}
		if inv.TimedOut {
			return inv, nil
		}
		return nil, fmt.Errorf("running %s: %w", tool, err)
	}

	e.logger.Debug("tool completed",
		"tool", tool,
		"elapsed_ms", inv.ElapsedMS,
	)
	return inv, nil
}

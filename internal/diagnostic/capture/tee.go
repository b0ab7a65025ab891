package capture

import (
	"context"
	"time"

	"netcheck/internal/diagnostic/capability"
	"netcheck/internal/diagnostic/domain"
)

type teeInvoker struct {
	inner capability.Invoker
	sink  Sink
	step  domain.StepID
}

// TeeInvoker wraps an invoker so every invocation's raw output also
// flows into the sink under the given step. With a nil sink the inner
// invoker is returned untouched.
func TeeInvoker(inner capability.Invoker, sink Sink, step domain.StepID) capability.Invoker {
	if sink == nil {
		return inner
	}
	return &teeInvoker{inner: inner, sink: sink, step: step}
}

func (t *teeInvoker) Invoke(ctx context.Context, tool string, args []string, timeout time.Duration) (*capability.Invocation, error) {
	inv, err := t.inner.Invoke(ctx, tool, args, timeout)
	if inv != nil {
		raw := inv.Stdout
		if len(inv.Stderr) > 0 {
			raw = append(append([]byte{}, raw...), inv.Stderr...)
		}
		// Capture failures must not affect the probe.
		_ = t.sink.Write(ctx, t.step, raw)
	}
	return inv, err
}

package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netcheck/internal/diagnostic/capability"
	"netcheck/internal/diagnostic/domain"
)

func TestFileSinkWritesPerRunDirectory(t *testing.T) {
	base := t.TempDir()
	sink, err := NewFileSink(base, "20260829T120000Z-deadbeef")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sink.Write(ctx, domain.StepRouting, []byte("hop 1")))
	require.NoError(t, sink.Write(ctx, domain.StepRouting, []byte("hop 2\n")))

	raw, err := os.ReadFile(filepath.Join(base, "20260829T120000Z-deadbeef", "routing.raw"))
	require.NoError(t, err)
	assert.Equal(t, "hop 1\nhop 2\n", string(raw), "writes append and end with a newline")
}

func TestFileSinkHonorsCancelledContext(t *testing.T) {
	sink, err := NewFileSink(t.TempDir(), "run")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sink.Write(ctx, domain.StepDNS, []byte("late")), context.Canceled)
}

type recordingSink struct {
	step domain.StepID
	raw  []byte
}

func (r *recordingSink) Write(ctx context.Context, step domain.StepID, raw []byte) error {
	r.step = step
	r.raw = append([]byte{}, raw...)
	return nil
}

func (r *recordingSink) Close() error { return nil }

type failingSink struct{}

func (failingSink) Write(ctx context.Context, step domain.StepID, raw []byte) error {
	return errors.New("disk full")
}

func (failingSink) Close() error { return nil }

func TestTeeInvokerCapturesOutput(t *testing.T) {
	inner := &capability.MockInvoker{
		Responder: func(tool string, args []string) (*capability.Invocation, error) {
			return &capability.Invocation{
				Stdout: []byte("stdout"),
				Stderr: []byte("stderr"),
			}, nil
		},
	}

	sink := &recordingSink{}
	tee := TeeInvoker(inner, sink, domain.StepTCP)

	inv, err := tee.Invoke(context.Background(), "curl", nil, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("stdout"), inv.Stdout)
	assert.Equal(t, domain.StepTCP, sink.step)
	assert.Equal(t, "stdoutstderr", string(sink.raw))
}

func TestTeeInvokerSinkFailureDoesNotAffectProbe(t *testing.T) {
	inner := &capability.MockInvoker{
		Responder: func(tool string, args []string) (*capability.Invocation, error) {
			return &capability.Invocation{Stdout: []byte("ok")}, nil
		},
	}

	tee := TeeInvoker(inner, failingSink{}, domain.StepStability)
	inv, err := tee.Invoke(context.Background(), "curl", nil, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), inv.Stdout)
}

func TestTeeInvokerNilSinkReturnsInner(t *testing.T) {
	inner := &capability.MockInvoker{}
	assert.Same(t, capability.Invoker(inner), TeeInvoker(inner, nil, domain.StepTCP))
}

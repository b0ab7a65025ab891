package probes

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netcheck/internal/diagnostic/capability"
	"netcheck/internal/diagnostic/domain"
)

func stabilityProbeForTest(invoker capability.Invoker, samples int) *StabilityProbe {
	return NewStabilityProbe(invoker, StabilityOptions{
		CurlPath:       "curl",
		Samples:        samples,
		ConnectTimeout: 3 * time.Second,
		PerTimeout:     5 * time.Second,
		Delay:          0, // no pacing in tests
	}, testLogger())
}

func TestStabilityProbeAllSuccessful(t *testing.T) {
	times := []float64{100, 120, 110, 130, 105}
	attempt := 0
	invoker := &capability.MockInvoker{
		Responder: func(tool string, args []string) (*capability.Invocation, error) {
			inv := &capability.Invocation{
				Stdout:    []byte("200"),
				ElapsedMS: times[attempt],
			}
			attempt++
			return inv, nil
		},
	}

	result, err := stabilityProbeForTest(invoker, 5).Run(context.Background(), "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalTests)
	assert.Equal(t, 5, result.SuccessfulTests)
	assert.Equal(t, 100.0, result.SuccessRate)
	assert.Equal(t, 100.0, result.MinTimeMS)
	assert.Equal(t, 130.0, result.MaxTimeMS)
	assert.Equal(t, 113.0, result.AvgTimeMS)
	assert.Equal(t, 30.0, result.RangeJitterMS)
	// Consecutive deltas: 20, 10, 20, 25 -> mean 18.75.
	assert.InDelta(t, 18.75, result.MeanDeltaJitterMS, 0.001)
}

func TestStabilityProbeMixedOutcomes(t *testing.T) {
	responses := []*capability.Invocation{
		{Stdout: []byte("200"), ElapsedMS: 100},
		{Stdout: []byte("503"), ElapsedMS: 90},
		{ExitCode: 7, Stderr: []byte("curl: (7) connection refused"), ElapsedMS: 50},
		{TimedOut: true, ElapsedMS: 5000},
		{Stdout: []byte("301"), ElapsedMS: 110},
	}
	attempt := 0
	invoker := &capability.MockInvoker{
		Responder: func(tool string, args []string) (*capability.Invocation, error) {
			inv := responses[attempt]
			attempt++
			return inv, nil
		},
	}

	result, err := stabilityProbeForTest(invoker, 5).Run(context.Background(), "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalTests)
	assert.Equal(t, 2, result.SuccessfulTests, "2xx and 3xx count, 5xx and failures do not")
	assert.Equal(t, 40.0, result.SuccessRate)

	require.Len(t, result.Samples, 5)
	assert.True(t, result.Samples[0].Success)
	assert.False(t, result.Samples[1].Success)
	assert.Equal(t, 503, result.Samples[1].HTTPCode)
	assert.Contains(t, result.Samples[2].Error, "connection refused")
	assert.Equal(t, "timed out", result.Samples[3].Error)
	assert.True(t, result.Samples[4].Success)

	// min/avg/max only cover successful attempts.
	assert.Equal(t, 100.0, result.MinTimeMS)
	assert.Equal(t, 110.0, result.MaxTimeMS)
	assert.Equal(t, 105.0, result.AvgTimeMS)
}

func TestStabilityProbeAttemptsAreNumbered(t *testing.T) {
	invoker := &capability.MockInvoker{
		Responder: func(tool string, args []string) (*capability.Invocation, error) {
			return &capability.Invocation{Stdout: []byte("200"), ElapsedMS: 10}, nil
		},
	}

	result, err := stabilityProbeForTest(invoker, 3).Run(context.Background(), "https://example.com")
	require.NoError(t, err)
	for i, sample := range result.Samples {
		assert.Equal(t, i+1, sample.Attempt, "attempt "+strconv.Itoa(i))
	}
}

func TestStabilityProbeInterruptedBurstKeepsSamples(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	invoker := &capability.MockInvoker{
		Responder: func(tool string, args []string) (*capability.Invocation, error) {
			calls++
			if calls == 4 {
				// The deadline fires while the burst is underway.
				cancel()
			}
			return &capability.Invocation{Stdout: []byte("200"), ElapsedMS: 150}, nil
		},
	}

	result, err := stabilityProbeForTest(invoker, 10).Run(ctx, "https://slow.example")
	require.Error(t, err)
	assert.Equal(t, domain.ErrPartialDegradation, domain.KindOf(err))
	assert.Contains(t, err.Error(), "4 of 10 samples")

	// The collected samples survive and summarize normally.
	require.NotNil(t, result)
	assert.Equal(t, 4, result.TotalTests)
	assert.Equal(t, 4, result.SuccessfulTests)
	assert.Equal(t, 100.0, result.SuccessRate)
	assert.Equal(t, 150.0, result.AvgTimeMS)
}

func TestStabilityProbeBudgetCoversWorstCase(t *testing.T) {
	probe := NewStabilityProbe(nil, StabilityOptions{
		Samples:    10,
		PerTimeout: 5 * time.Second,
		Delay:      100 * time.Millisecond,
	}, testLogger())

	// Ten attempts each hitting their invocation timeout plus nine
	// pacing delays must fit inside the budget.
	assert.GreaterOrEqual(t, probe.Budget(), 10*(5*time.Second+time.Second)+9*100*time.Millisecond)
}

func TestStabilityProbeUnparsableStatusRecordsError(t *testing.T) {
	invoker := &capability.MockInvoker{
		Responder: func(tool string, args []string) (*capability.Invocation, error) {
			return &capability.Invocation{Stdout: []byte("curl: weird output"), ElapsedMS: 80}, nil
		},
	}

	result, err := stabilityProbeForTest(invoker, 1).Run(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.Len(t, result.Samples, 1)

	sample := result.Samples[0]
	assert.False(t, sample.Success)
	assert.Equal(t, 0, sample.HTTPCode)
	assert.NotEmpty(t, sample.Error, "the parse failure must be visible on the sample")
}

func TestStabilityProbeToolUnavailableAborts(t *testing.T) {
	invoker := &capability.MockInvoker{
		Responder: func(tool string, args []string) (*capability.Invocation, error) {
			return nil, domain.NewProbeError(domain.ErrToolUnavailable, "curl not found", nil)
		},
	}

	_, err := stabilityProbeForTest(invoker, 5).Run(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Equal(t, domain.ErrToolUnavailable, domain.KindOf(err))
}

func TestStabilityProbeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	invoker := &capability.MockInvoker{
		Responder: func(tool string, args []string) (*capability.Invocation, error) {
			t.Fatal("invoker must not run after cancellation")
			return nil, nil
		},
	}

	_, err := stabilityProbeForTest(invoker, 5).Run(ctx, "https://example.com")
	require.Error(t, err)
	assert.Equal(t, domain.ErrTimeout, domain.KindOf(err))
}

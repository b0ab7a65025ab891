package probes

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"netcheck/internal/diagnostic/capability"
	"netcheck/internal/diagnostic/domain"
	"netcheck/internal/diagnostic/parsers"
)

// StabilityProbe fires a short burst of sequential lightweight requests
// and measures how consistently the target answers.
type StabilityProbe struct {
	invoker        capability.Invoker
	curlPath       string
	samples        int
	connectTimeout time.Duration
	perTimeout     time.Duration
	delay          time.Duration
	logger         *slog.Logger
}

type StabilityOptions struct {
	CurlPath       string
	Samples        int
	ConnectTimeout time.Duration
	PerTimeout     time.Duration
	Delay          time.Duration
}

func NewStabilityProbe(invoker capability.Invoker, opts StabilityOptions, logger *slog.Logger) *StabilityProbe {
	return &StabilityProbe{
		invoker:        invoker,
		curlPath:       opts.CurlPath,
		samples:        opts.Samples,
		connectTimeout: opts.ConnectTimeout,
		perTimeout:     opts.PerTimeout,
		delay:          opts.Delay,
		logger:         logger,
	}
}

// Budget is the overall deadline the burst needs: every sample hitting
// its invocation timeout plus the pacing delays between samples.
func (p *StabilityProbe) Budget() time.Duration {
	n := time.Duration(p.samples)
	return n*(p.perTimeout+time.Second) + (n-1)*p.delay
}

// Run fires the burst. When the context ends mid-burst the samples
// already collected are summarized and returned alongside a
// partial-degradation error, so a slow endpoint still gets a verdict
// from the data that was gathered.
func (p *StabilityProbe) Run(ctx context.Context, targetURL string) (*domain.StabilityResult, error) {
	args := []string{
		"-o", "/dev/null",
		"-s",
		"--connect-timeout", strconv.Itoa(int(p.connectTimeout.Seconds())),
		"--max-time", strconv.Itoa(int(p.perTimeout.Seconds())),
		"-w", "%{http_code}",
		targetURL,
	}

	samples := make([]domain.StabilitySample, 0, p.samples)
	for attempt := 1; attempt <= p.samples; attempt++ {
		if err := ctx.Err(); err != nil {
			if len(samples) == 0 {
				return nil, domain.NewProbeError(domain.ErrTimeout, "stability burst interrupted", err)
			}
			p.logger.Warn("stability burst cut short",
				"target", targetURL,
				"collected", len(samples),
				"planned", p.samples,
			)
			return summarize(samples), domain.NewProbeError(domain.ErrPartialDegradation,
				fmt.Sprintf("burst interrupted after %d of %d samples", len(samples), p.samples), err)
		}

		sample := domain.StabilitySample{Attempt: attempt}
		inv, err := p.invoker.Invoke(ctx, p.curlPath, args, p.perTimeout+time.Second)
		switch {
		case err != nil:
			if domain.KindOf(err) == domain.ErrToolUnavailable {
				return nil, err
			}
			sample.Error = err.Error()
		case inv.TimedOut:
			sample.Error = "timed out"
			sample.TimeMS = inv.ElapsedMS
		case inv.ExitCode != 0:
			sample.Error = firstLine(inv.Stderr)
			sample.TimeMS = inv.ElapsedMS
		default:
			sample.TimeMS = inv.ElapsedMS
			if code, perr := parsers.ParseHTTPCode(inv.Stdout); perr == nil {
				sample.HTTPCode = code
				sample.Success = code >= 200 && code < 400
			} else {
				sample.Error = perr.Error()
			}
		}
		samples = append(samples, sample)

		if attempt < p.samples {
			select {
			case <-ctx.Done():
			case <-time.After(p.delay):
			}
		}
	}

	result := summarize(samples)
	p.logger.Debug("stability burst finished",
		"target", targetURL,
		"success_rate", result.SuccessRate,
		"avg_ms", result.AvgTimeMS,
	)
	return result, nil
}

func summarize(samples []domain.StabilitySample) *domain.StabilityResult {
	result := &domain.StabilityResult{
		TotalTests: len(samples),
		Samples:    samples,
	}

	times := make([]float64, 0, len(samples))
	for _, sample := range samples {
		if sample.Success {
			result.SuccessfulTests++
			times = append(times, sample.TimeMS)
		}
	}
	if result.TotalTests > 0 {
		result.SuccessRate = float64(result.SuccessfulTests) / float64(result.TotalTests) * 100
	}
	if len(times) == 0 {
		return result
	}

	minT, maxT, sum := times[0], times[0], 0.0
	for _, t := range times {
		minT = math.Min(minT, t)
		maxT = math.Max(maxT, t)
		sum += t
	}
	result.MinTimeMS = minT
	result.MaxTimeMS = maxT
	result.AvgTimeMS = sum / float64(len(times))
	result.RangeJitterMS = maxT - minT

	if len(times) > 1 {
		var deltaSum float64
		for i := 1; i < len(times); i++ {
			deltaSum += math.Abs(times[i] - times[i-1])
		}
		result.MeanDeltaJitterMS = deltaSum / float64(len(times)-1)
	}
	return result
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"netcheck/internal/diagnostic/analyze"
	"netcheck/internal/diagnostic/domain"
	"netcheck/internal/diagnostic/events"
	"netcheck/internal/diagnostic/probes"
	"netcheck/internal/shared/constants"
	"netcheck/pkg/validator"
)

// Phase is the orchestrator's position in the run.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseDNS      Phase = "dns"
	PhaseParallel Phase = "parallel"
	PhaseAnalysis Phase = "analysis"
	PhaseDone     Phase = "done"
	PhaseFailed   Phase = "failed"
)

// Orchestrator drives one diagnostic run: the DNS gate, the parallel
// probe fan-out, then classification. Probe failures stay local to
// their step; only a DNS gate failure ends the run early.
type Orchestrator struct {
	dns       *probes.DNSProbe
	timing    *probes.TimingProbe
	routing   *probes.RoutingProbe
	stability *probes.StabilityProbe
	emitter   *events.Emitter
	logger    *slog.Logger
	runID     string

	mu    sync.Mutex
	phase Phase
}

func NewOrchestrator(
	dns *probes.DNSProbe,
	timing *probes.TimingProbe,
	routing *probes.RoutingProbe,
	stability *probes.StabilityProbe,
	emitter *events.Emitter,
	runID string,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		dns:       dns,
		timing:    timing,
		routing:   routing,
		stability: stability,
		emitter:   emitter,
		runID:     runID,
		logger:    logger,
		phase:     PhaseIdle,
	}
}

func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

func (o *Orchestrator) advance(phase Phase) {
	o.mu.Lock()
	o.phase = phase
	o.mu.Unlock()
	o.logger.Debug("pipeline phase", "phase", phase)
}

// Run executes one diagnostic pass and delivers the final report. The
// returned error is reserved for invalid input and cancellation; probe
// failures are reported inside the report, not as errors.
func (o *Orchestrator) Run(ctx context.Context, rawTarget string) (*domain.Report, error) {
	fullURL, host, err := validator.NormalizeTarget(rawTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid target %q: %w", rawTarget, err)
	}
	req := domain.Request{TargetURL: fullURL, Domain: host}

	steps := newStepSet(o.emitter, o.logger)
	steps.announce(domain.StepDNS, "Waiting to start...")
	steps.announce(domain.StepTCP, "Waiting for DNS...")
	steps.announce(domain.StepSSL, "Waiting for TCP...")
	steps.announce(domain.StepHTTP, "Waiting for SSL...")
	steps.announce(domain.StepRouting, "Waiting for DNS...")
	steps.announce(domain.StepStability, "Waiting for DNS...")

	o.logger.Info("diagnostic started",
		"run_id", o.runID,
		"target", req.TargetURL,
	)

	o.advance(PhaseDNS)
	steps.transition(domain.StepDNS, domain.StatusRunning, "Resolving DNS...")
	dnsResult := o.runDNS(ctx, req, steps)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dnsResult == nil {
		o.advance(PhaseFailed)
		return o.gateFailureReport(req, steps), nil
	}

	o.advance(PhaseParallel)
	steps.transition(domain.StepTCP, domain.StatusRunning, "Measuring connection timing...")
	steps.transition(domain.StepRouting, domain.StatusRunning, "Tracing the route...")
	steps.transition(domain.StepStability, domain.StatusRunning, "Testing connection stability...")

	targetIP := dnsResult.ResolvedIPs[0]

	var (
		tcpResult       *domain.TCPResult
		routingResult   *domain.RoutingResult
		stabilityResult *domain.StabilityResult
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		tcpResult = o.runTiming(ctx, req, steps)
	}()
	go func() {
		defer wg.Done()
		routingResult = o.runRouting(ctx, req, targetIP, steps)
	}()
	go func() {
		defer wg.Done()
		stabilityResult = o.runStability(ctx, req, steps)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.advance(PhaseAnalysis)
	verdict := analyze.Classify(dnsResult, tcpResult, routingResult, stabilityResult)

	o.advance(PhaseDone)
	o.logger.Info("diagnostic finished",
		"run_id", o.runID,
		"score", verdict.Score,
		"overall_status", verdict.OverallStatus,
		"issues", len(verdict.Issues),
	)
	return &domain.Report{
		RunID:           o.runID,
		TargetURL:       req.TargetURL,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		DNS:             dnsResult,
		TCP:             tcpResult,
		Routing:         routingResult,
		Stability:       stabilityResult,
		Score:           verdict.Score,
		OverallStatus:   verdict.OverallStatus,
		Issues:          verdict.Issues,
		Recommendations: verdict.Recommendations,
		Steps:           steps.snapshot(),
	}, nil
}

// gateFailureReport builds the short report for a failed DNS gate: the
// three remaining probes never started, their result fields stay nil.
func (o *Orchestrator) gateFailureReport(req domain.Request, steps *stepSet) *domain.Report {
	verdict := analyze.GateFailure(req.Domain)
	return &domain.Report{
		RunID:           o.runID,
		TargetURL:       req.TargetURL,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Score:           verdict.Score,
		OverallStatus:   verdict.OverallStatus,
		Issues:          verdict.Issues,
		Recommendations: verdict.Recommendations,
		Steps:           steps.snapshot(),
	}
}

func (o *Orchestrator) runDNS(ctx context.Context, req domain.Request, steps *stepSet) (result *domain.DNSResult) {
	defer o.recoverStep(domain.StepDNS, steps)

	start := time.Now()
	result, err := o.dns.Run(ctx, req.Domain)
	steps.setDuration(domain.StepDNS, float64(time.Since(start).Milliseconds()))

	if err != nil {
		steps.transition(domain.StepDNS, domain.StatusError, err.Error())
		steps.setRecommendation(domain.StepDNS, adviceFor(err))
		return nil
	}

	status := domain.StatusSuccess
	if result.LookupTimeMS > 100 {
		status = domain.StatusWarning
	}
	steps.transition(domain.StepDNS, status,
		fmt.Sprintf("Found %d addresses, lookup %.0fms", len(result.ResolvedIPs), result.LookupTimeMS))
	return result
}

func (o *Orchestrator) runTiming(ctx context.Context, req domain.Request, steps *stepSet) (result *domain.TCPResult) {
	defer o.recoverStep(domain.StepTCP, steps)

	ctx, cancel := context.WithTimeout(ctx, constants.TimingTimeout)
	defer cancel()

	result, err := o.timing.Run(ctx, req.TargetURL)
	if err != nil {
		steps.transition(domain.StepTCP, domain.StatusError, err.Error())
		steps.setRecommendation(domain.StepTCP, adviceFor(err))
		steps.transition(domain.StepSSL, domain.StatusError, "SSL could not be checked")
		steps.transition(domain.StepHTTP, domain.StatusError, "HTTP could not be checked")
		return nil
	}

	segments, _ := result.Segments()
	steps.setDuration(domain.StepTCP, result.TotalTimeMS)

	sslStatus := domain.StatusSuccess
	switch {
	case result.SSLTimeMS == 0:
		sslStatus = domain.StatusError
	case segments.SSLMS > 500:
		sslStatus = domain.StatusWarning
	}
	steps.transition(domain.StepSSL, sslStatus,
		fmt.Sprintf("SSL handshake: %.0fms", segments.SSLMS))

	httpStatus := domain.StatusError
	switch {
	case result.HTTPCode >= 200 && result.HTTPCode < 400:
		httpStatus = domain.StatusSuccess
	case result.HTTPCode >= 400:
		httpStatus = domain.StatusWarning
	}
	steps.transition(domain.StepHTTP, httpStatus,
		fmt.Sprintf("HTTP %d, total time: %.0fms", result.HTTPCode, result.TotalTimeMS))

	tcpStatus := domain.StatusSuccess
	if result.TotalTimeMS > 3000 {
		tcpStatus = domain.StatusWarning
	}
	steps.transition(domain.StepTCP, tcpStatus,
		fmt.Sprintf("Connect: %.0fms, TTFB: %.0fms", result.ConnectTimeMS, result.TTFBMS))
	return result
}

func (o *Orchestrator) runRouting(ctx context.Context, req domain.Request, targetIP string, steps *stepSet) (result *domain.RoutingResult) {
	defer o.recoverStep(domain.StepRouting, steps)

	ctx, cancel := context.WithTimeout(ctx, constants.RoutingTimeout)
	defer cancel()

	result, err := o.routing.Run(ctx, req.Domain, targetIP)
	if err != nil {
		steps.transition(domain.StepRouting, domain.StatusError, err.Error())
		steps.setRecommendation(domain.StepRouting, adviceFor(err))
		return nil
	}

	steps.setDuration(domain.StepRouting, result.TotalTimeMS)
	nonResponding := 0
	for _, hop := range result.Hops {
		if !hop.Responded() {
			nonResponding++
		}
	}
	status := domain.StatusSuccess
	if result.TotalHops > 0 && float64(nonResponding)/float64(result.TotalHops) > analyze.NonRespondingHopRatio {
		status = domain.StatusWarning
	}
	steps.transition(domain.StepRouting, status,
		fmt.Sprintf("%d hops, %.0fms", result.TotalHops, result.TotalTimeMS))
	return result
}

func (o *Orchestrator) runStability(ctx context.Context, req domain.Request, steps *stepSet) (result *domain.StabilityResult) {
	defer o.recoverStep(domain.StepStability, steps)

	// The deadline is sized from the burst itself, so a configured
	// worst case always fits its own window.
	ctx, cancel := context.WithTimeout(ctx, o.stability.Budget())
	defer cancel()

	start := time.Now()
	result, err := o.stability.Run(ctx, req.TargetURL)
	steps.setDuration(domain.StepStability, float64(time.Since(start).Milliseconds()))

	if err != nil && result == nil {
		steps.transition(domain.StepStability, domain.StatusError, err.Error())
		steps.setRecommendation(domain.StepStability, adviceFor(err))
		return nil
	}

	status := domain.StatusError
	switch {
	case result.SuccessRate >= 100:
		status = domain.StatusSuccess
	case result.SuccessRate >= 80:
		status = domain.StatusWarning
	}

	message := fmt.Sprintf("%.0f%% success, avg %.0fms, jitter %.0fms",
		result.SuccessRate, result.AvgTimeMS, result.MeanDeltaJitterMS)
	if err != nil {
		// Interrupted burst: the summary covers the samples that ran.
		if status == domain.StatusSuccess {
			status = domain.StatusWarning
		}
		message = err.Error() + "; " + message
		steps.setRecommendation(domain.StepStability, adviceFor(err))
	}
	steps.transition(domain.StepStability, status, message)
	return result
}

// recoverStep converts a probe panic into that step's error status so
// one faulty probe can never take down its siblings or the run.
func (o *Orchestrator) recoverStep(id domain.StepID, steps *stepSet) {
	if r := recover(); r != nil {
		o.logger.Error("probe panicked", "step", id, "panic", r)
		steps.transition(id, domain.StatusError, fmt.Sprintf("internal fault: %v", r))
	}
}

// adviceFor maps a probe failure kind to the one-line recommendation
// attached to the step.
func adviceFor(err error) string {
	switch domain.KindOf(err) {
	case domain.ErrToolUnavailable:
		return "Install the missing diagnostic tool or make sure it is in PATH"
	case domain.ErrTimeout:
		return "Re-run the diagnostic; if it keeps timing out, check the connection"
	case domain.ErrParse:
		return "Inspect the captured raw output; the tool may be an unsupported version"
	case domain.ErrPartialDegradation:
		return "The run ended before every sample completed; re-run for a full picture"
	default:
		return "Check the internet connection and try again"
	}
}

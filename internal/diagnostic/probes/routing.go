package probes

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"netcheck/internal/diagnostic/capability"
	"netcheck/internal/diagnostic/domain"
	"netcheck/internal/diagnostic/parsers"
)

// RoutingProbe traces the path to the target and marks bottleneck hops.
// A hop is a bottleneck when its RTT jumps more than DeltaMS over the
// previous responding hop, or exceeds CeilingMS outright.
type RoutingProbe struct {
	invoker        capability.Invoker
	traceroutePath string
	maxHops        int
	perHopWait     time.Duration
	timeout        time.Duration
	deltaMS        float64
	ceilingMS      float64
	logger         *slog.Logger
}

type RoutingOptions struct {
	TraceroutePath    string
	MaxHops           int
	PerHopWait        time.Duration
	Timeout           time.Duration
	BottleneckDelta   float64
	BottleneckCeiling float64
}

func NewRoutingProbe(invoker capability.Invoker, opts RoutingOptions, logger *slog.Logger) *RoutingProbe {
	return &RoutingProbe{
		invoker:        invoker,
		traceroutePath: opts.TraceroutePath,
		maxHops:        opts.MaxHops,
		perHopWait:     opts.PerHopWait,
		timeout:        opts.Timeout,
		deltaMS:        opts.BottleneckDelta,
		ceilingMS:      opts.BottleneckCeiling,
		logger:         logger,
	}
}

func (p *RoutingProbe) Run(ctx context.Context, domainName, targetIP string) (*domain.RoutingResult, error) {
	args := []string{
		"-n",
		"-m", strconv.Itoa(p.maxHops),
		"-w", strconv.Itoa(int(p.perHopWait.Seconds())),
		"-q", "1",
		domainName,
	}

	inv, err := p.invoker.Invoke(ctx, p.traceroutePath, args, p.timeout)
	if err != nil {
		return nil, err
	}
	if inv.TimedOut && len(inv.Stdout) == 0 {
		return nil, domain.NewProbeError(domain.ErrTimeout, "traceroute timed out with no output", nil)
	}

	hops, err := parsers.ParseTraceroute(string(inv.Stdout))
	if err != nil {
		if inv.ExitCode != 0 {
			return nil, domain.NewProbeError(domain.ErrNetworkUnreachable,
				"traceroute failed: "+firstLine(inv.Stderr), nil)
		}
		return nil, err
	}

	bottlenecks := p.markBottlenecks(hops)

	p.logger.Debug("route traced",
		"domain", domainName,
		"hops", len(hops),
		"bottlenecks", len(bottlenecks),
	)
	return &domain.RoutingResult{
		TargetIP:       targetIP,
		Hops:           hops,
		TotalHops:      len(hops),
		TotalTimeMS:    inv.ElapsedMS,
		BottleneckHops: bottlenecks,
	}, nil
}

// markBottlenecks flags hops in place and returns their hop numbers.
func (p *RoutingProbe) markBottlenecks(hops []domain.RouteHop) []int {
	bottlenecks := make([]int, 0)
	var prevRTT *float64
	for i := range hops {
		hop := &hops[i]
		if hop.RTTMS == nil {
			continue
		}
		rtt := *hop.RTTMS
		if rtt > p.ceilingMS || (prevRTT != nil && rtt-*prevRTT > p.deltaMS) {
			hop.IsBottleneck = true
			bottlenecks = append(bottlenecks, hop.HopNumber)
		}
		prevRTT = &rtt
	}
	return bottlenecks
}

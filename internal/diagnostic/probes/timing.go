package probes

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"netcheck/internal/diagnostic/capability"
	"netcheck/internal/diagnostic/domain"
	"netcheck/internal/diagnostic/parsers"
)

// TimingProbe issues one HTTPS request through curl and captures the
// cumulative phase timers.
type TimingProbe struct {
	invoker        capability.Invoker
	curlPath       string
	connectTimeout time.Duration
	timeout        time.Duration
	logger         *slog.Logger
}

func NewTimingProbe(invoker capability.Invoker, curlPath string, connectTimeout, timeout time.Duration, logger *slog.Logger) *TimingProbe {
	return &TimingProbe{
		invoker:        invoker,
		curlPath:       curlPath,
		connectTimeout: connectTimeout,
		timeout:        timeout,
		logger:         logger,
	}
}

func (p *TimingProbe) Run(ctx context.Context, targetURL string) (*domain.TCPResult, error) {
	args := []string{
		"-o", "/dev/null",
		"-s",
		"-w", parsers.CurlTimingFormat,
		"--connect-timeout", strconv.Itoa(int(p.connectTimeout.Seconds())),
		"--max-time", strconv.Itoa(int(p.timeout.Seconds())),
		"-L",
		targetURL,
	}

	inv, err := p.invoker.Invoke(ctx, p.curlPath, args, p.timeout+time.Second)
	if err != nil {
		return nil, err
	}
	if inv.TimedOut {
		return nil, domain.NewProbeError(domain.ErrTimeout, "connection timing probe timed out", nil)
	}
	if inv.ExitCode != 0 {
		return nil, domain.NewProbeError(domain.ErrNetworkUnreachable,
			"request failed: "+firstLine(inv.Stderr), nil)
	}

	result, err := parsers.ParseCurlTiming(inv.Stdout)
	if err != nil {
		return nil, err
	}
	if _, anomalous := result.Segments(); anomalous {
		result.AnomalyNote = "cumulative timers regressed; derived segments clamped to 0"
		p.logger.Warn("timing anomaly", "target", targetURL, "note", result.AnomalyNote)
	}

	p.logger.Debug("timing captured",
		"target", targetURL,
		"http_code", result.HTTPCode,
		"total_ms", result.TotalTimeMS,
	)
	return result, nil
}

func firstLine(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if text == "" {
		return "no response from server"
	}
	return text
}

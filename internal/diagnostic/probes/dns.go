package probes

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/miekg/dns"

	"netcheck/internal/diagnostic/capability"
	"netcheck/internal/diagnostic/capture"
	"netcheck/internal/diagnostic/domain"
)

// DNSProbe resolves the target's A records and, best effort, its NS
// records. It is the pipeline gate: an empty answer or a timeout here
// aborts the whole run.
type DNSProbe struct {
	transport capability.DNSTransport
	server    string
	timeout   time.Duration
	sink      capture.Sink
	logger    *slog.Logger
}

func NewDNSProbe(transport capability.DNSTransport, server string, timeout time.Duration, sink capture.Sink, logger *slog.Logger) *DNSProbe {
	return &DNSProbe{
		transport: transport,
		server:    server,
		timeout:   timeout,
		sink:      sink,
		logger:    logger,
	}
}

func (p *DNSProbe) Run(ctx context.Context, domainName string) (*domain.DNSResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := &dns.Msg{}
	msg.SetQuestion(dns.Fqdn(domainName), dns.TypeA)

	response, rtt, err := p.transport.Exchange(ctx, p.server, msg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, domain.NewProbeError(domain.ErrTimeout, "DNS lookup timed out", err)
		}
		return nil, domain.NewProbeError(domain.ErrNetworkUnreachable, "DNS query failed", err)
	}
	if p.sink != nil {
		// The wire response is the DNS probe's raw output.
		_ = p.sink.Write(ctx, domain.StepDNS, []byte(response.String()))
	}
	if response.Rcode != dns.RcodeSuccess {
		return nil, domain.NewProbeError(domain.ErrNetworkUnreachable,
			"DNS error: "+dns.RcodeToString[response.Rcode], nil)
	}

	result := &domain.DNSResult{
		Domain:       domainName,
		ResolvedIPs:  make([]string, 0, len(response.Answer)),
		LookupTimeMS: math.Floor(float64(rtt) / float64(time.Millisecond)),
	}
	for _, answer := range response.Answer {
		if a, ok := answer.(*dns.A); ok {
			result.ResolvedIPs = append(result.ResolvedIPs, a.A.String())
		}
	}
	if len(result.ResolvedIPs) == 0 {
		return nil, domain.NewProbeError(domain.ErrNetworkUnreachable,
			"no addresses resolved for "+domainName, nil)
	}

	if ttl := extractMinTTL(response.Answer); ttl > 0 {
		result.TTL = &ttl
	}

	// NS lookup and CDN detection are informational; failures here do
	// not degrade the gate.
	result.Nameservers = p.lookupNameservers(ctx, domainName)
	result.UsingCDN = detectCDN(result.Nameservers)

	p.logger.Debug("dns resolved",
		"domain", domainName,
		"addresses", len(result.ResolvedIPs),
		"lookup_ms", result.LookupTimeMS,
	)
	return result, nil
}

func (p *DNSProbe) lookupNameservers(ctx context.Context, domainName string) []string {
	msg := &dns.Msg{}
	msg.SetQuestion(dns.Fqdn(domainName), dns.TypeNS)

	response, _, err := p.transport.Exchange(ctx, p.server, msg)
	if err != nil || response.Rcode != dns.RcodeSuccess {
		return nil
	}

	nameservers := make([]string, 0, len(response.Answer))
	for _, answer := range response.Answer {
		if ns, ok := answer.(*dns.NS); ok {
			nameservers = append(nameservers, strings.TrimSuffix(ns.Ns, "."))
		}
	}
	return nameservers
}

func extractMinTTL(answers []dns.RR) uint32 {
	if len(answers) == 0 {
		return 0
	}
	minTTL := answers[0].Header().Ttl
	for _, answer := range answers[1:] {
		if answer.Header().Ttl < minTTL {
			minTTL = answer.Header().Ttl
		}
	}
	return minTTL
}

var cdnSignatures = []struct {
	substring string
	label     string
}{
	{"cloudflare", "Cloudflare"},
	{"awsdns", "AWS Route53"},
	{"akamai", "Akamai"},
	{"fastly", "Fastly"},
	{"azure", "Azure"},
	{"google", "Google Cloud"},
}

func detectCDN(nameservers []string) string {
	joined := strings.ToLower(strings.Join(nameservers, " "))
	for _, sig := range cdnSignatures {
		if strings.Contains(joined, sig.substring) {
			return sig.label
		}
	}
	return ""
}

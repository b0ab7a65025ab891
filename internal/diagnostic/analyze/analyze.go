package analyze

import (
	"fmt"

	"netcheck/internal/diagnostic/domain"
)

// Verdict is the classifier output: a 0-100 score, its status band, the
// detected issues and the merged recommendation list.
type Verdict struct {
	Score           int
	OverallStatus   domain.OverallStatus
	Issues          []domain.Issue
	Recommendations []string
}

// Classify is a pure function over the four probe outcomes. Nil inputs
// mean the probe never ran or failed; a missing DNS or TCP result and a
// fully failed stability burst short-circuit to the failed band no
// matter what the remaining metrics scored.
func Classify(dns *domain.DNSResult, tcp *domain.TCPResult, routing *domain.RoutingResult, stability *domain.StabilityResult) Verdict {
	c := &classifier{score: 100}

	c.analyzeDNS(dns)
	c.analyzeTCP(tcp)
	c.analyzeRouting(routing)
	c.analyzeStability(stability)

	score := c.score
	if score < 0 {
		score = 0
	}
	status := Band(score)
	if c.hardFailure {
		score = 0
		status = domain.OverallFailed
	}

	return Verdict{
		Score:           score,
		OverallStatus:   status,
		Issues:          c.issues,
		Recommendations: c.recommendations(),
	}
}

// GateFailure is the verdict for a run aborted at the DNS gate: the
// remaining probes never ran, so the only issue is the unresolved
// domain itself.
func GateFailure(domainName string) Verdict {
	c := &classifier{score: 100, hardFailure: true}
	c.push(dnsUnresolvedIssue.build(
		fmt.Sprintf("no IP addresses found for domain %s", domainName)), 50)
	return Verdict{
		Score:           0,
		OverallStatus:   domain.OverallFailed,
		Issues:          c.issues,
		Recommendations: c.recommendations(),
	}
}

// Band maps a score to its status band.
func Band(score int) domain.OverallStatus {
	switch {
	case score >= 90:
		return domain.OverallExcellent
	case score >= 75:
		return domain.OverallGood
	case score >= 50:
		return domain.OverallAcceptable
	case score >= 25:
		return domain.OverallPoor
	default:
		return domain.OverallFailed
	}
}

type classifier struct {
	score       int
	hardFailure bool
	issues      []domain.Issue
	notes       []string
}

func (c *classifier) push(issue domain.Issue, cost int) {
	c.issues = append(c.issues, issue)
	c.score -= cost
}

func (c *classifier) analyzeDNS(dns *domain.DNSResult) {
	if dns == nil || len(dns.ResolvedIPs) == 0 {
		c.hardFailure = true
		description := "the DNS gate produced no addresses"
		if dns != nil {
			description = fmt.Sprintf("no IP addresses found for domain %s", dns.Domain)
		}
		c.push(dnsUnresolvedIssue.build(description), 50)
		return
	}

	switch {
	case dns.LookupTimeMS >= dnsBand.Acceptable:
		c.push(dnsSlowIssue.build(
			fmt.Sprintf("DNS lookup took %.0fms (should be < %.0fms)", dns.LookupTimeMS, dnsBand.Acceptable)),
			dnsBand.MajorCost)
	case dns.LookupTimeMS >= dnsBand.Good:
		minor := dnsSlowIssue
		minor.Severity = domain.SeverityInfo
		c.push(minor.build(
			fmt.Sprintf("DNS lookup took %.0fms (good is < %.0fms)", dns.LookupTimeMS, dnsBand.Good)),
			dnsBand.MinorCost)
	}

	if dns.UsingCDN != "" {
		c.notes = append(c.notes,
			fmt.Sprintf("The site is served through %s - a good sign for performance", dns.UsingCDN))
	}
}

func (c *classifier) analyzeTCP(tcp *domain.TCPResult) {
	if tcp == nil || tcp.HTTPCode == 0 {
		c.hardFailure = true
		c.push(tcpUnreachableIssue.build("the HTTP request got no response at all"), 50)
		return
	}

	segments, _ := tcp.Segments()

	c.checkBand(segments.ConnectMS, connectBand, tcpSlowIssue, "TCP connect")
	c.checkBand(segments.SSLMS, sslBand, sslSlowIssue, "SSL handshake")
	c.checkBand(segments.TTFBMS, ttfbBand, ttfbSlowIssue, "time to first byte")
	c.checkBand(tcp.TotalTimeMS, totalBand, totalSlowIssue, "total load time")

	switch {
	case tcp.HTTPCode >= 500:
		c.push(httpServerErrorIssue.build(
			fmt.Sprintf("server answered HTTP %d", tcp.HTTPCode)), httpServerErrorCost)
	case tcp.HTTPCode >= 400:
		c.push(httpClientErrorIssue.build(
			fmt.Sprintf("server answered HTTP %d", tcp.HTTPCode)), 0)
	}
}

func (c *classifier) checkBand(valueMS float64, band metricBand, template issueTemplate, label string) {
	switch {
	case valueMS >= band.Acceptable:
		c.push(template.build(
			fmt.Sprintf("%s took %.0fms (should be < %.0fms)", label, valueMS, band.Acceptable)),
			band.MajorCost)
	case valueMS >= band.Good:
		minor := template
		minor.Severity = domain.SeverityInfo
		c.push(minor.build(
			fmt.Sprintf("%s took %.0fms (good is < %.0fms)", label, valueMS, band.Good)),
			band.MinorCost)
	}
}

func (c *classifier) analyzeRouting(routing *domain.RoutingResult) {
	if routing == nil {
		return
	}

	nonResponding := 0
	for _, hop := range routing.Hops {
		if !hop.Responded() {
			nonResponding++
		}
	}
	if len(routing.Hops) > 0 {
		ratio := float64(nonResponding) / float64(len(routing.Hops))
		if ratio > NonRespondingHopRatio {
			c.push(nonRespondingHopsIssue.build(
				fmt.Sprintf("%.0f%% of traceroute hops did not respond", ratio*100)), 0)
		}
	}

	cost := 0
	for _, hop := range routing.Hops {
		if !hop.IsBottleneck {
			continue
		}
		rtt := 0.0
		if hop.RTTMS != nil {
			rtt = *hop.RTTMS
		}
		c.push(bottleneckHopIssue.build(
			fmt.Sprintf("hop %d shows an RTT of %.0fms, well above the rest of the path", hop.HopNumber, rtt)), 0)
		if cost < bottleneckCostCap {
			cost += bottleneckHopCost
		}
	}
	c.score -= cost

	if routing.TotalHops > longRouteHopCount {
		c.push(longRouteIssue.build(
			fmt.Sprintf("%d hops to the destination (more than usual)", routing.TotalHops)), longRouteCost)
	}
}

func (c *classifier) analyzeStability(stability *domain.StabilityResult) {
	if stability == nil {
		return
	}

	if stability.SuccessRate == 0 {
		c.hardFailure = true
		c.push(unstableConnectionIssue.build("every stability request failed"), unstableCost)
		return
	}

	switch {
	case stability.SuccessRate < 80:
		c.push(unstableConnectionIssue.build(
			fmt.Sprintf("only %.0f%% of requests succeeded", stability.SuccessRate)), unstableCost)
	case stability.SuccessRate < 100:
		c.push(packetLossIssue.build(
			fmt.Sprintf("success rate: %.0f%%", stability.SuccessRate)), packetLossCost)
	}

	if stability.MeanDeltaJitterMS > highJitterThresholdMS {
		c.push(highJitterIssue.build(
			fmt.Sprintf("response time varies by %.0fms between consecutive requests", stability.MeanDeltaJitterMS)),
			highJitterCost)
	}
}

// recommendations merges every issue's solutions in detection order,
// deduplicated, then appends the informational notes and the summary
// advice the issue mix implies.
func (c *classifier) recommendations() []string {
	seen := make(map[string]bool)
	recs := make([]string, 0)
	add := func(rec string) {
		if !seen[rec] {
			seen[rec] = true
			recs = append(recs, rec)
		}
	}

	for _, issue := range c.issues {
		for _, solution := range issue.Solutions {
			add(solution)
		}
	}
	for _, note := range c.notes {
		add(note)
	}

	if len(c.issues) == 0 {
		add("The connection to the site works well, no issues detected.")
		return recs
	}

	counts := make(map[domain.IssueCategory]int)
	for _, issue := range c.issues {
		counts[issue.Category]++
	}
	if counts[domain.CategoryDNS] > 0 {
		add("Consider switching the DNS server to 1.1.1.1 (Cloudflare) or 8.8.8.8 (Google).")
	}
	if counts[domain.CategoryTCP] > 0 || counts[domain.CategoryStability] > 0 {
		add("Check the WiFi signal and consider using a LAN cable.")
	}
	if c.hardFailure || c.score < 50 {
		add("The connection has serious problems - consider a VPN or contact the ISP.")
	}
	return recs
}

package analyze

import "netcheck/internal/diagnostic/domain"

// Threshold bands for the timing metrics. A value below Good is clean,
// below Acceptable costs MinorCost, at or above Acceptable costs
// MajorCost. The bands themselves are fixed; only the costs are tuning
// knobs.
type metricBand struct {
	Good       float64
	Acceptable float64
	MinorCost  int
	MajorCost  int
}

var (
	dnsBand     = metricBand{Good: 100, Acceptable: 200, MinorCost: 5, MajorCost: 10}
	connectBand = metricBand{Good: 200, Acceptable: 500, MinorCost: 5, MajorCost: 15}
	sslBand     = metricBand{Good: 300, Acceptable: 500, MinorCost: 5, MajorCost: 10}
	ttfbBand    = metricBand{Good: 500, Acceptable: 1000, MinorCost: 5, MajorCost: 10}
	totalBand   = metricBand{Good: 1000, Acceptable: 3000, MinorCost: 5, MajorCost: 15}
)

const (
	httpServerErrorCost   = 20
	bottleneckHopCost     = 5
	bottleneckCostCap     = 15
	longRouteCost         = 5
	unstableCost          = 30
	packetLossCost        = 10
	highJitterCost        = 5
	highJitterThresholdMS = 100
	longRouteHopCount     = 20
)

// NonRespondingHopRatio is the fraction of silent traceroute hops above
// which the route is reported as degraded, both as a classified issue
// and as the routing step's status.
const NonRespondingHopRatio = 0.3

// Fixed cause/solution catalogues, first matching condition wins at the
// call sites in analyze.go. No free-form text is generated at runtime
// beyond the measured values interpolated into descriptions.

var dnsUnresolvedIssue = issueTemplate{
	Category: domain.CategoryDNS,
	Severity: domain.SeverityError,
	Title:    "DNS resolution failed",
	Causes: []string{
		"Domain does not exist or is not registered",
		"DNS server is not responding",
		"DNS is blocked by a firewall",
	},
	Solutions: []string{
		"Double-check the domain name",
		"Switch DNS to 8.8.8.8 or 1.1.1.1",
		"Check the internet connection",
	},
}

var dnsSlowIssue = issueTemplate{
	Category: domain.CategoryDNS,
	Severity: domain.SeverityWarning,
	Title:    "Slow DNS lookup",
	Causes: []string{
		"DNS server is geographically distant",
		"DNS server is overloaded",
		"No DNS cache in place",
	},
	Solutions: []string{
		"Switch to a faster DNS such as Cloudflare (1.1.1.1) or Google (8.8.8.8)",
		"Pin the domain in /etc/hosts with a known-good address",
	},
}

var tcpUnreachableIssue = issueTemplate{
	Category: domain.CategoryTCP,
	Severity: domain.SeverityError,
	Title:    "TCP connection failed",
	Causes: []string{
		"Website is down",
		"Port 443 is blocked",
		"A firewall rejects the connection",
		"Routing problem on the path",
	},
	Solutions: []string{
		"Open the site in a browser to confirm it is up",
		"Try a VPN",
		"Contact the ISP if the problem persists",
	},
}

var tcpSlowIssue = issueTemplate{
	Category: domain.CategoryTCP,
	Severity: domain.SeverityWarning,
	Title:    "Slow TCP connect",
	Causes: []string{
		"Server is far away (another continent)",
		"Poor routing from the ISP",
		"Network congestion",
	},
	Solutions: []string{
		"Usually caused by geographic distance and hard to improve",
		"Try a VPN with an exit closer to the target",
	},
}

var sslSlowIssue = issueTemplate{
	Category: domain.CategorySSL,
	Severity: domain.SeverityWarning,
	Title:    "Slow SSL handshake",
	Causes: []string{
		"Long SSL certificate chain",
		"OCSP stapling is not enabled",
		"High latency to the server",
	},
	Solutions: []string{
		"Usually a server-side issue",
		"Verify the connection is not being intercepted",
	},
}

var ttfbSlowIssue = issueTemplate{
	Category: domain.CategoryHTTP,
	Severity: domain.SeverityWarning,
	Title:    "Slow time to first byte",
	Causes: []string{
		"Server takes long to produce the response",
		"Backend or database under load",
	},
	Solutions: []string{
		"Usually a server-side issue",
		"Retry at a different time of day",
	},
}

var totalSlowIssue = issueTemplate{
	Category: domain.CategoryHTTP,
	Severity: domain.SeverityWarning,
	Title:    "Slow total load time",
	Causes: []string{
		"Server responds slowly",
		"Unstable network connection",
		"Multiple redirects",
	},
	Solutions: []string{
		"Check your network speed",
		"Retry at a different time of day",
	},
}

var httpClientErrorIssue = issueTemplate{
	Category: domain.CategoryHTTP,
	Severity: domain.SeverityWarning,
	Title:    "HTTP client error",
	Causes: []string{
		"Invalid request",
		"Authentication required",
		"Page does not exist",
	},
	Solutions: []string{
		"Check that the URL is correct",
	},
}

var httpServerErrorIssue = issueTemplate{
	Category: domain.CategoryHTTP,
	Severity: domain.SeverityError,
	Title:    "HTTP server error",
	Causes: []string{
		"Server under maintenance",
		"Server overloaded",
		"Server-side application error",
	},
	Solutions: []string{
		"Wait and retry later",
		"Check the service status page",
	},
}

var nonRespondingHopsIssue = issueTemplate{
	Category: domain.CategoryRouting,
	Severity: domain.SeverityWarning,
	Title:    "Many non-responding hops",
	Causes: []string{
		"Routers drop ICMP (common and usually harmless)",
		"Firewall blocks traceroute",
		"Routing problem on the path",
	},
	Solutions: []string{
		"Can be normal when the site itself still works",
		"Try tcptraceroute for more detail",
	},
}

var bottleneckHopIssue = issueTemplate{
	Category: domain.CategoryRouting,
	Severity: domain.SeverityWarning,
	Title:    "Routing bottleneck",
	Causes: []string{
		"Congested or distant router on the path",
		"Peering point under load",
	},
	Solutions: []string{
		"A VPN may route around the congested segment",
		"Contact the ISP if the hop is inside their network",
	},
}

var longRouteIssue = issueTemplate{
	Category: domain.CategoryRouting,
	Severity: domain.SeverityInfo,
	Title:    "Long route",
	Causes: []string{
		"Server is far away",
		"Suboptimal routing",
	},
	Solutions: []string{
		"A VPN may shorten the route",
	},
}

var unstableConnectionIssue = issueTemplate{
	Category: domain.CategoryStability,
	Severity: domain.SeverityError,
	Title:    "Unstable connection",
	Causes: []string{
		"Unstable network",
		"Weak WiFi signal",
		"ISP problem",
		"Server overloaded",
	},
	Solutions: []string{
		"Move closer to the WiFi router or use a LAN cable",
		"Restart the modem/router",
		"Contact the ISP if the problem persists",
	},
}

var packetLossIssue = issueTemplate{
	Category: domain.CategoryStability,
	Severity: domain.SeverityWarning,
	Title:    "Intermittent request failures",
	Causes: []string{
		"Temporary network congestion",
		"Unstable WiFi signal",
	},
	Solutions: []string{
		"Check the WiFi signal",
		"Retry in a few minutes",
	},
}

var highJitterIssue = issueTemplate{
	Category: domain.CategoryStability,
	Severity: domain.SeverityWarning,
	Title:    "High jitter",
	Causes: []string{
		"Unstable network",
		"Other devices saturating the bandwidth",
	},
	Solutions: []string{
		"Reduce the number of devices using the network",
		"Use a LAN cable instead of WiFi",
	},
}

type issueTemplate struct {
	Category  domain.IssueCategory
	Severity  domain.IssueSeverity
	Title     string
	Causes    []string
	Solutions []string
}

func (t issueTemplate) build(description string) domain.Issue {
	return domain.Issue{
		Category:       t.Category,
		Severity:       t.Severity,
		Title:          t.Title,
		Description:    description,
		PossibleCauses: t.Causes,
		Solutions:      t.Solutions,
	}
}

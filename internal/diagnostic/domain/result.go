package domain

// DNSResult holds the outcome of the DNS gate probe. ResolvedIPs keeps
// resolver order and duplicates as returned.
type DNSResult struct {
	Domain       string   `json:"domain"`
	ResolvedIPs  []string `json:"resolved_ips"`
	LookupTimeMS float64  `json:"lookup_time_ms"`
	TTL          *uint32  `json:"ttl,omitempty"`
	Nameservers  []string `json:"nameservers,omitempty"`
	UsingCDN     string   `json:"using_cdn,omitempty"`
}

// TCPResult carries the five cumulative curl timers. Each timer is
// measured from request start, so they are non-decreasing in a sane
// capture; Segments clamps any negative raw delta.
type TCPResult struct {
	DNSTimeMS         float64 `json:"dns_time_ms"`
	ConnectTimeMS     float64 `json:"connect_time_ms"`
	SSLTimeMS         float64 `json:"ssl_time_ms"`
	TTFBMS            float64 `json:"ttfb_ms"`
	TotalTimeMS       float64 `json:"total_time_ms"`
	HTTPCode          int     `json:"http_code"`
	DownloadSpeedKBps float64 `json:"download_speed_kbps"`
	AnomalyNote       string  `json:"anomaly_note,omitempty"`
}

// TCPSegments are the per-phase durations derived from the cumulative
// timers, each clamped to >= 0.
type TCPSegments struct {
	ConnectMS  float64
	SSLMS      float64
	TTFBMS     float64
	TransferMS float64
}

// Segments derives per-phase durations. A negative raw delta is an
// anomaly in the capture, not a crash: it is clamped and reported.
func (t *TCPResult) Segments() (TCPSegments, bool) {
	anomalous := false
	clamp := func(v float64) float64 {
		if v < 0 {
			anomalous = true
			return 0
		}
		return v
	}
	return TCPSegments{
		ConnectMS:  clamp(t.ConnectTimeMS - t.DNSTimeMS),
		SSLMS:      clamp(t.SSLTimeMS - t.ConnectTimeMS),
		TTFBMS:     clamp(t.TTFBMS - t.SSLTimeMS),
		TransferMS: clamp(t.TotalTimeMS - t.TTFBMS),
	}, anomalous
}

// RouteHop is one hop on the path. A nil IPAddress means the hop did not
// respond within its per-hop wait; that is data, not a probe failure.
type RouteHop struct {
	HopNumber         int      `json:"hop_number"`
	IPAddress         *string  `json:"ip_address"`
	Hostname          string   `json:"hostname,omitempty"`
	RTTMS             *float64 `json:"rtt_ms"`
	PacketLossPercent float64  `json:"packet_loss_percent"`
	IsBottleneck      bool     `json:"is_bottleneck"`
}

func (h *RouteHop) Responded() bool {
	return h.IPAddress != nil
}

type RoutingResult struct {
	TargetIP       string     `json:"target_ip"`
	Hops           []RouteHop `json:"hops"`
	TotalHops      int        `json:"total_hops"`
	TotalTimeMS    float64    `json:"total_time_ms"`
	BottleneckHops []int      `json:"bottleneck_hops"`
}

// StabilitySample is one attempt out of the sequential request burst.
type StabilitySample struct {
	Attempt  int     `json:"attempt"`
	Success  bool    `json:"success"`
	TimeMS   float64 `json:"time_ms"`
	HTTPCode int     `json:"http_code,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// StabilityResult aggregates the burst. Min/avg/max cover successful
// attempts only. The two jitter fields are deliberately distinct:
// range jitter is max-min, mean-delta jitter is the mean absolute
// difference between consecutive successful samples.
type StabilityResult struct {
	TotalTests        int               `json:"total_tests"`
	SuccessfulTests   int               `json:"successful_tests"`
	SuccessRate       float64           `json:"success_rate"`
	MinTimeMS         float64           `json:"min_time_ms"`
	AvgTimeMS         float64           `json:"avg_time_ms"`
	MaxTimeMS         float64           `json:"max_time_ms"`
	RangeJitterMS     float64           `json:"range_jitter_ms"`
	MeanDeltaJitterMS float64           `json:"mean_delta_jitter_ms"`
	Samples           []StabilitySample `json:"samples"`
}

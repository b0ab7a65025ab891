package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netcheck/internal/diagnostic/domain"
)

func healthyDNS() *domain.DNSResult {
	return &domain.DNSResult{
		Domain:       "example.com",
		ResolvedIPs:  []string{"93.184.216.34"},
		LookupTimeMS: 20,
	}
}

func healthyTCP() *domain.TCPResult {
	return &domain.TCPResult{
		DNSTimeMS:     10,
		ConnectTimeMS: 60,
		SSLTimeMS:     160,
		TTFBMS:        300,
		TotalTimeMS:   400,
		HTTPCode:      200,
	}
}

func healthyRouting() *domain.RoutingResult {
	ip := "93.184.216.34"
	rtt := 25.0
	return &domain.RoutingResult{
		TargetIP:  ip,
		Hops:      []domain.RouteHop{{HopNumber: 1, IPAddress: &ip, RTTMS: &rtt}},
		TotalHops: 1,
	}
}

func healthyStability() *domain.StabilityResult {
	return &domain.StabilityResult{
		TotalTests:        10,
		SuccessfulTests:   10,
		SuccessRate:       100,
		MinTimeMS:         95,
		AvgTimeMS:         105,
		MaxTimeMS:         120,
		RangeJitterMS:     25,
		MeanDeltaJitterMS: 12,
	}
}

func TestClassifyHealthyEndpoint(t *testing.T) {
	verdict := Classify(healthyDNS(), healthyTCP(), healthyRouting(), healthyStability())

	assert.Equal(t, 100, verdict.Score)
	assert.Equal(t, domain.OverallExcellent, verdict.OverallStatus)
	assert.Empty(t, verdict.Issues)
	assert.Equal(t, []string{"The connection to the site works well, no issues detected."}, verdict.Recommendations)
}

func TestClassifyDegradedEndpoint(t *testing.T) {
	dns := healthyDNS()
	dns.LookupTimeMS = 250

	tcp := healthyTCP()
	tcp.HTTPCode = 503

	stability := healthyStability()
	stability.SuccessfulTests = 5
	stability.SuccessRate = 50

	verdict := Classify(dns, tcp, healthyRouting(), stability)

	// 100 - 10 (slow DNS) - 20 (5xx) - 30 (unstable) = 40.
	assert.Equal(t, 40, verdict.Score)
	assert.Equal(t, domain.OverallPoor, verdict.OverallStatus)
	require.Len(t, verdict.Issues, 3)

	categories := make([]domain.IssueCategory, 0, len(verdict.Issues))
	for _, issue := range verdict.Issues {
		categories = append(categories, issue.Category)
	}
	assert.Equal(t, []domain.IssueCategory{domain.CategoryDNS, domain.CategoryHTTP, domain.CategoryStability}, categories)

	assert.Contains(t, verdict.Recommendations,
		"The connection has serious problems - consider a VPN or contact the ISP.")
}

func TestClassifyMinorDegradationsUseInfoSeverity(t *testing.T) {
	dns := healthyDNS()
	dns.LookupTimeMS = 150 // between good and acceptable

	verdict := Classify(dns, healthyTCP(), healthyRouting(), healthyStability())

	assert.Equal(t, 95, verdict.Score)
	assert.Equal(t, domain.OverallExcellent, verdict.OverallStatus)
	require.Len(t, verdict.Issues, 1)
	assert.Equal(t, domain.SeverityInfo, verdict.Issues[0].Severity)
}

func TestClassifyMissingTCPIsHardFailure(t *testing.T) {
	verdict := Classify(healthyDNS(), nil, healthyRouting(), healthyStability())

	assert.Equal(t, 0, verdict.Score)
	assert.Equal(t, domain.OverallFailed, verdict.OverallStatus)
	require.NotEmpty(t, verdict.Issues)
	assert.Equal(t, domain.CategoryTCP, verdict.Issues[0].Category)
	assert.Equal(t, domain.SeverityError, verdict.Issues[0].Severity)
}

func TestClassifyFullyFailedStabilityIsHardFailure(t *testing.T) {
	stability := &domain.StabilityResult{TotalTests: 10, SuccessRate: 0}

	verdict := Classify(healthyDNS(), healthyTCP(), healthyRouting(), stability)

	assert.Equal(t, 0, verdict.Score)
	assert.Equal(t, domain.OverallFailed, verdict.OverallStatus)
}

func TestClassifyBottleneckCostIsCapped(t *testing.T) {
	routing := healthyRouting()
	ip := "10.0.0.1"
	rtt := 300.0
	for hop := 2; hop <= 6; hop++ {
		routing.Hops = append(routing.Hops, domain.RouteHop{
			HopNumber:    hop,
			IPAddress:    &ip,
			RTTMS:        &rtt,
			IsBottleneck: true,
		})
	}
	routing.TotalHops = len(routing.Hops)

	verdict := Classify(healthyDNS(), healthyTCP(), routing, healthyStability())

	// Five bottleneck hops each report an issue, but the score only
	// drops by the cap.
	assert.Equal(t, 85, verdict.Score)
	assert.Len(t, verdict.Issues, 5)
}

func TestClassifyHighJitter(t *testing.T) {
	stability := healthyStability()
	stability.MeanDeltaJitterMS = 180
	stability.RangeJitterMS = 400

	verdict := Classify(healthyDNS(), healthyTCP(), healthyRouting(), stability)

	assert.Equal(t, 95, verdict.Score)
	require.Len(t, verdict.Issues, 1)
	assert.Equal(t, "High jitter", verdict.Issues[0].Title)
}

func TestClassifyRecommendationsDeduplicated(t *testing.T) {
	stability := healthyStability()
	stability.SuccessRate = 50 // unstable: shares solutions with other issues

	tcp := healthyTCP()
	tcp.HTTPCode = 0 // also pushes a TCP issue with overlapping advice

	verdict := Classify(healthyDNS(), tcp, healthyRouting(), stability)

	seen := make(map[string]int)
	for _, rec := range verdict.Recommendations {
		seen[rec]++
		assert.Equal(t, 1, seen[rec], "recommendation repeated: "+rec)
	}
}

func TestClassifyCDNNoteSurfaces(t *testing.T) {
	dns := healthyDNS()
	dns.UsingCDN = "Cloudflare"

	verdict := Classify(dns, healthyTCP(), healthyRouting(), healthyStability())
	assert.Contains(t, verdict.Recommendations,
		"The site is served through Cloudflare - a good sign for performance")
}

func TestGateFailure(t *testing.T) {
	verdict := GateFailure("no-such.example")

	assert.Equal(t, 0, verdict.Score)
	assert.Equal(t, domain.OverallFailed, verdict.OverallStatus)
	require.Len(t, verdict.Issues, 1)
	assert.Equal(t, domain.CategoryDNS, verdict.Issues[0].Category)
	assert.Contains(t, verdict.Issues[0].Description, "no-such.example")
}

func TestBand(t *testing.T) {
	assert.Equal(t, domain.OverallExcellent, Band(92))
	assert.Equal(t, domain.OverallExcellent, Band(90))
	assert.Equal(t, domain.OverallGood, Band(75))
	assert.Equal(t, domain.OverallAcceptable, Band(60))
	assert.Equal(t, domain.OverallAcceptable, Band(50))
	assert.Equal(t, domain.OverallPoor, Band(25))
	assert.Equal(t, domain.OverallFailed, Band(10))
	assert.Equal(t, domain.OverallFailed, Band(0))
}

package parsers

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"netcheck/internal/diagnostic/domain"
)

// Matches numeric traceroute lines ("traceroute -n -q 1"): hop number,
// then either an IPv4 address or "*", then an optional RTT.
var hopLine = regexp.MustCompile(`^\s*(\d+)\s+(?:(\d+\.\d+\.\d+\.\d+)|(\*))\s*(?:(\d+\.?\d*)\s*ms)?`)

// ParseTraceroute converts raw traceroute output into an ordered hop
// list. A "*" hop is recorded with nil address and RTT; duplicate or
// out-of-order hop numbers are dropped so the list stays strictly
// ascending. Output with no recognizable hop lines is a parse error
// with the raw text retained.
func ParseTraceroute(raw string) ([]domain.RouteHop, error) {
	lines := strings.Split(raw, "\n")
	hops := make([]domain.RouteHop, 0, len(lines))
	lastHop := 0

	for _, line := range lines {
		caps := hopLine.FindStringSubmatch(line)
		if caps == nil {
			continue
		}

		hopNumber, err := strconv.Atoi(caps[1])
		if err != nil || hopNumber <= lastHop {
			continue
		}
		lastHop = hopNumber

		hop := domain.RouteHop{HopNumber: hopNumber}
		if caps[2] != "" {
			ip := caps[2]
			hop.IPAddress = &ip
			if caps[4] != "" {
				if rtt, err := strconv.ParseFloat(caps[4], 64); err == nil {
					floored := math.Floor(rtt)
					hop.RTTMS = &floored
				}
			}
		} else {
			// Non-responding hop: data, not failure.
			hop.PacketLossPercent = 100
		}
		hops = append(hops, hop)
	}

	if len(hops) == 0 {
		return nil, domain.NewParseError("no hops found in traceroute output", raw, nil)
	}
	return hops, nil
}

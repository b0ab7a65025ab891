package constants

import "time"

const (
	DNSTimeout          = 5 * time.Second
	TimingTimeout       = 30 * time.Second
	TimingConnect       = 10 * time.Second
	RoutingTimeout      = 30 * time.Second
	RoutingPerHopWait   = 1 * time.Second
	StabilityPerAttempt = 5 * time.Second
	StabilityConnect    = 3 * time.Second
	StabilityDelay      = 100 * time.Millisecond
)

const (
	RoutingMaxHops   = 15
	StabilitySamples = 10
)

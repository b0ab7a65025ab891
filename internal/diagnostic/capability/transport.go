package capability

import (
	"context"
	"time"

	"github.com/miekg/dns"
)

// DNSTransport exchanges a single DNS message with a server. The probe
// depends on this interface so tests can answer queries without a
// network.
type DNSTransport interface {
	Exchange(ctx context.Context, server string, msg *dns.Msg) (*dns.Msg, time.Duration, error)
}

type udpTransport struct {
	timeout time.Duration
}

func NewUDPTransport(timeout time.Duration) DNSTransport {
	return &udpTransport{timeout: timeout}
}

func (t *udpTransport) Exchange(ctx context.Context, server string, msg *dns.Msg) (*dns.Msg, time.Duration, error) {
	client := &dns.Client{Net: "udp", Timeout: t.timeout}
	if deadline, ok := ctx.Deadline(); ok {
		client.Timeout = time.Until(deadline)
	}
	return client.ExchangeContext(ctx, msg, server)
}

package capability

import (
	"context"
	"time"

	"github.com/miekg/dns"
)

// MockInvoker scripts tool invocations for tests.
type MockInvoker struct {
	Responder func(tool string, args []string) (*Invocation, error)
}

func (m *MockInvoker) Invoke(ctx context.Context, tool string, args []string, timeout time.Duration) (*Invocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Responder == nil {
		return &Invocation{}, nil
	}
	return m.Responder(tool, args)
}

// MockDNSTransport scripts DNS exchanges for tests.
type MockDNSTransport struct {
	Responder func(server string, msg *dns.Msg) (*dns.Msg, time.Duration, error)
}

func (m *MockDNSTransport) Exchange(ctx context.Context, server string, msg *dns.Msg) (*dns.Msg, time.Duration, error) {
	if m.Responder == nil {
		return nil, 0, nil
	}
	return m.Responder(server, msg)
}

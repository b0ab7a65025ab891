package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"netcheck/internal/config"
	"netcheck/internal/diagnostic/capability"
	"netcheck/internal/diagnostic/capture"
	"netcheck/internal/diagnostic/domain"
	"netcheck/internal/diagnostic/events"
	"netcheck/internal/diagnostic/pipeline"
	"netcheck/internal/diagnostic/probes"
	"netcheck/pkg/uuidutil"
)

type Container struct {
	Logger       *slog.Logger
	Config       *config.Config
	RunID        string
	Emitter      *events.Emitter
	Orchestrator *pipeline.Orchestrator

	sink        capture.Sink
	redis       *events.RedisPublisher
	relayCancel context.CancelFunc
}

func GetContainer(cli *CLI) (*Container, error) {
	c := &Container{RunID: uuidutil.NewRunID(time.Now())}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	c.Config = cfg

	c.initLogger(cli.Verbose)
	if err := c.initSink(cli); err != nil {
		return nil, err
	}
	if err := c.initEmitter(); err != nil {
		return nil, err
	}
	c.initPipeline()

	return c, nil
}

func (c *Container) initLogger(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose || c.Config.Logging.Level == "debug" || os.Getenv("DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}

	var handler slog.Handler
	if c.Config.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}
	c.Logger = slog.New(handler)
}

func (c *Container) initSink(cli *CLI) error {
	if !cli.Capture && !c.Config.Capture.Enabled {
		return nil
	}

	if dsn := c.Config.Capture.PostgresDSN; dsn != "" {
		sink, err := capture.NewPostgresSink(context.Background(), dsn, c.RunID)
		if err != nil {
			return fmt.Errorf("failed to init postgres capture sink: %w", err)
		}
		c.sink = sink
		c.Logger.Info("raw capture enabled", "sink", "postgres", "run_id", c.RunID)
		return nil
	}

	sink, err := capture.NewFileSink(c.Config.Capture.Dir, c.RunID)
	if err != nil {
		return fmt.Errorf("failed to init file capture sink: %w", err)
	}
	c.sink = sink
	c.Logger.Info("raw capture enabled", "sink", "file", "dir", sink.Dir())
	return nil
}

func (c *Container) initEmitter() error {
	c.Emitter = events.NewEmitter()

	if !c.Config.Events.RedisEnabled {
		return nil
	}
	publisher, err := events.NewRedisPublisher(c.Config.Events.GetRedisOptions(), c.Config.Events.Channel, c.Logger)
	if err != nil {
		return err
	}
	c.redis = publisher

	ctx, cancel := context.WithCancel(context.Background())
	c.relayCancel = cancel
	go publisher.Relay(ctx, c.Emitter.Subscribe(64))
	return nil
}

func (c *Container) initPipeline() {
	invoker := capability.NewExecInvoker(c.Logger)
	transport := capability.NewUDPTransport(c.Config.DNS.Timeout)

	dnsProbe := probes.NewDNSProbe(transport, c.Config.DNS.Server, c.Config.DNS.Timeout, c.sink, c.Logger)

	timingProbe := probes.NewTimingProbe(
		capture.TeeInvoker(invoker, c.sink, domain.StepTCP),
		c.Config.Timing.CurlPath,
		c.Config.Timing.ConnectTimeout,
		c.Config.Timing.Timeout,
		c.Logger,
	)

	routingProbe := probes.NewRoutingProbe(
		capture.TeeInvoker(invoker, c.sink, domain.StepRouting),
		probes.RoutingOptions{
			TraceroutePath:    c.Config.Routing.TraceroutePath,
			MaxHops:           c.Config.Routing.MaxHops,
			PerHopWait:        c.Config.Routing.PerHopWait,
			Timeout:           c.Config.Routing.Timeout,
			BottleneckDelta:   c.Config.Routing.BottleneckDelta,
			BottleneckCeiling: c.Config.Routing.BottleneckCeiling,
		},
		c.Logger,
	)

	stabilityProbe := probes.NewStabilityProbe(
		capture.TeeInvoker(invoker, c.sink, domain.StepStability),
		probes.StabilityOptions{
			CurlPath:       c.Config.Timing.CurlPath,
			Samples:        c.Config.Stability.Samples,
			ConnectTimeout: c.Config.Stability.ConnectTimeout,
			PerTimeout:     c.Config.Stability.PerAttempt,
			Delay:          c.Config.Stability.Delay,
		},
		c.Logger,
	)

	c.Orchestrator = pipeline.NewOrchestrator(
		dnsProbe, timingProbe, routingProbe, stabilityProbe,
		c.Emitter, c.RunID, c.Logger,
	)
}

func (c *Container) Close() {
	c.Emitter.Close()
	if c.relayCancel != nil {
		c.relayCancel()
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.sink != nil {
		_ = c.sink.Close()
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/alecthomas/kong"

	"netcheck/internal/diagnostic/domain"
	"netcheck/internal/diagnostic/output"
)

var Version = "dev"

type CLI struct {
	Target  string `arg:"" help:"Domain or URL to diagnose."`
	Config  string `help:"Path to config file." type:"path"`
	Output  string `enum:"pretty,json" default:"pretty" help:"Output format."`
	Capture bool   `help:"Write raw probe output to the capture area."`
	Verbose bool   `help:"Enable debug logging."`
}

func main() {
	cli := CLI{}
	kong.Parse(&cli,
		kong.Name("netcheck"),
		kong.Description("Diagnose why a network endpoint is slow or unreachable."),
		kong.Vars{"version": Version},
	)

	container, err := GetContainer(&cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := container.Emitter.Subscribe(64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for event := range progress {
			container.Logger.Info("progress",
				"step", event.StepID,
				"status", event.Status,
				"message", event.Message,
			)
		}
	}()

	report, err := container.Orchestrator.Run(ctx, cli.Target)
	container.Emitter.Close()
	wg.Wait()
	if err != nil {
		container.Logger.Error("diagnostic aborted", "error", err)
		os.Exit(1)
	}

	rendered := ""
	if cli.Output == "json" {
		rendered, err = output.RenderJSON(report)
		if err != nil {
			container.Logger.Error("failed to render report", "error", err)
			os.Exit(1)
		}
	} else {
		rendered = output.RenderPretty(report)
	}
	fmt.Println(rendered)

	if report.OverallStatus == domain.OverallFailed {
		os.Exit(2)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chalkline/accord/internal/export"
	"github.com/chalkline/accord/internal/mcptools"
	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
	"github.com/chalkline/accord/internal/remote"
	"github.com/chalkline/accord/internal/reviewer"
)

// CLI flags parsed from command line.
type cliFlags struct {
	PlanPath       string
	Major          string
	Positions      string
	ConfigDir      string
	MaxRounds      int
	Threshold      float64
	Output         string
	Report         string
	Reviewers      string
	ServeReviewers string
	ServeMCP       bool
	ServeMCPHTTP   string
	Verbose        bool
	Version        bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("accord", flag.ContinueOnError)
	fs.StringVar(&flags.PlanPath, "plan", "", "path to the training plan (YAML or JSON); omit for the built-in sample")
	fs.StringVar(&flags.Major, "major", "Software Engineering", "major name used when no plan file is given")
	fs.StringVar(&flags.Positions, "positions", "", "comma-separated target job positions")
	fs.StringVar(&flags.ConfigDir, "config-dir", ".", "directory holding accord.yml")
	fs.IntVar(&flags.MaxRounds, "max-rounds", 0, "round cap override")
	fs.Float64Var(&flags.Threshold, "threshold", 0, "convergence threshold override (0-1)")
	fs.StringVar(&flags.Output, "output", "", "write the session export JSON to this path")
	fs.StringVar(&flags.Report, "report", "", "write the markdown report to this path")
	fs.StringVar(&flags.Reviewers, "reviewers", "", "comma-separated remote reviewer base URLs; local roles fill the rest")
	fs.StringVar(&flags.ServeReviewers, "serve-reviewers", "", "serve the local reviewer panel over JSON-RPC starting at this host:port")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server on stdio")
	fs.StringVar(&flags.ServeMCPHTTP, "serve-mcp-http", "", "run as MCP server on this HTTP address")
	fs.BoolVar(&flags.Verbose, "verbose", false, "print per-stakeholder progress")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := negotiation.LoadConfig(flags.ConfigDir)
	if err != nil {
		return err
	}
	if flags.MaxRounds > 0 {
		cfg.MaxRounds = flags.MaxRounds
	}
	if flags.Threshold > 0 {
		cfg.ConvergenceThreshold = flags.Threshold
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	panel, err := buildPanel(ctx, flags)
	if err != nil {
		return err
	}

	switch {
	case flags.ServeMCP:
		return mcptools.RunStdio(ctx, mcptools.NewServer(cfg, panel))
	case flags.ServeMCPHTTP != "":
		log.Printf("accord: serving MCP tools on %s", flags.ServeMCPHTTP)
		return mcptools.RunHTTP(ctx, mcptools.NewServer(cfg, panel), flags.ServeMCPHTTP)
	case flags.ServeReviewers != "":
		return serveReviewers(ctx, flags.ServeReviewers)
	}

	return negotiate(ctx, cfg, panel, flags)
}

// buildPanel assembles the reviewer panel: remote proxies for the endpoints
// named by -reviewers, local reviewers for every role not covered remotely.
func buildPanel(ctx context.Context, flags cliFlags) ([]negotiation.Reviewer, error) {
	if flags.Reviewers == "" {
		return reviewer.DefaultPanel(), nil
	}

	covered := make(map[negotiation.StakeholderKind]negotiation.Reviewer)
	for _, baseURL := range splitList(flags.Reviewers) {
		rev, err := reviewer.Discover(ctx, baseURL)
		if err != nil {
			return nil, fmt.Errorf("discover reviewer at %s: %w", baseURL, err)
		}
		covered[rev.Kind()] = rev
	}

	registry := reviewer.NewRegistry()
	panel := make([]negotiation.Reviewer, 0, len(negotiation.CanonicalStakeholders))
	for _, kind := range negotiation.CanonicalStakeholders {
		if rev, ok := covered[kind]; ok {
			panel = append(panel, rev)
			continue
		}
		rev, err := registry.Build(kind)
		if err != nil {
			return nil, err
		}
		panel = append(panel, rev)
	}
	return panel, nil
}

// serveReviewers exposes every local reviewer on sequential ports starting at
// the given address and blocks until the context is cancelled.
func serveReviewers(ctx context.Context, baseAddr string) error {
	host, port, err := splitHostPort(baseAddr)
	if err != nil {
		return err
	}

	var servers []*remote.Server
	for i, rev := range reviewer.DefaultPanel() {
		srv := remote.NewServer(rev)
		addr := fmt.Sprintf("%s:%d", host, port+i)
		if err := srv.Start(ctx, addr); err != nil {
			return fmt.Errorf("start reviewer %s on %s: %w", rev.Kind(), addr, err)
		}
		log.Printf("accord: reviewer %s listening on %s", rev.Kind(), addr)
		servers = append(servers, srv)
	}

	<-ctx.Done()
	for i := len(servers) - 1; i >= 0; i-- {
		_ = servers[i].Stop(context.Background())
	}
	return nil
}

// negotiate runs one full negotiation and writes the requested outputs.
func negotiate(ctx context.Context, cfg negotiation.Config, panel []negotiation.Reviewer, flags cliFlags) error {
	var p *plan.Plan
	var err error
	if flags.PlanPath != "" {
		p, err = plan.ParseFile(flags.PlanPath)
		if err != nil {
			return err
		}
	} else {
		p = plan.Default(flags.Major)
	}

	engine, err := negotiation.NewEngine(cfg, panel)
	if err != nil {
		return err
	}
	defer engine.Close()

	if flags.Verbose {
		go func() {
			for event := range engine.Progress() {
				fmt.Println(negotiation.FormatProgress(event))
			}
		}()
	}

	state := engine.Run(ctx, p, negotiation.ReviewContext{
		TargetPositions: splitList(flags.Positions),
	})
	report := engine.Report(state)

	fmt.Printf("session %s finished: %s after %d round(s), score %.3f (threshold %.2f)\n",
		state.SessionID, state.Status, state.Round, report.Score, report.Threshold)

	if flags.Output != "" {
		if err := export.WriteJSON(state, report, flags.Output); err != nil {
			return err
		}
		log.Printf("accord: wrote session export to %s", flags.Output)
	}
	if flags.Report != "" {
		md := export.GenerateReport(state, report)
		if err := os.WriteFile(flags.Report, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write report %s: %w", flags.Report, err)
		}
		log.Printf("accord: wrote report to %s", flags.Report)
	}

	if state.Status == negotiation.StatusError {
		return fmt.Errorf("negotiation ended in error state")
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitHostPort(addr string) (string, int, error) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return "", 0, fmt.Errorf("invalid address %q, want host:port", addr)
	}
	host := addr[:idx]
	if host == "" {
		host = "127.0.0.1"
	}
	var port int
	if _, err := fmt.Sscanf(addr[idx+1:], "%d", &port); err != nil || port <= 0 {
		return "", 0, fmt.Errorf("invalid port in address %q", addr)
	}
	return host, port, nil
}

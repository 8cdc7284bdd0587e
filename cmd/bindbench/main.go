package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/delaneyj/bindparty/binding"
	"github.com/delaneyj/bindparty/cmd/bindbench/internal/config"
	"github.com/delaneyj/bindparty/cmd/bindbench/internal/templates"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

//go:generate qtc -dir=internal/templates

const (
	configKey     = "config"
	iterationsKey = "iterations"
	formatKey     = "format"
	verboseKey    = "verbose"
	timeoutKey    = "timeout"
)

func main() {
	cmd := &cli.Command{
		Name:  "bindbench",
		Usage: "Measure how bindings deliver property values",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run binding scenarios and report delivery latency",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  configKey,
						Usage: "Path to an optional YAML config",
						Value: config.DefaultFile,
					},
					&cli.IntFlag{
						Name:  iterationsKey,
						Usage: "Property assignments per scenario",
					},
					&cli.StringFlag{
						Name:  formatKey,
						Usage: "Output format: text or markdown",
					},
					&cli.DurationFlag{
						Name:  timeoutKey,
						Usage: "Give up after this long",
					},
					&cli.BoolFlag{
						Name:  verboseKey,
						Usage: "Log binding and queue lifecycle events",
					},
				},
				Action: run,
			},
			{
				Name:   "scenarios",
				Usage:  "List available scenarios",
				Action: listScenarios,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func listScenarios(ctx context.Context, cmd *cli.Command) error {
	for _, s := range scenarios {
		fmt.Printf("%-12s %s\n", s.name, s.usage)
	}
	return nil
}

func resolveConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadOptional(cmd.String(configKey))
	if err != nil {
		return nil, err
	}
	if cmd.IsSet(iterationsKey) {
		cfg.Iterations = int(cmd.Int(iterationsKey))
	}
	if cmd.IsSet(formatKey) {
		cfg.Format = strings.TrimSpace(cmd.String(formatKey))
	}
	if cmd.IsSet(timeoutKey) {
		cfg.Timeout = cmd.Duration(timeoutKey)
	}
	if cmd.Bool(verboseKey) {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	binding.SetLogger(logger)
	defer binding.SetLogger(nil)

	selected := scenarios
	if len(cfg.Scenarios) > 0 {
		selected = selected[:0:0]
		for _, name := range cfg.Scenarios {
			s, ok := findScenario(name)
			if !ok {
				return fmt.Errorf("unknown scenario %q", name)
			}
			selected = append(selected, s)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	start := time.Now()
	logger.Info("bindbench started",
		zap.Int("iterations", cfg.Iterations),
		zap.Int("scenarios", len(selected)),
	)

	env := &benchEnv{iterations: cfg.Iterations, logger: logger}
	report := templates.Report{Iterations: cfg.Iterations}
	for _, s := range selected {
		stats, err := s.run(ctx, env)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", s.name, err)
		}
		res := templates.ScenarioResult{
			Name:      s.name,
			Delivered: int(stats.delivered),
			Avg:       stats.calc.Time.Avg.String(),
			P99:       stats.calc.Time.P99.String(),
			Rate:      stats.calc.Rate.Second,
		}
		if stats.inline != nil {
			n := int(*stats.inline)
			res.Inline = &n
		}
		report.Results = append(report.Results, res)
		logger.Debug("scenario finished", zap.String("scenario", s.name))
	}

	switch cfg.Format {
	case "markdown":
		renderMarkdown(os.Stdout, report)
	default:
		renderText(os.Stdout, report)
	}
	templates.WriteSummary(os.Stdout, report)

	logger.Info("bindbench finished", zap.Duration("took", time.Since(start)))
	return nil
}

func renderText(w io.Writer, report templates.Report) {
	tbl := table.NewWriter()
	tbl.SetTitle("Binding delivery")
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"scenario", "delivered", "inline", "avg", "p99", "rate"})
	for _, r := range report.Results {
		tbl.AppendRow(table.Row{
			r.Name,
			humanize.Comma(int64(r.Delivered)),
			r.InlineText(),
			r.Avg,
			r.P99,
			humanize.SIWithDigits(r.Rate, 2, "sets/s"),
		})
	}
	tbl.Render()
}

func renderMarkdown(w io.Writer, report templates.Report) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"scenario", "delivered", "inline", "avg", "p99", "rate"})
	tbl.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tbl.SetCenterSeparator("|")
	tbl.SetAutoFormatHeaders(false)
	for _, r := range report.Results {
		tbl.Append([]string{
			r.Name,
			humanize.Comma(int64(r.Delivered)),
			r.InlineText(),
			r.Avg,
			r.P99,
			humanize.SIWithDigits(r.Rate, 2, "sets/s"),
		})
	}
	tbl.Render()
}

// Package pipeline runs one scan from a resolved configuration to rendered
// output: Walker, then Scanner, then Aggregator, then Renderer.
package pipeline

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/harrison/todotree/internal/aggregator"
	"github.com/harrison/todotree/internal/config"
	"github.com/harrison/todotree/internal/display"
	"github.com/harrison/todotree/internal/fileutil"
	"github.com/harrison/todotree/internal/logger"
	"github.com/harrison/todotree/internal/parser"
	"github.com/harrison/todotree/internal/scanner"
)

// Outcome is everything one scan produced
type Outcome struct {
	Report *aggregator.Report
	// Warnings holds the recoverable walk and read errors, walk errors first
	Warnings  []error
	BytesRead int64
	Duration  time.Duration
}

// Pipeline coordinates a scan and reports diagnostics to its logger.
type Pipeline struct {
	cfg    *config.ScanConfig
	logger logger.Logger
}

// New creates a Pipeline. The logger may be nil.
func New(cfg *config.ScanConfig, log logger.Logger) *Pipeline {
	if cfg == nil {
		panic("scan config cannot be nil")
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Pipeline{cfg: cfg, logger: log}
}

// Scan walks, scans and aggregates. Every recoverable error is logged as a
// warning and kept in Outcome.Warnings; only an unusable root, a bad filter
// or cancellation fail the scan.
func (p *Pipeline) Scan(ctx context.Context) (*Outcome, error) {
	cfg := p.cfg

	if cfg.ConfigFile != "" {
		p.logger.LogDebug("Using config file " + cfg.ConfigFile)
	} else {
		p.logger.LogDebug("No config file found, using defaults")
	}

	walker, err := fileutil.NewWalker(cfg.Root, cfg.Walk)
	if err != nil {
		return nil, err
	}

	sc := scanner.New(parser.New(cfg.Registry), scanner.Options{Workers: cfg.Threads})
	p.logger.LogScanStart(walker.Root(), sc.Workers())

	start := time.Now()
	result, err := sc.Scan(ctx, walker.Paths())
	if err != nil {
		return nil, err
	}

	warnings := slices.Concat(walker.Errors(), result.Errors)
	for _, w := range warnings {
		p.logger.LogWarn(w.Error())
	}

	report := aggregator.Aggregate(result.Files, result.FilesScanned, cfg.GroupBy, cfg.Sort)

	outcome := &Outcome{
		Report:    report,
		Warnings:  warnings,
		BytesRead: result.BytesRead,
		Duration:  time.Since(start),
	}

	p.logger.LogScanComplete(logger.ScanStats{
		FilesScanned: result.FilesScanned,
		Items:        report.Summary.TotalCount,
		BytesRead:    result.BytesRead,
		Warnings:     len(warnings),
		Duration:     outcome.Duration,
	})

	return outcome, nil
}

// RunOptions adjusts what Run prints
type RunOptions struct {
	// FilterTag keeps only items with this tag (case-insensitive)
	FilterTag string
	// HideSummary drops the trailing summary of text output
	HideSummary bool
}

// Run scans and renders the report to out. Config warnings, such as
// priorities for inactive tags, go to errOut before the scan starts.
func (p *Pipeline) Run(ctx context.Context, out, errOut io.Writer, opts RunOptions) error {
	p.warnConfig(errOut)

	outcome, err := p.Scan(ctx)
	if err != nil {
		return err
	}

	report := outcome.Report
	if opts.FilterTag != "" {
		files := aggregator.FilterTag(report.Files, opts.FilterTag)
		report = aggregator.Aggregate(files, report.Summary.FilesScanned, report.GroupBy, report.Order)
	}

	renderer := display.NewRenderer(display.Options{
		Mode:        p.cfg.Mode,
		Root:        p.cfg.Root,
		Color:       p.cfg.Color,
		Hyperlinks:  p.cfg.Hyperlinks,
		HideSummary: opts.HideSummary,
	})
	return renderer.Render(out, report)
}

// Stats scans and writes summary statistics to out
func (p *Pipeline) Stats(ctx context.Context, out, errOut io.Writer, asJSON bool) error {
	p.warnConfig(errOut)

	outcome, err := p.Scan(ctx)
	if err != nil {
		return err
	}

	colored := p.cfg.Color && !asJSON
	return display.RenderStats(out, outcome.Report.Summary, p.cfg.Registry.PriorityOf, asJSON, colored)
}

func (p *Pipeline) warnConfig(errOut io.Writer) {
	if len(p.cfg.InactivePriorities) == 0 || errOut == nil {
		return
	}
	display.WarnInactivePriorities(p.cfg.InactivePriorities, p.cfg.ConfigFile).Display(errOut)
}

// Package pipeline wires the stages into the single linear pass: load,
// audit, clean, merge, derive, analyze, report.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"mulewatch/internal/analysis"
	"mulewatch/internal/audit"
	"mulewatch/internal/clean"
	"mulewatch/internal/config"
	"mulewatch/internal/dataset"
	"mulewatch/internal/merge"
	"mulewatch/internal/report"
)

// Options controls the optional pipeline outputs
type Options struct {
	// Console receives the human-readable report; defaults to os.Stdout
	Console io.Writer
	// RenderCharts enables the HTML bar charts
	RenderCharts bool
	// WriteExports enables the combined CSV and the analysis workbook
	WriteExports bool
	// Now is the reference time for age computation; defaults to time.Now()
	Now time.Time
}

// Result holds everything the run produced, for callers and tests
type Result struct {
	Combined   *dataset.Table
	ByAge      *analysis.GroupResult
	ByGender   *analysis.GroupResult
	BySegment  *analysis.GroupResult
	TopRanked  *analysis.GroupResult
	Consistent audit.ConsistencyResult
}

// Pipeline runs the whole analysis end to end
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	console *report.Console
	opts    Options
}

// New creates a pipeline. A nil logger falls back to the default.
func New(cfg *config.Config, logger *slog.Logger, opts Options) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Console == nil {
		opts.Console = os.Stdout
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	return &Pipeline{
		cfg:     cfg,
		logger:  logger,
		console: report.NewConsole(opts.Console),
		opts:    opts,
	}
}

// Run executes the single pass. The first failing stage aborts the run;
// there are no retries and no partial artifacts beyond what was already
// written.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	p.logger.InfoContext(ctx, "pipeline started",
		slog.String("data_dir", p.cfg.Sources.DataDir),
		slog.String("output_dir", p.cfg.Output.Dir))

	account, err := dataset.LoadCSV(p.cfg.AccountPath(), "account")
	if err != nil {
		return nil, err
	}
	holder, err := dataset.LoadCSV(p.cfg.HolderPath(), "holder")
	if err != nil {
		return nil, err
	}
	fraud, err := dataset.LoadCSV(p.cfg.FraudPath(), "fraud")
	if err != nil {
		return nil, err
	}

	auditor := audit.NewAuditor(p.logger)
	p.console.WriteAudit(auditor.Examine(ctx, account))
	p.console.WriteAudit(auditor.Examine(ctx, holder))
	p.console.WriteAudit(auditor.Examine(ctx, fraud))

	consistency := audit.CheckIdentifiers(p.cfg.Sources.IdentifierColumn, account, holder, fraud)
	p.console.WriteConsistency(consistency)

	holder = clean.Dedupe(holder)
	account = clean.FillDefaults(account, clean.ParseDefaults(p.cfg.Cleaning.AccountDefaults))
	holder = clean.FillDefaults(holder, clean.ParseDefaults(p.cfg.Cleaning.HolderDefaults))
	fraud = clean.FillAll(fraud, dataset.ParseCell(p.cfg.Cleaning.FraudDefault))

	combined, err := merge.LeftJoin(account, holder, p.cfg.Sources.IdentifierColumn)
	if err != nil {
		return nil, err
	}
	combined, err = merge.LeftJoin(combined, fraud, p.cfg.Sources.IdentifierColumn)
	if err != nil {
		return nil, err
	}

	// Fills ran before the joins, so unmatched rows reintroduce nulls the
	// default maps never see. Surface them instead of silently refilling.
	p.reportResidualNulls(ctx, auditor.Examine(ctx, combined))

	features := p.cfg.Features
	combined, err = merge.DeriveAge(combined, features.DateOfBirthColumn, features.AgeColumn,
		features.DateOfBirthFormat, p.opts.Now)
	if err != nil {
		return nil, err
	}
	combined, err = merge.BucketColumn(combined, features.AgeColumn, features.AgeCategoryColumn,
		features.AgeBuckets.Bounds, features.AgeBuckets.Labels)
	if err != nil {
		return nil, err
	}
	combined, err = merge.BucketColumn(combined, features.IncomeColumn, features.IncomeCategoryColumn,
		features.IncomeBuckets.Bounds, features.IncomeBuckets.Labels)
	if err != nil {
		return nil, err
	}

	analyzer := analysis.NewAnalyzer(p.logger)
	byAge, err := analyzer.SumByGroup(ctx, combined, []string{features.AgeCategoryColumn}, p.cfg.Analysis.MuleColumn)
	if err != nil {
		return nil, err
	}
	byAge = analysis.SortByLabels(byAge, features.AgeBuckets.Labels)

	byGender, err := analyzer.SumByGroup(ctx, combined, []string{p.cfg.Analysis.GenderColumn}, p.cfg.Analysis.MuleColumn)
	if err != nil {
		return nil, err
	}

	bySegment, err := analyzer.SumByGroup(ctx, combined,
		[]string{features.AgeCategoryColumn, p.cfg.Analysis.GenderColumn}, p.cfg.Analysis.MuleColumn)
	if err != nil {
		return nil, err
	}
	topRanked := analysis.TopSegments(bySegment, p.cfg.Analysis.TopSegments)

	p.console.WriteGroupResult("Mule accounts by age category", byAge)
	p.console.WriteGroupResult("Mule accounts by gender", byGender)
	p.console.WriteGroupResult("Characteristics with the highest number of mule accounts", topRanked)

	if p.opts.WriteExports {
		if err := report.WriteTableCSV(p.cfg.OutputPath(p.cfg.Output.CombinedCSV), combined); err != nil {
			return nil, err
		}
		if err := report.WriteAnalysisWorkbook(p.cfg.OutputPath(p.cfg.Output.AnalysisWorkbook), []report.WorkbookSheet{
			{Name: "ByAge", Result: byAge},
			{Name: "ByGender", Result: byGender},
			{Name: "TopSegments", Result: topRanked},
		}); err != nil {
			return nil, err
		}
	}

	if p.opts.RenderCharts {
		if err := report.RenderBarChart(p.cfg.OutputPath(p.cfg.Output.AgeChart), report.BarChart{
			Title:  "Number of Mule Accounts by Age Group",
			XLabel: "Age Group",
			YLabel: "Number of Mule Accounts",
		}, byAge); err != nil {
			return nil, err
		}
		if err := report.RenderBarChart(p.cfg.OutputPath(p.cfg.Output.GenderChart), report.BarChart{
			Title:  "Number of Mule Accounts by Gender",
			XLabel: "Gender",
			YLabel: "Number of Mule Accounts",
		}, byGender); err != nil {
			return nil, err
		}
	}

	p.logger.InfoContext(ctx, "pipeline completed",
		slog.Int("combined_rows", combined.RowCount()),
		slog.Duration("elapsed", time.Since(started)))

	return &Result{
		Combined:   combined,
		ByAge:      byAge,
		ByGender:   byGender,
		BySegment:  bySegment,
		TopRanked:  topRanked,
		Consistent: consistency,
	}, nil
}

// reportResidualNulls logs columns that still carry nulls after the merge
func (p *Pipeline) reportResidualNulls(ctx context.Context, r *audit.Report) {
	for _, stats := range r.Columns {
		if stats.MissingCount > 0 {
			p.logger.WarnContext(ctx, "nulls remain after merge",
				slog.String("column", stats.Column),
				slog.Int("rows", stats.MissingCount))
		}
	}
}

package report

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"mulewatch/internal/analysis"
	"mulewatch/internal/errors"
)

// BarChart describes one rendered chart
type BarChart struct {
	Title  string
	XLabel string
	YLabel string
}

// RenderBarChart writes a grouped-sum result as a self-contained HTML bar
// chart. Bars appear in the result's row order; callers wanting bucket order
// sort the result first.
func RenderBarChart(path string, chart BarChart, r *analysis.GroupResult) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: chart.Title}),
		charts.WithTitleOpts(opts.Title{Title: chart.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: chart.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: chart.YLabel}),
	)

	labels := make([]string, 0, len(r.Rows))
	values := make([]opts.BarData, 0, len(r.Rows))
	for _, row := range r.Rows {
		labels = append(labels, strings.Join(row.Keys, " / "))
		values = append(values, opts.BarData{Value: row.Sum.InexactFloat64()})
	}
	bar.SetXAxis(labels).AddSeries(r.SumColumn, values)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("path", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create chart file", err).
			WithContext("path", path)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return errors.NewStorageError("failed to render chart", err).
			WithContext("path", path)
	}

	slog.Info("rendered bar chart",
		slog.String("path", path),
		slog.String("title", chart.Title),
		slog.Int("bars", len(labels)))

	return nil
}

package stats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/cogni/internal/model"
)

// Source reads archived results.
type Source interface {
	ListResults(ctx context.Context, cfg model.ReportConfig) ([]model.StoredGameResult, error)
	ListDomainAggregates(ctx context.Context, cfg model.ReportConfig) ([]model.DomainAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Results    []model.StoredGameResult
	Window     []model.StoredGameResult
	Aggregates []model.DomainAggregate
	Scores     map[model.Domain]int
	TopGames   []GameCount
}

// BuildReport loads and prepares data for stats rendering. scores carries the
// current skill scores and may be nil.
func BuildReport(ctx context.Context, src Source, cfg model.ReportConfig, scores map[model.Domain]int) (Report, error) {
	results, err := src.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list results: %w", err)
	}
	aggs, err := src.ListDomainAggregates(ctx, model.ReportConfig{Domain: cfg.Domain, Since: cfg.Since})
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate results: %w", err)
	}
	window := results
	if cfg.CurveWindow > 0 && len(results) > cfg.CurveWindow {
		window = results[len(results)-cfg.CurveWindow:]
	}
	return Report{
		Results:    results,
		Window:     window,
		Aggregates: aggs,
		Scores:     scores,
		TopGames:   TopGames(results, 5),
	}, nil
}

// Render writes the full text report.
func Render(w io.Writer, r Report, window, totalWidth int, useColor bool) error {
	if err := RenderSummary(w, r.Results); err != nil {
		return err
	}
	if len(r.Results) == 0 {
		return nil
	}
	if err := RenderDomainTable(w, r.Aggregates, r.Scores); err != nil {
		return err
	}
	if err := RenderCurves(w, r.Results, window, totalWidth, 0, useColor); err != nil {
		return err
	}
	if len(r.TopGames) > 0 {
		rows := make([][]string, 0, len(r.TopGames))
		for _, g := range r.TopGames {
			rows = append(rows, []string{g.GameName, fmt.Sprintf("%d", g.Games)})
		}
		if _, err := fmt.Fprintln(w, "Most Played"); err != nil {
			return err
		}
		for _, line := range formatTable([]string{"Game", "Games"}, rows, map[int]bool{1: true}) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	if weak := WeakestDomains(r.Scores, 2); len(weak) > 0 {
		labels := make([]string, len(weak))
		for i, d := range weak {
			labels[i] = d.Label()
		}
		if _, err := fmt.Fprintf(w, "Focus next: %s\n", strings.Join(labels, ", ")); err != nil {
			return err
		}
	}
	return nil
}

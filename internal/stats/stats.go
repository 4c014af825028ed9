// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/cogni/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary rolls up a list of results.
type Summary struct {
	Games        int
	AvgAccuracy  float64
	AvgScore     float64
	BestScore    int
	PerfectGames int
	TotalCorrect int
	TotalRounds  int
}

// Summarize computes summary metrics over results.
func Summarize(results []model.StoredGameResult) Summary {
	var s Summary
	if len(results) == 0 {
		return s
	}
	var accSum, scoreSum int
	for _, r := range results {
		accSum += r.Accuracy
		scoreSum += r.Score
		if r.Score > s.BestScore {
			s.BestScore = r.Score
		}
		if r.Accuracy == model.MaxScore {
			s.PerfectGames++
		}
		s.TotalCorrect += r.CorrectAnswers
		s.TotalRounds += r.TotalRounds
	}
	s.Games = len(results)
	s.AvgAccuracy = float64(accSum) / float64(s.Games)
	s.AvgScore = float64(scoreSum) / float64(s.Games)
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// AccuracySeries returns per-result accuracy in chronological order.
func AccuracySeries(results []model.StoredGameResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = float64(r.Accuracy)
	}
	return out
}

// RenderSummary prints a summary block for results.
func RenderSummary(w io.Writer, results []model.StoredGameResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	s := Summarize(results)
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", s.Games),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("Avg Score: %.1f", s.AvgScore),
		fmt.Sprintf("Best Score: %d", s.BestScore),
		fmt.Sprintf("Perfect Games: %d", s.PerfectGames),
		fmt.Sprintf("Correct Answers: %d/%d", s.TotalCorrect, s.TotalRounds),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderDomainTable prints archived aggregates next to the current skill scores.
func RenderDomainTable(w io.Writer, aggs []model.DomainAggregate, scores map[model.Domain]int) error {
	if len(aggs) == 0 && len(scores) == 0 {
		_, err := fmt.Fprintln(w, "No domain stats found.")
		return err
	}
	byDomain := make(map[model.Domain]model.DomainAggregate, len(aggs))
	for _, a := range aggs {
		byDomain[a.Domain] = a
	}
	if _, err := fmt.Fprintln(w, "Domains"); err != nil {
		return err
	}
	headers := []string{"Domain", "Skill", "Games", "Avg Accuracy", "Best Score", "Last Played"}
	rows := make([][]string, 0, len(model.Domains))
	for _, d := range model.Domains {
		agg, ok := byDomain[d]
		score, hasScore := scores[d]
		if !ok && !hasScore {
			continue
		}
		skill := "-"
		if hasScore {
			skill = fmt.Sprintf("%d", score)
		}
		last := "-"
		if ok && !agg.LastPlayedAt.IsZero() {
			last = agg.LastPlayedAt.Format(time.DateOnly)
		}
		rows = append(rows, []string{
			d.Label(),
			skill,
			fmt.Sprintf("%d", agg.Games),
			fmt.Sprintf("%.1f%%", agg.AvgAccuracy()),
			fmt.Sprintf("%d", agg.BestScore),
			last,
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints the accuracy learning curve, one line per domain present.
func RenderCurves(w io.Writer, results []model.StoredGameResult, window, totalWidth, height int, useColor bool) error {
	if len(results) == 0 {
		return nil
	}
	byDomain := make(map[model.Domain][]model.StoredGameResult)
	for _, r := range results {
		byDomain[r.Domain] = append(byDomain[r.Domain], r)
	}
	series := []Series{{Name: "All", Values: MovingAverage(AccuracySeries(results), window)}}
	for _, d := range model.Domains {
		rs, ok := byDomain[d]
		if !ok || len(byDomain) == 1 {
			continue
		}
		series = append(series, Series{Name: d.Label(), Values: MovingAverage(AccuracySeries(rs), window)})
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	if err := PlotPercent(w, "Accuracy Curve", series, width, height, useColor); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Trend: %s\n\n", Sparkline(series[0].Values))
	return err
}

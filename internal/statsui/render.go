package statsui

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cogni/internal/achievement"
	"github.com/verte-zerg/cogni/internal/catalog"
	"github.com/verte-zerg/cogni/internal/model"
	"github.com/verte-zerg/cogni/internal/stats"
)

const barWidth = 20

func renderOverview(p Progress, report stats.Report, window, width int, now time.Time) string {
	st := p.Stats()
	cards := []string{
		metricCard("Overall", fmt.Sprintf("%d", p.OverallScore())),
		metricCard("Streak", fmt.Sprintf("%d days", st.ActiveStreak(now))),
		metricCard("Longest", fmt.Sprintf("%d days", st.LongestStreak)),
		metricCard("Games", fmt.Sprintf("%d", st.TotalGamesPlayed)),
		metricCard("Today", fmt.Sprintf("%d", st.PlayedToday(now))),
		metricCard("Perfect", fmt.Sprintf("%d", st.PerfectGames)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	parts := []string{summary, renderDomainBars(st), ""}
	if len(report.Results) == 0 {
		parts = append(parts, "No games found.")
	} else {
		var buf bytes.Buffer
		if err := stats.RenderCurves(&buf, report.Results, window, width, plotHeight, true); err != nil {
			parts = append(parts, fmt.Sprintf("Failed to render curves: %v", err))
		} else {
			parts = append(parts, buf.String())
		}
	}
	return strings.TrimRight(strings.Join(parts, "\n"), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderDomainBars(st model.ProgressStats) string {
	lines := []string{headerStyle.Render("Skill by domain")}
	for _, d := range model.Domains {
		score := st.DomainScores[d]
		filled := score * barWidth / model.MaxScore
		bar := barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled)
		lines = append(lines, fmt.Sprintf("%-16s %s %3d  (%d games)", d.Label(), bar, score, st.DomainGamesPlayed[d]))
	}
	return strings.Join(lines, "\n")
}

func renderToday(plan []model.TodayGame, cat *catalog.Catalog) string {
	if len(plan) == 0 {
		return "No plan for today yet. Run `cogni today` to create one."
	}
	done := 0
	lines := make([]string, 0, len(plan)+2)
	for _, g := range plan {
		name := g.GameID
		if entry, ok := cat.Lookup(g.GameID); ok {
			name = entry.Name
		}
		mark := "[ ]"
		detail := ""
		if g.Completed {
			done++
			mark = doneStyle.Render("[x]")
			if g.Result != nil {
				detail = fmt.Sprintf("  %d%% · %d pts", g.Result.Accuracy, g.Result.Score)
			}
		}
		lines = append(lines, fmt.Sprintf("%s %-16s %-20s level %2d%s", mark, g.Domain.Label(), name, g.Difficulty, detail))
	}
	header := headerStyle.Render(fmt.Sprintf("Today's plan: %d/%d done", done, len(plan)))
	return header + "\n\n" + strings.Join(lines, "\n")
}

func achievementColumns() []table.Column {
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Achievement", Width: 18},
		{Title: "Category", Width: 12},
		{Title: "Description", Width: 36},
		{Title: "Unlocked", Width: 10},
	}
}

// achievementRows lists unlocked achievements first, newest first, then locked ones in catalog order.
func achievementRows(cat achievement.Catalog, unlocked []model.UnlockedAchievement) []table.Row {
	sorted := append([]model.UnlockedAchievement(nil), unlocked...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UnlockedAt.After(sorted[j].UnlockedAt)
	})
	seen := make(map[string]struct{}, len(sorted))
	rows := make([]table.Row, 0, len(cat))
	for _, u := range sorted {
		a, ok := cat.Lookup(u.AchievementID)
		if !ok {
			continue
		}
		seen[a.ID] = struct{}{}
		rows = append(rows, table.Row{a.Icon, a.Name, string(a.Category), a.Description, u.UnlockedAt.Local().Format(model.DateLayout)})
	}
	for _, a := range cat {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		rows = append(rows, table.Row{"·", a.Name, string(a.Category), a.Description, "locked"})
	}
	return rows
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Game", Width: 18},
		{Title: "Domain", Width: 16},
		{Title: "Score", Width: 6},
		{Title: "Accuracy", Width: 8},
		{Title: "Level", Width: 5},
	}
}

// historyRows lists results newest first.
func historyRows(results []model.StoredGameResult) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		rows = append(rows, table.Row{
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			r.GameName,
			r.Domain.Label(),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d%%", r.Accuracy),
			fmt.Sprintf("%d", r.Difficulty),
		})
	}
	return rows
}

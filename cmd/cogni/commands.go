package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cogni/internal/achievement"
	"github.com/verte-zerg/cogni/internal/catalog"
	"github.com/verte-zerg/cogni/internal/games"
	"github.com/verte-zerg/cogni/internal/model"
	"github.com/verte-zerg/cogni/internal/stats"
	"github.com/verte-zerg/cogni/internal/statsui"
)

func newTodayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's training plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			playableOnly, err := cmd.Flags().GetBool("playable-only")
			if err != nil {
				return err
			}
			fileCfg, err := loadFileConfig()
			if err != nil {
				return err
			}
			applyBoolConfig(cmd, "playable-only", &playableOnly, fileCfg.Play.PlayableOnly)

			ctx := context.Background()
			a, err := openApp(ctx, fileCfg, playableOnly, false)
			if err != nil {
				return err
			}
			defer a.Close()

			plan, generated := a.progress.GenerateTodayGames()
			if generated {
				if err := a.save(ctx); err != nil {
					return err
				}
			}
			renderPlan(os.Stdout, plan, a.catalog)
			return nil
		},
	}
	cmd.Flags().Bool("playable-only", true, "Plan only games with a terminal version")
	return cmd
}

func renderPlan(w io.Writer, plan []model.TodayGame, cat *catalog.Catalog) {
	done := 0
	for _, g := range plan {
		if g.Completed {
			done++
		}
	}
	fmt.Fprintf(w, "Today's plan: %d/%d done\n", done, len(plan))
	for _, g := range plan {
		mark := " "
		if g.Completed {
			mark = "x"
		}
		name := g.GameID
		if entry, ok := cat.Lookup(g.GameID); ok {
			name = entry.Name
		}
		line := fmt.Sprintf("[%s] %-16s %-20s level %d", mark, g.Domain.Label(), name, g.Difficulty)
		if g.Result != nil {
			line += fmt.Sprintf("  %d%%", g.Result.Accuracy)
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func newGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List available games",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			renderGames(os.Stdout, catalog.Default())
			return nil
		},
	}
}

func renderGames(w io.Writer, cat *catalog.Catalog) {
	for _, d := range model.Domains {
		fmt.Fprintf(w, "%s:\n", d.Label())
		for _, g := range cat.ByDomain(d) {
			tag := ""
			if _, ok := games.New(g.ID); ok && g.Terminal {
				tag = " *"
			}
			fmt.Fprintf(w, "  %-18s %s%s\n", g.ID, g.Name, tag)
		}
	}
	fmt.Fprintln(w, "* playable in the terminal")
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Open the progress dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportCfg, err := resolveReportConfig(cmd)
			if err != nil {
				return err
			}
			fileCfg, err := loadFileConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			a, err := openApp(ctx, fileCfg, false, false)
			if err != nil {
				return err
			}
			defer a.Close()

			m := statsui.NewModel(a.progress, a.store, a.catalog, a.progress.Achievements(), reportCfg)
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("failed to run stats UI: %w", err)
			}
			return nil
		},
	}
	addReportFlags(cmd)
	return cmd
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a progress report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportCfg, err := resolveReportConfig(cmd)
			if err != nil {
				return err
			}
			fileCfg, err := loadFileConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			a, err := openApp(ctx, fileCfg, false, false)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := stats.BuildReport(ctx, a.store, reportCfg, a.progress.Stats().DomainScores)
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}
			if err := stats.Render(os.Stdout, report, reportCfg.CurveWindow, 0, false); err != nil {
				return fmt.Errorf("failed to render report: %w", err)
			}
			return nil
		},
	}
	addReportFlags(cmd)
	return cmd
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("domain", "", "Filter by domain")
	cmd.Flags().String("since", "", "Only include games since date (YYYY-MM-DD)")
	cmd.Flags().Int("last", 0, "Only include last N games")
	cmd.Flags().Int("curve-window", defaultCurveWindow, "Moving average window for curves")
}

func resolveReportConfig(cmd *cobra.Command) (model.ReportConfig, error) {
	flags := cmd.Flags()
	domain, err := flags.GetString("domain")
	if err != nil {
		return model.ReportConfig{}, err
	}
	since, err := flags.GetString("since")
	if err != nil {
		return model.ReportConfig{}, err
	}
	last, err := flags.GetInt("last")
	if err != nil {
		return model.ReportConfig{}, err
	}
	window, err := flags.GetInt("curve-window")
	if err != nil {
		return model.ReportConfig{}, err
	}
	return buildReportConfig(domain, since, last, window)
}

func buildReportConfig(domain, since string, last, window int) (model.ReportConfig, error) {
	cfg := model.ReportConfig{Last: last, CurveWindow: window}
	if domain != "" {
		d := model.Domain(strings.TrimSpace(domain))
		if !d.Valid() {
			return model.ReportConfig{}, fmt.Errorf("unknown domain %q", domain)
		}
		cfg.Domain = d
	}
	if since != "" {
		parsed, err := time.ParseInLocation(model.DateLayout, since, time.Local)
		if err != nil {
			return model.ReportConfig{}, fmt.Errorf("invalid --since date: %w", err)
		}
		cfg.Since = &parsed
	}
	if cfg.Last < 0 {
		return model.ReportConfig{}, fmt.Errorf("last must be >= 0")
	}
	if cfg.CurveWindow <= 0 {
		return model.ReportConfig{}, fmt.Errorf("curve-window must be > 0")
	}
	return cfg, nil
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fileCfg, err := loadFileConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			a, err := openApp(ctx, fileCfg, false, false)
			if err != nil {
				return err
			}
			defer a.Close()

			renderAchievements(os.Stdout, a.progress.Achievements(), a.progress.Unlocked())
			return nil
		},
	}
}

func renderAchievements(w io.Writer, cat achievement.Catalog, unlocked []model.UnlockedAchievement) {
	at := make(map[string]time.Time, len(unlocked))
	for _, u := range unlocked {
		at[u.AchievementID] = u.UnlockedAt
	}
	fmt.Fprintf(w, "Unlocked %d/%d\n", len(at), len(cat))
	for _, a := range cat {
		status := "locked"
		if t, ok := at[a.ID]; ok {
			status = t.Local().Format(model.DateLayout)
		}
		fmt.Fprintf(w, "%s %-22s %-10s %s\n", a.Icon, a.Name, status, a.Description)
	}
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, err := cmd.Flags().GetBool("yes")
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			fileCfg, err := loadFileConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			a, err := openApp(ctx, fileCfg, false, false)
			if err != nil {
				return err
			}
			defer a.Close()

			a.progress.ResetProgress()
			if err := a.save(ctx); err != nil {
				return err
			}
			fmt.Println("Progress reset.")
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "Confirm erasing all progress")
	return cmd
}

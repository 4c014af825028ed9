package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cogni/internal/achievement"
	"github.com/verte-zerg/cogni/internal/catalog"
	"github.com/verte-zerg/cogni/internal/config"
	"github.com/verte-zerg/cogni/internal/games"
	"github.com/verte-zerg/cogni/internal/model"
	"github.com/verte-zerg/cogni/internal/progress"
	"github.com/verte-zerg/cogni/internal/session"
	"github.com/verte-zerg/cogni/internal/tui"
)

var errPlanComplete = errors.New("today's plan is complete")

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [game-id]",
		Short: "Play a game (default: next game from today's plan)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlayCmd,
	}
	addPlayFlags(cmd)
	return cmd
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().Int("rounds", defaultRounds, "Rounds per session")
	cmd.Flags().Int("difficulty", defaultDifficulty, "Fixed difficulty 1-10 (0 uses your skill score)")
	cmd.Flags().Int("countdown", defaultCountdown, "Countdown seconds before play")
	cmd.Flags().Bool("practice", false, "Start in practice mode (results are not recorded)")
	cmd.Flags().Bool("playable-only", true, "Plan only games with a terminal version")
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	cfg, err := resolvePlayConfig(cmd, args, fileCfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := openApp(ctx, fileCfg, cfg.PlayableOnly, true)
	if err != nil {
		return err
	}
	defer a.Close()

	entry, planned, err := pickGame(ctx, a, cfg.GameID)
	if errors.Is(err, errPlanComplete) {
		fmt.Println("All of today's games are done. Come back tomorrow or run `cogni play <game-id>`.")
		return nil
	}
	if err != nil {
		return err
	}
	body, ok := games.New(entry.ID)
	if !ok {
		return fmt.Errorf("game %q has no terminal version", entry.ID)
	}

	cfg.GameID = entry.ID
	cfg.Difficulty = resolveDifficulty(cfg.Difficulty, planned, a.progress.Stats().DomainScores[entry.Domain])
	a.log.Info("starting session", "game", entry.ID, "difficulty", cfg.Difficulty, "rounds", cfg.Rounds)

	m := tui.NewModel(tui.Options{
		Game:         entry,
		Body:         body,
		Config:       cfg,
		Recorder:     a.progress,
		Achievements: a.progress.Achievements(),
		Logger:       a.log,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run session: %w", err)
	}

	outcome, recorded := m.Outcome()
	if !recorded {
		return nil
	}
	// A fallback game stands in for its planned entry.
	if planned != nil && planned.GameID != entry.ID {
		a.progress.MarkTodayGameComplete(planned.GameID, outcome.Result)
		if err := a.save(ctx); err != nil {
			return err
		}
	}
	printOutcome(outcome, a.progress.Achievements())
	return m.SaveErr()
}

func resolvePlayConfig(cmd *cobra.Command, args []string, fileCfg config.FileConfig) (model.PlayConfig, error) {
	flags := cmd.Flags()
	rounds, err := flags.GetInt("rounds")
	if err != nil {
		return model.PlayConfig{}, err
	}
	difficulty, err := flags.GetInt("difficulty")
	if err != nil {
		return model.PlayConfig{}, err
	}
	countdown, err := flags.GetInt("countdown")
	if err != nil {
		return model.PlayConfig{}, err
	}
	practice, err := flags.GetBool("practice")
	if err != nil {
		return model.PlayConfig{}, err
	}
	playableOnly, err := flags.GetBool("playable-only")
	if err != nil {
		return model.PlayConfig{}, err
	}

	applyIntConfig(cmd, "rounds", &rounds, fileCfg.Play.Rounds)
	applyIntConfig(cmd, "difficulty", &difficulty, fileCfg.Play.Difficulty)
	applyIntConfig(cmd, "countdown", &countdown, fileCfg.Play.Countdown)
	applyBoolConfig(cmd, "practice", &practice, fileCfg.Play.Practice)
	applyBoolConfig(cmd, "playable-only", &playableOnly, fileCfg.Play.PlayableOnly)

	cfg := model.PlayConfig{
		Rounds:       rounds,
		Difficulty:   difficulty,
		Countdown:    countdown,
		Practice:     practice,
		PlayableOnly: playableOnly,
	}
	if len(args) > 0 {
		cfg.GameID = args[0]
	}
	if err := validatePlayConfig(cfg); err != nil {
		return model.PlayConfig{}, err
	}
	return cfg, nil
}

func validatePlayConfig(cfg model.PlayConfig) error {
	if cfg.Rounds <= 0 {
		return fmt.Errorf("rounds must be > 0")
	}
	if cfg.Difficulty < 0 || cfg.Difficulty > session.MaxDifficulty {
		return fmt.Errorf("difficulty must be between 0 and %d", session.MaxDifficulty)
	}
	if cfg.Countdown < 0 {
		return fmt.Errorf("countdown must be >= 0")
	}
	return nil
}

// pickGame resolves the game to play. Without an id it takes the next
// incomplete entry of today's plan, generating the plan first if needed.
func pickGame(ctx context.Context, a *app, id string) (catalog.Game, *model.TodayGame, error) {
	if id != "" {
		// Explicit ids may name any catalog game, not just planned ones.
		g, ok := catalog.Default().Lookup(id)
		if !ok {
			return catalog.Game{}, nil, fmt.Errorf("unknown game %q (see `cogni games`)", id)
		}
		return g, nil, nil
	}

	if _, generated := a.progress.GenerateTodayGames(); generated {
		if err := a.save(ctx); err != nil {
			return catalog.Game{}, nil, err
		}
	}
	next, ok := a.progress.NextPlanned()
	if !ok {
		return catalog.Game{}, nil, errPlanComplete
	}
	g, ok := fallbackGame(a.catalog, next)
	if !ok {
		return catalog.Game{}, nil, fmt.Errorf("no terminal game available for %s", next.Domain.Label())
	}
	return g, &next, nil
}

// fallbackGame returns the planned game when it is playable here, otherwise
// the first terminal game of the same domain.
func fallbackGame(cat *catalog.Catalog, planned model.TodayGame) (catalog.Game, bool) {
	if g, ok := cat.Lookup(planned.GameID); ok && g.Terminal {
		if _, ok := games.New(g.ID); ok {
			return g, true
		}
	}
	for _, g := range catalog.Default().ByDomain(planned.Domain) {
		if !g.Terminal {
			continue
		}
		if _, ok := games.New(g.ID); ok {
			return g, true
		}
	}
	return catalog.Game{}, false
}

// resolveDifficulty prefers an explicit level, then the plan's level, then
// the level implied by the domain score.
func resolveDifficulty(explicit int, planned *model.TodayGame, domainScore int) int {
	if explicit > 0 {
		return session.ClampDifficulty(explicit)
	}
	if planned != nil && planned.Difficulty > 0 {
		return session.ClampDifficulty(planned.Difficulty)
	}
	return progress.PlanDifficulty(domainScore)
}

func printOutcome(outcome progress.RecordOutcome, ach achievement.Catalog) {
	r := outcome.Result
	fmt.Printf("%s: score %d, accuracy %d%% (%d/%d) at level %d\n",
		r.GameName, r.Score, r.Accuracy, r.CorrectAnswers, r.TotalRounds, r.Difficulty)
	for _, u := range outcome.Unlocked {
		a, ok := ach.Lookup(u.AchievementID)
		if !ok {
			continue
		}
		fmt.Printf("%s Unlocked: %s\n", a.Icon, a.Name)
	}
}

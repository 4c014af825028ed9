package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/cogni/internal/achievement"
	"github.com/verte-zerg/cogni/internal/catalog"
	"github.com/verte-zerg/cogni/internal/config"
	"github.com/verte-zerg/cogni/internal/model"
	"github.com/verte-zerg/cogni/internal/sink"
)

func TestResolvePlayConfigPrecedence(t *testing.T) {
	rounds := 5
	countdown := 0
	practice := true
	fileCfg := config.FileConfig{Play: config.PlayConfig{
		Rounds:    &rounds,
		Countdown: &countdown,
		Practice:  &practice,
	}}

	cmd := newPlayCmd()
	if err := cmd.Flags().Set("rounds", "7"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	cfg, err := resolvePlayConfig(cmd, []string{"quick-math"}, fileCfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Rounds != 7 {
		t.Fatalf("expected flag to win, got %d rounds", cfg.Rounds)
	}
	if cfg.Countdown != 0 || !cfg.Practice {
		t.Fatalf("expected config values applied, got %+v", cfg)
	}
	if !cfg.PlayableOnly || cfg.GameID != "quick-math" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestResolvePlayConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"rounds":     "0",
		"difficulty": "11",
		"countdown":  "-1",
	}
	for name, value := range cases {
		cmd := newPlayCmd()
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
		if _, err := resolvePlayConfig(cmd, nil, config.FileConfig{}); err == nil {
			t.Fatalf("expected error for %s=%s", name, value)
		}
	}
}

func TestResolveDifficulty(t *testing.T) {
	planned := &model.TodayGame{GameID: "quick-math", Difficulty: 6}
	if got := resolveDifficulty(3, planned, 90); got != 3 {
		t.Fatalf("expected explicit level, got %d", got)
	}
	if got := resolveDifficulty(0, planned, 90); got != 6 {
		t.Fatalf("expected planned level, got %d", got)
	}
	if got := resolveDifficulty(0, nil, 84); got != 8 {
		t.Fatalf("expected level from score, got %d", got)
	}
	if got := resolveDifficulty(0, nil, 0); got != 1 {
		t.Fatalf("expected minimum level, got %d", got)
	}
}

func TestFallbackGame(t *testing.T) {
	cat := catalog.Default()
	g, ok := fallbackGame(cat, model.TodayGame{GameID: "rule-switch", Domain: model.DomainFlexibility})
	if !ok || g.ID != "rule-switch" {
		t.Fatalf("expected planned game, got %+v", g)
	}
	g, ok = fallbackGame(cat, model.TodayGame{GameID: "n-back", Domain: model.DomainMemory})
	if !ok || g.ID != "digit-span" {
		t.Fatalf("expected terminal memory game, got %+v", g)
	}
	if _, ok := fallbackGame(cat, model.TodayGame{GameID: "x", Domain: model.Domain("music")}); ok {
		t.Fatalf("expected no game for unknown domain")
	}
}

func TestBuildReportConfig(t *testing.T) {
	cfg, err := buildReportConfig("memory", "2024-03-01", 5, 4)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.Domain != model.DomainMemory || cfg.Last != 5 || cfg.CurveWindow != 4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Day() != 1 || cfg.Since.Month() != time.March {
		t.Fatalf("unexpected since: %v", cfg.Since)
	}

	if _, err := buildReportConfig("music", "", 0, 10); err == nil {
		t.Fatalf("expected unknown domain error")
	}
	if _, err := buildReportConfig("", "03/01/2024", 0, 10); err == nil {
		t.Fatalf("expected date error")
	}
	if _, err := buildReportConfig("", "", -1, 10); err == nil {
		t.Fatalf("expected last error")
	}
	if _, err := buildReportConfig("", "", 0, 0); err == nil {
		t.Fatalf("expected window error")
	}
}

func TestResolveSyncConfig(t *testing.T) {
	cfg := resolveSyncConfig(config.FileConfig{})
	if cfg.KafkaTopic != sink.DefaultTopic || cfg.Timeout != defaultSyncTimeout {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	user := "u-1"
	brokers := []string{"localhost:9092"}
	empty := ""
	cfg = resolveSyncConfig(config.FileConfig{Sync: config.SyncConfig{
		UserID:       &user,
		KafkaBrokers: &brokers,
		KafkaTopic:   &empty,
		Timeout:      &config.Duration{Duration: 2 * time.Second},
	}})
	if cfg.UserID != "u-1" || len(cfg.KafkaBrokers) != 1 || cfg.Timeout != 2*time.Second {
		t.Fatalf("unexpected sync config: %+v", cfg)
	}
	if cfg.KafkaTopic != sink.DefaultTopic {
		t.Fatalf("expected empty topic to keep default, got %q", cfg.KafkaTopic)
	}
}

func TestSinkKind(t *testing.T) {
	brokers := []string{"localhost:9092"}
	cases := []struct {
		cfg  model.SyncConfig
		want string
	}{
		{cfg: model.SyncConfig{KafkaBrokers: brokers, Endpoint: "http://x"}, want: sinkNone},
		{cfg: model.SyncConfig{UserID: "u", KafkaBrokers: brokers, Endpoint: "http://x"}, want: sinkKafka},
		{cfg: model.SyncConfig{UserID: "u", Endpoint: "http://x"}, want: sinkHTTP},
		{cfg: model.SyncConfig{UserID: "u"}, want: sinkNone},
	}
	for _, tc := range cases {
		if got := sinkKind(tc.cfg); got != tc.want {
			t.Fatalf("sinkKind(%+v) = %q, want %q", tc.cfg, got, tc.want)
		}
	}
}

func TestRenderPlan(t *testing.T) {
	plan := []model.TodayGame{
		{GameID: "digit-span", Domain: model.DomainMemory, Difficulty: 3, Completed: true, Result: &model.StoredGameResult{Accuracy: 90}},
		{GameID: "quick-math", Domain: model.DomainProblemSolving, Difficulty: 5},
	}
	var buf bytes.Buffer
	renderPlan(&buf, plan, catalog.Default())
	out := buf.String()
	if !strings.HasPrefix(out, "Today's plan: 1/2 done\n") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "[x] Memory") || !strings.Contains(out, "Digit Span") || !strings.Contains(out, "90%") {
		t.Fatalf("missing completed entry: %q", out)
	}
	if !strings.Contains(out, "[ ] Problem Solving") || !strings.Contains(out, "level 5") {
		t.Fatalf("missing pending entry: %q", out)
	}
}

func TestRenderGamesMarksTerminal(t *testing.T) {
	var buf bytes.Buffer
	renderGames(&buf, catalog.Default())
	out := buf.String()
	if !strings.Contains(out, "digit-span") || !strings.Contains(out, "Digit Span *") {
		t.Fatalf("expected terminal marker: %q", out)
	}
	if strings.Contains(out, "N-Back *") {
		t.Fatalf("unexpected marker on web-only game")
	}
}

func TestRenderAchievements(t *testing.T) {
	cat := achievement.Default()
	unlocked := []model.UnlockedAchievement{{AchievementID: cat[0].ID, UnlockedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)}}
	var buf bytes.Buffer
	renderAchievements(&buf, cat, unlocked)
	out := buf.String()
	if !strings.Contains(out, "Unlocked 1/") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "2024-05-01") || !strings.Contains(out, "locked") {
		t.Fatalf("unexpected rows: %q", out)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	tmpl := defaultConfigTemplate()
	for _, section := range []string{"[play]", "[sync]", "[log]"} {
		if !strings.Contains(tmpl, section) {
			t.Fatalf("template missing %s", section)
		}
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(tmpl), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
}

// Package main provides the CLI entrypoint for cogni.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cogni/internal/config"
	"github.com/verte-zerg/cogni/internal/sink"
)

const (
	defaultRounds      = 10
	defaultDifficulty  = 0
	defaultCountdown   = 3
	defaultCurveWindow = 10
	defaultLogLevel    = "info"
	defaultSyncTimeout = 5 * time.Second
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cogni",
		Short:         "Daily cognitive training in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPlayCmd,
	}
	addPlayFlags(rootCmd)

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newTodayCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newAchievementsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# cogni configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# rounds = %d             # Rounds per session
# difficulty = 5          # Fixed level 1-10 (default: taken from your skill score)
# countdown = %d           # Seconds before a session starts
# practice = false        # Start every session in practice mode
# playable-only = true    # Plan only games that have a terminal version

[sync]
# user-id = ""            # Identifier sent with every result
# endpoint = ""           # HTTP endpoint receiving results as JSON
# kafka-brokers = []      # Kafka brokers; takes precedence over endpoint
# kafka-topic = %q
# timeout = %q

[log]
# level = %q
# file = %q
`,
		defaultRounds,
		defaultCountdown,
		sink.DefaultTopic,
		defaultSyncTimeout.String(),
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

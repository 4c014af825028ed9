package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cogni.log")
	log, err := New("info", path)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Debug("hidden", "k", 1)
	log.With("game", "quick-math").Info("recorded result", "accuracy", 90)
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "recorded result") || !strings.Contains(out, `"game":"quick-math"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry must be filtered at info level")
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New("loud", ""); err == nil {
		t.Fatalf("expected invalid level error")
	}
}

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"oasi/internal/config"
)

// TestAllCategoriesLog tests that all categories create log files when debug_mode is true
func TestAllCategoriesLog(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(CloseAll)

	if err := Initialize(dir, config.LoggingConfig{Level: "debug", DebugMode: true}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	for _, cat := range AllCategories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		logger := Get(cat)
		logger.Info("Test info message for %s", cat)
		logger.Debug("Test debug message for %s", cat)
		logger.Warn("Test warn message for %s", cat)
		logger.Error("Test error message for %s", cat)
	}

	Boot("Convenience boot log")
	Session("Convenience session log")
	Navigation("Convenience navigation log")
	API("Convenience api log")
	Views("Convenience views log")
	Storage("Convenience storage log")

	CloseAll()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}

	for _, cat := range AllCategories {
		found := false
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), "_"+string(cat)+".log") {
				found = true
				content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
				if err != nil {
					t.Errorf("Failed to read log file for %s: %v", cat, err)
					continue
				}
				if !strings.Contains(string(content), "Test info message for "+string(cat)) {
					t.Errorf("Log file for %s missing info entry", cat)
				}
				break
			}
		}
		if !found {
			t.Errorf("No log file found for category: %s", cat)
		}
	}
}

// TestDebugModeDisabled tests that no logs are created when debug_mode is false
func TestDebugModeDisabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(CloseAll)

	if err := Initialize(dir, config.LoggingConfig{Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	API("should not be written")
	Get(CategorySession).Error("nor this")
	CloseAll()

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("expected no logs directory in production mode, stat err=%v", err)
	}
}

func TestCategoryFilter(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(CloseAll)

	lc := config.LoggingConfig{
		Level:      "info",
		DebugMode:  true,
		Categories: map[string]bool{"api": false},
	}
	if err := Initialize(dir, lc); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	API("filtered out")
	Session("kept")
	CloseAll()

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_api.log") {
			t.Errorf("api category should be filtered, found %s", e.Name())
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(CloseAll)

	if err := Initialize(dir, config.LoggingConfig{Level: "warn", DebugMode: true}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	Get(CategoryViews).Info("quiet info")
	Get(CategoryViews).Warn("loud warn")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	content, err := os.ReadFile(filepath.Join(dir, date+"_views.log"))
	if err != nil {
		t.Fatalf("read views log: %v", err)
	}
	if strings.Contains(string(content), "quiet info") {
		t.Error("info entry should be below warn threshold")
	}
	if !strings.Contains(string(content), "loud warn") {
		t.Error("warn entry should be written")
	}
}

func TestInitializeRequiresDir(t *testing.T) {
	if err := Initialize("", config.LoggingConfig{}); err == nil {
		t.Fatal("expected error for empty logs dir")
	}
}

func TestTimerReturnsElapsed(t *testing.T) {
	timer := StartTimer(CategoryAPI, "op")
	time.Sleep(2 * time.Millisecond)
	if d := timer.StopWithThreshold(time.Hour); d <= 0 {
		t.Errorf("expected positive elapsed, got %v", d)
	}
}

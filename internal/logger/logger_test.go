package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestDefaultLoggerDiscards(t *testing.T) {
	Reset()
	if Log == nil {
		t.Fatal("default logger should never be nil")
	}
	if Log.Core().Enabled(zap.ErrorLevel) {
		t.Error("default logger should discard every level")
	}
	Warn("nobody hears this", zap.String("channel", "hip"))
}

func TestLogRotation(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "export.log")

	// MaxSize is in MB; 1 is the smallest lumberjack allows.
	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
		Compress:   false,
	}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Reset()

	// ~250 bytes per line, 15000 lines is well past 1MB
	subName := strings.Repeat("t", 200)
	for i := 0; i < 15000; i++ {
		Info("channel built", zap.Int("index", i), zap.String("subName", subName))
	}
	Sync()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("main log file does not exist")
	}

	files, err := os.ReadDir(filepath.Dir(logFile))
	if err != nil {
		t.Fatalf("failed to read log dir: %v", err)
	}
	rotated := 0
	for _, f := range files {
		name := f.Name()
		if name == "export.log" || !strings.HasPrefix(name, "export") {
			continue
		}
		rotated++
		// export-YYYY-MM-DDTHH-MM-SS.SSS.log
		if !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s has no timestamp", name)
		}
	}
	if rotated == 0 {
		t.Error("no rotated files found")
	}
}

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()
	defer Reset()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"WARN", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
		{"bogus", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(dir, tt.level+".log")
			cfg := FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}
			if err := InitWithFileConfig(tt.level, cfg, false); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("channel built")
			Info("animation written")
			Warn("component expressions differ, using channel default")
			Error("rig build failed")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			out := string(content)
			for _, exp := range tt.expected {
				if !strings.Contains(out, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
			if !strings.Contains(out, "rigexport") {
				t.Error("expected logger name in output")
			}
		})
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/rigexport.log")

	if cfg.Path != "/tmp/rigexport.log" {
		t.Errorf("expected path /tmp/rigexport.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 50 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 7 {
		t.Errorf("unexpected rotation settings: %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}

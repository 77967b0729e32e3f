package common

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppLogger_LogFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newAppLogger(&buf)
	logger.SetLevel(LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("Debug/Info messages should be filtered when level is Warn")
	}

	logger.Warn("warn message")
	if !strings.Contains(buf.String(), "[WARN]") {
		t.Error("Warn message should be logged")
	}

	buf.Reset()
	logger.Error("error message")
	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Error("Error message should be logged")
	}
}

func TestAppLogger_LogFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := newAppLogger(&buf)
	logger.SetLevel(LevelDebug)

	logger.Info("Fetching %s", "Jeddah")

	output := buf.String()
	if !strings.Contains(output, time.Now().Format("2006/01/02")) {
		t.Error("Log should contain date in YYYY/MM/DD format")
	}
	if !strings.Contains(output, "[INFO]") {
		t.Error("Log should contain level indicator")
	}
	if !strings.Contains(output, "Fetching Jeddah") {
		t.Error("Log should contain formatted message")
	}
	if !strings.Contains(output, "logger_test.go:") {
		t.Errorf("Log should name the calling file, got %q", output)
	}
}

func TestComponentLogger_Prefix(t *testing.T) {
	var buf bytes.Buffer
	parent := newAppLogger(&buf)
	c := &ComponentLogger{parent: parent, name: "tracker"}

	c.Info("tick")

	if !strings.Contains(buf.String(), "tracker: tick") {
		t.Errorf("component prefix missing: %q", buf.String())
	}
}

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	largeContent := strings.Repeat("x", 1024*1024)
	if err := os.WriteFile(logFile, []byte(largeContent), 0600); err != nil {
		t.Fatal(err)
	}

	logger := newAppLogger(&bytes.Buffer{})
	logger.maxFileSize = 512 * 1024
	logger.maxBackups = 2

	logger.rotateIfNeeded(logFile)

	if info, err := os.Stat(logFile); err == nil && info.Size() > 0 {
		t.Error("Original log file should be removed after rotation")
	}

	matches, _ := filepath.Glob(filepath.Join(tempDir, "test.log.*"))
	if len(matches) == 0 {
		t.Error("Backup file should be created after rotation")
	}
}

func TestPruneBackups(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, "app.log."+string(rune('a'+i))+".gz")
		if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
		mtime := time.Now().Add(time.Duration(i) * time.Minute)
		os.Chtimes(path, mtime, mtime)
	}

	pruneBackups(dir, "app.log", 2)

	matches, _ := filepath.Glob(filepath.Join(dir, "app.log.*"))
	if len(matches) != 2 {
		t.Fatalf("pruneBackups kept %d files, want 2", len(matches))
	}
	for _, m := range matches {
		if strings.HasSuffix(m, ".a.gz") || strings.HasSuffix(m, ".b.gz") {
			t.Errorf("oldest backup %s should have been removed", m)
		}
	}
}

func TestEnableFileLogging(t *testing.T) {
	dir := t.TempDir()
	logger := newAppLogger(&bytes.Buffer{})

	if err := logger.EnableFileLogging(dir); err != nil {
		t.Fatalf("EnableFileLogging() error = %v", err)
	}
	logger.Info("written to file")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Error("log file should contain the message")
	}
}

func TestWrapError(t *testing.T) {
	wrapped := WrapError(ErrFetchFailed, "fetching Jeddah")

	if !errors.Is(wrapped, ErrFetchFailed) {
		t.Error("WrapError should keep the original error in the chain")
	}
	if !strings.Contains(wrapped.Error(), "fetching Jeddah") {
		t.Error("WrapError should include additional context")
	}
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "Ready"},
		{WrapError(ErrCityNotFound, "x"), "Could not find city."},
		{ErrMalformedResponse, "Unexpected response from server."},
		{ErrTimeout, "Connection timed out."},
		{fmt.Errorf("%w for Jeddah", ErrNoSchedule), "No prayer times available."},
		{errors.New("dial tcp: refused"), "Connection failed. Try again."},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := StatusText(tt.err); got != tt.want {
				t.Errorf("StatusText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{900 * time.Second, "00:15:00"},
		{3*time.Hour + 4*time.Minute + 5*time.Second + 900*time.Millisecond, "03:04:05"},
		{-5 * time.Second, "00:00:00"},
	}

	for _, tt := range tests {
		if got := FormatCountdown(tt.d); got != tt.want {
			t.Errorf("FormatCountdown(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestHasSoundExtension(t *testing.T) {
	tests := map[string]bool{
		"/music/athan.mp3": true,
		"/music/ATHAN.WAV": true,
		"/music/athan.ogg": false,
		"/music/athan":     false,
	}
	for path, want := range tests {
		if got := HasSoundExtension(path); got != want {
			t.Errorf("HasSoundExtension(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestLocation_String(t *testing.T) {
	if got := (Location{City: "Jeddah", Country: "Saudi Arabia"}).String(); got != "Jeddah, Saudi Arabia" {
		t.Errorf("Location.String() = %q", got)
	}
	if got := (Location{City: "Jeddah"}).String(); got != "Jeddah" {
		t.Errorf("Location.String() = %q", got)
	}
}

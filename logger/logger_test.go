package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// TestInitLogger ensures that the logger initializes properly.
func TestInitLogger(t *testing.T) {
	ResetLogger()
	defer ResetLogger()
	logPath := filepath.Join(t.TempDir(), "sheetdiff.log")
	SetLogPath(logPath)
	defer SetLogPath("")

	// Initialize logger
	InitLogger()

	if log == nil {
		t.Fatal("Expected logger to be initialized, but got nil")
	}

	log.Warn("Test log message")

	// Check if the log file exists after initialization
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatal("Log file was not created")
	}
}

// TestGetLogger ensures that GetLogger returns a non-nil instance without a log file.
func TestGetLogger(t *testing.T) {
	ResetLogger()
	defer ResetLogger()

	logger := GetLogger()
	if logger == nil {
		t.Fatal("Expected non-nil logger instance, but got nil")
	}
	if logger != GetLogger() {
		t.Fatal("Expected the same logger instance on every call")
	}
}

// TestLevel checks that the level filters what reaches the log file.
func TestLevel(t *testing.T) {
	ResetLogger()
	defer ResetLogger()
	logPath := filepath.Join(t.TempDir(), "sheetdiff.log")
	SetLogPath(logPath)
	defer SetLogPath("")

	InitLogger()
	log.Info("hidden at warn level")

	SetLevel(zap.InfoLevel)
	log.Info("visible at info level")
	Sync()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if bytes.Contains(data, []byte("hidden at warn level")) {
		t.Fatal("Info message written at warn level")
	}
	if !bytes.Contains(data, []byte("visible at info level")) {
		t.Fatal("Expected log message not found in log file")
	}
}

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "default config", config: nil},
		{
			name: "explicit config",
			config: &Config{
				Level:  LevelDebug,
				Output: &bytes.Buffer{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.config)
			if logger == nil {
				t.Fatal("New() returned nil")
			}
		})
	}
}

func TestLoggerLevelGate(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: LevelWarning, Output: &buf})

	logger.Debugf("debug %s", "msg")
	logger.Infof("info %s", "msg")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged below level, got: %s", buf.String())
	}

	logger.Warningf("warn %s", "msg")
	if !strings.Contains(buf.String(), "warn msg") {
		t.Errorf("expected warn msg in output, got: %s", buf.String())
	}

	buf.Reset()
	logger.Errorf("error %d", 5)
	if !strings.Contains(buf.String(), "error 5") {
		t.Errorf("expected error 5 in output, got: %s", buf.String())
	}
}

func TestLoggerAllLevelsPass(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: LevelDebug, Output: &buf})

	logger.Debugf("d")
	logger.Infof("i")
	logger.Noticef("n")
	logger.Warningf("w")
	logger.Errorf("e")
	logger.Fatalf("f")

	output := buf.String()
	for _, want := range []string{"[DEBUG] d", "[INFO] i", "[NOTICE] n", "[WARNING] w", "[ERROR] e", "[FATAL] f"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestGlobalConvenienceFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New(&Config{Level: LevelDebug, Output: &buf}))

	Debugf("debug %s", "message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Errorf("expected debug message, got: %s", buf.String())
	}

	buf.Reset()
	Infof("info message")
	if !strings.Contains(buf.String(), "info message") {
		t.Errorf("expected info message, got: %s", buf.String())
	}

	buf.Reset()
	Warningf("warning message")
	if !strings.Contains(buf.String(), "warning message") {
		t.Errorf("expected warning message, got: %s", buf.String())
	}

	buf.Reset()
	Errorf("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Errorf("expected error message, got: %s", buf.String())
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New(&Config{Level: LevelWarning, Output: &buf}))

	old := SetLevel(LevelDebug)
	if old != LevelWarning {
		t.Errorf("expected previous level LevelWarning, got %v", old)
	}

	Debugf("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("expected debug output after SetLevel, got: %s", buf.String())
	}
}

func TestTimestampFormat(t *testing.T) {
	ts := Timestamp()
	// "2006-01-02 15:04:05.000000" is exactly 26 characters.
	if len(ts) != 26 {
		t.Errorf("expected timestamp of length 26, got %q (%d)", ts, len(ts))
	}
	if ts[4] != '-' || ts[7] != '-' || ts[10] != ' ' || ts[13] != ':' || ts[16] != ':' || ts[19] != '.' {
		t.Errorf("timestamp %q does not match YYYY-MM-DD HH:MM:SS.uuuuuu", ts)
	}
}

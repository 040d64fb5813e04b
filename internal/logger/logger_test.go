package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestZapLoggerWritesObjectField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core))

	log.WarnObj("check failed", "check_error", map[string]any{"check_id": "c1"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "check failed" || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
	if _, ok := entries[0].ContextMap()["check_error"]; !ok {
		t.Fatalf("missing check_error field: %#v", entries[0].ContextMap())
	}
}

func TestSyncFlushesWrappedLogger(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	if err := New(zap.New(core)).Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	var unset *ZapLogger
	if err := unset.Sync(); err != nil {
		t.Fatalf("Sync on nil logger: %v", err)
	}
}

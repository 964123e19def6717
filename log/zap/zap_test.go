package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/tojson/transcode"
)

func TestZapLoggerLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := ZapLogger{L: zap.New(core)}

	l.Debug("d", nil)
	l.Info("i", transcode.Fields{"format": "cbor"})
	l.Warn("w", transcode.Fields{"err": errors.New("boom")})
	l.Error("e", transcode.Fields{"gen": uint64(3)})

	entries := logs.AllUntimed()
	if len(entries) != 4 {
		t.Fatalf("got %d entries", len(entries))
	}
	wantLevels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != wantLevels[i] {
			t.Fatalf("entry %d level=%v want %v", i, e.Level, wantLevels[i])
		}
	}
	if got := entries[1].ContextMap()["format"]; got != "cbor" {
		t.Fatalf("format field=%v", got)
	}
	if got := entries[2].ContextMap()["err"]; got != "boom" {
		t.Fatalf("err field=%v", got)
	}
	if got := entries[3].ContextMap()["gen"]; got != uint64(3) {
		t.Fatalf("gen field=%v (%T)", got, got)
	}
}

package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/unkn0wn-root/tojson/transcode"
)

func TestLogrusLoggerLevelsAndFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := LogrusLogger{E: logrus.NewEntry(base)}

	l.Debug("d", nil)
	l.Info("i", transcode.Fields{"format": "msgpack"})
	l.Warn("w", nil)
	l.Error("e", transcode.Fields{"key": "enc:tojson:text:1"})

	entries := hook.AllEntries()
	if len(entries) != 4 {
		t.Fatalf("got %d entries", len(entries))
	}
	wantLevels := []logrus.Level{logrus.DebugLevel, logrus.InfoLevel, logrus.WarnLevel, logrus.ErrorLevel}
	for i, e := range entries {
		if e.Level != wantLevels[i] {
			t.Fatalf("entry %d level=%v want %v", i, e.Level, wantLevels[i])
		}
	}
	if entries[1].Data["format"] != "msgpack" {
		t.Fatalf("format field=%v", entries[1].Data["format"])
	}
	if last := hook.LastEntry(); last.Message != "e" || last.Data["key"] != "enc:tojson:text:1" {
		t.Fatalf("last entry=%+v", last)
	}
}

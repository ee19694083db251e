package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewParsesLevel(t *testing.T) {
	cases := []struct {
		level string
		want  logrus.Level
	}{
		{"trace", logrus.TraceLevel},
		{"DEBUG", logrus.DebugLevel},
		{"warning", logrus.WarnLevel},
		{"fatal", logrus.FatalLevel},
		{"verbose", logrus.InfoLevel},
	}
	for _, tc := range cases {
		log := New("album-test", tc.level)
		if got := log.Logger.GetLevel(); got != tc.want {
			t.Fatalf("level %q: expected %v, got %v", tc.level, tc.want, got)
		}
		if log.Data["service"] != "album-test" {
			t.Fatalf("expected service field, got %+v", log.Data)
		}
	}
}

func TestNewDefaultsToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	if got := New("album-test", "").Logger.GetLevel(); got != logrus.InfoLevel {
		t.Fatalf("expected info, got %v", got)
	}
}

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecentCoreCapturesWarnings(t *testing.T) {
	base, observed := observer.New(zapcore.DebugLevel)
	recent := newRecentLog(10)
	log := zap.New(NewRecentCore(base, recent, zapcore.WarnLevel)).With(zap.String("view_id", "v-1"))

	log.Info("mounted")
	log.Warn("Report fetch failed", zap.String("kind", "server"))

	assert.Equal(t, 2, observed.Len())
	entries := recent.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Report fetch failed", entries[0].Message)
	assert.Equal(t, "warn", entries[0].Level)
	assert.Equal(t, "server", entries[0].Fields["kind"])
	assert.Equal(t, "v-1", entries[0].Fields["view_id"])
}

func TestRecentLogWrapsAround(t *testing.T) {
	recent := newRecentLog(3)
	for _, m := range []string{"a", "b", "c", "d", "e"} {
		recent.Add(Entry{Message: m})
	}

	var got []string
	for _, e := range recent.Entries() {
		got = append(got, e.Message)
	}
	assert.Equal(t, []string{"c", "d", "e"}, got)
}

package zap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/graphcache"
)

func TestLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Debug("d", nil)
	l.Info("i", graphcache.Fields{"cache": "graphs"})
	l.Warn("w", graphcache.Fields{"err": errors.New("boom"), "key": "k"})
	l.Error("e", nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "graphs", entries[1].ContextMap()["cache"])
	assert.Equal(t, "boom", entries[2].ContextMap()["err"])
	assert.Equal(t, "k", entries[2].ContextMap()["key"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestNilLogger(t *testing.T) {
	assert.NotPanics(t, func() { New(nil).Info("x", graphcache.Fields{"a": 1}) })
}

package slog

import (
	"bytes"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unkn0wn-root/graphcache"
)

func TestLogsSortedAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{
		Level: stdslog.LevelInfo,
		ReplaceAttr: func(_ []string, a stdslog.Attr) stdslog.Attr {
			if a.Key == stdslog.TimeKey {
				return stdslog.Attr{}
			}
			return a
		},
	})
	l := New(stdslog.New(h))

	l.Debug("hidden", nil)
	l.Info("put", graphcache.Fields{"key": "k", "cache": "c"})

	out := strings.TrimSpace(buf.String())
	assert.Equal(t, `level=INFO msg=put cache=c key=k`, out)
}

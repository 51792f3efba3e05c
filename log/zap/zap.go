// Package zap adapts a *zap.Logger to graphcache.Logger.
package zap

import (
	"maps"
	"slices"

	"github.com/unkn0wn-root/graphcache"
	"go.uber.org/zap"
)

var _ graphcache.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// New wraps l; a nil l logs nothing.
func New(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return Logger{L: l}
}

func (z Logger) Debug(msg string, f graphcache.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f graphcache.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f graphcache.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f graphcache.Fields) { z.L.Error(msg, fields(f)...) }

// fields emits keys in sorted order; error values become zap.NamedError.
func fields(f graphcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for _, k := range slices.Sorted(maps.Keys(f)) {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}

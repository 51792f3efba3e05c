// Package logrus adapts a logrus entry to graphcache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/graphcache"
)

var _ graphcache.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New wraps l with a "component" field.
func New(l *logrus.Logger, component string) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return Logger{E: l.WithField("component", component)}
}

func (l Logger) Debug(msg string, f graphcache.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f graphcache.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f graphcache.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f graphcache.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f graphcache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	return l.E.WithFields(logrus.Fields(f))
}

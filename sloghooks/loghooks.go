// Package sloghooks logs graphcache hook events to a *slog.Logger.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/graphcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	ConflictEvery uint64
	DecodeEvery   uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	conflictCtr atomic.Uint64
	decodeCtr   atomic.Uint64
}

var _ graphcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SafePutConflict(cache, key string) {
	if h.l == nil || !sample(h.opts.ConflictEvery, &h.conflictCtr) {
		return
	}
	h.l.Debug("graphcache.safe_put_conflict",
		"cache", cache,
		"key", h.redact(key))
}

func (h *Hooks) PutRejected(cache, key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("graphcache.put_rejected",
		"cache", cache,
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) DecodeFailed(cache, key string, err error) {
	if h.l == nil || !sample(h.opts.DecodeEvery, &h.decodeCtr) {
		return
	}
	h.l.Warn("graphcache.decode_failed",
		"cache", cache,
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) BackendError(op, cache string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("graphcache.backend_error",
		"op", op,
		"cache", cache,
		"err", err)
}

func (h *Hooks) Unavailable(op string) {
	if h.l == nil {
		return
	}
	h.l.Warn("graphcache.unavailable", "op", op)
}

package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRedactsKeys(t *testing.T) {
	var buf bytes.Buffer
	h := New(newLogger(&buf), Options{})

	h.PutRejected("graphs", "secret-graph", errors.New("too big"))

	out := buf.String()
	if strings.Contains(out, "secret-graph") {
		t.Fatalf("key leaked: %s", out)
	}
	if !strings.Contains(out, "graphcache.put_rejected") || !strings.Contains(out, "cache=graphs") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestCustomRedact(t *testing.T) {
	var buf bytes.Buffer
	h := New(newLogger(&buf), Options{Redact: func(k string) string { return "x-" + k }})

	h.SafePutConflict("graphs", "g1")

	if !strings.Contains(buf.String(), "key=x-g1") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestSampling(t *testing.T) {
	var buf bytes.Buffer
	h := New(newLogger(&buf), Options{ConflictEvery: 3})

	for i := 0; i < 9; i++ {
		h.SafePutConflict("c", "k")
	}
	if n := strings.Count(buf.String(), "graphcache.safe_put_conflict"); n != 3 {
		t.Fatalf("logged %d conflicts, want 3", n)
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	h := New(nil, Options{})
	h.SafePutConflict("c", "k")
	h.PutRejected("c", "k", nil)
	h.DecodeFailed("c", "k", nil)
	h.BackendError("get", "c", nil)
	h.Unavailable("get")
}

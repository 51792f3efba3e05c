package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/unkn0wn-root/graphcache/backend"
	"github.com/unkn0wn-root/graphcache/backend/backendtest"
)

func TestContract(t *testing.T) {
	backendtest.Run(t, func(t *testing.T) backend.Backend { return New() })
}

func TestMaxEntriesRejectsNewKeysOnly(t *testing.T) {
	ctx := context.Background()
	m := New()
	if err := m.Initialise(ctx, map[string]string{PropMaxEntries: "1"}); err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	if err := m.Put(ctx, "c", "a", []byte("1")); err != nil {
		t.Fatalf("Put a: %v", err)
	}
	if err := m.Put(ctx, "c", "b", []byte("2")); !errors.Is(err, backend.ErrRejected) {
		t.Fatalf("Put b: want ErrRejected, got %v", err)
	}
	// overwrite of an existing key is still allowed
	if err := m.Put(ctx, "c", "a", []byte("3")); err != nil {
		t.Fatalf("overwrite a: %v", err)
	}
	// the cap is per cache
	if err := m.Put(ctx, "other", "b", []byte("2")); err != nil {
		t.Fatalf("Put other/b: %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := New()
	in := []byte("abc")
	_ = m.Put(ctx, "c", "k", in)
	in[0] = 'X'

	got, _, _ := m.Get(ctx, "c", "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller slice: %q", got)
	}
	got[0] = 'Y'
	again, _, _ := m.Get(ctx, "c", "k")
	if string(again) != "abc" {
		t.Fatalf("returned value aliased stored slice: %q", again)
	}
}

func TestInitialiseRejectsBadConfig(t *testing.T) {
	if err := New().Initialise(context.Background(), map[string]string{PropMaxEntries: "lots"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRegistered(t *testing.T) {
	f, err := backend.Lookup(Name)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if _, ok := f().(*Memory); !ok {
		t.Fatalf("factory returned %T", f())
	}
}

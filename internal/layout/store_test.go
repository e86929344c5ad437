package layout

import (
	"context"
	"errors"
	"testing"
	"time"

	"lunarbase-server/internal/facility"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok, err := store.Get(ctx, 1); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	s := NewSession(1)
	s.Replace([]facility.Object{{ID: 1, TypeKey: "lab", X: 1}})
	if err := store.Put(ctx, s); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's session must not leak into the store.
	s.Objects[0].TypeKey = "power"

	got, ok, err := store.Get(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Objects[0].TypeKey != "lab" {
		t.Errorf("stored session was aliased")
	}

	if err := store.Delete(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(ctx, 1); ok {
		t.Errorf("expected miss after delete")
	}
}

func TestRedisSessionStoreBreakerOpens(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := NewRedisSessionStore(client, time.Minute, BreakerSettings{MaxFailures: 2, Timeout: time.Minute})
	ctx := context.Background()

	for range 2 {
		if err := store.Put(ctx, NewSession(1)); err == nil {
			t.Fatal("expected failure against unreachable redis")
		}
	}
	if store.State() != gobreaker.StateOpen.String() {
		t.Fatalf("expected open breaker, got %s", store.State())
	}

	_, _, err := store.Get(ctx, 1)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected fast failure from open breaker, got %v", err)
	}
}

func TestSessionKey(t *testing.T) {
	if got := sessionKey(42); got != "lunarbase:session:42" {
		t.Errorf("unexpected key %q", got)
	}
}

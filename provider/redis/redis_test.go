package redis

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T, prefix string) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	p, err := New(Config{
		Client:      goredis.NewClient(&goredis.Options{Addr: mr.Addr()}),
		Prefix:      prefix,
		CloseClient: true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p, mr
}

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNilClient) {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}

func TestRedisSetGetDel(t *testing.T) {
	ctx := context.Background()
	p, mr := newTestRedis(t, "app:")

	if _, ok, err := p.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("miss expected, ok=%v err=%v", ok, err)
	}
	val := []byte{0, 'T', 'J', 0xff}
	if ok, err := p.Set(ctx, "k", val, 1, time.Minute); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	got, ok, err := p.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(got, val) {
		t.Fatalf("Get: ok=%v err=%v got=%x", ok, err, got)
	}
	if !mr.Exists("app:k") {
		t.Fatalf("prefix not applied")
	}
	if ttl := mr.TTL("app:k"); ttl != time.Minute {
		t.Fatalf("ttl: got %v", ttl)
	}

	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after Del")
	}
}

func TestRedisTTLExpiry(t *testing.T) {
	ctx := context.Background()
	p, mr := newTestRedis(t, "")

	if _, err := p.Set(ctx, "k", []byte("v"), 1, time.Second); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Second)
	if _, ok, err := p.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected expiry, ok=%v err=%v", ok, err)
	}

	if _, err := p.Set(ctx, "forever", []byte("v"), 1, -1); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL("forever"); ttl != 0 {
		t.Fatalf("negative ttl should mean no expiry, got %v", ttl)
	}
}

func TestRedisSurfacesServerErrors(t *testing.T) {
	ctx := context.Background()
	p, mr := newTestRedis(t, "")
	mr.SetError("boom")
	if _, _, err := p.Get(ctx, "k"); err == nil {
		t.Fatalf("expected server error")
	}
	if ok, err := p.Set(ctx, "k", []byte("v"), 1, 0); err == nil || ok {
		t.Fatalf("expected Set error, ok=%v err=%v", ok, err)
	}
}

func TestRedisCloseIdempotent(t *testing.T) {
	p, _ := newTestRedis(t, "")
	if err := p.Close(context.Background()); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := p.Close(context.Background()); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

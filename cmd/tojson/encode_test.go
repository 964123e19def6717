package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/unkn0wn-root/tojson/provider/bigcache"
	"github.com/unkn0wn-root/tojson/provider/redis"
	"github.com/unkn0wn-root/tojson/provider/ristretto"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func TestApply_FlagsOverrideConfig(t *testing.T) {
	cfg := defaultConfig()
	f := &cacheFlags{
		from:       strp("cbor"),
		cache:      strp("redis"),
		redisAddr:  strp("10.0.0.1:6379"),
		maxPayload: intp(512),
		logLevel:   strp(""),
		logFormat:  strp("console"),
	}
	f.apply(&cfg)

	if cfg.From != "cbor" || cfg.Cache.Backend != "redis" || cfg.Cache.Redis.Addr != "10.0.0.1:6379" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.MaxPayload != 512 {
		t.Fatalf("max payload=%d", cfg.MaxPayload)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Fatalf("log=%+v", cfg.Log)
	}
}

func TestNewProvider_Backends(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cases := []struct {
		name    string
		backend string
		check   func(t *testing.T, p any)
		shared  bool
	}{
		{"ristretto", "ristretto", func(t *testing.T, p any) {
			if _, ok := p.(*ristretto.Provider); !ok {
				t.Fatalf("got %T", p)
			}
		}, false},
		{"bigcache", "bigcache", func(t *testing.T, p any) {
			if _, ok := p.(*bigcache.Provider); !ok {
				t.Fatalf("got %T", p)
			}
		}, false},
		{"redis", "redis", func(t *testing.T, p any) {
			if _, ok := p.(*redis.Redis); !ok {
				t.Fatalf("got %T", p)
			}
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cc := defaultConfig().Cache
			cc.Backend = tc.backend
			cc.TTL = time.Minute
			cc.Redis.Addr = mr.Addr()
			p, gs, err := newProvider(cc)
			if err != nil {
				t.Fatalf("newProvider: %v", err)
			}
			tc.check(t, p)
			if (gs != nil) != tc.shared {
				t.Fatalf("gen store=%v; want shared=%v", gs, tc.shared)
			}
			if gs != nil {
				if _, err := gs.Bump(ctx, "text"); err != nil {
					t.Fatalf("bump: %v", err)
				}
				if !mr.Exists("gen:tojson:text") {
					t.Fatal("generation not stored in redis")
				}
				_ = gs.Close(ctx)
			}

			if _, err := p.Set(ctx, "k", []byte("v"), 1, time.Minute); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := p.Close(ctx); err != nil {
				t.Fatalf("close: %v", err)
			}
		})
	}
}

func TestNewProvider_None(t *testing.T) {
	for _, backend := range []string{"", "none"} {
		cc := defaultConfig().Cache
		cc.Backend = backend
		p, gs, err := newProvider(cc)
		if err != nil || p != nil || gs != nil {
			t.Fatalf("backend %q: p=%v gs=%v err=%v", backend, p, gs, err)
		}
	}
}

func TestCheckFlushable(t *testing.T) {
	for _, backend := range []string{"", "none", "ristretto", "bigcache"} {
		cfg := defaultConfig()
		cfg.Cache.Backend = backend
		if err := checkFlushable(cfg); err == nil {
			t.Fatalf("backend %q: expected flush to be rejected", backend)
		}
	}
	cfg := defaultConfig()
	cfg.Cache.Backend = "redis"
	if err := checkFlushable(cfg); err != nil {
		t.Fatalf("redis: %v", err)
	}
}

func TestFlushCommandBumpsRedisGeneration(t *testing.T) {
	mr := miniredis.RunT(t)
	f := &cacheFlags{
		configFile: strp(""),
		from:       strp("cbor"),
		cache:      strp("redis"),
		redisAddr:  strp(mr.Addr()),
		maxPayload: intp(0),
		logLevel:   strp("error"),
		logFormat:  strp("json"),
	}
	if err := (&flushCommand{flags: f}).run(nil); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if v, err := mr.Get("gen:tojson:cbor"); err != nil || v != "1" {
		t.Fatalf("generation=%q err=%v; want 1", v, err)
	}

	*f.cache = "ristretto"
	if err := (&flushCommand{flags: f}).run(nil); err == nil {
		t.Fatal("expected flush with an in-process backend to fail")
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger(LogConfig{Level: "debug", Format: "console"}); err != nil {
		t.Fatalf("console: %v", err)
	}
	if _, err := newLogger(LogConfig{Level: "warn", Format: "json"}); err != nil {
		t.Fatalf("json: %v", err)
	}
	if _, err := newLogger(LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestReadInput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("hi"), 0o600); err != nil {
		t.Fatal(err)
	}
	b, err := readInput(path)
	if err != nil || string(b) != "hi" {
		t.Fatalf("readInput=%q err=%v", b, err)
	}
	if _, err := readInput(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// Package sloghook logs transcode.Hooks events with log/slog.
package sloghook

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/tojson/transcode"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	CacheHitEvery uint64
	SelfHealEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr      atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ transcode.Hooks = (*Hooks)(nil)

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

func (h *Hooks) CacheHit(storageKey string) {
	if h.l == nil || !sample(h.opts.CacheHitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("tojson.cache_hit", "key", h.redact(storageKey))
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Info("tojson.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("tojson.provider_set_rejected", "key", h.redact(storageKey))
}

func (h *Hooks) ProviderError(op string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("tojson.provider_error",
		"op", op,
		"err", err)
}

func (h *Hooks) EncodeRejected(format string, err error) {
	if h.l == nil {
		return
	}
	h.l.Info("tojson.encode_rejected",
		"format", format,
		"err", err)
}

package transcode

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/unkn0wn-root/tojson"
	"github.com/unkn0wn-root/tojson/codec"
	gen "github.com/unkn0wn-root/tojson/genstore"
	"github.com/unkn0wn-root/tojson/internal/util"
	"github.com/unkn0wn-root/tojson/internal/wire"
	pr "github.com/unkn0wn-root/tojson/provider"
)

const defaultTTL = 10 * time.Minute

type transcoder struct {
	ns             string
	provider       pr.Provider
	gen            gen.GenStore
	decoders       map[string]codec.Decoder
	log            Logger
	hooks          Hooks
	enabled        bool
	ttl            time.Duration
	computeSetCost SetCostFunc
}

func newTranscoder(opts Options) (*transcoder, error) {
	decoders := opts.Decoders
	if decoders == nil {
		decoders = codec.Defaults()
	}
	if len(decoders) == 0 {
		return nil, fmt.Errorf("transcode: at least one decoder is required")
	}

	t := &transcoder{
		ns:       coalesce(opts.Namespace, "tojson"),
		provider: opts.Provider,
		decoders: make(map[string]codec.Decoder, len(decoders)),
		enabled:  opts.Provider != nil && !opts.Disabled,
	}
	for name, d := range decoders {
		if name == "" || d == nil {
			return nil, fmt.Errorf("transcode: invalid decoder registration %q", name)
		}
		if opts.MaxPayload > 0 {
			d = codec.Limit{Inner: d, MaxDecode: opts.MaxPayload}
		}
		t.decoders[name] = d
	}

	t.log = coalesce[Logger](opts.Logger, NopLogger{})
	t.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	t.ttl = coalesce(opts.TTL, defaultTTL)

	if opts.GenStore != nil {
		t.gen = opts.GenStore
	} else {
		// one counter per format; nothing to sweep
		t.gen = gen.NewLocalGenStore(0, 0)
	}

	if opts.ComputeSetCost != nil {
		t.computeSetCost = opts.ComputeSetCost
	} else {
		t.computeSetCost = func(_ string, entry []byte) int64 { return int64(len(entry)) }
	}
	return t, nil
}

func (t *transcoder) Enabled() bool { return t.enabled }

func (t *transcoder) Close(ctx context.Context) error {
	_ = t.gen.Close(ctx)
	if t.provider != nil {
		return t.provider.Close(ctx)
	}
	return nil
}

func (t *transcoder) Formats() []string {
	out := make([]string, 0, len(t.decoders))
	for name := range t.decoders {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (t *transcoder) Transcode(ctx context.Context, format string, payload []byte) (string, error) {
	dec, ok := t.decoders[format]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	var (
		key      string
		observed uint64
		cached   bool
	)
	if t.enabled {
		key = t.key(format, payload)
		observed, cached = t.snapshotGen(ctx, format)
	}
	if cached {
		if s, ok := t.lookup(ctx, key, format, observed); ok {
			return s, nil
		}
	}

	v, err := dec.Decode(payload)
	if err != nil {
		if isEncodeError(err) {
			t.hooks.EncodeRejected(format, err)
			return "", err
		}
		return "", &DecodeError{Format: format, Err: err}
	}
	s, err := tojson.Encode(v)
	if err != nil {
		t.hooks.EncodeRejected(format, err)
		return "", err
	}

	if cached {
		t.store(ctx, key, format, observed, s)
	}
	return s, nil
}

func (t *transcoder) Forget(ctx context.Context, format string, payload []byte) error {
	if !t.enabled {
		return nil
	}
	if _, ok := t.decoders[format]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	key := t.key(format, payload)
	if err := t.provider.Del(ctx, key); err != nil {
		t.hooks.ProviderError("del", err)
		return err
	}
	t.log.Debug("forgot cached encoding", Fields{"key": key})
	return nil
}

// Flush retires every cached encoding of format by bumping its generation.
func (t *transcoder) Flush(ctx context.Context, format string) error {
	if _, ok := t.decoders[format]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	g, err := t.gen.Bump(ctx, format)
	if err != nil {
		t.log.Error("gen bump failed", Fields{"format": format, "err": err})
		return err
	}
	t.log.Info("flushed cached encodings", Fields{"format": format, "gen": g})
	return nil
}

// snapshotGen reports false when the generation is unknown; the call then
// bypasses the cache rather than risk serving a retired entry.
func (t *transcoder) snapshotGen(ctx context.Context, format string) (uint64, bool) {
	g, err := t.gen.Snapshot(ctx, format)
	if err != nil {
		t.log.Warn("gen snapshot failed", Fields{"format": format, "err": err})
		return 0, false
	}
	return g, true
}

func (t *transcoder) lookup(ctx context.Context, key, format string, observed uint64) (string, bool) {
	raw, ok, err := t.provider.Get(ctx, key)
	if err != nil {
		// degrade to a miss; the caller still gets an answer
		t.hooks.ProviderError("get", err)
		t.log.Warn("cache get failed", Fields{"key": key, "err": err})
		return "", false
	}
	if !ok {
		return "", false
	}
	g, f, text, err := wire.DecodeEntry(raw)
	if err != nil {
		t.selfHeal(ctx, key, "corrupt")
		return "", false
	}
	if f != format {
		t.selfHeal(ctx, key, "format_mismatch")
		return "", false
	}
	if g != observed {
		t.selfHeal(ctx, key, "gen_mismatch")
		return "", false
	}
	t.hooks.CacheHit(key)
	return string(text), true
}

func (t *transcoder) store(ctx context.Context, key, format string, observed uint64, s string) {
	entry, err := wire.EncodeEntry(observed, format, []byte(s))
	if err != nil {
		t.log.Error("cache entry framing failed", Fields{"key": key, "err": err})
		return
	}
	ok, err := t.provider.Set(ctx, key, entry, t.computeSetCost(key, entry), t.ttl)
	if err != nil {
		t.hooks.ProviderError("set", err)
		t.log.Warn("cache set failed", Fields{"key": key, "err": err})
		return
	}
	if !ok {
		t.hooks.ProviderSetRejected(key)
		t.log.Debug("cache set rejected by provider (pressure)", Fields{"key": key})
	}
}

func (t *transcoder) selfHeal(ctx context.Context, key, reason string) {
	_ = t.provider.Del(ctx, key)
	t.hooks.SelfHeal(key, reason)
	t.log.Debug("dropped cached encoding", Fields{"key": key, "reason": reason})
}

func (t *transcoder) key(format string, payload []byte) string {
	return util.ContentKey(t.ns, format, payload)
}

// Decoders report unsupported shapes with tojson's own errors; those are
// passed through unwrapped so callers see the same errors as tojson.Marshal.
func isEncodeError(err error) bool {
	return errors.Is(err, tojson.ErrUnsupportedType) ||
		errors.Is(err, tojson.ErrUnsupportedKeyType) ||
		errors.Is(err, tojson.ErrCycle)
}

package transcode

import (
	"context"
	"time"

	"github.com/unkn0wn-root/tojson/codec"
	gen "github.com/unkn0wn-root/tojson/genstore"
	pr "github.com/unkn0wn-root/tojson/provider"
)

// SetCostFunc computes the admission cost of a framed cache entry.
type SetCostFunc func(key string, entry []byte) int64

// Transcoder decodes binary payloads and returns their JSON encoding, caching
// results by payload content.
type Transcoder interface {
	Enabled() bool
	Close(context.Context) error

	// Transcode decodes payload with the decoder registered for format and
	// returns the JSON text of the result.
	Transcode(ctx context.Context, format string, payload []byte) (string, error)

	// Forget drops the cached encoding of payload, if any.
	Forget(ctx context.Context, format string, payload []byte) error

	// Flush retires every cached encoding of format. Entries written before
	// the flush are dropped the next time they are read.
	Flush(ctx context.Context, format string) error

	// Formats lists registered formats in sorted order.
	Formats() []string
}

// Options tune the transcoder. All fields are optional.
type Options struct {
	Namespace      string                   // cache key namespace; "" => "tojson"
	Provider       pr.Provider              // nil => no caching
	GenStore       gen.GenStore             // nil => in-process generations
	Decoders       map[string]codec.Decoder // nil => codec.Defaults()
	MaxPayload     int                      // bytes; 0 => unlimited
	TTL            time.Duration            // 0 => 10m
	ComputeSetCost SetCostFunc              // default len(entry)
	Logger         Logger                   // if nil, NopLogger is used
	Hooks          Hooks                    // if nil, NopHooks is used
	Disabled       bool                     // bypass the cache; decoding still works
}

func New(opts Options) (Transcoder, error) {
	return newTranscoder(opts)
}

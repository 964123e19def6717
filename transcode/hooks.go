package transcode

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; they run on the request path.
type Hooks interface {
	// An encoding was served from the provider.
	CacheHit(storageKey string)

	// A cached entry was deleted on read.
	// reason ∈ {"corrupt", "format_mismatch", "gen_mismatch"}
	SelfHeal(storageKey, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)

	// Provider Get/Set/Del failed; the request continued without the cache.
	// op ∈ {"get", "set", "del"}
	ProviderError(op string, err error)

	// The decoded value could not be encoded (unsupported type or key).
	EncodeRejected(format string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CacheHit(string)              {}
func (NopHooks) SelfHeal(string, string)      {}
func (NopHooks) ProviderSetRejected(string)   {}
func (NopHooks) ProviderError(string, error)  {}
func (NopHooks) EncodeRejected(string, error) {}

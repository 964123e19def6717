package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	gen "github.com/unkn0wn-root/tojson/genstore"
	zaplog "github.com/unkn0wn-root/tojson/log/zap"
	pr "github.com/unkn0wn-root/tojson/provider"
	"github.com/unkn0wn-root/tojson/provider/bigcache"
	"github.com/unkn0wn-root/tojson/provider/redis"
	"github.com/unkn0wn-root/tojson/provider/ristretto"
	"github.com/unkn0wn-root/tojson/transcode"
)

// cacheFlags are shared by every command that builds a transcoder.
type cacheFlags struct {
	configFile *string
	from       *string
	cache      *string
	redisAddr  *string
	maxPayload *int
	logLevel   *string
	logFormat  *string
}

func registerCacheFlags(c *kingpin.CmdClause) *cacheFlags {
	f := &cacheFlags{}
	f.configFile = c.Flag("config.file", "YAML configuration file.").Envar("TOJSON_CONFIG_FILE").String()
	f.from = c.Flag("from", "Input format: msgpack, cbor, protobuf or text.").Envar("TOJSON_FROM").String()
	f.cache = c.Flag("cache", "Cache backend: none, ristretto, bigcache or redis.").Envar("TOJSON_CACHE").String()
	f.redisAddr = c.Flag("redis.addr", "Redis address for the redis cache backend.").Envar("TOJSON_REDIS_ADDR").String()
	f.maxPayload = c.Flag("max-payload", "Reject inputs larger than this many bytes (0 = unlimited).").Int()
	f.logLevel = c.Flag("log.level", "Log level: debug, info, warn or error.").String()
	f.logFormat = c.Flag("log.format", "Log format: json or console.").String()
	return f
}

// apply overrides cfg with flags given on the command line.
func (f *cacheFlags) apply(cfg *Config) {
	if *f.from != "" {
		cfg.From = *f.from
	}
	if *f.cache != "" {
		cfg.Cache.Backend = *f.cache
	}
	if *f.redisAddr != "" {
		cfg.Cache.Redis.Addr = *f.redisAddr
	}
	if *f.maxPayload > 0 {
		cfg.MaxPayload = *f.maxPayload
	}
	if *f.logLevel != "" {
		cfg.Log.Level = *f.logLevel
	}
	if *f.logFormat != "" {
		cfg.Log.Format = *f.logFormat
	}
}

// setup loads the configuration and builds the logger and transcoder.
// The caller owns both and must Close the transcoder and Sync the logger.
func (f *cacheFlags) setup() (Config, *zap.Logger, transcode.Transcoder, error) {
	cfg, err := loadConfig(*f.configFile)
	if err != nil {
		return cfg, nil, nil, err
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, nil, nil, err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return cfg, nil, nil, err
	}

	provider, gens, err := newProvider(cfg.Cache)
	if err != nil {
		logger.Error("cache setup failed", zap.String("backend", cfg.Cache.Backend), zap.Error(err))
		_ = logger.Sync()
		return cfg, nil, nil, err
	}

	tc, err := transcode.New(transcode.Options{
		Namespace:  cfg.Cache.Namespace,
		Provider:   provider,
		GenStore:   gens,
		MaxPayload: cfg.MaxPayload,
		TTL:        cfg.Cache.TTL,
		Logger:     zaplog.ZapLogger{L: logger},
	})
	if err != nil {
		_ = logger.Sync()
		return cfg, nil, nil, err
	}
	return cfg, logger, tc, nil
}

// encodeCommand decodes one payload and prints its JSON encoding.
type encodeCommand struct {
	flags *cacheFlags
	file  *string
}

func addEncodeCommand(app *kingpin.Application) {
	cmd := &encodeCommand{}
	c := app.Command("encode", "Decode a payload and print its JSON encoding.").Action(cmd.run)
	cmd.flags = registerCacheFlags(c)
	cmd.file = c.Arg("file", "Input file; stdin when omitted or '-'.").String()
}

func (cmd *encodeCommand) run(_ *kingpin.ParseContext) error {
	cfg, logger, tc, err := cmd.flags.setup()
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer func() {
		_ = tc.Close(ctx)
		_ = logger.Sync()
	}()

	payload, err := readInput(*cmd.file)
	if err != nil {
		logger.Error("read input failed", zap.String("file", *cmd.file), zap.Error(err))
		return err
	}

	start := time.Now()
	s, err := tc.Transcode(ctx, cfg.From, payload)
	if err != nil {
		logger.Error("encode failed", zap.String("format", cfg.From), zap.Int("bytes", len(payload)), zap.Error(err))
		return err
	}
	logger.Debug("encoded",
		zap.String("format", cfg.From),
		zap.Int("in_bytes", len(payload)),
		zap.Int("out_bytes", len(s)),
		zap.Bool("cache", tc.Enabled()),
		zap.Duration("took", time.Since(start)))

	_, err = fmt.Fprintln(os.Stdout, s)
	return err
}

// flushCommand retires every cached encoding of one format.
type flushCommand struct {
	flags *cacheFlags
}

func addFlushCommand(app *kingpin.Application) {
	cmd := &flushCommand{}
	c := app.Command("flush", "Retire cached encodings of the --from format. Requires --cache=redis.").Action(cmd.run)
	cmd.flags = registerCacheFlags(c)
}

// checkFlushable rejects backends whose generations live only in this
// process; a bump there is lost on exit.
func checkFlushable(cfg Config) error {
	if cfg.Cache.Backend != "redis" {
		return fmt.Errorf("flush: cache backend %q keeps generations in-process; use redis", cfg.Cache.Backend)
	}
	return nil
}

func (cmd *flushCommand) run(_ *kingpin.ParseContext) error {
	cfg, logger, tc, err := cmd.flags.setup()
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer func() {
		_ = tc.Close(ctx)
		_ = logger.Sync()
	}()

	if err := checkFlushable(cfg); err != nil {
		logger.Error("flush rejected", zap.String("backend", cfg.Cache.Backend), zap.Error(err))
		return err
	}
	if err := tc.Flush(ctx, cfg.From); err != nil {
		logger.Error("flush failed", zap.String("format", cfg.From), zap.Error(err))
		return err
	}
	return nil
}

func newLogger(lc LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if lc.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// newProvider returns a nil provider when caching is off. A nil GenStore
// means the transcoder keeps generations in-process.
func newProvider(cc CacheConfig) (pr.Provider, gen.GenStore, error) {
	switch cc.Backend {
	case "ristretto":
		rc := ristretto.DefaultConfig(cc.Ristretto.MaxBytes)
		rc.Metrics = cc.Ristretto.Metrics
		p, err := ristretto.New(rc)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case "bigcache":
		p, err := bigcache.New(bigcache.Config{
			LifeWindow:         cc.TTL,
			Shards:             cc.BigCache.Shards,
			HardMaxCacheSizeMB: cc.BigCache.HardMaxCacheSizeMB,
		})
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cc.Redis.Addr,
			DB:       cc.Redis.DB,
			Password: cc.Redis.Password,
		})
		// the provider owns the client; the gen store only borrows it
		p, err := redis.New(redis.Config{Client: client, Prefix: cc.Redis.Prefix, CloseClient: true})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		gs, err := gen.NewRedisGenStore(gen.RedisConfig{Client: client, Namespace: cc.Namespace})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return p, gs, nil
	}
	return nil, nil, nil
}

func readInput(file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(file)
}

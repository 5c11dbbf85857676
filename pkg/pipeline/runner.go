package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pgpdump/pkg/cache"
	"github.com/matzehuels/pgpdump/pkg/dump"
	"github.com/matzehuels/pgpdump/pkg/errors"
	"github.com/matzehuels/pgpdump/pkg/observability"
	"github.com/matzehuels/pgpdump/pkg/stream"
)

// cacheKeyType is the key type reported to cache hooks.
const cacheKeyType = "dump"

// Runner executes dumps with optional output caching.
//
// The Runner holds no per-run state, so one Runner can serve concurrent
// calls with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching; a nil keyer
// selects [cache.DefaultKeyer].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute dumps data once and renders every format in opts.Formats. When all
// formats are cached (and opts.Refresh is false) the dump is skipped.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	start := time.Now()
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{InputHash: cache.Hash(data)}

	if !opts.Refresh {
		if outs, ok := r.cached(ctx, result.InputHash, opts); ok {
			result.Outputs = outs
			result.CacheHit = true
			result.Duration = time.Since(start)
			r.Logger.Debug("dump served from cache", "hash", result.InputHash[:12], "formats", opts.Formats)
			return result, nil
		}
	}

	c, err := dump.NewContext(ctx, opts.Dump)
	if err != nil {
		return nil, err
	}
	outs := newOutputs(opts.Formats)
	if err := c.Run(stream.FromBytes(data), outs.backend); err != nil {
		return nil, err
	}
	result.Stats = c.Stats()
	if result.Outputs, err = outs.encode(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render output")
	}

	for format, out := range result.Outputs {
		key := r.Keyer.DumpKey(result.InputHash, opts.DumpKeyOpts(format))
		if err := r.Cache.Set(ctx, key, out, cache.TTLDump); err != nil {
			r.Logger.Warn("failed to cache dump", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(out))
	}

	result.Duration = time.Since(start)
	r.logStats(result.Stats, result.Duration)
	return result, nil
}

// cached returns the outputs of every requested format, or false if any is
// missing.
func (r *Runner) cached(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	outs := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.DumpKey(hash, opts.DumpKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		if !hit {
			observability.Cache().OnCacheMiss(ctx, cacheKeyType)
			return nil, false
		}
		outs[format] = data
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return outs, true
}

// Stream dumps in to w in the single format of opts without buffering the
// input or touching the cache.
func (r *Runner) Stream(ctx context.Context, in io.Reader, w io.Writer, opts Options) (dump.Stats, error) {
	start := time.Now()
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return dump.Stats{}, err
	}
	if len(opts.Formats) != 1 {
		return dump.Stats{}, errors.New(errors.ErrCodeInvalidInput, "streaming needs exactly one format, got %d", len(opts.Formats))
	}

	c, err := dump.NewContext(ctx, opts.Dump)
	if err != nil {
		return dump.Stats{}, err
	}
	backend, finish := streamBackend(opts.Formats[0], w)
	if err := c.Run(stream.New(in), backend); err != nil {
		return c.Stats(), err
	}
	if err := finish(); err != nil {
		return c.Stats(), errors.Wrap(errors.ErrCodeInternal, err, "render output")
	}
	r.logStats(c.Stats(), time.Since(start))
	return c.Stats(), nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logStats(s dump.Stats, d time.Duration) {
	r.Logger.Debug("dumped packets",
		"packets", s.Packets,
		"failures", s.Failures,
		"stream_packets", s.StreamPackets,
		"duration", d.Round(time.Millisecond))
	if s.Stopped != "" {
		r.Logger.Warn("dump stopped early", "bound", s.Stopped)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

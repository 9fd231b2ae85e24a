package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// DefaultCacheSize is the number of parsed programs retained by the shared
// parse cache.
const DefaultCacheSize = 512

// cacheKey identifies a parse by source content and the options that can
// change its outcome.
type cacheKey struct {
	hash     xxh3.Uint128
	maxDepth int
}

var (
	cacheOnce   sync.Once
	globalCache *lru.Cache[cacheKey, Program]
)

// programCache returns the lazily-initialized, process-scoped parse cache.
func programCache() *lru.Cache[cacheKey, Program] {
	cacheOnce.Do(func() {
		c, err := lru.New[cacheKey, Program](DefaultCacheSize)
		if err != nil {
			// Only returned for a non-positive size.
			panic(err)
		}

		globalCache = c
	})

	return globalCache
}

// ReadSource reads all of r using asynchronous read-ahead so that I/O on
// large inputs overlaps with buffer growth.
func ReadSource(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return string(data), nil
}

// parseStringCached parses a string, consulting the shared cache first.
// Programs are immutable once built, so a cached Program is returned to
// every caller as-is. Failed parses are not cached.
func parseStringCached(
	ctx context.Context,
	source string,
	o options,
) (Program, error) {
	key := cacheKey{
		hash:     xxh3.Hash128([]byte(source)),
		maxDepth: o.maxDepth,
	}

	cache := programCache()

	prog, hit := cache.Get(key)

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(key.hash.Lo, 16)),
		slog.Bool("cache_hit", hit),
	)

	if hit {
		return prog, nil
	}

	prog, err := parseString(ctx, source, o)
	if err != nil {
		return nil, WrapError(err).With(
			slog.Int("source_length", len(source)),
		)
	}

	cache.Add(key, prog)

	return prog, nil
}

// CacheLen returns the number of programs held by the shared parse cache.
func CacheLen() int {
	return programCache().Len()
}

// ClearCache removes all cached programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	programCache().Purge()
}

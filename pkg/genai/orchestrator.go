package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"marketplace-be/internal/pkg/logger"
	"marketplace-be/pkg/llm"
)

// CachedResponse is one content-addressed cache entry. An entry is valid
// only while the current time is before ExpiresAt; expired entries are
// treated as absent and overwritten by a refreshed entry with the same key.
type CachedResponse struct {
	Key       string
	Feature   Feature
	Response  json.RawMessage
	HitCount  int64
	ExpiresAt time.Time
}

// CacheStore is the external cache table boundary. Lookup must return nil
// for absent or expired entries. Races between concurrent misses resolve as
// last-write-wins in the store; duplicate generation on a race is accepted.
type CacheStore interface {
	Lookup(ctx context.Context, key string, feature Feature) (*CachedResponse, error)
	Save(ctx context.Context, entry *CachedResponse) error
	RecordHit(ctx context.Context, key string, feature Feature) error
}

// ResultSink persists the feature-specific record derived from a result.
// Implementations upsert by ad id for single-current-value features.
type ResultSink interface {
	Persist(ctx context.Context, feature Feature, req *Request, result json.RawMessage) error
}

// UsageEntry captures one invocation's telemetry. LatencyMs covers only the
// provider call, never cache checks or persistence.
type UsageEntry struct {
	UserId    *uuid.UUID
	Feature   Feature
	LatencyMs int64
	Success   bool
	Metadata  map[string]interface{}
}

// UsageSink records usage best-effort. Implementations must never block the
// response path or surface failures to the caller.
type UsageSink interface {
	Record(entry UsageEntry)
}

// Result is the caller-visible outcome of one invocation.
type Result struct {
	Data           json.RawMessage
	GenerationTime time.Duration
	Cached         bool
}

// DefaultCacheTTL is the fixed forward expiry for cacheable features.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Orchestrator drives one feature's end-to-end generate, cache, persist and
// log cycle. It holds no per-invocation state; every dependency is an
// injected service handle.
type Orchestrator struct {
	provider llm.Provider
	cache    CacheStore
	results  ResultSink
	usage    UsageSink
	log      logger.ILogger
	cacheTTL time.Duration
	now      func() time.Time
}

type OrchestratorOption func(*Orchestrator)

func WithCacheTTL(ttl time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.cacheTTL = ttl
	}
}

// WithClock overrides the time source. Tests use it to pin expiry and
// latency measurements.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func NewOrchestrator(
	provider llm.Provider,
	cache CacheStore,
	results ResultSink,
	usage UsageSink,
	log logger.ILogger,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		provider: provider,
		cache:    cache,
		results:  results,
		usage:    usage,
		log:      log,
		cacheTTL: DefaultCacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Invoke runs one generation cycle:
// validate -> cache check -> generate -> persist -> log.
// Input violations fail fast before any external call. On a cache hit the
// generation and result persistence are both skipped.
func (o *Orchestrator) Invoke(ctx context.Context, feature Feature, req *Request) (*Result, error) {
	spec, ok := Spec(feature)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFeature, feature)
	}

	if err := spec.ValidateInput(req); err != nil {
		return nil, err
	}

	var cacheKey string
	if spec.Cacheable {
		key, err := ContentKey(spec.CacheInput(req))
		if err != nil {
			return nil, fmt.Errorf("compute cache key: %w", err)
		}
		cacheKey = key

		entry, err := o.cache.Lookup(ctx, cacheKey, feature)
		if err != nil {
			o.log.Warn("genai", "cache lookup failed, proceeding to generation", map[string]interface{}{
				"feature": string(feature),
				"error":   err.Error(),
			})
		} else if entry != nil {
			if hitErr := o.cache.RecordHit(ctx, cacheKey, feature); hitErr != nil {
				o.log.Warn("genai", "cache hit counter update failed", map[string]interface{}{
					"feature": string(feature),
					"error":   hitErr.Error(),
				})
			}
			return &Result{Data: entry.Response, Cached: true}, nil
		}
	}

	prompt := spec.Prompt(req) + OutputContract(spec.Schema)

	// Latency contract: the delta covers the provider call only.
	start := o.now()
	raw, genErr := o.provider.Generate(ctx, prompt, spec.Schema)
	elapsed := o.now().Sub(start)

	o.recordUsage(feature, req, elapsed, genErr == nil)

	if genErr != nil {
		return nil, genErr
	}

	if err := o.results.Persist(ctx, feature, req, raw); err != nil {
		return nil, fmt.Errorf("persist %s result: %w", feature, err)
	}

	if spec.Cacheable {
		entry := &CachedResponse{
			Key:       cacheKey,
			Feature:   feature,
			Response:  raw,
			ExpiresAt: o.now().Add(o.cacheTTL),
		}
		if err := o.cache.Save(ctx, entry); err != nil {
			// Cache writes are best-effort; the result is already determined.
			o.log.Warn("genai", "cache write failed", map[string]interface{}{
				"feature": string(feature),
				"error":   err.Error(),
			})
		}
	}

	return &Result{Data: raw, GenerationTime: elapsed}, nil
}

func (o *Orchestrator) recordUsage(feature Feature, req *Request, elapsed time.Duration, success bool) {
	if req.UserId == nil {
		return
	}
	o.usage.Record(UsageEntry{
		UserId:    req.UserId,
		Feature:   feature,
		LatencyMs: elapsed.Milliseconds(),
		Success:   success,
		Metadata: map[string]interface{}{
			"category": req.Category,
		},
	})
}

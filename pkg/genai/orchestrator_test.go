package genai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-be/pkg/llm"
)

// --- Test doubles ---

type fakeProvider struct {
	response  json.RawMessage
	err       error
	calls     int
	callDelay time.Duration // advanced on the fake clock
	clock     *fakeClock
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string, schema llm.OutputSchema, opts ...llm.Option) (json.RawMessage, error) {
	p.calls++
	if p.clock != nil {
		p.clock.Advance(p.callDelay)
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.response, nil
}

type fakeCache struct {
	entries map[string]*CachedResponse
	hits    map[string]int
	saves   int
	lookups int
	now     func() time.Time
}

func newFakeCache(now func() time.Time) *fakeCache {
	return &fakeCache{
		entries: make(map[string]*CachedResponse),
		hits:    make(map[string]int),
		now:     now,
	}
}

func (c *fakeCache) Lookup(ctx context.Context, key string, feature Feature) (*CachedResponse, error) {
	c.lookups++
	entry, ok := c.entries[key]
	if !ok || !c.now().Before(entry.ExpiresAt) {
		return nil, nil
	}
	return entry, nil
}

func (c *fakeCache) Save(ctx context.Context, entry *CachedResponse) error {
	c.saves++
	c.entries[entry.Key] = entry
	return nil
}

func (c *fakeCache) RecordHit(ctx context.Context, key string, feature Feature) error {
	c.hits[key]++
	return nil
}

type fakeResults struct {
	persisted []struct {
		Feature Feature
		AdId    *uuid.UUID
		Result  json.RawMessage
	}
	err error
}

func (r *fakeResults) Persist(ctx context.Context, feature Feature, req *Request, result json.RawMessage) error {
	if r.err != nil {
		return r.err
	}
	r.persisted = append(r.persisted, struct {
		Feature Feature
		AdId    *uuid.UUID
		Result  json.RawMessage
	}{feature, req.AdId, result})
	return nil
}

type fakeUsage struct {
	entries []UsageEntry
}

func (u *fakeUsage) Record(entry UsageEntry) {
	u.entries = append(u.entries, entry)
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newHarness(t *testing.T, provider *fakeProvider) (*Orchestrator, *fakeCache, *fakeResults, *fakeUsage, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	provider.clock = clock
	cache := newFakeCache(clock.Now)
	results := &fakeResults{}
	usage := &fakeUsage{}
	o := NewOrchestrator(provider, cache, results, usage, nopLogger{}, WithClock(clock.Now))
	return o, cache, results, usage, clock
}

func comparisonRequest(userId *uuid.UUID) *Request {
	return &Request{
		UserId: userId,
		Input: map[string]interface{}{
			"products": []interface{}{
				map[string]interface{}{"title": "Phone A", "price": 100},
				map[string]interface{}{"title": "Phone B", "price": 120},
			},
		},
	}
}

// --- Tests ---

func TestInvokeFailsFastOnMissingInput(t *testing.T) {
	provider := &fakeProvider{response: json.RawMessage(`{}`)}
	o, cache, results, usage, _ := newHarness(t, provider)

	_, err := o.Invoke(context.Background(), FeatureComparison, &Request{
		Input: map[string]interface{}{"products": []interface{}{map[string]interface{}{"title": "only one"}}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, provider.calls, "no generation call on input error")
	assert.Equal(t, 0, cache.lookups, "no cache call on input error")
	assert.Empty(t, results.persisted)
	assert.Empty(t, usage.entries)
}

func TestInvokeUnknownFeature(t *testing.T) {
	o, _, _, _, _ := newHarness(t, &fakeProvider{})

	_, err := o.Invoke(context.Background(), Feature("nonsense"), &Request{})
	assert.ErrorIs(t, err, ErrUnknownFeature)
}

func TestInvokeCacheMissThenHit(t *testing.T) {
	userId := uuid.New()
	provider := &fakeProvider{response: json.RawMessage(`{"best_choice":1,"summary":"B wins","products":[]}`)}
	o, cache, results, _, clock := newHarness(t, provider)

	// First invocation: miss, generate, persist, cache with 7-day expiry.
	first, err := o.Invoke(context.Background(), FeatureComparison, comparisonRequest(&userId))
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, provider.calls)
	assert.Len(t, results.persisted, 1)
	require.Equal(t, 1, cache.saves)
	for _, entry := range cache.entries {
		assert.Equal(t, clock.Now().Add(7*24*time.Hour), entry.ExpiresAt)
	}

	// Second invocation with identical product list: hit, no generation,
	// no second persisted record, hit counter incremented.
	second, err := o.Invoke(context.Background(), FeatureComparison, comparisonRequest(&userId))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.JSONEq(t, string(first.Data), string(second.Data))
	assert.Equal(t, 1, provider.calls, "cache hit must skip generation")
	assert.Len(t, results.persisted, 1, "cache hit must skip re-persisting")
	for _, hits := range cache.hits {
		assert.Equal(t, 1, hits)
	}
}

func TestInvokeRegeneratesAfterExpiry(t *testing.T) {
	userId := uuid.New()
	provider := &fakeProvider{response: json.RawMessage(`{"best_choice":0,"summary":"A","products":[]}`)}
	o, cache, _, _, clock := newHarness(t, provider)

	_, err := o.Invoke(context.Background(), FeatureComparison, comparisonRequest(&userId))
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls)

	// Move past the 7-day expiry: entry is treated as absent.
	clock.Advance(7*24*time.Hour + time.Minute)

	res, err := o.Invoke(context.Background(), FeatureComparison, comparisonRequest(&userId))
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 2, provider.calls, "expired entry must trigger fresh generation")
	assert.Equal(t, 2, cache.saves, "refreshed entry overwrites the old one")

	// New expiry is exactly 7 days forward from this invocation's time.
	for _, entry := range cache.entries {
		assert.Equal(t, clock.Now().Add(7*24*time.Hour), entry.ExpiresAt)
	}
}

func TestInvokeLatencyCoversGenerationOnly(t *testing.T) {
	userId := uuid.New()
	provider := &fakeProvider{
		response:  json.RawMessage(`{"description":"nice bike"}`),
		callDelay: 350 * time.Millisecond,
	}
	o, _, _, usage, _ := newHarness(t, provider)

	res, err := o.Invoke(context.Background(), FeatureDescription, &Request{
		UserId: &userId,
		Input:  map[string]interface{}{"product_info": map[string]interface{}{"title": "bike"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 350*time.Millisecond, res.GenerationTime)
	require.Len(t, usage.entries, 1)
	assert.Equal(t, int64(350), usage.entries[0].LatencyMs)
	assert.True(t, usage.entries[0].Success)
	assert.Equal(t, FeatureDescription, usage.entries[0].Feature)
}

func TestInvokeOverloadPropagatesTyped(t *testing.T) {
	userId := uuid.New()
	provider := &fakeProvider{err: llm.ErrOverloaded}
	o, _, results, usage, _ := newHarness(t, provider)

	_, err := o.Invoke(context.Background(), FeatureDescription, &Request{
		UserId: &userId,
		Input:  map[string]interface{}{"product_info": map[string]interface{}{"title": "bike"}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrOverloaded)
	assert.Empty(t, results.persisted, "no persistence on generation failure")
	require.Len(t, usage.entries, 1, "failure is still logged")
	assert.False(t, usage.entries[0].Success)
}

func TestInvokeGenericProviderError(t *testing.T) {
	userId := uuid.New()
	provider := &fakeProvider{err: errors.New("connection reset")}
	o, _, _, _, _ := newHarness(t, provider)

	_, err := o.Invoke(context.Background(), FeatureDescription, &Request{
		UserId: &userId,
		Input:  map[string]interface{}{"product_info": map[string]interface{}{"title": "bike"}},
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, llm.ErrOverloaded)
}

func TestInvokePersistErrorPropagates(t *testing.T) {
	userId := uuid.New()
	provider := &fakeProvider{response: json.RawMessage(`{"title":"Bike"}`)}
	o, _, _, _, _ := newHarness(t, provider)
	o.results = &fakeResults{err: errors.New("db down")}

	_, err := o.Invoke(context.Background(), FeatureTitle, &Request{
		UserId: &userId,
		Input:  map[string]interface{}{"product_info": map[string]interface{}{"title": "bike"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist")
}

func TestInvokeNoUsageWithoutUserIdentity(t *testing.T) {
	provider := &fakeProvider{response: json.RawMessage(`{"best_choice":0,"summary":"","products":[]}`)}
	o, _, _, usage, _ := newHarness(t, provider)

	_, err := o.Invoke(context.Background(), FeatureComparison, comparisonRequest(nil))
	require.NoError(t, err)
	assert.Empty(t, usage.entries, "usage logging requires a user identity")
}

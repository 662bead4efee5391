package workspace

import (
	"context"
	"sync"

	"apex-business/internal/common/errors"
	"apex-business/internal/common/logger"
	"apex-business/internal/common/metrics"
	"apex-business/internal/gateway"
	"apex-business/internal/models"

	"golang.org/x/sync/singleflight"
)

// Orchestrator caches one result per section and fetches missing ones
// lazily through the gateway.
type Orchestrator struct {
	gateway gateway.Gateway
	profile models.Profile
	roadmap *Roadmap
	logger  logger.Logger

	mu      sync.Mutex
	cache   map[models.Section]*models.SectionResult
	loading map[models.Section]int
	// seq orders fetches by start; written holds the seq behind each cache entry.
	seq     uint64
	written map[models.Section]uint64

	group singleflight.Group
}

func NewOrchestrator(gw gateway.Gateway, profile models.Profile, roadmap *Roadmap, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		gateway: gw,
		profile: profile,
		roadmap: roadmap,
		logger:  log.WithFields(map[string]interface{}{"component": "orchestrator"}),
		cache:   make(map[models.Section]*models.SectionResult),
		loading: make(map[models.Section]int),
		written: make(map[models.Section]uint64),
	}
}

// Ensure returns the cached result for section, fetching it first when absent.
// Concurrent callers for the same section share one gateway call. The fetch
// is detached from ctx: if the caller gives up, the result still lands in the
// cache under its own section.
func (o *Orchestrator) Ensure(ctx context.Context, section models.Section) (*models.SectionResult, error) {
	if !section.Fetchable() {
		return nil, errors.NewSectionNotFetchableError(string(section))
	}

	if res := o.Result(section); res != nil {
		metrics.SectionCacheLookups.WithLabelValues(string(section), "hit").Inc()
		return res, nil
	}
	metrics.SectionCacheLookups.WithLabelValues(string(section), "miss").Inc()

	fetchCtx := context.WithoutCancel(ctx)
	ch := o.group.DoChan("ensure:"+string(section), func() (interface{}, error) {
		// A regenerate may have filled the entry while we waited for the group.
		if res := o.Result(section); res != nil {
			return res, nil
		}
		return o.fetch(fetchCtx, section)
	})
	return await(ctx, ch)
}

// Regenerate fetches section unconditionally and overwrites the cached entry.
// For RISKS the roadmap is reseeded, losing toggled state.
func (o *Orchestrator) Regenerate(ctx context.Context, section models.Section) (*models.SectionResult, error) {
	if !section.Fetchable() {
		return nil, errors.NewSectionNotFetchableError(string(section))
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := o.group.DoChan("regenerate:"+string(section), func() (interface{}, error) {
		return o.fetch(fetchCtx, section)
	})
	return await(ctx, ch)
}

// Result is a read-only cache lookup.
func (o *Orchestrator) Result(section models.Section) *models.SectionResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cache[section]
}

// IsLoading reports whether a fetch for section is in flight.
func (o *Orchestrator) IsLoading(section models.Section) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading[section] > 0
}

// Loading reports whether any fetch is in flight.
func (o *Orchestrator) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, n := range o.loading {
		if n > 0 {
			return true
		}
	}
	return false
}

func (o *Orchestrator) fetch(ctx context.Context, section models.Section) (*models.SectionResult, error) {
	o.mu.Lock()
	o.seq++
	seq := o.seq
	o.mu.Unlock()

	o.setLoading(section, 1)
	defer o.setLoading(section, -1)

	res, err := gateway.Fetch(ctx, o.gateway, section, o.profile)
	if err != nil {
		code := string(errors.ErrCodeInternal)
		if stdErr, ok := errors.AsStandardError(err); ok {
			code = string(stdErr.Code)
		}
		metrics.SectionFetchFailures.WithLabelValues(string(section), code).Inc()
		o.logger.Error("Section fetch failed", map[string]interface{}{
			"section":   string(section),
			"errorCode": code,
			"error":     err.Error(),
		})
		return nil, err
	}

	// A fetch that started later already wrote this section; keep its result
	// and the roadmap seeded from it.
	o.mu.Lock()
	if seq < o.written[section] {
		current := o.cache[section]
		o.mu.Unlock()
		o.logger.Info("Superseded section result dropped", map[string]interface{}{"section": string(section)})
		return current, nil
	}
	o.cache[section] = res
	o.written[section] = seq
	if section == models.SectionRisks && res.Risks != nil {
		o.roadmap.Seed(res.Risks.Roadmap)
	}
	o.mu.Unlock()

	o.logger.Info("Section fetched", map[string]interface{}{"section": string(section)})
	return res, nil
}

func (o *Orchestrator) setLoading(section models.Section, delta int) {
	o.mu.Lock()
	o.loading[section] += delta
	o.mu.Unlock()
	metrics.SectionFetchesActive.WithLabelValues(string(section)).Add(float64(delta))
}

func await(ctx context.Context, ch <-chan singleflight.Result) (*models.SectionResult, error) {
	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*models.SectionResult), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

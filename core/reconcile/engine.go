package reconcile

import (
	"fmt"
	"strings"

	"parcel-watch/core/address"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// minParallelBatch is the smallest number of properties worth fanning out.
const minParallelBatch = 256

// Engine cross-references property records against places from an independent
// provider. The two providers share no key, so matching is done by normalized
// address first and by coordinate proximity second.
type Engine struct {
	threshold float64
	strategy  string
	workers   int
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithProximityThreshold sets the maximum planar distance for a proximity match.
func WithProximityThreshold(threshold float64) Option {
	return func(e *Engine) {
		if threshold > 0 {
			e.threshold = threshold
		}
	}
}

// WithProximityStrategy selects StrategyFirst or StrategyNearest.
func WithProximityStrategy(strategy string) Option {
	return func(e *Engine) {
		if strategy == StrategyNearest || strategy == StrategyFirst {
			e.strategy = strategy
		}
	}
}

// WithWorkers sets how many goroutines evaluate properties concurrently.
func WithWorkers(workers int) Option {
	return func(e *Engine) {
		e.workers = workers
	}
}

// WithLogger sets the logger used for run summaries.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an Engine with default settings.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		threshold: DefaultProximityThreshold,
		strategy:  StrategyFirst,
		workers:   1,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewEngineFromConfig creates an Engine from the reconcile configuration section.
func NewEngineFromConfig(cfg Config, logger *zap.Logger) *Engine {
	return NewEngine(
		WithProximityThreshold(cfg.ProximityThreshold),
		WithProximityStrategy(cfg.ProximityStrategy),
		WithWorkers(cfg.Workers),
		WithLogger(logger),
	)
}

// Threshold returns the proximity threshold used when building indices.
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// Match cross-references properties against places.
//
// When places is empty every property is returned with MatchNone; this is a
// bypass, not a failure. Otherwise only confirmed cross-references are
// returned, in input property order.
func (e *Engine) Match(properties []PropertyRecord, places []ExternalPlace) []MatchResult {
	if len(places) == 0 {
		return passThrough(properties)
	}
	return e.MatchIndex(properties, BuildPlaceIndex(places, e.threshold))
}

// MatchIndex is Match against a prebuilt index. A nil or empty index behaves
// like an empty places list.
func (e *Engine) MatchIndex(properties []PropertyRecord, idx *PlaceIndex) []MatchResult {
	if idx.Len() == 0 {
		return passThrough(properties)
	}

	slots := make([]*MatchResult, len(properties))
	e.evaluate(properties, idx, slots)

	results := make([]MatchResult, 0, len(properties))
	var byAddress, byProximity int
	for _, r := range slots {
		if r == nil {
			continue
		}
		if r.MatchType == MatchAddress {
			byAddress++
		} else {
			byProximity++
		}
		results = append(results, *r)
	}

	e.logger.Debug("Match completed",
		zap.Int("properties", len(properties)),
		zap.Int("places", idx.Len()),
		zap.Int("address_matches", byAddress),
		zap.Int("proximity_matches", byProximity),
		zap.Int("dropped", len(properties)-len(results)),
	)

	return results
}

// evaluate fills slots[i] with the match for properties[i], or leaves it nil.
// The index is read-only, so chunks are evaluated without synchronization.
func (e *Engine) evaluate(properties []PropertyRecord, idx *PlaceIndex, slots []*MatchResult) {
	workers := e.workers
	if workers <= 1 || len(properties) < minParallelBatch {
		for i := range properties {
			slots[i] = e.matchOne(properties[i], idx)
		}
		return
	}

	chunk := (len(properties) + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(properties); start += chunk {
		end := min(start+chunk, len(properties))
		g.Go(func() error {
			for i := start; i < end; i++ {
				slots[i] = e.matchOne(properties[i], idx)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// matchOne tries address variants first and falls back to proximity.
func (e *Engine) matchOne(p PropertyRecord, idx *PlaceIndex) *MatchResult {
	for _, variant := range addressVariants(p) {
		if pos, ok := idx.lookupAddress(address.Normalize(variant)); ok {
			return &MatchResult{
				Property:     p,
				MatchType:    MatchAddress,
				MatchedPlace: idx.places[pos].matched(),
			}
		}
	}

	if p.Location == nil || !validCoordinate(p.Location.Lat, p.Location.Lng) {
		return nil
	}

	pos, distance, ok := e.closest(p.Location.Lat, p.Location.Lng, idx)
	if !ok {
		return nil
	}
	return &MatchResult{
		Property:     p,
		MatchType:    MatchProximity,
		MatchedPlace: idx.places[pos].matched(),
		Distance:     &distance,
	}
}

// closest picks a place within the threshold according to the engine strategy.
// Ties under StrategyNearest resolve to the earlier place.
func (e *Engine) closest(lat, lng float64, idx *PlaceIndex) (int, float64, bool) {
	best, bestDistance := -1, 0.0
	for _, pos := range idx.nearby(lat, lng) {
		place := idx.places[pos]
		if !place.located {
			continue
		}
		d := planarDistance(lat, lng, place.lat, place.lng)
		if !(d <= idx.threshold) {
			continue
		}
		if e.strategy == StrategyFirst {
			return pos, d, true
		}
		if best == -1 || d < bestDistance {
			best, bestDistance = pos, d
		}
	}
	return best, bestDistance, best != -1
}

func (p indexedPlace) matched() *MatchedPlace {
	return &MatchedPlace{
		Lat:     p.lat,
		Lng:     p.lng,
		Address: p.formatted,
		Name:    p.name,
	}
}

// addressVariants lists the address strings used to query the place index,
// deduplicated and without empty values, in lookup order.
func addressVariants(p PropertyRecord) []string {
	a := p.Address
	candidates := []string{a.Address, a.Street}
	if strings.TrimSpace(a.Street) != "" {
		candidates = append(candidates, fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.Zip))
	}
	if strings.TrimSpace(a.Address) != "" {
		candidates = append(candidates, fmt.Sprintf("%s, %s, %s %s", a.Address, a.City, a.State, a.Zip))
	}

	seen := make(map[string]struct{}, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		variants = append(variants, c)
	}
	return variants
}

func passThrough(properties []PropertyRecord) []MatchResult {
	results := make([]MatchResult, len(properties))
	for i, p := range properties {
		results[i] = MatchResult{Property: p, MatchType: MatchNone}
	}
	return results
}

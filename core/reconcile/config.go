package reconcile

// Proximity strategies.
const (
	// StrategyNearest accepts the closest place within the threshold.
	StrategyNearest = "nearest"
	// StrategyFirst accepts the first place within the threshold in input order.
	StrategyFirst = "first"
)

// DefaultProximityThreshold is the planar lat/lng distance (about 100 m at
// mid-latitudes) under which a property and a place are considered co-located.
const DefaultProximityThreshold = 0.001

// Config holds configuration for the reconciliation pipeline.
type Config struct {
	// ProximityThreshold is the maximum planar distance for a proximity match.
	ProximityThreshold float64 `mapstructure:"proximity_threshold" default:"0.001"`
	// ProximityStrategy selects between "first" and "nearest".
	ProximityStrategy string `mapstructure:"proximity_strategy" default:"first"`
	// Workers is the number of goroutines used to evaluate properties. 0 or 1 runs sequentially.
	Workers int `mapstructure:"workers" default:"4"`
	// IndexCacheTTLSeconds controls how long a built place index is reused. 0 disables caching.
	IndexCacheTTLSeconds int `mapstructure:"index_cache_ttl_seconds" default:"300"`
}

// IsValidStrategy checks if the configured proximity strategy is known.
func (c Config) IsValidStrategy() bool {
	switch c.ProximityStrategy {
	case StrategyNearest, StrategyFirst:
		return true
	default:
		return false
	}
}

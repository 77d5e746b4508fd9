package models

import "parcel-watch/core/reconcile"

// MatchSummary aggregates a match run.
type MatchSummary struct {
	Properties       int `json:"properties"`
	Places           int `json:"places"`
	AddressMatches   int `json:"address_matches"`
	ProximityMatches int `json:"proximity_matches"`
	Unmatched        int `json:"unmatched"`
	// PassThrough is true when no places were available and every property
	// was returned unmatched.
	PassThrough bool `json:"pass_through"`
}

// MatchReport contains the results of a match run.
type MatchReport struct {
	Results       []reconcile.MatchResult `json:"results"`
	Summary       MatchSummary            `json:"summary"`
	GeneratedAt   string                  `json:"generated_at"`
	ExecutionTime string                  `json:"execution_time"`
}

// MatchRequest names the bucket objects to cross-reference.
type MatchRequest struct {
	Places     string `json:"places"`
	Properties string `json:"properties"`
}

// CaptureRequest names the property payload to capture as a snapshot.
type CaptureRequest struct {
	Label      string `json:"label"`
	Properties string `json:"properties"`
}

// NotifyRequest selects two snapshots and controls dispatch.
type NotifyRequest struct {
	Old           string `json:"old"`
	New           string `json:"new"`
	LocationName  string `json:"location_name,omitempty"`
	AssetTypeName string `json:"asset_type_name,omitempty"`
	DryRun        bool   `json:"dry_run"`
	Confirm       bool   `json:"confirm"`
}

// NotifyReport describes the outcome of a notify run.
type NotifyReport struct {
	Summary    reconcile.PlanSummary         `json:"summary"`
	Changes    []reconcile.SignificantChange `json:"changes"`
	Channel    string                        `json:"channel"`
	Dispatched int                           `json:"dispatched"`
	Disabled   bool                          `json:"disabled,omitempty"`
	DryRun     bool                          `json:"dry_run"`
	Confirmed  bool                          `json:"confirmed"`
}

// Package reconcile provides the property-record reconciliation core: matching
// property records against places from an independent provider, diffing two
// captures of the same property dataset, and classifying the differences that
// deserve a notification.
//
// Everything in this package is a pure, synchronous computation over fully
// materialized in-memory collections. No network or disk I/O happens here and
// no input is mutated.
//
// # Architecture
//
// The core consists of four stages:
//
// 1. Address normalization (package core/address), used inline by the engine.
//
//  2. Engine: builds an immutable PlaceIndex once per run and matches each
//     property by normalized address variants, falling back to planar
//     coordinate proximity. Unmatched properties are dropped unless the places
//     list is empty, in which case every property passes through as MatchNone.
//
//  3. Differ: computes added, removed and updated records between two snapshots
//     keyed by property ID, with field-level deep structural comparison.
//
//  4. Classify: keeps updates touching ownership or sale fields and shapes them
//     into SignificantChange value objects.
//
// Pipeline chains the Differ and Classify into a Plan of notifications, and
// ApplyPlan hands a complete plan to a Dispatcher. A run interrupted between
// stages yields ErrIncompleteRun and no plan, so partial results never reach
// the notification stage.
//
// # Concurrency
//
// A PlaceIndex is read-only after BuildPlaceIndex returns. The engine may fan
// out per-property evaluation across workers (WithWorkers) without further
// synchronization; the output is identical to a sequential run. IndexCache
// reuses indices across runs with singleflight stampede protection.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(reconcile.WithWorkers(4))
//	results := engine.Match(properties, places)
//
//	pipeline := reconcile.NewPipeline(nil, logger)
//	plan, err := pipeline.Run(ctx, oldSnapshot, newSnapshot, reconcile.RunOptions{
//	    LocationName:  "Myrtle Beach",
//	    AssetTypeName: "Single Family",
//	})
//	if err == nil && !plan.NothingToNotify() {
//	    sent, err := reconcile.ApplyPlan(ctx, dispatcher, plan, reconcile.ApplyOptions{Confirmed: true})
//	}
package reconcile

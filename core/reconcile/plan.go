package reconcile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrIncompleteRun is returned when a run was interrupted before the diff and
// classification finished. A plan is never produced for an incomplete run.
var ErrIncompleteRun = errors.New("reconciliation run incomplete")

// PlanSummary provides aggregate counts for a notification plan.
type PlanSummary struct {
	Added         int `json:"added"`
	Updated       int `json:"updated"`
	Removed       int `json:"removed"`
	Significant   int `json:"significant"`
	Notifications int `json:"notifications"`
}

// Plan is the complete output of a snapshot reconciliation run.
type Plan struct {
	// Diff is the full structured difference between the two snapshots.
	Diff DiffResult `json:"diff"`

	// Changes are the significant entries of Diff.
	Changes []SignificantChange `json:"changes"`

	// Notifications are the payloads to hand to a dispatcher.
	Notifications []Notification `json:"notifications"`

	Summary PlanSummary `json:"summary"`
}

// NothingToNotify reports whether the run found no significant change, in
// which case the caller should skip dispatch.
func (p *Plan) NothingToNotify() bool {
	return len(p.Notifications) == 0
}

// RunOptions carries the caller-supplied routing context for notifications.
type RunOptions struct {
	LocationName  string
	AssetTypeName string
}

// ApplyOptions controls dispatch behavior.
type ApplyOptions struct {
	// DryRun prevents any dispatch if true.
	DryRun bool

	// Confirmed indicates the operator confirmed outbound notifications.
	// If false, nothing is dispatched regardless of DryRun.
	Confirmed bool
}

// Pipeline runs diff and classification over two snapshots.
type Pipeline struct {
	differ *Differ
	logger *zap.Logger
}

// NewPipeline creates a pipeline. A nil differ uses NewDiffer defaults.
func NewPipeline(differ *Differ, logger *zap.Logger) *Pipeline {
	if differ == nil {
		differ = NewDiffer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{differ: differ, logger: logger}
}

// Run diffs old against updated, classifies the result and builds the
// notification plan. Cancellation is only observed between stages; a
// cancelled run returns ErrIncompleteRun and no plan.
func (p *Pipeline) Run(ctx context.Context, old, updated Snapshot, opts RunOptions) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteRun, err)
	}

	// Step 1: Diff
	diff := p.differ.Diff(old, updated)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteRun, err)
	}

	// Step 2: Classify
	changes := Classify(diff.Changes)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteRun, err)
	}

	// Step 3: Shape notifications
	notifications := make([]Notification, 0, len(changes))
	for _, change := range changes {
		notifications = append(notifications, Notification{
			LocationName:  opts.LocationName,
			AssetTypeName: opts.AssetTypeName,
			Change:        change,
		})
	}

	plan := &Plan{
		Diff:          diff,
		Changes:       changes,
		Notifications: notifications,
		Summary: PlanSummary{
			Added:         diff.Added,
			Updated:       diff.Updated,
			Removed:       diff.Removed,
			Significant:   len(changes),
			Notifications: len(notifications),
		},
	}

	p.logger.Debug("Reconciliation plan built",
		zap.Int("old_records", len(old)),
		zap.Int("new_records", len(updated)),
		zap.Int("added", diff.Added),
		zap.Int("updated", diff.Updated),
		zap.Int("removed", diff.Removed),
		zap.Int("significant", len(changes)),
	)

	return plan, nil
}

// ApplyPlan dispatches the notifications of a plan.
// Returns the number of notifications dispatched and any error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually dispatch.
func ApplyPlan(ctx context.Context, dispatcher Dispatcher, plan *Plan, opts ApplyOptions) (dispatched int, err error) {
	// Safety check: do not dispatch if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}
	if plan == nil {
		return 0, ErrIncompleteRun
	}
	if plan.NothingToNotify() {
		return 0, nil
	}
	if dispatcher == nil {
		return 0, errors.New("no dispatcher configured")
	}

	// Try batch dispatch first
	if batch, ok := dispatcher.(BatchDispatcher); ok {
		if err := batch.DispatchBatch(ctx, plan.Notifications); err != nil {
			return 0, fmt.Errorf("failed to batch dispatch via %s: %w", dispatcher.Name(), err)
		}
		return len(plan.Notifications), nil
	}

	// Fallback to one-at-a-time
	for _, n := range plan.Notifications {
		if err := ctx.Err(); err != nil {
			return dispatched, err
		}
		if err := dispatcher.Dispatch(ctx, n); err != nil {
			return dispatched, fmt.Errorf("failed to dispatch %s via %s: %w", n.Change.PropertyID, dispatcher.Name(), err)
		}
		dispatched++
	}

	return dispatched, nil
}

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"parcel-watch/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	diffOld       string
	diffNew       string
	diffNotify    bool
	diffDryRun    bool
	diffYes       bool
	diffLocation  string
	diffAssetType string
)

// diffCmd compares two snapshots and optionally notifies on significant changes.
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Diff two snapshots and report ownership and sale changes",
	Long: `Compares two captured snapshots and classifies the updates that touch
ownership or sale fields. Without --old/--new the two most recent snapshots
are used.

Examples:
  # Report only
  diff

  # Notify with interactive confirmation
  diff --old <id> --new <id> --notify

  # Preview what would be sent
  diff --notify --dry-run

  # Notify without prompting
  diff --notify --yes`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffOld, "old", "", "Older snapshot id (defaults to the second most recent)")
	diffCmd.Flags().StringVar(&diffNew, "new", "", "Newer snapshot id (defaults to the most recent)")
	diffCmd.Flags().BoolVar(&diffNotify, "notify", false, "Dispatch notifications for significant changes")
	diffCmd.Flags().BoolVar(&diffDryRun, "dry-run", false, "Force dry-run (nothing is sent even with --yes)")
	diffCmd.Flags().BoolVar(&diffYes, "yes", false, "Auto-confirm outbound notifications (non-interactive)")
	diffCmd.Flags().StringVar(&diffLocation, "location", "", "Location name for notifications (overrides NOTIFY_LOCATION_NAME)")
	diffCmd.Flags().StringVar(&diffAssetType, "asset-type", "", "Asset type name for notifications (overrides NOTIFY_ASSET_TYPE_NAME)")

	RootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := bootstrap(true)
	if err != nil {
		return err
	}
	l := rt.logger

	svc, err := rt.propertyService()
	if err != nil {
		return err
	}

	// Step 1: Plan (always runs)
	l.Info("Planning notifications...")
	plan, err := svc.DiffSnapshots(ctx, diffOld, diffNew, reconcile.RunOptions{
		LocationName:  diffLocation,
		AssetTypeName: diffAssetType,
	})
	if err != nil {
		return fmt.Errorf("failed to plan notifications: %w", err)
	}

	// Step 2: Print report
	printPlanReport(l, plan)

	// Step 3: Check if notification is requested
	if !diffNotify {
		l.Info("No actions requested. Use --notify to send notifications.")
		return nil
	}
	if plan.NothingToNotify() {
		l.Info("No significant changes. Nothing to notify.")
		return nil
	}

	// Step 4: Apply (if confirmed)
	opts := reconcile.ApplyOptions{DryRun: diffDryRun}
	if diffDryRun {
		l.Info("Dry-run mode: No notifications were sent.")
		return nil
	}

	if !confirmNotify(len(plan.Notifications)) {
		l.Warn("Operation cancelled by user. No notifications were sent.")
		return nil
	}
	opts.Confirmed = true

	report, err := svc.ApplyPlan(ctx, plan, opts)
	if err != nil {
		if report != nil {
			l.Error("Dispatch stopped early", zap.Int("dispatched", report.Dispatched))
		}
		return fmt.Errorf("failed to dispatch notifications: %w", err)
	}

	if report.Disabled {
		l.Warn("Notification channel is disabled. No notifications were sent.",
			zap.String("channel", report.Channel))
		return nil
	}

	l.Info("Successfully dispatched notifications",
		zap.String("channel", report.Channel),
		zap.Int("count", report.Dispatched))
	return nil
}

// printPlanReport logs the diff summary and a sample of significant changes.
func printPlanReport(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary

	l.Info("Snapshot diff report",
		zap.Int("added", s.Added),
		zap.Int("updated", s.Updated),
		zap.Int("removed", s.Removed),
		zap.Int("significant", s.Significant),
	)

	maxShow := min(5, len(plan.Changes))
	for _, change := range plan.Changes[:maxShow] {
		l.Info("Significant change",
			zap.String("property_id", change.PropertyID),
			zap.String("kind", string(change.Kind)),
			zap.String("text", change.Text),
		)
	}
	if len(plan.Changes) > maxShow {
		l.Info("Additional changes not shown", zap.Int("count", len(plan.Changes)-maxShow))
	}
}

// confirmNotify prompts the user for confirmation or uses the --yes flag.
func confirmNotify(count int) bool {
	if diffYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  Type 'yes' to send %d notification(s): ", count)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}

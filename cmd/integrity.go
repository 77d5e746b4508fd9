package cmd

import (
	"context"
	"errors"

	"parcel-watch/feature/integrity"
	"parcel-watch/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on storage and the snapshot database",
	Long:  `Checks that the storage bucket holds the payload folders and that the snapshot table matches its model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// storageCheckCmd represents the integrity storage command
var storageCheckCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix payload folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// serverCmd represents the integrity server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Check the snapshot database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(storageCheckCmd, serverCmd)

	storageCheckCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket and missing folders")
}

func runIntegrityChecks(ctx context.Context, runStorage, runServer bool) error {
	rt, err := bootstrap(false)
	if err != nil {
		return err
	}
	logg := rt.logger

	svc := integrity.NewService(rt.store, rt.cfg.Storage, logg, rt.db)

	if runStorage {
		logg.Info("Checking storage folders...", zap.String("bucket", rt.cfg.Storage.Bucket))
		missing, err := svc.CheckStructure(ctx)
		if errors.Is(err, checks.ErrBucketMissing) && fixFlag {
			logg.Info("Creating missing bucket...")
			if err := svc.CreateBucket(ctx); err != nil {
				return err
			}
			missing, err = svc.CheckStructure(ctx)
		}
		if err != nil {
			return err
		}

		if len(missing) == 0 {
			logg.Info("Storage folders are intact.")
		} else {
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))

			if fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return err
				}
				logg.Info("Storage folders fixed successfully.")
			} else {
				logg.Info("Run 'integrity storage --fix' to create missing folders.")
			}
		}
	}

	if runServer {
		logg.Info("Checking snapshot schema integrity...", zap.String("driver", rt.cfg.Database.Driver))
		report, err := svc.CheckServer()
		if err != nil {
			logg.Error("Server schema check failed", zap.Error(err))
			return nil
		}

		if report.Matched {
			logg.Info("Snapshot schema matches expected definition.")
			return nil
		}

		logg.Warn("Snapshot schema mismatches found", zap.String("driver", report.Driver))
		for table, tblReport := range report.Tables {
			if tblReport.Status == "ok" {
				continue
			}
			if len(tblReport.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
			}
			if len(tblReport.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Inspection Error", zap.String("error", e))
		}
	}

	return nil
}

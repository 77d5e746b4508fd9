package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	matchPlaces     string
	matchProperties string
	matchJSON       bool
)

// matchCmd cross-references a properties payload against a places payload.
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match property records to places",
	Long: `Loads a places payload and a properties payload from the bucket and
cross-references them by normalized address, falling back to coordinate
proximity. Object names without a folder are looked up under the configured
places and properties prefixes.

Examples:
  match --places latest.json --properties latest.json
  match --places places/2024-01.json --properties properties/2024-01.json --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(false)
		if err != nil {
			return err
		}

		svc, err := rt.propertyService()
		if err != nil {
			return err
		}

		rt.logger.Info("Matching properties to places",
			zap.String("places", matchPlaces),
			zap.String("properties", matchProperties))

		report, err := svc.Match(cmd.Context(), matchPlaces, matchProperties)
		if err != nil {
			return fmt.Errorf("match failed: %w", err)
		}

		if matchJSON {
			filename := fmt.Sprintf("match_report_%d.json", time.Now().Unix())
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			rt.logger.Info("Detailed JSON report saved", zap.String("file", filename), zap.Int("results", len(report.Results)))
		}

		s := report.Summary
		fmt.Println("\n=== Match Metrics ===")
		fmt.Printf("Properties: %d\n", s.Properties)
		fmt.Printf("Places: %d\n", s.Places)
		if s.PassThrough {
			fmt.Println("No places loaded: every property passed through unmatched")
		} else {
			fmt.Printf("Address Matches: %d\n", s.AddressMatches)
			fmt.Printf("Proximity Matches: %d\n", s.ProximityMatches)
			fmt.Printf("Unmatched: %d\n", s.Unmatched)
		}
		fmt.Printf("Execution Time: %s\n", report.ExecutionTime)

		return nil
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchPlaces, "places", "", "Places payload object name")
	matchCmd.Flags().StringVar(&matchProperties, "properties", "", "Properties payload object name")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Save the full match report as JSON")
	_ = matchCmd.MarkFlagRequired("places")
	_ = matchCmd.MarkFlagRequired("properties")

	RootCmd.AddCommand(matchCmd)
}

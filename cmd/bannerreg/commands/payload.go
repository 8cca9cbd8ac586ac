package commands

import (
	"bannerreg/lib/scrapers/banner"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
)

var (
	payloadTerm    *string
	payloadCrns    *[]string
	payloadRecords *string
)

func init() {
	flags := payloadCmd.Flags()
	payloadTerm = flags.String("term", "", "Term code, for example 202209.")
	payloadCrns = flags.StringSlice("crn", nil, "CRN to add, may be repeated.")
	payloadRecords = flags.String("records", "", "A saved registration (AltPin) page to read the current enrollment from.")
	payloadCmd.MarkFlagRequired("term")
	rootCmd.AddCommand(payloadCmd)
}

// readRecords scrapes the existing registrations out of a saved page,
// an empty path means no current enrollment.
func readRecords(ctx context.Context, path string) ([]banner.Record, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, err
	}
	return banner.ExistingRecords(ctx, doc, banner.DefaultRecordsSelector), nil
}

var payloadCmd = &cobra.Command{
	Use:   "payload --term <code> [--crn <crn>...] [--records <file.html>]",
	Short: "Prints the registration payload for a saved registration page without contacting Banner.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		records, err := readRecords(ctx, *payloadRecords)
		if err != nil {
			return fmt.Errorf("failed to read records page: %w", err)
		}
		if len(*payloadCrns) > banner.MaxCRNs {
			slog.Warn("only the first crns fit on the registration form, ignoring the rest", "max", banner.MaxCRNs)
		}
		slog.Debug("building payload", "records", len(records), "crns", *payloadCrns)

		fmt.Println(banner.BuildPayload(*payloadTerm, records, banner.NewCRNSlots(*payloadCrns)))
		return nil
	},
}

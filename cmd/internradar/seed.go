package main

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/internradar/internal/db"
	"github.com/jonathan/internradar/internal/listing"
	"github.com/jonathan/internradar/internal/schemas"
	"github.com/jonathan/internradar/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load internship listings into the database",
	Long:  "Validate a listings JSON file, clean each description and insert every listing in one transaction.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Path to listings JSON file (required)")
	if err := seedCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	rootCmd.AddCommand(seedCmd)
}

// loadSeedListings reads and normalizes a listings file into create requests.
// Every listing is checked so one bad entry fails the whole file before any insert.
func loadSeedListings(path string) ([]types.CreateInternshipRequest, error) {
	var reqs []types.CreateInternshipRequest
	if err := readValidated(path, schemas.Listings, &reqs); err != nil {
		return nil, err
	}

	validate := validator.New()
	for i := range reqs {
		if err := listing.Normalize(&reqs[i]); err != nil {
			return nil, fmt.Errorf("listing %d (%s): %w", i, reqs[i].Title, err)
		}
		if err := validate.Struct(&reqs[i]); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return nil, fmt.Errorf("listing %d (%s): field %s failed %q", i, reqs[i].Title, verrs[0].Field(), verrs[0].Tag())
			}
			return nil, fmt.Errorf("listing %d (%s): %w", i, reqs[i].Title, err)
		}
	}
	return reqs, nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	reqs, err := loadSeedListings(seedFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	created, err := store.CreateInternships(ctx, reqs)
	if err != nil {
		return err
	}
	log.Info("internships seeded", zap.String("file", seedFile), zap.Int("created", created))
	return nil
}

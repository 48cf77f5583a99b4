package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/internradar/internal/listing"
	"github.com/jonathan/internradar/internal/ranking"
	"github.com/jonathan/internradar/internal/schemas"
	"github.com/jonathan/internradar/internal/types"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank internship listings against a profile",
	Long:  "Deterministically ranks internship listings from a JSON file against a user profile, producing recommendations sorted by score.",
	RunE:  runRank,
}

var (
	rankProfile  string
	rankListings string
	rankOutput   string
	rankLimit    int
	rankMinScore float64
	rankDiverse  bool
	rankNoGitHub bool
)

func init() {
	rankCmd.Flags().StringVarP(&rankProfile, "profile", "p", "", "Path to input UserProfile JSON file (required)")
	rankCmd.Flags().StringVarP(&rankListings, "listings", "l", "", "Path to input listings JSON file (required)")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "-", "Path to output recommendations JSON file, - for stdout")
	rankCmd.Flags().IntVar(&rankLimit, "limit", ranking.DefaultLimit, "Maximum number of recommendations")
	rankCmd.Flags().Float64Var(&rankMinScore, "min-score", 0, "Drop listings scoring below this value (0-100)")
	rankCmd.Flags().BoolVar(&rankDiverse, "diverse", false, "Spread the tail of the result across companies")
	rankCmd.Flags().BoolVar(&rankNoGitHub, "no-github", false, "Ignore GitHub activity in the profile")

	if err := rankCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}
	if err := rankCmd.MarkFlagRequired("listings"); err != nil {
		panic(fmt.Sprintf("failed to mark listings flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

// fileListing is a listing as stored in a listings file. A missing is_active means active.
type fileListing struct {
	types.InternshipListing
	Active *bool `json:"is_active"`
}

func loadRankListings(path string) ([]types.InternshipListing, error) {
	var raw []fileListing
	if err := readValidated(path, schemas.Listings, &raw); err != nil {
		return nil, err
	}

	listings := make([]types.InternshipListing, 0, len(raw))
	for i, fl := range raw {
		if fl.Active != nil && !*fl.Active {
			continue
		}
		l := fl.InternshipListing
		l.IsActive = true
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		description, err := listing.CleanDescription(l.Description)
		if err != nil {
			return nil, fmt.Errorf("listing %d (%s): %w", i, l.Title, err)
		}
		l.Description = description
		listings = append(listings, l)
	}
	return listings, nil
}

func runRank(cmd *cobra.Command, _ []string) error {
	// 1. Load profile
	var profile types.UserProfile
	if err := readValidated(rankProfile, schemas.Profile, &profile); err != nil {
		return err
	}

	// 2. Load listings
	listings, err := loadRankListings(rankListings)
	if err != nil {
		return err
	}

	// 3. Rank
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	scorer, err := ranking.NewScorer(cfg.Recommendations.Weights)
	if err != nil {
		return err
	}
	opts := ranking.RankOptions{
		Limit:                 rankLimit,
		MinScore:              rankMinScore,
		IncludeExternalSignal: !rankNoGitHub,
	}
	rank := scorer.Rank
	if rankDiverse {
		rank = scorer.RankDiverse
	}
	recs, err := rank(&profile, listings, opts)
	if err != nil {
		return fmt.Errorf("failed to rank listings: %w", err)
	}

	// 4. Write output
	if err := writeJSON(cmd.OutOrStdout(), cmd.ErrOrStderr(), rankOutput, recs, schemas.Recommendations); err != nil {
		return err
	}
	if rankOutput != "-" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully ranked %d of %d listings to %s\n", len(recs), len(listings), rankOutput)
	}
	return nil
}

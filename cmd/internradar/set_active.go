package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/internradar/internal/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	setActiveID    string
	setActiveValue bool
)

var setActiveCmd = &cobra.Command{
	Use:   "set-active",
	Short: "Show or hide an internship listing",
	Long:  "Mark a listing active or inactive. Inactive listings are left out of browsing, filter options and recommendations.",
	RunE:  runSetActive,
}

func init() {
	setActiveCmd.Flags().StringVar(&setActiveID, "id", "", "Internship ID (required)")
	setActiveCmd.Flags().BoolVar(&setActiveValue, "active", true, "Whether the listing is active")
	if err := setActiveCmd.MarkFlagRequired("id"); err != nil {
		panic(fmt.Sprintf("failed to mark id flag as required: %v", err))
	}
	rootCmd.AddCommand(setActiveCmd)
}

func runSetActive(cmd *cobra.Command, _ []string) error {
	id, err := uuid.Parse(setActiveID)
	if err != nil {
		return fmt.Errorf("invalid internship id %q: %w", setActiveID, err)
	}

	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	found, err := store.SetInternshipActive(ctx, id, setActiveValue)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("internship not found: %s", id)
	}
	log.Info("internship updated", zap.String("internship_id", id.String()), zap.Bool("active", setActiveValue))
	return nil
}

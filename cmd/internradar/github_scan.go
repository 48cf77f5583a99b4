package main

import (
	"context"
	"fmt"

	"github.com/jonathan/internradar/internal/config"
	"github.com/jonathan/internradar/internal/github"
	"github.com/jonathan/internradar/internal/ranking"
	"github.com/jonathan/internradar/internal/types"
	"github.com/spf13/cobra"
)

var (
	scanUsername string
	scanOutput   string
)

var githubScanCmd = &cobra.Command{
	Use:   "github-scan",
	Short: "Fetch and summarize a public GitHub profile",
	Long:  "Fetch a user's public GitHub profile and repositories, then print the activity summary and the signal the ranking uses.",
	RunE:  runGitHubScan,
}

func init() {
	githubScanCmd.Flags().StringVarP(&scanUsername, "username", "u", "", "GitHub username (required)")
	githubScanCmd.Flags().StringVarP(&scanOutput, "out", "o", "-", "Path to output JSON file, - for stdout")
	if err := githubScanCmd.MarkFlagRequired("username"); err != nil {
		panic(fmt.Sprintf("failed to mark username flag as required: %v", err))
	}
	rootCmd.AddCommand(githubScanCmd)
}

// scanResult is the github-scan output document.
type scanResult struct {
	GitHubData *types.ActivitySummary          `json:"github_data"`
	Signal     *types.NormalizedActivitySignal `json:"signal"`
}

func newGitHubClient(cfg *config.Config) *github.Client {
	return github.NewClient(github.Options{
		BaseURL:           cfg.GitHub.BaseURL,
		Token:             cfg.GitHub.Token,
		UserAgent:         cfg.GitHub.UserAgent,
		Timeout:           cfg.GitHub.Timeout,
		RequestsPerSecond: cfg.GitHub.RequestsPerSecond,
		Burst:             cfg.GitHub.Burst,
	})
}

func scanProfile(ctx context.Context, client *github.Client, username string) (*scanResult, error) {
	summary, err := client.FetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	return &scanResult{GitHubData: summary, Signal: ranking.NormalizeActivity(summary)}, nil
}

func runGitHubScan(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	result, err := scanProfile(cmd.Context(), newGitHubClient(cfg), scanUsername)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), cmd.ErrOrStderr(), scanOutput, result, "")
}

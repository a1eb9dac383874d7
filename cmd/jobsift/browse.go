package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/browse"
)

var browseLimit int

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored jobs in a TUI",
	Long:  "Open an interactive terminal viewer over the most recently posted jobs in the store.",
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().IntVar(&browseLimit, "limit", 200, "maximum number of jobs to load")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	return browse.Run(ctx, st, browseLimit)
}

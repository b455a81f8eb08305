package cmd

import (
	"context"
	"fmt"

	"github.com/scenespin/reference-sync/core/config"
	"github.com/scenespin/reference-sync/feature/jobs"

	"github.com/spf13/cobra"
)

var jobsScope string

// jobsCmd fetches the job list once and prints it.
var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Fetch and print the generation job list once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		scope := jobsScope
		if scope == "" {
			scope = cfg.Server.Workspace
		}

		client := jobs.NewHTTPClient(cfg.Jobs.ServiceURL, cfg.Jobs.ServiceApiKey)
		list, err := client.ListJobs(context.Background(), scope, jobs.ListFilters{})
		if err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Println("No jobs.")
			return nil
		}

		for _, job := range list {
			line := fmt.Sprintf("%-36s %-18s %-10s %3d%%", job.ID, job.Type, job.Status, job.Progress)
			if job.Error != "" {
				line += "  " + job.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	jobsCmd.Flags().StringVar(&jobsScope, "scope", "", "Workspace scope (defaults to configured workspace)")
	RootCmd.AddCommand(jobsCmd)
}

package commands

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/zetsubou-life/zetsubou-go/client"
	"github.com/zetsubou-life/zetsubou-go/models"
)

func JobsList(ctx *cli.Context) error {
	c, err := MakeClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	jobs, err := c.Jobs.List(ctx.Context, &client.JobListOptions{
		Status: models.JobStatus(ctx.String("status")),
		Limit:  ctx.Int("limit"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Recent jobs (%d):\n", len(jobs))
	for _, job := range jobs {
		fmt.Printf("  %-36s %-12s %3d%%  %s\n", job.ID, job.Status, job.Progress, job.ToolID)
		if job.Error != "" {
			fmt.Printf("    error: %s\n", job.Error)
		}
	}
	return nil
}

func JobsGet(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("usage: zetsubou jobs get <job_id>")
	}

	c, err := MakeClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	job, err := c.Jobs.Get(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}

	fmt.Printf("Job %s\n", job.ID)
	fmt.Printf("  Tool:     %s\n", job.ToolID)
	fmt.Printf("  Status:   %s\n", job.Status)
	fmt.Printf("  Progress: %d%%\n", job.Progress)
	fmt.Printf("  Created:  %s\n", job.CreatedAt)
	if job.CompletedAt != nil {
		fmt.Printf("  Completed: %s\n", job.CompletedAt)
	}
	if len(job.Inputs) > 0 {
		fmt.Printf("  Inputs:   %s\n", strings.Join(job.Inputs, ", "))
	}
	if len(job.Outputs) > 0 {
		fmt.Printf("  Outputs:  %s\n", strings.Join(job.Outputs, ", "))
	}
	if job.Error != "" {
		fmt.Printf("  Error:    %s\n", job.Error)
	}
	return nil
}

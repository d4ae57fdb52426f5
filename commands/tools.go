package commands

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/zetsubou-life/zetsubou-go/client"
)

func ToolsList(ctx *cli.Context) error {
	c, err := MakeClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	tools, err := c.Tools.List(ctx.Context)
	if err != nil {
		return err
	}

	category := ctx.String("category")
	if category != "" {
		filtered := tools[:0]
		for _, tool := range tools {
			if tool.Category == category {
				filtered = append(filtered, tool)
			}
		}
		tools = filtered
	}

	fmt.Printf("Available tools (%d):\n", len(tools))
	for _, tool := range tools {
		access := "accessible"
		if !tool.Accessible {
			access = "requires " + tool.RequiredTier
		}
		fmt.Printf("  %-20s %-12s %s -> %s (%s)\n",
			tool.ID, tool.Category, tool.InputType, tool.OutputType, access)
		if tool.Description != "" {
			fmt.Printf("    %s\n", tool.Description)
		}
	}
	return nil
}

func ToolsExecute(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return fmt.Errorf("usage: zetsubou tools execute <tool_id> <file> [file...]")
	}
	toolID := ctx.Args().First()

	c, err := MakeClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	var files []client.FileInput
	for _, path := range ctx.Args().Slice()[1:] {
		files = append(files, client.FilePath(path))
	}

	var execOpts *client.ExecuteOptions
	if raw := ctx.String("options"); raw != "" {
		var options map[string]any
		if err := json.Unmarshal([]byte(raw), &options); err != nil {
			return fmt.Errorf("invalid JSON in --options: %w", err)
		}
		execOpts = &client.ExecuteOptions{Options: options}
	}

	job, err := c.Tools.Execute(ctx.Context, toolID, files, execOpts)
	if err != nil {
		return err
	}
	fmt.Printf("Job started: %s (status: %s)\n", job.ID, job.Status)

	if !ctx.Bool("wait") {
		fmt.Printf("Use 'zetsubou jobs get %s' to check status.\n", job.ID)
		return nil
	}

	fmt.Println("Waiting for completion...")
	done, err := c.Jobs.WaitForCompletion(ctx.Context, job.ID, 0, 0)
	if err != nil {
		return err
	}
	fmt.Printf("Job completed (%d%%)\n", done.Progress)
	for _, output := range done.Outputs {
		fmt.Printf("  output: %s\n", output)
	}

	if output := ctx.String("output"); output != "" {
		if err := c.Jobs.DownloadToFile(ctx.Context, job.ID, output); err != nil {
			return err
		}
		fmt.Printf("Results downloaded to %s\n", output)
	}
	return nil
}

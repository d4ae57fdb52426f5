package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/zetsubou-life/zetsubou-go/client"
	"github.com/zetsubou-life/zetsubou-go/commands"
)

func envs(base string) []string {
	return []string{"ZETSUBOU_" + base}
}

func main() {
	app := cli.NewApp()
	app.Name = "zetsubou"
	app.Usage = "Command-line interface for the Zetsubou.life API"
	app.Version = client.Version
	app.Flags = []cli.Flag{
		&cli.StringFlag{Name: "api-key", EnvVars: envs("API_KEY"), Usage: "API key (ztb_live_...)"},
		&cli.StringFlag{Name: "base-url", EnvVars: envs("BASE_URL"), Usage: "API base URL"},
		&cli.StringFlag{Name: "config", EnvVars: envs("CONFIG"), Usage: "Path to a TOML config file"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Enable debug logging"},
	}
	app.Commands = []*cli.Command{
		{
			Name:  "tools",
			Usage: "Tool catalog and execution",
			Subcommands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "List available tools",
					Action: commands.ToolsList,
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "category", Usage: "Filter by category"},
					},
				},
				{
					Name:      "execute",
					Usage:     "Execute a tool on one or more files",
					ArgsUsage: "<tool_id> <file> [file...]",
					Action:    commands.ToolsExecute,
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "options", Usage: "Tool options as a JSON object"},
						&cli.BoolFlag{Name: "wait", Value: true, Usage: "Wait for the job to complete"},
						&cli.StringFlag{Name: "output", Usage: "Download results to this path"},
					},
				},
			},
		},
		{
			Name:  "jobs",
			Usage: "Job inspection",
			Subcommands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "List recent jobs",
					Action: commands.JobsList,
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "status", Usage: "Filter by status"},
						&cli.IntFlag{Name: "limit", Value: 10, Usage: "Maximum results"},
					},
				},
				{
					Name:      "get",
					Usage:     "Show one job",
					ArgsUsage: "<job_id>",
					Action:    commands.JobsGet,
				},
			},
		},
		{
			Name:  "files",
			Usage: "Virtual file system",
			Subcommands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "List VFS files",
					Action: commands.FilesList,
					Flags: []cli.Flag{
						&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum results"},
					},
				},
			},
		},
		{
			Name:  "account",
			Usage: "Account and usage",
			Subcommands: []*cli.Command{
				{
					Name:   "info",
					Usage:  "Show account and storage information",
					Action: commands.AccountInfo,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
}

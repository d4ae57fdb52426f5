package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/zetsubou-life/zetsubou-go/client"
	"github.com/zetsubou-life/zetsubou-go/models"
)

func FilesList(ctx *cli.Context) error {
	c, err := MakeClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	nodes, err := c.VFS.ListNodes(ctx.Context, &client.NodeListOptions{
		Type:  models.NodeFile,
		Limit: ctx.Int("limit"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("VFS files (%d):\n", len(nodes))
	for _, node := range nodes {
		sizeMB := float64(node.SizeBytes) / (1024 * 1024)
		fmt.Printf("  %-36s %8.2f MB  %-24s %s\n", node.ID, sizeMB, node.MimeType, node.Name)
	}
	return nil
}

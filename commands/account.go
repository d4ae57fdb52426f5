package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func AccountInfo(ctx *cli.Context) error {
	c, err := MakeClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	account, err := c.Account.Get(ctx.Context)
	if err != nil {
		return err
	}
	quota, err := c.Account.StorageQuota(ctx.Context)
	if err != nil {
		return err
	}

	fmt.Println("Account")
	fmt.Printf("  Username: %s\n", account.Username)
	fmt.Printf("  Email:    %s\n", account.Email)
	fmt.Printf("  Tier:     %s\n", account.Tier)
	fmt.Printf("  Created:  %s\n", account.CreatedAt)

	fmt.Println("Storage")
	fmt.Printf("  Used:      %d bytes (%.1f%%)\n", quota.UsedBytes, quota.UsagePercent)
	fmt.Printf("  Available: %d bytes\n", quota.AvailableBytes)
	fmt.Printf("  Quota:     %d bytes\n", quota.QuotaBytes)
	fmt.Printf("  Files:     %d, folders: %d\n", quota.FileCount, quota.FolderCount)
	return nil
}

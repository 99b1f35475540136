package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"stellar-federation/internal/modules/auth/client"
)

// editorsCmd 管理 Keto 中的编辑授权（edit 关系）
func editorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editors",
		Short: "Manage who may edit another user's Stellar account ID",
	}
	cmd.AddCommand(
		editorsActionCmd("grant", "Allow <editor> to edit <user>'s account ID", (*client.KetoClient).GrantEditor),
		editorsActionCmd("revoke", "Revoke <editor>'s permission on <user>", (*client.KetoClient).RevokeEditor),
	)
	return cmd
}

func editorsActionCmd(
	use, short string,
	action func(k *client.KetoClient, ctx context.Context, editorID, targetUserID string) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <editor> <user>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Keto.ReadAddr == "" || cfg.Keto.WriteAddr == "" {
				return fmt.Errorf("keto.read_addr and keto.write_addr are required")
			}

			keto, err := client.NewKetoClient(cfg.Keto.ReadAddr, cfg.Keto.WriteAddr, cfg.Keto.Namespace)
			if err != nil {
				return err
			}
			defer keto.Close()

			if err := action(keto, cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("%s: %s -> %s\n", okStyle.Render(use), args[0], args[1])
			return nil
		},
	}
}

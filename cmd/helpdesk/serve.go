package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/nao1215/helpdesk/internal/config"
	"github.com/nao1215/helpdesk/internal/helpdesk"
	"github.com/nao1215/helpdesk/pkg/password"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "APIサーバーを起動する",
		Long: `APIサーバーを起動する。

設定は--configで指定したYAMLを読み込んだ後、環境変数で上書きする。
JWT_SECRETと、ADMIN_PASSWORDまたはADMIN_PASSWORD_HASHのどちらかが必須。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("設定の読み込みに失敗: %w", err)
			}

			server, err := helpdesk.NewServer(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("helpdeskサーバーの初期化に失敗: %w", err)
			}

			if err := server.Run(cmd.Context()); err != nil {
				return fmt.Errorf("helpdeskサービスの実行に失敗: %w", err)
			}
			log.Printf("helpdeskサービスを停止しました")
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML設定ファイルのパス")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "ADMIN_PASSWORD_HASHに設定するArgon2idハッシュを出力する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoded, err := password.Hash(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
}

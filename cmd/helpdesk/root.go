package main

import (
	"os"

	"github.com/spf13/cobra"
)

// defaultServerURL はクライアントコマンドの接続先の既定値。
const defaultServerURL = "http://localhost:3000"

// newRootCmd はhelpdeskコマンドのルートを組み立てる。
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "helpdesk",
		Short:         "サポートケースとナレッジノートを管理するhelpdesk API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newHashPasswordCmd(),
		newLoginCmd(),
		newCasesCmd(),
		newNotesCmd(),
	)
	return root
}

// addServerFlag はクライアントコマンドに--serverフラグを追加する。
// 既定値は環境変数HELPDESK_URL、未設定ならdefaultServerURL。
func addServerFlag(cmd *cobra.Command, target *string) {
	def := os.Getenv("HELPDESK_URL")
	if def == "" {
		def = defaultServerURL
	}
	cmd.Flags().StringVar(target, "server", def, "helpdeskサーバーのURL（環境変数HELPDESK_URL）")
}

// addTokenFlag は書き込み系コマンドに--tokenフラグを追加する。
func addTokenFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "token", os.Getenv("HELPDESK_TOKEN"), "loginで取得したトークン（環境変数HELPDESK_TOKEN）")
}

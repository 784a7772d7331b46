package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nao1215/helpdesk/pkg/httpclient"
)

// errMissingToken は書き込み系コマンドでトークンが無い場合のエラー。
var errMissingToken = errors.New("--tokenまたは環境変数HELPDESK_TOKENでトークンを指定してください")

// printJSON はvをインデント付きJSONで出力する。
func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

func newLoginCmd() *cobra.Command {
	var (
		server string
		pass   string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "管理者パスワードでログインしトークンを出力する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pass == "" {
				return errors.New("--passwordを指定してください")
			}
			token, err := httpclient.New(server).Login(cmd.Context(), pass)
			if err != nil {
				return fmt.Errorf("ログインに失敗: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	addServerFlag(cmd, &server)
	cmd.Flags().StringVarP(&pass, "password", "p", "", "管理者パスワード")
	return cmd
}

func newCasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "ケースを操作する",
	}

	var server string
	list := &cobra.Command{
		Use:   "list",
		Short: "ケース一覧を作成日時の新しい順にJSONで出力する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cases, err := httpclient.New(server).ListCases(cmd.Context())
			if err != nil {
				return fmt.Errorf("ケース一覧の取得に失敗: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), cases)
		},
	}
	addServerFlag(list, &server)

	cmd.AddCommand(list)
	return cmd
}

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "ノートを操作する",
	}
	cmd.AddCommand(newNotesListCmd(), newNotesAddCmd(), newNotesDeleteCmd())
	return cmd
}

func newNotesListCmd() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "ノート一覧をID昇順でJSONで出力する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			notes, err := httpclient.New(server).ListNotes(cmd.Context())
			if err != nil {
				return fmt.Errorf("ノート一覧の取得に失敗: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), notes)
		},
	}
	addServerFlag(cmd, &server)
	return cmd
}

func newNotesAddCmd() *cobra.Command {
	var server, token, category, content string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "ノートを作成し、保存された内容をJSONで出力する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				return errMissingToken
			}
			ctx := httpclient.WithToken(cmd.Context(), token)
			note, err := httpclient.New(server).CreateNote(ctx, category, content)
			if err != nil {
				return fmt.Errorf("ノートの作成に失敗: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), note)
		},
	}
	addServerFlag(cmd, &server)
	addTokenFlag(cmd, &token)
	cmd.Flags().StringVar(&category, "category", "", "ノートの分類")
	cmd.Flags().StringVar(&content, "content", "", "ノート本文")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newNotesDeleteCmd() *cobra.Command {
	var server, token string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "ノートを削除する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("ノートIDは整数である必要があります: %q", args[0])
			}
			if token == "" {
				return errMissingToken
			}
			ctx := httpclient.WithToken(cmd.Context(), token)
			if err := httpclient.New(server).DeleteNote(ctx, id); err != nil {
				return fmt.Errorf("ノートの削除に失敗: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ノート%dを削除しました\n", id)
			return nil
		},
	}
	addServerFlag(cmd, &server)
	addTokenFlag(cmd, &token)
	return cmd
}

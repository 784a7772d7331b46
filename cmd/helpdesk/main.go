// helpdeskサービスのエントリポイント。
// サポートケースとナレッジノートを管理するAPIサーバーと、
// 稼働中のサーバーを操作するクライアントコマンドを提供する。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

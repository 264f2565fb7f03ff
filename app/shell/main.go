package main

import (
	"os"

	"gitastic/app/shell/session"

	"github.com/spf13/cobra"
)

// gitastic-shell 是 authorized_keys 里的强制命令，
// sshd 验签后带着两个固定参数调起它： key 的持久 ID 和配置文件路径。
// 客户端真正想跑的命令在 SSH_ORIGINAL_COMMAND 里。
func main() {
	rootCmd := &cobra.Command{
		Use:           "gitastic-shell <key-id> <config-path>",
		Short:         "gitastic 的 ssh 授权网关",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(session.Run(args[0], args[1]))
		},
	}

	if err := rootCmd.Execute(); err != nil {
		// 参数都不对，按拒绝处理
		os.Exit(session.DeniedExitCode)
	}
}

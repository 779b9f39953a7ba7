package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pocket-assistant/internal/cli/api"
	"pocket-assistant/internal/cli/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "登出并清除本地凭证",
	Long:  `登出当前账号，服务器作废当前 Token，并清除本地保存的凭证。`,
	Run:   runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) {
	if !config.IsLoggedIn() {
		fmt.Println("当前未登录")
		return
	}

	ctx, cancel := commandContext()
	defer cancel()

	// 服务器不可达时仍清除本地凭证
	if err := api.NewClient(config.GetServerURL(), config.GetAccessToken()).Logout(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  通知服务器失败: %v\n", err)
	}

	if err := config.ClearAuth(); err != nil {
		fmt.Fprintf(os.Stderr, "清除凭证失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ 已登出并清除本地凭证")
}

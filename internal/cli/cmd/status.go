package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pocket-assistant/internal/cli/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "显示当前状态",
	Long: `显示当前登录状态和配置信息。

包括：
- 服务器地址
- 登录状态`,
	Run: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	fmt.Println("╔════════════════════════════════════════════════╗")
	fmt.Println("║         Pocket Assistant 状态信息               ║")
	fmt.Println("╠════════════════════════════════════════════════╣")

	fmt.Printf("║  服务器: %s\n", config.GetServerURL())

	if config.IsLoggedIn() {
		fmt.Printf("║  登录状态: ✓ 已登录 (%s)\n", config.GetUsername())
	} else {
		fmt.Println("║  登录状态: ✗ 未登录（使用默认用户）")
		fmt.Println("║")
		fmt.Println("║  请运行 'assistant login' 完成登录")
	}

	fmt.Println("╚════════════════════════════════════════════════╝")
}

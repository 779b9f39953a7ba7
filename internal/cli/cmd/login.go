package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pocket-assistant/internal/cli/api"
	"pocket-assistant/internal/cli/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "登录账号",
	Long: `使用用户名和密码登录，凭证保存在 ~/.pocket-assistant/config.yaml。

登录后对话、待办等操作都以该账号身份进行。`,
	Run: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("请输入用户名: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Fprintln(os.Stderr, "✗ 用户名不能为空")
		os.Exit(1)
	}

	// 输入密码（隐藏输入）
	fmt.Print("请输入密码: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ 读取密码失败: %v\n", err)
		os.Exit(1)
	}
	password := strings.TrimSpace(string(passwordBytes))
	if password == "" {
		fmt.Fprintln(os.Stderr, "✗ 密码不能为空")
		os.Exit(1)
	}

	ctx, cancel := commandContext()
	defer cancel()

	fmt.Println("🔐 正在登录...")
	resp, err := api.NewClient(config.GetServerURL(), "").Login(ctx, username, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ 登录失败: %v\n", err)
		os.Exit(1)
	}

	if err := config.SaveAuth(username, resp.AccessToken, resp.RefreshToken); err != nil {
		fmt.Fprintf(os.Stderr, "✗ 保存登录信息失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ 登录成功，当前用户: %s\n", username)
}

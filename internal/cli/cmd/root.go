// Package cmd 实现 CLI 命令
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pocket-assistant/internal/cli/config"
	"pocket-assistant/internal/cli/websocket"
)

// requestTimeout 单次 HTTP 命令的超时
const requestTimeout = 2 * time.Minute

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Pocket Assistant - 个人助手命令行客户端",
	Long: `Pocket Assistant CLI 客户端

直接运行进入对话模式，可以记录待办、查询人物喜好、看新闻或闲聊。
未登录时以服务器配置的默认用户身份对话。`,
	Run: runInteractive,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("server", "s", "", "服务器地址 (默认: "+config.DefaultServerURL+")")
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "初始化配置失败: %v\n", err)
		os.Exit(1)
	}

	if server, _ := rootCmd.PersistentFlags().GetString("server"); server != "" {
		config.SetServerURL(server)
	}
}

// commandContext 为单次 HTTP 命令创建带超时的上下文
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// runInteractive 对话模式：逐行读取输入，通过 WebSocket 发送并打印回复
func runInteractive(cmd *cobra.Command, args []string) {
	printBanner()

	wsClient := websocket.NewClient(config.GetServerURL(), config.GetAccessToken())
	replies := make(chan *websocket.Message, 8)
	wsClient.OnMessage(func(msg *websocket.Message) {
		replies <- msg
	})

	if err := wsClient.Connect(); err != nil {
		fmt.Fprintf(os.Stderr, "✗ 连接服务器失败: %v\n", err)
		os.Exit(1)
	}
	defer wsClient.Disconnect()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lines := make(chan string)
	go readLines(os.Stdin, lines)

	for {
		fmt.Print("> ")
		select {
		case <-sigChan:
			fmt.Println()
			fmt.Println("再见！")
			return
		case <-wsClient.Done():
			fmt.Fprintln(os.Stderr, "\n✗ 与服务器的连接已断开")
			return
		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				return
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				fmt.Println("再见！")
				return
			}
			if _, err := wsClient.SendChat(line); err != nil {
				fmt.Fprintf(os.Stderr, "✗ 发送失败: %v\n", err)
				continue
			}
			if !waitReply(replies, sigChan, wsClient.Done()) {
				return
			}
		}
	}
}

// waitReply 等待回复并打印，被中断或连接断开时返回 false
// 同一用户其他设备的对话也会同步过来，一并打印
func waitReply(replies <-chan *websocket.Message, sig <-chan os.Signal, done <-chan struct{}) bool {
	for {
		select {
		case msg := <-replies:
			if printMessage(msg) {
				return true
			}
		case <-sig:
			fmt.Println()
			return false
		case <-done:
			fmt.Fprintln(os.Stderr, "✗ 与服务器的连接已断开")
			return false
		}
	}
}

// printMessage 打印一条服务器消息，是回复或错误时返回 true
func printMessage(msg *websocket.Message) bool {
	switch msg.Type {
	case websocket.TypeChatReply:
		var reply websocket.ChatReply
		if err := json.Unmarshal(msg.Payload, &reply); err != nil {
			return false
		}
		fmt.Println(reply.Answer)
		if reply.RemindAt != nil {
			fmt.Printf("⏰ 提醒时间: %s\n", reply.RemindAt.Local().Format("2006-01-02 15:04"))
		}
		return true
	case websocket.TypeError:
		var payload websocket.ErrorPayload
		json.Unmarshal(msg.Payload, &payload)
		fmt.Fprintf(os.Stderr, "✗ %s\n", payload.Message)
		return true
	}
	return false
}

func readLines(r io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		out <- scanner.Text()
	}
}

func printBanner() {
	fmt.Println()
	fmt.Println("╔════════════════════════════════════════════════╗")
	fmt.Println("║         Pocket Assistant 个人助手               ║")
	fmt.Println("╚════════════════════════════════════════════════╝")
	if username := config.GetUsername(); username != "" {
		fmt.Printf("  👤 当前用户: %s\n", username)
	} else {
		fmt.Println("  未登录，使用默认用户。运行 'assistant login' 登录")
	}
	fmt.Println("  输入 exit 退出")
	fmt.Println()
}

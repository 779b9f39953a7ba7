package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pocket-assistant/internal/cli/api"
	"pocket-assistant/internal/cli/config"
)

var chatCmd = &cobra.Command{
	Use:   "chat <text>",
	Short: "发送一句话并打印回复",
	Example: `  assistant chat 明天下午3点提醒我开会
  assistant chat 陈总喜欢喝酒`,
	Args: cobra.MinimumNArgs(1),
	Run:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	client := api.NewClient(config.GetServerURL(), config.GetAccessToken())
	reply, err := client.Chat(ctx, strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}

	fmt.Println(reply.Answer)
	if reply.RemindAt != nil {
		fmt.Printf("⏰ 提醒时间: %s\n", reply.RemindAt.Local().Format("2006-01-02 15:04"))
	}
}

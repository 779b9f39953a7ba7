package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pocket-assistant/internal/cli/api"
	"pocket-assistant/internal/cli/config"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "管理待办事项",
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出待办事项",
	Run:   runTodoList,
}

var todoAddCmd = &cobra.Command{
	Use:     "add <content>",
	Short:   "新建待办事项",
	Example: `  assistant todo add 交周报 --remind "2024-05-17 17:00"`,
	Args:    cobra.MinimumNArgs(1),
	Run:     runTodoAdd,
}

func init() {
	todoAddCmd.Flags().StringP("remind", "r", "", "提醒时间，如 \"2024-05-17 17:00\"")
	todoCmd.AddCommand(todoListCmd, todoAddCmd)
	rootCmd.AddCommand(todoCmd)
}

func runTodoList(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	todos, err := api.NewClient(config.GetServerURL(), config.GetAccessToken()).ListTodos(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
	if len(todos) == 0 {
		fmt.Println("暂无待办")
		return
	}
	for _, t := range todos {
		fmt.Println(formatTodo(t))
	}
}

func runTodoAdd(cmd *cobra.Command, args []string) {
	remind, _ := cmd.Flags().GetString("remind")

	ctx, cancel := commandContext()
	defer cancel()

	todo, err := api.NewClient(config.GetServerURL(), config.GetAccessToken()).
		AddTodo(ctx, strings.Join(args, " "), remind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 已添加: %s\n", formatTodo(*todo))
}

func formatTodo(t api.Todo) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	line := fmt.Sprintf("%s #%d %s", mark, t.ID, t.Content)
	if t.RemindAt != nil {
		line += "  ⏰ " + *t.RemindAt
	}
	return line
}

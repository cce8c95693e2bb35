package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hackmate-ai/hackmate/internal/command"
)

// ToolsCmd creates the tools command, printing the same guide the
// /tools slash command returns in chat.
func ToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List available plugin tools",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(command.DefaultRegistry().Guide())
		},
	}
}

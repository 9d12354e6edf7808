package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adapted/internal/orchestrator"
	"github.com/abhisek/adapted/internal/ui/theme"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign tasks to a learner under a topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := orchestrator.AssignRequest{}
		req.UserID, _ = cmd.Flags().GetString("user")
		req.Topic, _ = cmd.Flags().GetString("topic")
		req.TaskIDs, _ = cmd.Flags().GetIntSlice("tasks")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Orchestrator.AssignTasks(cmd.Context(), req)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(res)
		}
		fmt.Println(theme.Correct.Render(fmt.Sprintf("Assigned %d task(s) to %s", len(req.TaskIDs), req.UserID)))
		fmt.Println(field(req.Topic, fmt.Sprint(res.AssignedTasks[req.Topic])))
		return nil
	},
}

func init() {
	assignCmd.Flags().StringP("user", "u", "", "Learner ID (required)")
	assignCmd.Flags().StringP("topic", "t", "", "Topic (required)")
	assignCmd.Flags().IntSlice("tasks", nil, "Comma-separated task IDs (required)")
}

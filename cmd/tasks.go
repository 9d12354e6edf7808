package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adapted/internal/orchestrator"
	"github.com/abhisek/adapted/internal/ui/theme"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Generate practice tasks matched to a learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := orchestrator.GenerateRequest{}
		req.UserID, _ = cmd.Flags().GetString("user")
		req.Topic, _ = cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		req.Count = &count

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Orchestrator.GenerateTasks(cmd.Context(), req)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(res)
		}

		var b strings.Builder
		b.WriteString(theme.Title.Render(fmt.Sprintf("Tasks (%s)", res.Difficulty)) + "\n")
		b.WriteString(theme.Hint.Render(res.Reasoning) + "\n\n")
		for _, t := range res.Tasks {
			b.WriteString(theme.Label.Render(fmt.Sprintf("#%d", t.ID)))
			b.WriteString(theme.Body.Render(t.Question))
			b.WriteString(theme.Hint.Render(fmt.Sprintf("  = %d", t.CorrectAnswer)) + "\n")
		}
		fmt.Print(b.String())
		return nil
	},
}

func init() {
	tasksCmd.Flags().StringP("user", "u", "", "Learner ID (required)")
	tasksCmd.Flags().StringP("topic", "t", "", "Topic to draw tasks from")
	tasksCmd.Flags().IntP("count", "n", 5, "Number of tasks")
}

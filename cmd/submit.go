package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adapted/internal/orchestrator"
	"github.com/abhisek/adapted/internal/ui/theme"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Grade an answer and update the learner profile",
	Long: `Grades one answer, classifies the error when it is wrong and updates the
learner's cognitive profile. Omit --answer to record the task as not attempted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := orchestrator.SubmitRequest{}
		req.UserID, _ = cmd.Flags().GetString("user")
		req.Question, _ = cmd.Flags().GetString("question")
		req.Topic, _ = cmd.Flags().GetString("topic")
		req.TaskID, _ = cmd.Flags().GetInt("task-id")
		correct, _ := cmd.Flags().GetInt("correct")
		req.CorrectAnswer = &correct
		if cmd.Flags().Changed("answer") {
			v, _ := cmd.Flags().GetInt("answer")
			req.UserAnswer = &v
		}
		if cmd.Flags().Changed("time") {
			v, _ := cmd.Flags().GetInt("time")
			req.TimeSpentSeconds = &v
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Orchestrator.SubmitTask(cmd.Context(), req)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(res)
		}

		var b strings.Builder
		if res.IsCorrect {
			b.WriteString(theme.Correct.Render("✓ Correct"))
		} else {
			b.WriteString(theme.Incorrect.Render(fmt.Sprintf("✗ Incorrect, the answer is %d", res.CorrectAnswer)))
		}
		b.WriteString("\n\n")
		if ea := res.ErrorAnalysis; ea != nil {
			b.WriteString(field("Error type", ea.Tag) + "\n")
			b.WriteString(field("Why", ea.Justification) + "\n")
			if ea.Remediation != "" {
				b.WriteString(field("Try", ea.Remediation) + "\n")
			}
			b.WriteString("\n")
		}
		b.WriteString(renderAdvice(res.MentorMessage))

		p := res.UpdatedProfile.Profile
		b.WriteString("\n\n")
		b.WriteString(accuracyBar("Accuracy", p.AccuracyRate) + "\n")
		b.WriteString(field("Level", p.Level) + "\n")
		b.WriteString(field("Points", p.Points))
		for _, name := range res.UpdatedProfile.NewAchievements {
			b.WriteString("\n" + theme.Warning.Render("Achievement unlocked: "+name))
		}
		fmt.Println(theme.Card.Render(b.String()))
		return nil
	},
}

func init() {
	submitCmd.Flags().StringP("user", "u", "", "Learner ID (required)")
	submitCmd.Flags().StringP("question", "q", "", "Task question text (required)")
	submitCmd.Flags().IntP("answer", "a", 0, "The learner's answer; omit when not attempted")
	submitCmd.Flags().IntP("correct", "c", 0, "The correct answer (required)")
	submitCmd.Flags().StringP("topic", "t", "", "Task topic")
	submitCmd.Flags().Int("task-id", 0, "Task ID")
	submitCmd.Flags().Int("time", 0, "Seconds spent on the task")
	_ = submitCmd.MarkFlagRequired("correct")
}

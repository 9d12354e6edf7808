package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adapted/internal/ui/theme"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <user_id>",
	Short: "Show a learner's progress dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.Orchestrator.Dashboard(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(d)
		}

		p := d.Profile
		var b strings.Builder
		b.WriteString(theme.Title.Render(p.UserID) + "\n\n")
		b.WriteString(accuracyBar("Accuracy", p.AccuracyRate) + "\n")
		b.WriteString(field("Tasks", fmt.Sprintf("%d (%d correct)", p.TotalTasksCompleted, p.CorrectTasksCount)) + "\n")
		b.WriteString(field("Level", p.Level) + "\n")
		b.WriteString(field("Points", p.Points) + "\n")
		b.WriteString(field("Mood", p.EmotionalState) + "\n")
		if len(p.Achievements) > 0 {
			b.WriteString(field("Achievements", strings.Join(p.Achievements, ", ")) + "\n")
		}
		b.WriteString(theme.Label.Render("Error patterns") + renderErrors(d.ErrorPatterns) + "\n")

		if len(d.RecentTasks) > 0 {
			b.WriteString("\n" + theme.Heading.Render("Recent tasks") + "\n")
			for _, t := range d.RecentTasks {
				mark := theme.Correct.Render("✓")
				if !t.IsCorrect {
					mark = theme.Incorrect.Render("✗")
				}
				b.WriteString(fmt.Sprintf("%s %s\n", mark, theme.Body.Render(t.Question)))
			}
		}
		b.WriteString("\n" + renderAdvice(d.MentorMessage))
		fmt.Println(theme.Card.Render(b.String()))
		return nil
	},
}

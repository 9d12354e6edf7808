package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adapted/internal/analytics"
	"github.com/abhisek/adapted/internal/orchestrator"
	"github.com/abhisek/adapted/internal/ui/theme"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a class report for teachers",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := orchestrator.ReportRequest{}
		req.ClassID, _ = cmd.Flags().GetString("class")
		req.ReportType, _ = cmd.Flags().GetString("type")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		r, err := a.Orchestrator.TeacherReport(cmd.Context(), req)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(r)
		}

		var b strings.Builder
		switch {
		case r.NoData:
			b.WriteString(theme.Hint.Render(r.Error))
		case r.Struggling != nil:
			writeStruggling(&b, r.Struggling)
		case r.Summary != nil:
			writeSummary(&b, r)
		}
		fmt.Println(theme.Card.Render(b.String()))
		return nil
	},
}

func writeSummary(b *strings.Builder, r *analytics.Report) {
	s := r.ClassStatistics
	b.WriteString(theme.Title.Render("Class summary") + "\n\n")
	b.WriteString(field("Students", s.TotalStudents) + "\n")
	b.WriteString(field("Tasks completed", s.TotalTasksCompleted) + "\n")
	b.WriteString(accuracyBar("Average accuracy", s.AverageAccuracy) + "\n")
	for _, level := range slices.Sorted(maps.Keys(s.LevelDistribution)) {
		b.WriteString(field(fmt.Sprintf("Level %d", level), s.LevelDistribution[level]) + "\n")
	}
	b.WriteString(theme.Label.Render("Common challenges") + renderErrors(r.CommonChallenges) + "\n")

	if len(r.Recommendations) > 0 {
		b.WriteString("\n" + theme.Heading.Render("Recommendations") + "\n")
		for _, rec := range r.Recommendations {
			b.WriteString(fmt.Sprintf("  [%s] %s: %s\n", rec.Priority, rec.Topic, rec.Action))
		}
	}
	if len(r.IndividualProfiles) > 0 {
		b.WriteString("\n" + theme.Heading.Render("Students") + "\n")
		for _, st := range r.IndividualProfiles {
			b.WriteString(accuracyBar(st.UserID, st.AccuracyRate) + "\n")
		}
	}
}

func writeStruggling(b *strings.Builder, s *analytics.Struggling) {
	b.WriteString(theme.Title.Render(fmt.Sprintf("Struggling students: %d", s.StrugglingCount)) + "\n")
	for _, st := range s.Students {
		b.WriteString("\n" + accuracyBar(st.UserID, st.AccuracyRate) + "\n")
		b.WriteString(theme.Label.Render("  errors") + renderErrors(st.MostCommonErrors) + "\n")
		for _, rec := range st.Recommendations {
			b.WriteString(theme.Hint.Render("  • "+rec) + "\n")
		}
	}
	if len(s.InterventionSuggestions) > 0 {
		b.WriteString("\n" + theme.Heading.Render("Interventions") + "\n")
		for _, in := range s.InterventionSuggestions {
			b.WriteString(theme.Warning.Render(in.Type) + " " + theme.Body.Render(in.Description) + "\n")
		}
	}
}

func init() {
	reportCmd.Flags().String("class", "", "Class ID (empty for all learners)")
	reportCmd.Flags().String("type", "summary", "Report type: summary, detailed, struggling")
}

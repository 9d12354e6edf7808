package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adapted/internal/achievements"
	"github.com/abhisek/adapted/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how often each achievement has been unlocked",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		counts, total, err := a.Achievements.Counts(cmd.Context())
		if err != nil {
			return fmt.Errorf("count achievements: %w", err)
		}
		if wantJSON(cmd) {
			return printJSON(map[string]any{"counts": counts, "total": total})
		}

		fmt.Println(theme.Title.Render("Achievements"))
		for _, ach := range achievements.All() {
			label := fmt.Sprintf("%s %s", ach.Icon(), ach.DisplayName())
			fmt.Println(field(label, counts[string(ach)]), theme.Hint.Render(ach.Description()))
		}
		fmt.Println(field("Total", total))
		return nil
	},
}

package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/adapted/internal/llm"
	"github.com/abhisek/adapted/internal/store"
	"github.com/abhisek/adapted/internal/ui/theme"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded language model calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent language model calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		user, _ := cmd.Flags().GetString("user")

		events, closeFn, err := openEvents(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		list, err := events.QueryLLMEvents(cmd.Context(), store.QueryOpts{
			Limit:   limit,
			Purpose: purpose,
			UserID:  user,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if wantJSON(cmd) {
			return printJSON(list)
		}
		if len(list) == 0 {
			fmt.Println(theme.Hint.Render("No LLM calls recorded."))
			return nil
		}

		t := newTable("ID", "Time", "User", "Purpose", "Model", "In", "Out", "Ms", "OK")
		for _, e := range list {
			ok := theme.Correct.Render("✓")
			if !e.Success {
				ok = theme.Incorrect.Render("✗")
			}
			t.Row(
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format(timeLayout),
				truncate(e.UserID, 12),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				ok,
			)
		}
		fmt.Println(t)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		events, closeFn, err := openEvents(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		e, err := events.GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		if wantJSON(cmd) {
			return printJSON(e)
		}

		status := theme.Correct.Render("success")
		if !e.Success {
			status = theme.Incorrect.Render("failed")
		}
		lines := []string{
			theme.Title.Render(fmt.Sprintf("LLM call #%d", e.ID)),
			field("Time", e.Timestamp.Local().Format(timeLayout)),
			field("Provider", e.Provider),
			field("Model", e.Model),
			field("Purpose", e.Purpose),
		}
		if e.UserID != "" {
			lines = append(lines, field("User", e.UserID))
		}
		lines = append(lines,
			field("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)),
			field("Latency", fmt.Sprintf("%dms", e.LatencyMs)),
			field("Status", status),
		)
		if e.ErrorMessage != "" {
			lines = append(lines, field("Error", e.ErrorMessage))
		}
		fmt.Println(theme.Card.Render(strings.Join(lines, "\n")))

		printSection("Request", e.RequestBody)
		printSection("Response", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage by purpose and estimated cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, closeFn, err := openEvents(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		ctx := cmd.Context()
		byPurpose, err := events.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := events.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		if wantJSON(cmd) {
			return printJSON(map[string]any{
				"by_purpose": byPurpose,
				"by_model":   byModel,
			})
		}
		if len(byPurpose) == 0 {
			fmt.Println(theme.Hint.Render("No LLM usage recorded yet."))
			return nil
		}

		fmt.Println(theme.Heading.Render("Usage by purpose"))
		fmt.Println(purposeTable(byPurpose))
		fmt.Println()
		fmt.Println(theme.Heading.Render("Estimated cost (USD)"))
		fmt.Println(costTable(byModel))
		return nil
	},
}

func purposeTable(stats []store.LLMUsageStats) *table.Table {
	t := newTable("Purpose", "Calls", "Input", "Output", "Total", "Avg ms")
	var calls, in, out int
	for _, st := range stats {
		t.Row(st.Purpose,
			strconv.Itoa(st.Calls),
			strconv.Itoa(st.InputTokens),
			strconv.Itoa(st.OutputTokens),
			strconv.Itoa(st.InputTokens+st.OutputTokens),
			strconv.FormatInt(st.AvgLatencyMs, 10),
		)
		calls += st.Calls
		in += st.InputTokens
		out += st.OutputTokens
	}
	t.Row("TOTAL", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), strconv.Itoa(in+out), "")
	return t
}

// costTable prices each provider and model pair. Models without a known
// price show "?" and make the total partial.
func costTable(usage []store.LLMModelUsage) *table.Table {
	t := newTable("Provider", "Model", "Calls", "Input", "Output", "Cost")
	var (
		total   float64
		unknown bool
	)
	for _, mu := range usage {
		price := "?"
		if cost := llm.LookupCost(mu.Provider, mu.Model); cost != nil {
			c := cost.Cost(mu.InputTokens, mu.OutputTokens)
			total += c
			price = formatCost(c)
		} else {
			unknown = true
		}
		t.Row(mu.Provider, truncate(mu.Model, 32),
			strconv.Itoa(mu.Calls),
			strconv.Itoa(mu.InputTokens),
			strconv.Itoa(mu.OutputTokens),
			price,
		)
	}
	label := "TOTAL"
	if unknown {
		label = "TOTAL (partial)"
	}
	t.Row(label, "", "", "", "", formatCost(total))
	return t
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.Heading.Padding(0, 1)
			}
			return theme.Body.Padding(0, 1)
		})
}

func printSection(title, body string) {
	fmt.Println()
	fmt.Println(theme.Heading.Render(title))
	if body == "" {
		fmt.Println(theme.Hint.Render("(not captured)"))
		return
	}
	fmt.Println(body)
}

// openEvents opens the LLM event log. Events are only recorded by the
// SQLite backend.
func openEvents(cmd *cobra.Command) (store.EventRepo, func(), error) {
	a, err := openApp(cmd)
	if err != nil {
		return nil, nil, err
	}
	if a.Store == nil {
		a.Close()
		return nil, nil, errors.New("LLM events are only recorded with a database backend")
	}
	return a.Events, func() { a.Close() }, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (chat, hint, motivation, traits)")
	llmListCmd.Flags().StringP("user", "u", "", "Filter by user ID")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

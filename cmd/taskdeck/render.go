package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/taskdeck/taskdeck/domain"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/dates"
	"github.com/taskdeck/taskdeck/internal/infrastructure/monitor"
	"github.com/taskdeck/taskdeck/usecase/registry"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Styling is skipped when stdout is piped so command output stays
// machine-readable.
var colorEnabled = term.IsTerminal(int(os.Stdout.Fd()))

func styled(style lipgloss.Style, text string) string {
	if !colorEnabled {
		return text
	}
	return style.Render(text)
}

func printTaskTable(rows []registry.Row) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTitle\tDescription\tDue Date\tPriority\tStatus\tCreated\tOverdue")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Title, r.Description, r.DueDate, r.Priority, r.Status, r.Created, r.Overdue)
	}
	w.Flush()
	fmt.Println()
	fmt.Println(styled(infoStyle, fmt.Sprintf("Total tasks: %d", len(rows))))
}

func printTaskDetail(t *domain.Task) {
	fmt.Printf("%-12s %s\n", "ID:", t.ID())
	fmt.Printf("%-12s %s\n", "Title:", t.Title())
	fmt.Printf("%-12s %s\n", "Description:", t.Description())
	fmt.Printf("%-12s %s\n", "Due Date:", formatDetailDue(t))
	fmt.Printf("%-12s %s\n", "Priority:", t.Priority().DisplayName())
	fmt.Printf("%-12s %s\n", "Status:", t.Status().DisplayName())
	fmt.Printf("%-12s %s\n", "Created:", t.CreatedAt().Format(dates.DisplayLayout))

	if t.IsOverdue() {
		fmt.Println(styled(errorStyle, "Status: OVERDUE"))
	} else if t.DueDate() != nil && !t.IsCompleted() {
		fmt.Println(styled(mutedStyle, fmt.Sprintf("Due in %d day(s)", t.DaysUntilDue())))
	}
}

func formatDetailDue(t *domain.Task) string {
	due := t.DueDate()
	if due == nil {
		return "Not set"
	}
	return due.Format(dates.DisplayLayout)
}

func printTasksJSON(tasks []*domain.Task) error {
	records := make([]domain.TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, t.Record())
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func printTaskJSON(t *domain.Task) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(t.Record())
}

func printStatus(cfg *config.Config, st monitor.Status) {
	store := styled(errorStyle, "disconnected")
	if st.Store {
		store = styled(successStyle, "connected")
	}
	fmt.Printf("%-12s %s\n", "Application:", cfg.AppName)
	fmt.Printf("%-12s %s\n", "Environment:", cfg.Environment)
	fmt.Printf("%-12s %s\n", "Store:", store)
	fmt.Printf("%-12s %s:%s/%s\n", "Database:", cfg.Mongo.Host, cfg.Mongo.Port, cfg.Mongo.Database)
	fmt.Printf("%-12s %d\n", "Tasks:", st.TaskCount)
	fmt.Printf("%-12s %s\n", "Checked:", st.LastCheck.Format(dates.DisplayLayout))
}

func printStatusJSON(st monitor.Status) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}

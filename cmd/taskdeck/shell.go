package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/domain"
	"github.com/taskdeck/taskdeck/internal/services/reminder"
	"github.com/taskdeck/taskdeck/internal/validation"
	"github.com/taskdeck/taskdeck/usecase/registry"
)

// User-facing messages shared by the shell and the one-shot commands.
const (
	msgWelcome        = "Task Management Application"
	msgGoodbye        = "Bye bye!"
	msgInvalidCommand = `Invalid command. Type "help" for available commands.`
	msgTaskAdded      = "Task added successfully!"
	msgTaskUpdated    = "Task updated successfully!"
	msgTaskCompleted  = "Task marked as completed!"
	msgTaskDeleted    = "Task deleted successfully!"
	msgNoTasks        = "No tasks found."
	msgTaskNotFound   = "Task not found."
)

type shell struct {
	app     *app
	scanner *bufio.Scanner
}

// runShell is the RunE of the bare taskdeck invocation. It keeps the
// app alive until the user exits, with the connection monitor and the
// overdue reminder running in the background.
func runShell(cmd *cobra.Command, args []string) error {
	a, err := newApp(syscall.SIGTERM)
	if err != nil {
		return err
	}
	defer a.shutdown()

	a.monitor.Start()
	a.manager.Register("store monitor", func(context.Context) error {
		a.monitor.Stop()
		return nil
	})

	if a.cfg.Reminder.Enabled {
		rem := reminder.New(a.registry, notifyOverdue, a.logger, reminder.Config{
			Interval: time.Duration(a.cfg.Reminder.IntervalSeconds) * time.Second,
		})
		rem.Start()
		a.manager.Register("overdue reminder", func(ctx context.Context) error {
			rem.Stop(ctx)
			return nil
		})
	}

	s := &shell{app: a, scanner: bufio.NewScanner(os.Stdin)}
	s.run()
	return nil
}

func notifyOverdue(tasks []*domain.Task) {
	fmt.Printf("\n%s\n", styled(warnStyle, fmt.Sprintf("Reminder: %d task(s) are overdue.", len(tasks))))
}

func (s *shell) run() {
	// Ctrl-C becomes a hint instead of killing the shell.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		for range sigCh {
			fmt.Printf("\n%s\n", styled(warnStyle, "Use 'exit' to quit the application."))
		}
	}()
	defer func() {
		signal.Stop(sigCh)
		close(sigCh)
	}()

	s.printBanner()
	for {
		fmt.Print(s.prompt())
		line, ok := s.readLine()
		if !ok {
			fmt.Println()
			break
		}
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		if !s.dispatch(line) {
			break
		}
	}
	fmt.Println(styled(infoStyle, msgGoodbye))
}

func (s *shell) dispatch(line string) bool {
	command, args := line, ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		command, args = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch command {
	case "add":
		s.addTask()
	case "list":
		s.listTasks(args)
	case "show":
		s.showTask(args)
	case "update":
		s.updateTask(args)
	case "complete":
		s.completeTask(args)
	case "delete":
		s.deleteTask(args)
	case "status":
		s.showStatus()
	case "help":
		s.printHelp()
	case "exit":
		return false
	default:
		s.printError(msgInvalidCommand)
	}
	return true
}

func (s *shell) addTask() {
	s.printHeader("Add New Task")

	title, ok := s.promptValidated("Title: ", validation.Title)
	if !ok {
		return
	}

	description, ok := s.promptLine("Description (optional): ")
	if !ok {
		return
	}
	if err := validation.Description(description); err != nil {
		s.printError(err.Error())
		return
	}

	due, ok := s.promptValidated("Due Date (optional, format: YYYY-MM-DD or 'today', 'tomorrow'): ", validation.DueDate)
	if !ok {
		return
	}

	priority, ok := s.promptPriority("Priority:", false)
	if !ok {
		return
	}

	ctx, cancel := s.app.opCtx()
	defer cancel()

	task, err := s.app.registry.Add(ctx, registry.AddInput{
		Title:       validation.Sanitize(title),
		Description: validation.Sanitize(description),
		DueDate:     due,
		Priority:    priority,
	})
	if err != nil {
		s.printError(err.Error())
		return
	}

	fmt.Println()
	s.printSuccess(msgTaskAdded)
	fmt.Println(styled(infoStyle, "Task ID: "+task.ID()))
}

func (s *shell) listTasks(args string) {
	s.printHeader("Task List")

	var opts registry.FilterOptions
	var sortKey string
	if args != "" {
		parts := strings.Fields(args)
		for i := 0; i+1 < len(parts); i += 2 {
			key := strings.ReplaceAll(strings.TrimLeft(parts[i], "-"), "-", "_")
			if err := applyListFilter(&opts, &sortKey, key, parts[i+1]); err != nil {
				s.printError("Invalid filter: " + err.Error())
				return
			}
		}
	}

	ctx, cancel := s.app.opCtx()
	defer cancel()

	rows := s.app.registry.ListForDisplay(ctx, registry.DisplayOptions{
		Filter:  opts,
		SortKey: sortKey,
	})
	if len(rows) == 0 {
		fmt.Println(styled(warnStyle, msgNoTasks))
		return
	}
	printTaskTable(rows)
}

func applyListFilter(opts *registry.FilterOptions, sortKey *string, key, value string) error {
	switch key {
	case "priority":
		p, err := domain.ParsePriority(value)
		if err != nil {
			return err
		}
		opts.Priority = &p
	case "status":
		st, err := domain.ParseStatus(value)
		if err != nil {
			return err
		}
		opts.Status = &st
	case "due", "due_date":
		if err := validation.DueFilter(value); err != nil {
			return err
		}
		opts.Due = value
	case "search":
		opts.Search = value
	case "sort":
		if err := validation.SortKey(value); err != nil {
			return err
		}
		*sortKey = value
	default:
		return fmt.Errorf("unknown filter type: %s", key)
	}
	return nil
}

func (s *shell) showTask(args string) {
	s.printHeader("Task Details")

	id, ok := s.resolveTaskID(args)
	if !ok {
		return
	}
	task, ok := s.lookupTask(id)
	if !ok {
		return
	}
	printTaskDetail(task)
}

func (s *shell) updateTask(args string) {
	s.printHeader("Update Task")

	id, ok := s.resolveTaskID(args)
	if !ok {
		return
	}
	task, ok := s.lookupTask(id)
	if !ok {
		return
	}

	fmt.Println()
	fmt.Println(styled(infoStyle, "Current task details:"))
	printTaskDetail(task)
	fmt.Println()

	var fields registry.UpdateFields

	title, ok := s.promptValidated("New title (press Enter to keep current): ", optionalCheck(validation.Title))
	if !ok {
		return
	}
	if title != "" {
		v := validation.Sanitize(title)
		fields.Title = &v
	}

	description, ok := s.promptValidated("New description (press Enter to keep current): ", optionalCheck(validation.Description))
	if !ok {
		return
	}
	if description != "" {
		v := validation.Sanitize(description)
		fields.Description = &v
	}

	due, ok := s.promptValidated("New due date (press Enter to keep current): ", validation.DueDate)
	if !ok {
		return
	}
	if due != "" {
		fields.DueDate = &due
	}

	priority, ok := s.promptPriority("New priority (press Enter to keep current):", true)
	if !ok {
		return
	}
	if priority != "" {
		fields.Priority = &priority
	}

	status, ok := s.promptStatus("New status (press Enter to keep current):", true)
	if !ok {
		return
	}
	if status != "" {
		fields.Status = &status
	}

	if fields == (registry.UpdateFields{}) {
		fmt.Println()
		fmt.Println(styled(warnStyle, "No changes made."))
		return
	}

	ctx, cancel := s.app.opCtx()
	defer cancel()
	if err := s.app.registry.Update(ctx, id, fields); err != nil {
		s.printError(err.Error())
		return
	}

	fmt.Println()
	s.printSuccess(msgTaskUpdated)
}

func (s *shell) completeTask(args string) {
	s.printHeader("Complete Task")

	id, ok := s.resolveTaskID(args)
	if !ok {
		return
	}
	task, ok := s.lookupTask(id)
	if !ok {
		return
	}

	if task.IsCompleted() {
		fmt.Println(styled(warnStyle, "Task is already completed."))
		return
	}

	fmt.Println()
	fmt.Println(styled(infoStyle, "Task to complete:"))
	printTaskDetail(task)
	fmt.Println()

	confirmed, ok := s.confirm("Mark this task as completed? (y/n): ")
	if !ok {
		return
	}
	if !confirmed {
		fmt.Println()
		fmt.Println(styled(warnStyle, "Task completion cancelled."))
		return
	}

	ctx, cancel := s.app.opCtx()
	defer cancel()
	if err := s.app.registry.Complete(ctx, id); err != nil {
		s.printError(err.Error())
		return
	}

	fmt.Println()
	s.printSuccess(msgTaskCompleted)
}

func (s *shell) deleteTask(args string) {
	s.printHeader("Delete Task")

	id, ok := s.resolveTaskID(args)
	if !ok {
		return
	}
	task, ok := s.lookupTask(id)
	if !ok {
		return
	}

	fmt.Println()
	fmt.Println(styled(errorStyle, "Task to delete:"))
	printTaskDetail(task)
	fmt.Println()

	confirmed, ok := s.confirm("Are you sure you want to delete this task? (y/n): ")
	if !ok {
		return
	}
	if !confirmed {
		fmt.Println()
		fmt.Println(styled(warnStyle, "Task deletion cancelled."))
		return
	}

	ctx, cancel := s.app.opCtx()
	defer cancel()
	if err := s.app.registry.Delete(ctx, id); err != nil {
		s.printError(err.Error())
		return
	}

	fmt.Println()
	s.printSuccess(msgTaskDeleted)
}

func (s *shell) showStatus() {
	s.printHeader("Status")
	s.app.monitor.Refresh()
	printStatus(s.app.cfg, s.app.monitor.GetStatus())
}

func (s *shell) printHelp() {
	s.printHeader("Available Commands")

	entries := [][2]string{
		{"add", "Add a new task"},
		{"list [filters]", "List all tasks (use --priority, --status, --due-date, --search)"},
		{"show [task_id]", "Show the details of a task"},
		{"update [task_id]", "Update an existing task"},
		{"complete [task_id]", "Mark a task as completed"},
		{"delete [task_id]", "Delete a task"},
		{"status", "Show application and store status"},
		{"help", "Show this help message"},
		{"exit", "Exit the application"},
	}
	for _, e := range entries {
		fmt.Printf("%s %s\n", styled(promptStyle, fmt.Sprintf("%-18s", e[0])), e[1])
	}

	fmt.Println()
	fmt.Println(styled(warnStyle, "Examples:"))
	fmt.Println("  list --priority high")
	fmt.Println("  list --status pending")
	fmt.Println("  list --due-date today")
	fmt.Println("  update abc12345")
}

func (s *shell) printBanner() {
	line := strings.Repeat("=", 30)
	fmt.Println()
	fmt.Println(styled(headerStyle, line))
	fmt.Println(styled(headerStyle, "  "+msgWelcome))
	fmt.Println(styled(headerStyle, line))
	fmt.Println(styled(warnStyle, "Type 'help' to show available commands."))
	fmt.Println()
}

func (s *shell) prompt() string {
	return styled(promptStyle, "user@taskdeck>") + " "
}

func (s *shell) printHeader(title string) {
	fmt.Println()
	fmt.Println(styled(headerStyle, "=== "+title+" ==="))
}

func (s *shell) printSuccess(msg string) {
	fmt.Println(styled(successStyle, "✓ "+msg))
}

func (s *shell) printError(msg string) {
	fmt.Println(styled(errorStyle, msg))
}

func (s *shell) readLine() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	return s.scanner.Text(), true
}

func (s *shell) promptLine(label string) (string, bool) {
	fmt.Print(styled(warnStyle, label))
	line, ok := s.readLine()
	if !ok {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// promptValidated keeps asking until the input passes the check. The
// second return is false when input ran out.
func (s *shell) promptValidated(label string, check func(string) error) (string, bool) {
	for {
		value, ok := s.promptLine(label)
		if !ok {
			return "", false
		}
		if err := check(value); err != nil {
			s.printError(err.Error())
			continue
		}
		return value, true
	}
}

func (s *shell) promptPriority(label string, optional bool) (string, bool) {
	names := domain.PriorityNames()
	for {
		fmt.Println(styled(warnStyle, label))
		for i := range names {
			fmt.Printf("  %d. %s\n", i+1, domain.Priority(i+1).DisplayName())
		}
		choice, ok := s.promptLine(fmt.Sprintf("Enter choice (1-%d): ", len(names)))
		if !ok {
			return "", false
		}
		if choice == "" && optional {
			return "", true
		}
		if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(names) {
			return names[n-1], true
		}
		s.printError(fmt.Sprintf("Invalid choice. Please enter 1, 2, or %d.", len(names)))
	}
}

func (s *shell) promptStatus(label string, optional bool) (string, bool) {
	names := domain.StatusNames()
	for {
		fmt.Println(styled(warnStyle, label))
		for i := range names {
			fmt.Printf("  %d. %s\n", i+1, domain.Status(i+1).DisplayName())
		}
		choice, ok := s.promptLine(fmt.Sprintf("Enter choice (1-%d): ", len(names)))
		if !ok {
			return "", false
		}
		if choice == "" && optional {
			return "", true
		}
		if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(names) {
			return names[n-1], true
		}
		s.printError(fmt.Sprintf("Invalid choice. Please enter 1, 2, or %d.", len(names)))
	}
}

// confirm keeps asking until it gets a yes or a no.
func (s *shell) confirm(label string) (confirmed, ok bool) {
	for {
		answer, ok := s.promptLine(label)
		if !ok {
			return false, false
		}
		v, err := validation.YesNo(answer)
		if err != nil {
			s.printError(err.Error())
			continue
		}
		return v, true
	}
}

func (s *shell) resolveTaskID(args string) (string, bool) {
	id := args
	if id == "" {
		var ok bool
		id, ok = s.promptLine("Enter Task ID: ")
		if !ok {
			return "", false
		}
	}
	if id == "" {
		s.printError("Task ID is required.")
		return "", false
	}
	if err := validation.TaskID(id); err != nil {
		s.printError(err.Error())
		return "", false
	}
	return id, true
}

func (s *shell) lookupTask(id string) (*domain.Task, bool) {
	ctx, cancel := s.app.opCtx()
	defer cancel()

	task, err := s.app.registry.Get(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			s.printError(msgTaskNotFound)
		} else {
			s.printError(err.Error())
		}
		return nil, false
	}
	return task, true
}

func optionalCheck(check func(string) error) func(string) error {
	return func(value string) error {
		if value == "" {
			return nil
		}
		return check(value)
	}
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskdeck/taskdeck/domain"
	"github.com/taskdeck/taskdeck/internal/validation"
	"github.com/taskdeck/taskdeck/usecase/registry"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, optionally filtered and sorted",
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show the details of a single task",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var updateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update fields of an existing task",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var completeCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show application and store status",
	RunE:  runStatus,
}

var (
	addDescription string
	addDue         string
	addPriority    string
	addStatus      string
)

var (
	listPriority string
	listStatus   string
	listDue      string
	listSearch   string
	listSort     string
	listAsc      bool
	listJSON     bool
)

var showJSON bool

var (
	updateTitle       string
	updateDescription string
	updateDue         string
	updatePriority    string
	updateStatus      string
)

var deleteYes bool

var statusJSON bool

func init() {
	rootCmd.AddCommand(addCmd, listCmd, showCmd, updateCmd, completeCmd, deleteCmd, statusCmd)

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "task description")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date (2006-01-02 or keywords like today, tomorrow)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "task priority (low, medium, high)")
	addCmd.Flags().StringVarP(&addStatus, "status", "s", "", "initial status (pending, in_progress, completed)")

	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "only tasks with this priority")
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "only tasks with this status")
	listCmd.Flags().StringVar(&listDue, "due", "", "only tasks due today or overdue")
	listCmd.Flags().StringVar(&listSearch, "search", "", "only tasks whose title or description contains this text")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort key (created_at, due_date, priority, title)")
	listCmd.Flags().BoolVar(&listAsc, "asc", false, "sort ascending instead of descending")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print tasks as JSON")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the task as JSON")

	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "new due date, empty clears it")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "new priority")
	updateCmd.Flags().StringVarP(&updateStatus, "status", "s", "", "new status")

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without asking for confirmation")

	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the status as JSON")

	addTaskFlagAliases(addCmd, listCmd, updateCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.shutdown()

	ctx, cancel := a.opCtx()
	defer cancel()

	task, err := a.registry.Add(ctx, registry.AddInput{
		Title:       validation.Sanitize(strings.Join(args, " ")),
		Description: validation.Sanitize(addDescription),
		DueDate:     addDue,
		Priority:    addPriority,
		Status:      addStatus,
	})
	if err != nil {
		return err
	}

	fmt.Println(styled(successStyle, msgTaskAdded))
	fmt.Printf("Task ID: %s\n", task.ID())
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	opts := registry.FilterOptions{Search: listSearch}

	if listPriority != "" {
		p, err := domain.ParsePriority(listPriority)
		if err != nil {
			return err
		}
		opts.Priority = &p
	}
	if listStatus != "" {
		s, err := domain.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		opts.Status = &s
	}
	if err := validation.DueFilter(listDue); err != nil {
		return err
	}
	opts.Due = listDue
	if err := validation.SortKey(listSort); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.shutdown()

	ctx, cancel := a.opCtx()
	defer cancel()

	if listJSON {
		sortKey := listSort
		if sortKey == "" {
			sortKey = registry.SortByCreated
		}
		tasks := registry.SortTasks(a.registry.Filter(ctx, opts), sortKey, !listAsc)
		return printTasksJSON(tasks)
	}

	rows := a.registry.ListForDisplay(ctx, registry.DisplayOptions{
		Filter:    opts,
		SortKey:   listSort,
		Ascending: listAsc,
	})
	if len(rows) == 0 {
		fmt.Println(styled(warnStyle, msgNoTasks))
		return nil
	}
	printTaskTable(rows)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := validation.TaskID(args[0]); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.shutdown()

	ctx, cancel := a.opCtx()
	defer cancel()

	task, err := a.registry.Get(ctx, args[0])
	if err != nil {
		return err
	}

	if showJSON {
		return printTaskJSON(task)
	}
	printTaskDetail(task)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if err := validation.TaskID(args[0]); err != nil {
		return err
	}

	var fields registry.UpdateFields
	flags := cmd.Flags()
	if flags.Changed("title") {
		v := validation.Sanitize(updateTitle)
		fields.Title = &v
	}
	if flags.Changed("description") {
		v := validation.Sanitize(updateDescription)
		fields.Description = &v
	}
	if flags.Changed("due") {
		fields.DueDate = &updateDue
	}
	if flags.Changed("priority") {
		fields.Priority = &updatePriority
	}
	if flags.Changed("status") {
		fields.Status = &updateStatus
	}
	if fields == (registry.UpdateFields{}) {
		fmt.Println(styled(warnStyle, "No changes made."))
		return nil
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.shutdown()

	ctx, cancel := a.opCtx()
	defer cancel()

	if err := a.registry.Update(ctx, args[0], fields); err != nil {
		return err
	}

	fmt.Println(styled(successStyle, msgTaskUpdated))
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	if err := validation.TaskID(args[0]); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.shutdown()

	ctx, cancel := a.opCtx()
	defer cancel()

	task, err := a.registry.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if task.IsCompleted() {
		fmt.Println(styled(warnStyle, "Task is already completed."))
		return nil
	}

	if err := a.registry.Complete(ctx, args[0]); err != nil {
		return err
	}

	fmt.Println(styled(successStyle, msgTaskCompleted))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := validation.TaskID(args[0]); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.shutdown()

	gctx, gcancel := a.opCtx()
	task, err := a.registry.Get(gctx, args[0])
	gcancel()
	if err != nil {
		return err
	}

	if !deleteYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("confirmation required, pass --yes to delete")
		}
		fmt.Println(styled(errorStyle, "Task to delete:"))
		printTaskDetail(task)
		fmt.Print("\nAre you sure you want to delete this task? (y/n): ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		ok, err := validation.YesNo(strings.TrimSpace(line))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(styled(warnStyle, "Task deletion cancelled."))
			return nil
		}
	}

	ctx, cancel := a.opCtx()
	defer cancel()

	if err := a.registry.Delete(ctx, args[0]); err != nil {
		return err
	}

	fmt.Println(styled(successStyle, msgTaskDeleted))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.shutdown()

	a.monitor.Refresh()
	st := a.monitor.GetStatus()

	if statusJSON {
		return printStatusJSON(st)
	}
	printStatus(a.cfg, st)
	return nil
}

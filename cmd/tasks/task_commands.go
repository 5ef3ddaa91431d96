package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/tasks/internal/editor"
	"github.com/amonks/tasks/internal/listflags"
	"github.com/amonks/tasks/internal/ui"
	"github.com/amonks/tasks/task"
	"github.com/amonks/tasks/view"
	"github.com/spf13/cobra"
)

// add
var taskAddCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Add a task",
	Long: `Add a task.

Arguments are joined with spaces, so quoting is optional.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskAdd,
}

var (
	taskAddStatus string
	taskAddDue    string
)

// list
var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active tasks in display order",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var (
	taskListJSON bool
	taskListAll  bool
)

// archived
var taskArchivedCmd = &cobra.Command{
	Use:   "archived",
	Short: "List archived tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskArchived,
}

var taskArchivedJSON bool

// show
var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskShowJSON bool

// status
var taskStatusCmd = &cobra.Command{
	Use:   "status <id> <todo|doing|done>",
	Short: "Change a task's status",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskStatus,
}

var taskStartCmd = &cobra.Command{
	Use:   "start <id>...",
	Short: "Mark one or more tasks as in progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args, task.StatusDoing)
	},
}

var taskFinishCmd = &cobra.Command{
	Use:   "finish <id>...",
	Short: "Mark one or more tasks as done",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args, task.StatusDone)
	},
}

// edit
var taskEditCmd = &cobra.Command{
	Use:   "edit <id> [text...]",
	Short: "Change a task's text",
	Long: `Change a task's text.

With no text and an interactive terminal, opens $EDITOR on a TOML
representation of the task so status and due date can be changed too.
Use --edit to open the editor even when text is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskEdit,
}

var taskEditEditor bool

// due
var taskDueCmd = &cobra.Command{
	Use:   "due <id> [YYYY-MM-DD]",
	Short: "Set or clear a task's due date",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runTaskDue,
}

var taskDueClear bool

// archive
var taskArchiveCmd = &cobra.Command{
	Use:   "archive <id>...",
	Short: "Move one or more tasks to the archive",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyToTasks(cmd, args, "Task archived", (*task.Store).Archive)
	},
}

var taskUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <id>...",
	Short: "Restore one or more archived tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyToTasks(cmd, args, "Task restored", (*task.Store).Unarchive)
	},
}

// delete
var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task permanently",
	Long: `Delete a task permanently.

Asks for confirmation on an interactive terminal. Otherwise --yes is required.`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskDelete,
}

var taskDeleteYes bool

// summary
var taskSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count active tasks by status",
	Args:  cobra.NoArgs,
	RunE:  runTaskSummary,
}

var taskSummaryJSON bool

func init() {
	rootCmd.AddCommand(taskAddCmd, taskListCmd, taskArchivedCmd, taskShowCmd, taskStatusCmd, taskStartCmd,
		taskFinishCmd, taskEditCmd, taskDueCmd, taskArchiveCmd, taskUnarchiveCmd, taskDeleteCmd, taskSummaryCmd)

	taskAddCmd.Flags().StringVarP(&taskAddStatus, "status", "s", string(task.StatusTodo), "Initial status (todo, doing, done)")
	taskAddCmd.Flags().StringVarP(&taskAddDue, "due", "d", "", "Due date (YYYY-MM-DD)")

	taskListCmd.Flags().BoolVar(&taskListJSON, "json", false, "Output as JSON")
	listflags.AddAllFlag(taskListCmd, &taskListAll)
	taskArchivedCmd.Flags().BoolVar(&taskArchivedJSON, "json", false, "Output as JSON")
	taskShowCmd.Flags().BoolVar(&taskShowJSON, "json", false, "Output as JSON")
	taskSummaryCmd.Flags().BoolVar(&taskSummaryJSON, "json", false, "Output as JSON")

	taskEditCmd.Flags().BoolVarP(&taskEditEditor, "edit", "e", false, "Open $EDITOR (default if interactive and no text is given)")

	taskDueCmd.Flags().BoolVar(&taskDueClear, "clear", false, "Remove the due date")

	taskDeleteCmd.Flags().BoolVarP(&taskDeleteYes, "yes", "y", false, "Delete without asking")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if err := view.ValidateNewText(text); err != nil {
		return err
	}

	status, err := task.ParseStatus(taskAddStatus)
	if err != nil {
		return err
	}
	opts := task.AddOptions{Status: status}
	if due := strings.TrimSpace(taskAddDue); due != "" {
		if err := task.ValidateDueDate(due); err != nil {
			return err
		}
		opts.DueDate = &due
	}

	return withStore(cmd, func(store *task.Store) error {
		created := store.Add(text, opts)
		printResult(cmd.OutOrStdout(), "Task added", created)
		return nil
	})
}

func runTaskList(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(store *task.Store) error {
		out := cmd.OutOrStdout()
		if taskListJSON {
			tasks := store.ListSorted()
			if taskListAll {
				tasks = append(tasks, store.ListArchived()...)
			}
			return encodeJSON(out, nonNilTasks(tasks))
		}

		now := store.Now()
		page := view.Build(store, now)
		fmt.Fprintln(out, ui.Header(summaryLine(page.Summary)))
		if len(page.Items) == 0 {
			fmt.Fprintln(out, ui.Muted(page.EmptyMessage))
		} else {
			fmt.Fprint(out, renderItemTable(page.Items, now, textColumnWidth(out)))
		}
		if taskListAll && len(page.Archived) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.Header(fmt.Sprintf("Archived (%d)", len(page.Archived))))
			fmt.Fprint(out, renderItemTable(page.Archived, now, textColumnWidth(out)))
		}
		return nil
	})
}

func runTaskArchived(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(store *task.Store) error {
		out := cmd.OutOrStdout()
		if taskArchivedJSON {
			return encodeJSON(out, nonNilTasks(store.ListArchived()))
		}

		now := store.Now()
		page := view.Build(store, now)
		if len(page.Archived) == 0 {
			fmt.Fprintln(out, ui.Muted(page.ArchivedEmptyMessage))
			return nil
		}
		fmt.Fprint(out, renderItemTable(page.Archived, now, textColumnWidth(out)))
		return nil
	})
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	return withStore(cmd, func(store *task.Store) error {
		existing, err := lookupTask(store, id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if taskShowJSON {
			return encodeJSON(out, existing)
		}
		fmt.Fprint(out, renderTaskDetail(existing, store.Now(), outputWidth(out)))
		return nil
	})
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	status, err := task.ParseStatus(args[1])
	if err != nil {
		return err
	}
	return changeStatus(cmd, args[:1], status)
}

func changeStatus(cmd *cobra.Command, idArgs []string, status task.Status) error {
	return applyToTasks(cmd, idArgs, "Status changed to "+status.Label(), func(store *task.Store, id int) (task.Task, bool) {
		return store.SetStatus(id, status)
	})
}

// applyToTasks runs fn for each id, reporting each result. All ids are
// parsed before any change is made. A missing task stops the run.
func applyToTasks(cmd *cobra.Command, idArgs []string, message string, fn func(*task.Store, int) (task.Task, bool)) error {
	ids := make([]int, 0, len(idArgs))
	for _, arg := range idArgs {
		id, err := parseTaskID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	return withStore(cmd, func(store *task.Store) error {
		for _, id := range ids {
			updated, ok := fn(store, id)
			if !ok {
				return taskNotFound(id)
			}
			printResult(cmd.OutOrStdout(), message, updated)
		}
		return nil
	})
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")
	useEditor := taskEditEditor || (len(args) == 1 && editor.IsInteractive())
	if !useEditor {
		if len(args) == 1 {
			return errors.New("text is required (use --edit to open $EDITOR)")
		}
		if err := view.ValidateNewText(text); err != nil {
			return err
		}
	}

	return withStore(cmd, func(store *task.Store) error {
		existing, err := lookupTask(store, id)
		if err != nil {
			return err
		}

		if !useEditor {
			updated, ok := store.SetText(id, text)
			if !ok {
				return taskNotFound(id)
			}
			printResult(cmd.OutOrStdout(), "Task updated", updated)
			return nil
		}

		if text != "" {
			existing.Text = text
		}
		parsed, err := editor.EditTask(existing)
		if err != nil {
			return err
		}
		updated, ok := store.ApplyEdit(id, task.Edit{
			Text:    parsed.Text,
			Status:  parsed.Status,
			DueDate: parsed.DueDate(),
		})
		if !ok {
			return taskNotFound(id)
		}
		printResult(cmd.OutOrStdout(), "Task updated", updated)
		return nil
	})
}

func runTaskDue(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	var dueDate *string
	message := "Due date cleared"
	switch {
	case taskDueClear && len(args) > 1:
		return errors.New("cannot set a date and --clear together")
	case taskDueClear:
	case len(args) < 2:
		return errors.New("due date is required (use --clear to remove it)")
	default:
		due := strings.TrimSpace(args[1])
		if err := task.ValidateDueDate(due); err != nil {
			return err
		}
		dueDate = &due
		message = "Due date updated"
	}

	return withStore(cmd, func(store *task.Store) error {
		updated, ok := store.SetDueDate(id, dueDate)
		if !ok {
			return taskNotFound(id)
		}
		printResult(cmd.OutOrStdout(), message, updated)
		return nil
	})
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	return withStore(cmd, func(store *task.Store) error {
		existing, err := lookupTask(store, id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if !taskDeleteYes {
			p := confirmer(cmd.InOrStdin(), out)
			if p == nil {
				return errors.New("refusing to delete without confirmation (use --yes)")
			}
			confirmed, err := p.Confirm("Delete " + formatTaskRef(existing) + "?")
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(out, ui.Muted("Task kept"))
				return nil
			}
		}

		if !store.Delete(id) {
			return taskNotFound(id)
		}
		fmt.Fprintf(out, "%s: #%d\n", ui.Success("Task deleted"), id)
		return nil
	})
}

func runTaskSummary(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(store *task.Store) error {
		summary := store.StatusSummary()
		if taskSummaryJSON {
			return encodeJSON(cmd.OutOrStdout(), summary)
		}
		fmt.Fprintln(cmd.OutOrStdout(), summaryLine(summary))
		return nil
	})
}

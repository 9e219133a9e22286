package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jiawen-jasmine-chen/todosync/internal/reconcile"
	"github.com/jiawen-jasmine-chen/todosync/internal/services"
	"github.com/jiawen-jasmine-chen/todosync/internal/session"
)

func newBoard(cmd *cobra.Command) (*reconcile.Board, error) {
	cfg := loadConfig()

	store, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}
	sess, err := currentSession(cmd.Context(), store)
	if err != nil {
		return nil, err
	}

	client := newClient(cfg)
	return reconcile.NewBoard(sess.UserID, services.NewTodoListService(client), services.NewTaskService(client)), nil
}

func printTasks(board *reconcile.Board, listID int64) {
	tasks := board.Tasks(listID)
	if len(tasks) == 0 {
		fmt.Println("no tasks")
		return
	}
	for _, task := range tasks {
		check := " "
		if task.Completed {
			check = "x"
		}
		due := ""
		if task.DueDate != "" {
			due = " (due " + task.DueDate + ")"
		}
		fmt.Printf("[%s] %d: %s%s\n", check, task.ID, task.Description, due)
	}
}

var tasksCmd = &cobra.Command{
	Use:   "tasks <list-id>",
	Short: "Show the tasks of a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("list id must be numeric")
		}
		board, err := newBoard(cmd)
		if err != nil {
			return err
		}

		board.ReloadTasks(cmd.Context(), listID)
		printTasks(board, listID)
		return nil
	},
}

var addDueDate string

var addCmd = &cobra.Command{
	Use:   "add <list-id> <description...>",
	Short: "Add a task to a list",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		listID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("list id must be numeric")
		}
		board, err := newBoard(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := board.AddTask(ctx, listID, strings.Join(args[1:], " "), addDueDate); err != nil {
			return err
		}
		printTasks(board, listID)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <list-id> <task-id>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		listID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("list id must be numeric")
		}
		taskID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("task id must be numeric")
		}
		board, err := newBoard(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		board.ReloadTasks(ctx, listID)
		if err := board.ToggleCompletion(ctx, listID, taskID); err != nil {
			return err
		}
		printTasks(board, listID)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <list-id> <task-id> <description...>",
	Short: "Edit a task's description",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		listID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("list id must be numeric")
		}
		taskID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("task id must be numeric")
		}
		board, err := newBoard(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := board.UpdateDescription(ctx, listID, taskID, strings.Join(args[2:], " ")); err != nil {
			return err
		}
		printTasks(board, listID)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <list-id> <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		listID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("list id must be numeric")
		}
		taskID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("task id must be numeric")
		}
		board, err := newBoard(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		board.ReloadTasks(ctx, listID)
		if !board.DeleteTask(ctx, listID, taskID) {
			return fmt.Errorf("could not delete task %d", taskID)
		}
		printTasks(board, listID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDueDate, "due", "", "due date (YYYY-MM-DD, defaults to today)")

	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
}

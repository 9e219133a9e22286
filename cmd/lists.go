package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jiawen-jasmine-chen/todosync/internal/reconcile"
	"github.com/jiawen-jasmine-chen/todosync/internal/services"
	"github.com/jiawen-jasmine-chen/todosync/internal/session"
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show your to-do lists and their tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ctx := cmd.Context()

		store, err := session.Open(cfg.SessionDBPath)
		if err != nil {
			return err
		}
		sess, err := currentSession(ctx, store)
		if err != nil {
			return err
		}

		client := newClient(cfg)
		board := reconcile.NewBoard(sess.UserID, services.NewTodoListService(client), services.NewTaskService(client))
		board.Refresh(ctx)

		lists := board.Lists()
		if len(lists) == 0 {
			fmt.Println("no lists yet, create one with: todosync create-list <name>")
			return nil
		}
		for _, list := range lists {
			marker := " "
			if list.ID == board.SelectedList() {
				marker = "*"
			}
			shared := ""
			if list.Shared {
				shared = " (shared)"
			}
			fmt.Printf("%s [%d] %s%s\n", marker, list.ID, list.Name, shared)
			for _, task := range board.Tasks(list.ID) {
				check := " "
				if task.Completed {
					check = "x"
				}
				fmt.Printf("    [%s] %d: %s\n", check, task.ID, task.Description)
			}
		}
		return nil
	},
}

var createListShared bool

var createListCmd = &cobra.Command{
	Use:   "create-list <name>",
	Short: "Create a to-do list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ctx := cmd.Context()

		store, err := session.Open(cfg.SessionDBPath)
		if err != nil {
			return err
		}
		sess, err := currentSession(ctx, store)
		if err != nil {
			return err
		}

		client := newClient(cfg)
		board := reconcile.NewBoard(sess.UserID, services.NewTodoListService(client), services.NewTaskService(client))
		list, err := board.CreateList(ctx, args[0], createListShared)
		if err != nil {
			return err
		}

		fmt.Printf("created list %q (id %d)\n", list.Name, list.ID)
		if list.InviteCode != "" {
			fmt.Printf("invite code: %s\n", list.InviteCode)
		}
		return nil
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <invite-code>",
	Short: "Join a shared list by invite code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ctx := cmd.Context()

		store, err := session.Open(cfg.SessionDBPath)
		if err != nil {
			return err
		}
		sess, err := currentSession(ctx, store)
		if err != nil {
			return err
		}

		client := newClient(cfg)
		board := reconcile.NewBoard(sess.UserID, services.NewTodoListService(client), services.NewTaskService(client))
		message, err := board.Join(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	},
}

var leaveCmd = &cobra.Command{
	Use:   "leave <list-id>",
	Short: "Leave a shared list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("list id must be numeric")
		}
		cfg := loadConfig()
		ctx := cmd.Context()

		store, err := session.Open(cfg.SessionDBPath)
		if err != nil {
			return err
		}
		sess, err := currentSession(ctx, store)
		if err != nil {
			return err
		}

		lists := services.NewTodoListService(newClient(cfg))
		if !lists.LeaveSharedList(ctx, listID, sess.UserID) {
			return fmt.Errorf("could not leave list %d", listID)
		}
		fmt.Printf("left list %d\n", listID)
		return nil
	},
}

var deleteListCmd = &cobra.Command{
	Use:   "delete-list <list-id>",
	Short: "Delete a list you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("list id must be numeric")
		}
		cfg := loadConfig()

		lists := services.NewTodoListService(newClient(cfg))
		if !lists.DeleteTodoList(cmd.Context(), listID) {
			return fmt.Errorf("could not delete list %d", listID)
		}
		fmt.Printf("deleted list %d\n", listID)
		return nil
	},
}

var membersCmd = &cobra.Command{
	Use:   "members <list-id>",
	Short: "Show the members of a shared list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("list id must be numeric")
		}
		cfg := loadConfig()

		lists := services.NewTodoListService(newClient(cfg))
		members, err := lists.GetListUsers(cmd.Context(), listID)
		if err != nil {
			return err
		}
		for _, member := range members {
			fmt.Printf("%d: %s (%s)\n", member.ID, member.Username, member.Role)
		}
		return nil
	},
}

func init() {
	createListCmd.Flags().BoolVar(&createListShared, "shared", false, "create a shared list with an invite code")

	rootCmd.AddCommand(listsCmd)
	rootCmd.AddCommand(createListCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(deleteListCmd)
	rootCmd.AddCommand(membersCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/ViniZap4/kanban-server/domain"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Print the whole board",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := newClient().GetTasks()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), tasks)
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <task-id> <status>",
	Short: "Set a task's current status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newClient().MoveTask(args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var addTask domain.TaskFields

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create or replace a task",
	Long:  `Create a task. When --id names an existing task it is replaced.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newClient().AddTask(addTask.Task())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	f := addCmd.Flags()
	f.StringVar(&addTask.ID, "id", "", "Task ID (generated when empty)")
	f.StringVarP(&addTask.Title, "title", "t", "", "Task title (required)")
	f.StringVarP(&addTask.Description, "description", "d", "", "Task description")
	f.StringVar(&addTask.Status, "label", "", "Status label, e.g. Urgent")
	f.StringVarP(&addTask.Category, "category", "c", "", "Category")
	f.StringVarP(&addTask.Assignee, "assignee", "a", "", "Assignee")
	f.StringVarP(&addTask.Priority, "priority", "p", "", "Priority")
	f.StringVar(&addTask.Tokens, "tokens", "", "Cost annotation")
	f.StringVar(&addTask.CurrentStatus, "status", "", "Workflow column (defaults to To Do)")
	f.StringVar(&addTask.DetailedDesc, "details", "", "Detailed description")
	if err := addCmd.MarkFlagRequired("title"); err != nil {
		panic(err)
	}
}

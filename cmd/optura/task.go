package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HANSKMIEL/Optura/internal/client"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create <project-id> <name>",
	Short: "Create a task in a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		order, _ := cmd.Flags().GetInt("order")
		requiresApproval, _ := cmd.Flags().GetBool("requires-approval")

		req := &client.CreateTaskRequest{
			ProjectID:        args[0],
			Name:             args[1],
			Description:      description,
			Order:            order,
			RequiresApproval: requiresApproval,
		}
		if cmd.Flags().Changed("estimate") {
			v, _ := cmd.Flags().GetFloat64("estimate")
			req.EstimateHours = &v
		}

		task, err := api.CreateTask(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(task)
		} else {
			printTask(task)
		}
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list <project-id>",
	Short: "List a project's tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")

		req := &client.ListTasksRequest{}
		if status != "" {
			req.Status = strings.Split(status, ",")
		}

		resp, err := api.ListProjectTasks(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp)
		} else {
			printTaskListTable(resp.Tasks, resp.Total)
		}
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := api.GetTask(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(task)
		} else {
			printTask(task)
		}
		return nil
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update task fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateTaskRequest{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			req.Description = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}
		if cmd.Flags().Changed("estimate") {
			v, _ := cmd.Flags().GetFloat64("estimate")
			req.EstimateHours = &v
		}
		if cmd.Flags().Changed("order") {
			v, _ := cmd.Flags().GetInt("order")
			req.Order = &v
		}
		if cmd.Flags().Changed("requires-approval") {
			v, _ := cmd.Flags().GetBool("requires-approval")
			req.RequiresApproval = &v
		}

		task, err := api.UpdateTask(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(task)
		} else {
			printTask(task)
		}
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.DeleteTask(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("task %s deleted\n", args[0])
		return nil
	},
}

func init() {
	taskCreateCmd.Flags().String("description", "", "task description")
	taskCreateCmd.Flags().Float64("estimate", 0, "estimate in hours")
	taskCreateCmd.Flags().Int("order", 0, "display order")
	taskCreateCmd.Flags().Bool("requires-approval", false, "require human sign-off before completion")

	taskUpdateCmd.Flags().String("name", "", "new name")
	taskUpdateCmd.Flags().String("description", "", "new description")
	taskUpdateCmd.Flags().String("status", "", "new status")
	taskUpdateCmd.Flags().Float64("estimate", 0, "new estimate in hours")
	taskUpdateCmd.Flags().Int("order", 0, "new display order")
	taskUpdateCmd.Flags().Bool("requires-approval", false, "require human sign-off before completion")

	taskListCmd.Flags().String("status", "", "filter by status (comma-separated)")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}

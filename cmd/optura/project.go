package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HANSKMIEL/Optura/internal/client"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goal, _ := cmd.Flags().GetString("goal")
		description, _ := cmd.Flags().GetString("description")
		environment, _ := cmd.Flags().GetString("env")
		criteria, _ := cmd.Flags().GetStringArray("criterion")

		req := &client.CreateProjectRequest{
			Name:        args[0],
			Goal:        goal,
			Description: description,
			Environment: environment,
			CreatedBy:   actor,
		}
		if len(criteria) > 0 {
			data, err := json.Marshal(criteria)
			if err != nil {
				return err
			}
			req.AcceptanceCriteria = data
		}

		project, err := api.CreateProject(context.Background(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(project)
		} else {
			printProject(project)
		}
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := api.GetProject(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(project)
		} else {
			printProject(project)
		}
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		search, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		req := &client.ListProjectsRequest{Search: search, Limit: limit, Offset: offset}
		if status != "" {
			req.Status = strings.Split(status, ",")
		}

		resp, err := api.ListProjects(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp)
		} else {
			printProjectListTable(resp.Projects, resp.Total)
		}
		return nil
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <project-id>",
	Short: "Update project fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateProjectRequest{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("goal") {
			v, _ := cmd.Flags().GetString("goal")
			req.Goal = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			req.Description = &v
		}
		if cmd.Flags().Changed("env") {
			v, _ := cmd.Flags().GetString("env")
			req.Environment = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}
		if cmd.Flags().Changed("risk") {
			v, _ := cmd.Flags().GetString("risk")
			req.RiskLevel = &v
		}

		project, err := api.UpdateProject(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(project)
		} else {
			printProject(project)
		}
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and all its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("refusing to delete without --force")
		}
		if err := api.DeleteProject(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("project %s deleted\n", args[0])
		return nil
	},
}

var projectTasksCmd = &cobra.Command{
	Use:   "tasks <project-id>",
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

func init() {
	projectCreateCmd.Flags().String("goal", "", "project goal (required by the server)")
	projectCreateCmd.Flags().String("description", "", "project description")
	projectCreateCmd.Flags().String("env", "", "target environment")
	projectCreateCmd.Flags().StringArray("criterion", nil, "acceptance criterion (repeatable)")

	projectListCmd.Flags().String("status", "", "filter by status (comma-separated)")
	projectListCmd.Flags().String("search", "", "search in name and goal")
	projectListCmd.Flags().Int("limit", 0, "max projects to return")
	projectListCmd.Flags().Int("offset", 0, "offset for pagination")

	projectUpdateCmd.Flags().String("name", "", "new name")
	projectUpdateCmd.Flags().String("goal", "", "new goal")
	projectUpdateCmd.Flags().String("description", "", "new description")
	projectUpdateCmd.Flags().String("env", "", "new environment")
	projectUpdateCmd.Flags().String("status", "", "new status")
	projectUpdateCmd.Flags().String("risk", "", "new risk level (low, medium, high)")

	projectDeleteCmd.Flags().Bool("force", false, "confirm deletion")

	projectTasksCmd.Flags().String("status", "", "filter by status (comma-separated)")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectTasksCmd)
}

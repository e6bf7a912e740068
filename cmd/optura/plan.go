package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HANSKMIEL/Optura/internal/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate and accept task plans",
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate <project-id>",
	Short: "Ask the planner for a task breakdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := api.GeneratePlan(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(plan)
		} else {
			printPlan(plan)
		}
		return nil
	},
}

var planAcceptCmd = &cobra.Command{
	Use:   "accept <project-id>",
	Short: "Accept a plan, creating its tasks and dependencies",
	Long: `Accept a plan for the project. By default the planner is asked for a
fresh breakdown and that plan is accepted in one step; pass --file to accept
a previously saved (and possibly hand-edited) plan instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID := args[0]
		file, _ := cmd.Flags().GetString("file")

		var plan *planner.Plan
		if file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			plan = &planner.Plan{}
			if err := json.Unmarshal(data, plan); err != nil {
				return fmt.Errorf("parsing plan file: %w", err)
			}
		} else {
			var err error
			plan, err = api.GeneratePlan(context.Background(), projectID)
			if err != nil {
				return err
			}
		}

		resp, err := api.AcceptPlan(context.Background(), projectID, plan)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp)
			return nil
		}
		fmt.Printf("accepted plan: %d tasks created, project %s now %s\n",
			len(resp.Tasks), resp.Project.ID, resp.Project.Status)
		printTaskListTable(resp.Tasks, len(resp.Tasks))
		return nil
	},
}

func printPlan(plan *planner.Plan) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tEST\tAPPROVAL\tDEPENDS ON")
	for i, task := range plan.Tasks {
		approval := "-"
		if task.RequiresApproval {
			approval = "required"
		}
		deps := "-"
		if len(task.Dependencies) > 0 {
			deps = fmt.Sprint(task.Dependencies)
		}
		fmt.Fprintf(w, "%d\t%s\t%.1fh\t%s\t%s\n", i, task.Name, task.EstimateHours, approval, deps)
	}
	w.Flush()
	fmt.Printf("\nrisk: %s, estimated total: %.1fh\n", plan.RiskLevel, plan.EstimatedTotalHours)
}

func init() {
	planAcceptCmd.Flags().String("file", "", "accept a plan from a JSON file instead of generating one")

	planCmd.AddCommand(planGenerateCmd)
	planCmd.AddCommand(planAcceptCmd)
}

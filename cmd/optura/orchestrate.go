package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/ui"
)

var criticalPathCmd = &cobra.Command{
	Use:   "critical-path <project-id>",
	Short: "Show the project's critical path and duration floor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := api.CriticalPath(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(res)
			return nil
		}
		if res.Error != "" {
			fmt.Printf("cannot compute critical path: %s\n", res.Error)
			return nil
		}
		if len(res.CriticalPath) == 0 {
			fmt.Println("no tasks")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TASK\tSTATUS\tEST")
		for _, step := range res.CriticalPath {
			fmt.Fprintf(w, "%s  %s\t%s\t%.1fh\n",
				step.TaskID, step.Name, ui.RenderStatus(string(step.Status)), step.EstimateHours)
		}
		w.Flush()
		fmt.Printf("\ntotal: %.1fh across %d tasks\n", res.TotalHours, len(res.CriticalPath))
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph <project-id>",
	Short: "Show the project's dependency graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := api.GetGraph(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(g)
			return nil
		}

		// Index dependents by prerequisite for a simple adjacency listing.
		out := make(map[string][]string)
		for _, e := range g.Edges {
			out[e.From] = append(out[e.From], e.To)
		}
		for _, n := range g.Nodes {
			fmt.Printf("%s  %s [%s]\n", n.ID, n.Name, ui.RenderStatus(string(n.Status)))
			for _, to := range out[n.ID] {
				fmt.Printf("  -> %s\n", to)
			}
		}
		fmt.Printf("\n%d nodes, %d edges\n", len(g.Nodes), len(g.Edges))
		return nil
	},
}

var nextCmd = &cobra.Command{
	Use:   "next <project-id>",
	Short: "Show actionable, approval-pending, and blocked tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		actions, err := api.NextActions(context.Background(), args[0], limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(actions)
			return nil
		}

		fmt.Println(ui.RenderAccent("Actionable:"))
		if len(actions.Actionable) == 0 {
			fmt.Println(ui.RenderMuted("  none"))
		}
		for _, t := range actions.Actionable {
			est := ""
			if t.EstimateHours != nil {
				est = fmt.Sprintf(" (%.1fh)", *t.EstimateHours)
			}
			fmt.Printf("  %s  %s%s\n", t.TaskID, t.Name, est)
		}

		fmt.Println(ui.RenderAccent("Needs approval:"))
		if len(actions.NeedsApproval) == 0 {
			fmt.Println(ui.RenderMuted("  none"))
		}
		for _, t := range actions.NeedsApproval {
			fmt.Printf("  %s  %s\n", t.TaskID, t.Name)
		}

		fmt.Println(ui.RenderAccent("Blocked:"))
		if len(actions.Blocked) == 0 {
			fmt.Println(ui.RenderMuted("  none"))
		}
		for _, t := range actions.Blocked {
			fmt.Printf("  %s  %s (waiting on: %v)\n", t.TaskID, t.Name, t.BlockedBy)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <project-id>",
	Short: "Show a rolled-up project status summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := api.StatusSummary(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(sum)
			return nil
		}

		fmt.Printf("%s  %s [%s] risk: %s\n", sum.ProjectID, sum.ProjectName,
			ui.RenderStatus(string(sum.Status)), ui.RenderRisk(string(sum.RiskLevel)))
		fmt.Printf("progress: %.2f%% (%.1fh of %.1fh complete, critical path %.1fh)\n",
			sum.ProgressPercent, sum.CompletedEstimateHours, sum.TotalEstimateHours,
			sum.CriticalPathHours)

		fmt.Printf("\ntasks (%d):\n", sum.TotalTasks)
		for _, st := range model.AllTaskStatuses {
			if n := sum.TaskCounts[st]; n > 0 {
				fmt.Printf("  %s: %d\n", ui.RenderStatus(string(st)), n)
			}
		}

		if len(sum.NextActions) > 0 {
			fmt.Println(ui.RenderAccent("\nNext up:"))
			for _, t := range sum.NextActions {
				fmt.Printf("  %s  %s\n", t.TaskID, t.Name)
			}
		}
		if len(sum.NeedsApproval) > 0 {
			fmt.Println(ui.RenderAccent("\nNeeds approval:"))
			for _, t := range sum.NeedsApproval {
				fmt.Printf("  %s  %s\n", t.TaskID, t.Name)
			}
		}
		return nil
	},
}

var reprioritizeCmd = &cobra.Command{
	Use:   "reprioritize <project-id>",
	Short: "Recompute task order, favoring work in flight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := api.Reprioritize(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(res)
			return nil
		}
		if len(res.Changes) == 0 {
			fmt.Printf("order already optimal (%d tasks)\n", res.TotalTasks)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TASK\tOLD\tNEW")
		for _, c := range res.Changes {
			fmt.Fprintf(w, "%s  %s\t%d\t%d\n", c.TaskID, c.Name, c.OldOrder, c.NewOrder)
		}
		w.Flush()
		fmt.Printf("\n%d of %d tasks moved\n", len(res.Changes), res.TotalTasks)
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit <project-id>",
	Short: "Show the project's audit trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := api.ListAudit(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(entries)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tACTION\tTASK\tACTOR")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, e.TaskID, e.Actor)
		}
		return w.Flush()
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := api.Health(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(status)
		return nil
	},
}

func init() {
	nextCmd.Flags().Int("limit", 0, "max tasks per bucket")
}

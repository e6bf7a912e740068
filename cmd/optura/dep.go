package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HANSKMIEL/Optura/internal/client"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage task dependencies",
}

var depAddCmd = &cobra.Command{
	Use:   "add <task-id> <depends-on-task-id>",
	Short: "Add a dependency edge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dep, err := api.AddDependency(context.Background(), &client.AddDependencyRequest{
			TaskID:          args[0],
			DependsOnTaskID: args[1],
			CreatedBy:       actor,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(dep)
		} else {
			fmt.Printf("%s now depends on %s\n", dep.TaskID, dep.DependsOnTaskID)
		}
		return nil
	},
}

var depRemoveCmd = &cobra.Command{
	Use:   "remove <task-id> <depends-on-task-id>",
	Short: "Remove a dependency edge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.RemoveDependency(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("dependency %s -> %s removed\n", args[0], args[1])
		return nil
	},
}

var depListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List a task's dependencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := api.GetDependencies(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(deps)
			return nil
		}
		if len(deps) == 0 {
			fmt.Println("no dependencies")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DEPENDS ON\tADDED BY\tADDED AT")
		for _, d := range deps {
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.DependsOnTaskID, d.CreatedBy, d.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

func init() {
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRemoveCmd)
	depCmd.AddCommand(depListCmd)
}

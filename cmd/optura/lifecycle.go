package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var specCmd = &cobra.Command{
	Use:   "spec <task-id>",
	Short: "Generate a machine-readable spec for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := api.GenerateSpec(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(task)
			return nil
		}
		fmt.Printf("spec generated for %s\n", task.ID)
		var pretty map[string]any
		if err := json.Unmarshal(task.Spec, &pretty); err == nil {
			printJSON(pretty)
		}
		return nil
	},
}

var testResultsCmd = &cobra.Command{
	Use:   "test-results <task-id> [file]",
	Short: "Record a task's test results (JSON from file or stdin)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 2 {
			data, err = os.ReadFile(args[1])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return err
		}
		if !json.Valid(data) {
			return fmt.Errorf("test results must be valid JSON")
		}

		task, err := api.RecordTestResults(context.Background(), args[0], data)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(task)
		} else {
			fmt.Printf("test results recorded for %s (status: %s)\n", task.ID, task.TestStatus())
		}
		return nil
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <task-id>",
	Short: "Approve a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := api.ApproveTask(context.Background(), args[0], actor)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(task)
		} else {
			fmt.Printf("task %s approved by %s\n", task.ID, task.ApprovedBy)
		}
		return nil
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <task-id> <reason>",
	Short: "Reject a task back to pending",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := api.RejectTask(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(task)
		} else {
			fmt.Printf("task %s rejected: %s\n", task.ID, task.RejectionReason)
		}
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Complete a task (gated on test results and approval)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := api.CompleteTask(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(task)
		} else {
			fmt.Printf("task %s completed\n", task.ID)
		}
		return nil
	},
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printProject(p *model.Project) {
	fmt.Printf("ID:          %s\n", p.ID)
	fmt.Printf("Name:        %s\n", p.Name)
	fmt.Printf("Status:      %s\n", ui.RenderStatus(string(p.Status)))
	fmt.Printf("Risk:        %s\n", ui.RenderRisk(string(p.RiskLevel)))
	fmt.Printf("Goal:        %s\n", p.Goal)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	if p.Environment != "" {
		fmt.Printf("Environment: %s\n", p.Environment)
	}
	if p.CreatedBy != "" {
		fmt.Printf("Created By:  %s\n", p.CreatedBy)
	}
	fmt.Printf("Created At:  %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated At:  %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func printProjectListTable(projects []*model.Project, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tRISK\tNAME\tGOAL")
	for _, p := range projects {
		goal := p.Goal
		if len(goal) > 50 {
			goal = goal[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			ui.RenderStatus(string(p.Status)),
			ui.RenderRisk(string(p.RiskLevel)),
			p.Name,
			goal,
		)
	}
	w.Flush()
	fmt.Printf("\n%d projects (%d total)\n", len(projects), total)
}

func printTask(t *model.Task) {
	fmt.Printf("ID:           %s\n", t.ID)
	fmt.Printf("Project:      %s\n", t.ProjectID)
	fmt.Printf("Name:         %s\n", t.Name)
	fmt.Printf("Status:       %s\n", ui.RenderStatus(string(t.Status)))
	fmt.Printf("Order:        %d\n", t.Order)
	if t.Description != "" {
		fmt.Printf("Description:  %s\n", t.Description)
	}
	if t.EstimateHours != nil {
		fmt.Printf("Estimate:     %.1fh\n", *t.EstimateHours)
	}
	if t.ConfidenceScore != nil {
		fmt.Printf("Confidence:   %.2f\n", *t.ConfidenceScore)
	}
	fmt.Printf("Approval:     %s\n", approvalSummary(t))
	if t.RejectionReason != "" {
		fmt.Printf("Rejected:     %s\n", t.RejectionReason)
	}
	if t.HasSpec() {
		fmt.Printf("Spec:         present\n")
	}
	if t.HasTestResults() {
		fmt.Printf("Tests:        %s\n", t.TestStatus())
	}
	if len(t.Dependencies) > 0 {
		fmt.Printf("Depends On:  ")
		for _, d := range t.Dependencies {
			fmt.Printf(" %s", d.DependsOnTaskID)
		}
		fmt.Println()
	}
	fmt.Printf("Created At:   %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated At:   %s\n", t.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func approvalSummary(t *model.Task) string {
	if t.ApprovedBy != "" {
		return fmt.Sprintf("approved by %s", t.ApprovedBy)
	}
	if t.RequiresApproval {
		return "required, not yet approved"
	}
	return "not required"
}

func printTaskListTable(tasks []*model.Task, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tORDER\tSTATUS\tEST\tAPPROVAL\tNAME")
	for _, t := range tasks {
		name := t.Name
		if len(name) > 50 {
			name = name[:47] + "..."
		}
		est := "-"
		if t.EstimateHours != nil {
			est = fmt.Sprintf("%.1fh", *t.EstimateHours)
		}
		approval := "-"
		if t.RequiresApproval {
			approval = "required"
			if t.ApprovedBy != "" {
				approval = "approved"
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			t.ID,
			t.Order,
			ui.RenderStatus(string(t.Status)),
			est,
			approval,
			name,
		)
	}
	w.Flush()
	fmt.Printf("\n%d tasks (%d total)\n", len(tasks), total)
}

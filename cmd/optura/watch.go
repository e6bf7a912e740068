package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/HANSKMIEL/Optura/internal/events"
	"github.com/HANSKMIEL/Optura/internal/model"
)

var watchCmd = &cobra.Command{
	Use:   "watch <project-id>",
	Short: "Watch a project's tasks for changes",
	Long: `Watch re-prints tasks that changed since the last query. With a NATS
URL configured (OPTURA_NATS_URL or the active remote), changes arrive
event-driven; otherwise the server is polled at the given interval.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID := args[0]
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		seen := make(map[string]time.Time)

		// Initial query.
		if err := queryAndPrint(ctx, projectID, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		natsURL := os.Getenv("OPTURA_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL, projectID, seen)
		}
		return watchPoll(ctx, interval, projectID, seen)
	},
}

// watchNATS subscribes to NATS events and re-queries on changes with debounce.
func watchNATS(ctx context.Context, natsURL, projectID string, seen map[string]time.Time) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-query for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("optura.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-query
		case <-debounce.C:
			if err := queryAndPrint(ctx, projectID, seen); err != nil {
				return err
			}
		}
	}
}

// watchPoll polls for changes at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, projectID string, seen map[string]time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := queryAndPrint(ctx, projectID, seen); err != nil {
			return err
		}
	}
}

// queryAndPrint lists the project's tasks, diffs against the seen map, and
// prints any changes.
func queryAndPrint(ctx context.Context, projectID string, seen map[string]time.Time) error {
	resp, err := api.ListProjectTasks(ctx, projectID, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	changed := diffTasks(resp.Tasks, seen)
	if len(changed) > 0 {
		if jsonOutput {
			printJSON(changed)
		} else {
			printTaskListTable(changed, resp.Total)
		}
	}
	return nil
}

// diffTasks compares tasks against the seen map and returns those that are
// new or have a different updated_at timestamp. It updates seen in place.
func diffTasks(tasks []*model.Task, seen map[string]time.Time) []*model.Task {
	var changed []*model.Task
	for _, t := range tasks {
		prev, ok := seen[t.ID]
		if !ok || !t.UpdatedAt.Equal(prev) {
			changed = append(changed, t)
		}
		seen[t.ID] = t.UpdatedAt
	}
	return changed
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after first query")
}

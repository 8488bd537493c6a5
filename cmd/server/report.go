package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"project-management-api/internal/metrics"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var (
		f         metrics.ReportFilters
		withSeed  bool
		asJSON    bool
		startDate string
		endDate   string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print project and member progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if withSeed {
				cfg.Database.Path = ":memory:"
			}
			if f.Status != "" && !f.Status.Valid() {
				return fmt.Errorf("unknown status %q", f.Status)
			}
			if f.Priority != "" && !f.Priority.Valid() {
				return fmt.Errorf("unknown priority %q", f.Priority)
			}
			if f.StartDate, err = parseDay(startDate, false); err != nil {
				return err
			}
			if f.EndDate, err = parseDay(endDate, true); err != nil {
				return err
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			if withSeed {
				if err := a.seedDemo(cmd.Context()); err != nil {
					return err
				}
			}

			snap, err := a.store.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			report := metrics.GenerateReport(snap, f, time.Now().UTC())
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			renderReport(os.Stdout, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", false, "load the demo workspace into an in-memory database first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	cmd.Flags().StringVar(&f.ProjectID, "project", "", "project id filter")
	cmd.Flags().StringVar(&f.UserID, "user", "", "assignee filter")
	cmd.Flags().StringVar((*string)(&f.Status), "status", "", "stored status filter")
	cmd.Flags().StringVar((*string)(&f.Priority), "priority", "", "priority filter")
	cmd.Flags().StringVar(&startDate, "start", "", "created on or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "created on or before (YYYY-MM-DD)")
	return cmd
}

func parseDay(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func renderReport(w io.Writer, r metrics.Report) {
	fmt.Fprintf(w, "Tasks: %d  Overall progress: %d%%\n", len(r.Tasks), r.Percent)
	d := r.Distribution
	fmt.Fprintf(w, "Completed %d | In progress %d | Not started %d | Pending %d | Rejected %d\n\n",
		d.Completed, d.InProgress, d.NotStarted, d.Pending, d.Rejected)

	renderRollups(w, "Projects", r.Projects)
	renderRollups(w, "Team members", r.Members)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("Recently completed")
	tw.AppendHeader(table.Row{"ID", "Title", "Project", "Updated"})
	for _, t := range r.RecentCompleted {
		tw.AppendRow(table.Row{t.ID, t.Title, t.ProjectID, t.UpdatedAt.Format(time.DateOnly)})
	}
	tw.Render()
}

func renderRollups(w io.Writer, title string, rows []metrics.Rollup) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{"ID", "Name", "Tasks", "Completed", "Progress"})
	for _, r := range rows {
		tw.AppendRow(table.Row{r.ID, r.Name, r.Total, r.Completed, fmt.Sprintf("%d%%", r.Percent)})
	}
	tw.Render()
	fmt.Fprintln(w)
}

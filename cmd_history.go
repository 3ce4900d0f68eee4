package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently fired alerts",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of firings to show")
	historyCmd.Flags().Bool("prune", false, "Delete firings older than history.retention_days first")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.New("history is disabled (history.enabled=false)")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	prune, _ := cmd.Flags().GetBool("prune")

	svc, err := openServices(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer svc.Close()

	if prune && cfg.History.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.History.RetentionDays)
		n, err := svc.history.Prune(cmd.Context(), cutoff)
		if err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
		fmt.Printf("Pruned %d firings before %s\n\n", n, cutoff.Format(time.DateOnly))
	}

	firings, err := svc.history.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(firings) == 0 {
		fmt.Println("No firings recorded")
		return nil
	}

	printFirings(os.Stdout, firings)
	return nil
}

func printFirings(out io.Writer, firings []models.Firing) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FIRED AT\tURGENCY\tACKNOWLEDGED\tTITLE\n")
	for _, f := range firings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			f.FiredAt.Local().Format(time.DateTime), f.Urgency, ackLabel(f), f.Title)
	}
	w.Flush()
}

func ackLabel(f models.Firing) string {
	if f.AcknowledgedAt == nil {
		return "no"
	}
	return f.AcknowledgedAt.Local().Format(time.TimeOnly)
}

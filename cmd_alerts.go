package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/borgmon/soc-alerts/pkg/dispatch"
	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/monitor"
	"github.com/borgmon/soc-alerts/pkg/schedule"
	"github.com/borgmon/soc-alerts/pkg/store"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List alerts, enabled first",
	RunE:  runList,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an alert",
	Long:  `Create an alert. It is inserted at the top of the list and enabled unless --disabled is given.`,
	RunE:  runAdd,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one monitor pass now and report fired alerts",
	Long: `Run a single headless evaluation pass. Due alerts are stamped and
persisted exactly as the tray app would, recorded in the history and sent to
the configured webhook. No window or sound is shown.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(listCmd, addCmd, checkCmd)

	addCmd.Flags().String("title", "", "Alert title")
	addCmd.Flags().String("time", "", "Time of day, HH:MM (24h)")
	addCmd.Flags().Int("repeat", 0, "Repeat interval in minutes, 0 for a one-shot alert")
	addCmd.Flags().String("urgency", string(models.UrgencyNormal), "Low, Normal or High")
	addCmd.Flags().String("description", "", "Alert description")
	addCmd.Flags().String("snippet", "", "Title of a clipboard snippet to copy when the alert fires")
	addCmd.Flags().Bool("disabled", false, "Create the alert disabled")
	_ = addCmd.MarkFlagRequired("time")
}

func runList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	alerts := store.NewAlertStore(cfg.AlertsPath(), newLogger(cfg))
	printAlerts(os.Stdout, alerts.List(), time.Now())
	return nil
}

func printAlerts(out io.Writer, listed []store.Listed, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TIME\tREPEAT\tURGENCY\tENABLED\tNEXT\tTITLE\n")
	for _, l := range listed {
		a := l.Alert
		repeat := "once"
		if !a.OneShot() {
			repeat = strconv.Itoa(a.RepeatInterval) + "m"
		}
		next := "-"
		if at, ok := schedule.NextOccurrence(a, now); ok {
			next = at.Format(models.ClockLayout)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\n", a.Time, repeat, a.Urgency, a.Enabled, next, a.Title)
	}
	w.Flush()
}

func runAdd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	clock, _ := cmd.Flags().GetString("time")
	repeat, _ := cmd.Flags().GetInt("repeat")
	urgency, _ := cmd.Flags().GetString("urgency")
	description, _ := cmd.Flags().GetString("description")
	snippet, _ := cmd.Flags().GetString("snippet")
	disabled, _ := cmd.Flags().GetBool("disabled")

	a, err := alertInput{
		Title:       title,
		Description: description,
		Time:        clock,
		Repeat:      strconv.Itoa(repeat),
		Urgency:     urgency,
		Snippet:     snippet,
		Enabled:     !disabled,
	}.toAlert()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	created, err := store.NewAlertStore(cfg.AlertsPath(), logger).Add(a)
	if err != nil {
		return fmt.Errorf("add alert: %w", err)
	}

	fmt.Printf("Created alert %q at %s (id %s)\n", created.Title, describeSchedule(created), created.ID)
	return nil
}

// logPresenter reports fired alerts on a writer instead of a window
type logPresenter struct {
	out io.Writer
}

func (p logPresenter) ShowAlert(f models.Firing, a models.Alert) {
	fmt.Fprintf(p.out, "FIRED\t%s\t%s\t%s\t%s\n", f.FiredAt.Format(time.TimeOnly), a.Urgency, a.Title, f.ID)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	svc, err := openServices(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	d := dispatch.New(dispatch.Options{
		Presenter: logPresenter{out: os.Stdout},
		Notifiers: svc.notifiers,
		Logger:    logger,
	})

	m := monitor.New(svc.alerts, d, monitor.Config{Logger: logger})
	fired, err := m.Check(cmd.Context(), time.Now())
	d.Close()
	if err != nil {
		return fmt.Errorf("monitor pass: %w", err)
	}

	logger.Debug("monitor pass complete", slog.Int("fired", len(fired)))
	if len(fired) == 0 {
		fmt.Println("No alerts due")
	}
	return nil
}

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/borgmon/soc-alerts/pkg/calendar"
	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/store"
	"github.com/moby/sys/atomicwriter"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export alerts as an iCalendar file",
	Long: `Export alerts as iCalendar events anchored on one day. Repeating alerts
carry a minutely recurrence rule bounded to that day.`,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file-or-url>",
	Short: "Import alerts from an iCalendar file or URL",
	Long: `Import timed events as alerts. Events whose UID matches an existing alert
id update that alert; the rest are added at the top of the list.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().String("date", "", "Day to anchor events on, YYYY-MM-DD (default: today)")

	importCmd.Flags().Bool("dry-run", false, "Show what would be imported without saving")
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	date, _ := cmd.Flags().GetString("date")

	day := time.Now()
	if date != "" {
		day, err = time.ParseInLocation(time.DateOnly, date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", date, err)
		}
	}

	alerts := store.NewAlertStore(cfg.AlertsPath(), newLogger(cfg)).Load()
	if output == "" {
		return calendar.Export(os.Stdout, alerts, day)
	}
	return exportToFile(output, alerts, day)
}

func exportToFile(path string, alerts []models.Alert, day time.Time) error {
	var buf bytes.Buffer
	if err := calendar.Export(&buf, alerts, day); err != nil {
		return err
	}
	if err := atomicwriter.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	data, err := calendar.Read(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("read calendar: %w", err)
	}

	alertStore := store.NewAlertStore(cfg.AlertsPath(), logger)
	added, updated, err := importAlerts(alertStore, bytes.NewReader(data), dryRun)
	if err != nil {
		return err
	}

	verb := "Imported"
	if dryRun {
		verb = "Would import"
	}
	fmt.Printf("%s %d alerts (%d new, %d updated)\n", verb, added+updated, added, updated)
	return nil
}

// importAlerts decodes r and merges the result into the store
func importAlerts(s *store.AlertStore, r io.Reader, dryRun bool) (added, updated int, err error) {
	imported, err := calendar.Decode(r, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("decode calendar: %w", err)
	}

	_, err = s.Mutate(func(existing []models.Alert) ([]models.Alert, bool) {
		var merged []models.Alert
		merged, added, updated = calendar.Merge(existing, imported)
		return merged, !dryRun && added+updated > 0
	})
	if err != nil {
		return 0, 0, fmt.Errorf("save imported alerts: %w", err)
	}
	return added, updated, nil
}

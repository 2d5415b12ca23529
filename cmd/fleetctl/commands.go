package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"forklift-fleet-backend/internal/filter"
	"forklift-fleet-backend/internal/parse"
	"forklift-fleet-backend/internal/status"
	"forklift-fleet-backend/internal/summary"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Forklift fleet rules from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(classifyCmd(), dueCmd(), summarizeCmd(), filterCmd())
	return cmd
}

// referenceTime parses --at, defaulting to now.
func referenceTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	at, err := parse.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return at, nil
}

func classifyCmd() *cobra.Command {
	var expires, at string
	var window int

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a certificate expiration date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := referenceTime(at)
			if err != nil {
				return err
			}
			c := &status.Classifier{WarningWindowDays: window, Now: func() time.Time { return ref }}
			result, err := c.Classify(expires)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&expires, "expires", "", "Expiration date (dd/mm/yyyy or yyyy-mm-dd)")
	cmd.Flags().StringVar(&at, "at", "", "Reference date, defaults to today")
	cmd.Flags().IntVar(&window, "window", status.DefaultWarningWindowDays, "Warning window in days")
	_ = cmd.MarkFlagRequired("expires")
	return cmd
}

func dueCmd() *cobra.Command {
	var hourMeter, last, interval int

	cmd := &cobra.Command{
		Use:   "due",
		Short: "Hours left until the next scheduled maintenance",
		RunE: func(cmd *cobra.Command, args []string) error {
			remaining, err := status.HoursRemaining(hourMeter, last, interval)
			if err != nil {
				return err
			}
			if remaining <= 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "due (%d hours overdue)\n", -remaining)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d hours remaining\n", remaining)
			return nil
		},
	}
	cmd.Flags().IntVar(&hourMeter, "hour-meter", 0, "Current hour meter reading")
	cmd.Flags().IntVar(&last, "last", 0, "Hour meter reading at the last maintenance")
	cmd.Flags().IntVar(&interval, "interval", status.DefaultMaintenanceIntervalHours, "Maintenance interval in hours")
	_ = cmd.MarkFlagRequired("hour-meter")
	return cmd
}

func loadSnapshot(path string) (summary.Snapshot, error) {
	var snap summary.Snapshot
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&snap); err != nil && err != io.EOF {
		return snap, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return snap, nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func summarizeCmd() *cobra.Command {
	var file, at string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Dashboard counters of a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(file)
			if err != nil {
				return err
			}
			if snap.At, err = referenceTime(at); err != nil {
				return err
			}
			stats := summary.SummarizeSnapshot(snap)
			return writeYAML(cmd.OutOrStdout(), map[string]any{
				"forklifts":            stats.Forklifts,
				"operators":            stats.Operators,
				"active_operations":    stats.ActiveOperations,
				"pending_maintenances": stats.PendingMaintenances,
				"supplies_today":       stats.SuppliesToday,
				"certificates_due":     stats.CertificatesDueSoon,
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Snapshot YAML file")
	cmd.Flags().StringVar(&at, "at", "", "Reference date, defaults to today")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func filterCmd() *cobra.Command {
	var file, collection, query string
	var filters []string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Search and filter one collection of a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(file)
			if err != nil {
				return err
			}

			selected := make(map[string]string, len(filters))
			for _, kv := range filters {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("--filter %q: expected key=value", kv)
				}
				selected[k] = v
			}
			criteria := filter.NewCriteria(query, selected)

			out := cmd.OutOrStdout()
			switch collection {
			case "forklifts":
				return filterAndPrint(out, filter.Forklifts, snap.Forklifts, criteria)
			case "operators":
				return filterAndPrint(out, filter.Operators, snap.Operators, criteria)
			case "maintenances":
				return filterAndPrint(out, filter.Maintenances, snap.Maintenances, criteria)
			case "gas_supplies", "gas-supplies":
				return filterAndPrint(out, filter.GasSupplies, snap.GasSupplies, criteria)
			case "operations":
				return filterAndPrint(out, filter.Operations, snap.Operations, criteria)
			default:
				return fmt.Errorf("unknown collection %q", collection)
			}
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Snapshot YAML file")
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "forklifts, operators, maintenances, gas_supplies or operations")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Free-text query")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter as key=value, repeatable")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}

func filterAndPrint[T any](w io.Writer, m filter.Matcher[T], records []T, c filter.Criteria) error {
	if err := m.Validate(c); err != nil {
		return err
	}
	matched := m.Filter(records, c)
	if len(matched) == 0 {
		_, err := fmt.Fprintln(w, "[]")
		return err
	}
	return writeYAML(w, matched)
}

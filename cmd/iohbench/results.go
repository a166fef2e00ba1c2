package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/store"
)

var (
	keepLast      int
	olderThanDays int
	forceClean    bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage stored experiment results",
}

var listResultsCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored results",
	Long:  `Display all stored results, newest first, with their size and aggregate attainment volume.`,
	RunE:  runListResults,
}

var cleanResultsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete old results",
	Long: `Delete stored results and their traces by retention policy: keep only the
newest N results, delete results older than N days, or both.`,
	RunE: runCleanResults,
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(listResultsCmd)
	resultsCmd.AddCommand(cleanResultsCmd)

	cleanResultsCmd.Flags().IntVar(&keepLast, "keep-last", 0, "Keep only the newest N results (0 = keep all)")
	cleanResultsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete results older than N days (0 = no age limit)")
	cleanResultsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func runListResults(cmd *cobra.Command, args []string) error {
	st, err := store.NewFSStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to create result store: %w", err)
	}

	infos, err := st.ListResults()
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	printResults(out, infos)
	return nil
}

func printResults(out io.Writer, infos []store.ResultInfo) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFAMILY\tCREATED\tPROBLEMS\tRUNS\tEVALUATIONS\tEAH VOLUME\tSIZE")

	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%.4f\t%s\n",
			shortID(info.ID),
			info.Name,
			info.Family,
			humanize.Time(info.CreatedAt),
			info.Problems,
			info.Runs,
			humanize.Comma(int64(info.Evaluations)),
			info.EAHVolume,
			humanize.Bytes(uint64(info.Size)),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal results: %d\n", len(infos))
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}

func runCleanResults(cmd *cobra.Command, args []string) error {
	if keepLast == 0 && olderThanDays == 0 {
		return fmt.Errorf("must specify either --keep-last or --older-than")
	}

	st, err := store.NewFSStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to create result store: %w", err)
	}

	infos, err := st.ListResults()
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	out := cmd.OutOrStdout()
	toDelete := selectResultsForDeletion(infos, keepLast, olderThanDays, time.Now())
	if len(toDelete) == 0 {
		fmt.Fprintln(out, "No results match deletion criteria.")
		return nil
	}

	fmt.Fprintf(out, "Found %d result(s) to delete:\n", len(toDelete))
	for _, info := range toDelete {
		fmt.Fprintf(out, "  - %s (%s, created %s)\n", shortID(info.ID), info.Name, humanize.Time(info.CreatedAt))
	}

	if !forceClean && !confirm(cmd.InOrStdin(), out, "\nProceed with deletion? [y/N]: ") {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	deleted, failed := 0, 0
	for _, info := range toDelete {
		if err := st.DeleteResult(info.ID); err != nil {
			slog.Error("Failed to delete result", "id", info.ID, "error", err)
			failed++
			continue
		}
		slog.Info("Deleted result", "id", info.ID)
		deleted++
	}

	fmt.Fprintf(out, "\nDeleted %d result(s), %d failed.\n", deleted, failed)
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}

// selectResultsForDeletion applies the retention policy: results created
// before now minus olderThanDays, and all but the keepLast newest results.
// A zero value disables a rule. The selection is ordered oldest first.
func selectResultsForDeletion(infos []store.ResultInfo, keepLast, olderThanDays int, now time.Time) []store.ResultInfo {
	sorted := slices.Clone(infos)
	slices.SortFunc(sorted, func(a, b store.ResultInfo) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	cutoff := now.AddDate(0, 0, -olderThanDays)
	excess := len(sorted) - keepLast

	var toDelete []store.ResultInfo
	for i, info := range sorted {
		tooOld := olderThanDays > 0 && info.CreatedAt.Before(cutoff)
		beyondKeep := keepLast > 0 && i < excess
		if tooOld || beyondKeep {
			toDelete = append(toDelete, info)
		}
	}
	return toDelete
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
)

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatMaybeTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

func printRuns(items []domain.Run) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			item.Kind,
			item.SchemaKey,
			item.Outcome,
			strconv.Itoa(item.Created),
			strconv.Itoa(item.Reused),
			strconv.Itoa(item.Skipped),
			strconv.Itoa(item.Failed),
			formatTime(item.StartedAt),
			formatMaybeTime(item.FinishedAt),
		})
	}
	printTable([]string{"ID", "KIND", "SCHEMA", "OUTCOME", "CREATED", "REUSED", "SKIPPED", "FAILED", "STARTED_AT", "FINISHED_AT"}, rows)
}

func printRunEntities(items []domain.RunEntity) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			string(item.Category),
			item.Name,
			item.OldID,
			item.NewID,
			item.Outcome,
			item.Detail,
		})
	}
	printTable([]string{"CATEGORY", "NAME", "OLD_ID", "NEW_ID", "OUTCOME", "DETAIL"}, rows)
}

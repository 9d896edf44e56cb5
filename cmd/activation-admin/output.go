package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"activation-service.backend/internal/domain/entities"
)

const timeLayout = "2006-01-02 15:04:05"

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printCodes(out io.Writer, codes []*entities.ActivationCode) error {
	if len(codes) == 0 {
		_, err := fmt.Fprintln(out, "No activation codes")
		return err
	}

	w := newTable(out)
	_, _ = fmt.Fprintln(w, "ID\tCODE\tPRODUCT\tINTERVAL\tSTATUS\tCREATED\tNOTES")
	for _, c := range codes {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%dh\t%s\t%s\t%s\n",
			c.ID, c.Code, c.ProductKey, c.VerifyIntervalHours, c.Status,
			formatTime(c.CreatedAt), c.Notes.String)
	}
	return w.Flush()
}

func printLogs(out io.Writer, logs []*entities.VerificationLog) error {
	if len(logs) == 0 {
		_, err := fmt.Fprintln(out, "No verification logs")
		return err
	}

	w := newTable(out)
	_, _ = fmt.Fprintln(w, "ID\tTIME\tCODE\tRESULT\tDEVICE\tIP")
	for _, l := range logs {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, formatTime(l.Timestamp), l.Code, l.Result, orDash(l.DeviceID.String), orDash(l.IPAddress.String))
	}
	return w.Flush()
}

func printStatistics(out io.Writer, s *entities.CodeStatistics) error {
	w := newTable(out)
	_, _ = fmt.Fprintf(w, "Total codes\t%d\n", s.TotalCodes)
	_, _ = fmt.Fprintf(w, "Active\t%d\n", s.ActiveCodes)
	_, _ = fmt.Fprintf(w, "Inactive\t%d\n", s.InactiveCodes)
	_, _ = fmt.Fprintf(w, "Hourly (1h)\t%d\n", s.HourlyCodes)
	_, _ = fmt.Fprintf(w, "Daily (24h)\t%d\n", s.DailyCodes)
	_, _ = fmt.Fprintf(w, "Extended (72h)\t%d\n", s.ExtendedCodes)
	return w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

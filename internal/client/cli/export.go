package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"territorykeeper/internal/client/models"
)

// FormatRecord renders the record as plain text: header lines, rows and
// the stats footer. Used by show, shared and the clipboard-style export.
func FormatRecord(rec *models.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Street:    %s\n", orNA(rec.Street))
	fmt.Fprintf(&b, "Territory: %s\n", orNA(rec.TerrNo))
	fmt.Fprintf(&b, "Publisher: %s\n", orNA(rec.PublisherName))
	fmt.Fprintf(&b, "Updated:   %s\n", rec.UpdatedAt.Format("2006-01-02 15:04"))
	b.WriteString("\n")

	if len(rec.Rows) == 0 {
		b.WriteString("(no rows)\n")
	} else {
		fmt.Fprintf(&b, "%-10s %-8s %-12s %-3s %s\n", "Row", "House", "Date", "Sym", "Remarks")
		for i := range rec.Rows {
			b.WriteString(formatRow(&rec.Rows[i]))
			b.WriteString("\n")
		}
	}

	stats := models.CalcStats(rec.Rows)
	fmt.Fprintf(&b, "\nTotal %d  NH %d  CA %d  B %d  C %d  M %d  W %d",
		stats.Total, stats.NotHome, stats.CallAgain, stats.Busy, stats.Child, stats.Man, stats.Woman)

	return b.String()
}

// WriteRecordCSV writes the record as CSV: one row per visit entry with
// the header fields repeated, so a single file round-trips the whole
// record into any spreadsheet.
func WriteRecordCSV(w *csv.Writer, rec *models.Record) error {
	header := []string{"Street", "Territory No", "Publisher", "House No", "Date", "Symbol", "Remarks"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rec.Rows {
		line := []string{rec.Street, rec.TerrNo, rec.PublisherName, row.HouseNo, row.Date, string(row.Symbol), row.Remarks}
		if err := w.Write(line); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// csvFileName builds "<street>_<date>.csv" from the record, falling back
// to "record" when the street is unset. Spaces and path separators are
// replaced so the name is safe on any filesystem.
func csvFileName(rec *models.Record) string {
	street := strings.TrimSpace(rec.Street)
	if street == "" {
		street = "record"
	}
	street = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '_'
		}
		return r
	}, street)
	return fmt.Sprintf("%s_%s.csv", street, time.Now().Format("2006-01-02"))
}

// Export writes the current record to a CSV file in the working directory
// and prints the path.
func (a *App) Export(ctx context.Context) error {
	rec, err := a.currentRecord(ctx)
	if err != nil {
		return err
	}

	name := csvFileName(rec)
	f, err := os.Create(name)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	defer f.Close()

	if err := WriteRecordCSV(csv.NewWriter(f), rec); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Exported to", name)
	return nil
}

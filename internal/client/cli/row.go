package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"territorykeeper/internal/client/models"
)

// AddRow appends a row to the current record (persisted immediately) and
// then prompts for its fields.
func (a *App) AddRow(ctx context.Context) error {
	rec, err := a.currentRecord(ctx)
	if err != nil {
		return err
	}

	row, err := a.recordService.AddRow(ctx, rec.ID)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return a.editRowFields(ctx, rec.ID, row)
}

// EditRow prompts for new field values of an existing row.
func (a *App) EditRow(ctx context.Context, rowID string) error {
	rec, err := a.currentRecord(ctx)
	if err != nil {
		return err
	}

	row := findRow(rec, rowID)
	if row == nil {
		printlnFn("No row with id", rowID)
		return fmt.Errorf("no row with id %q", rowID)
	}
	return a.editRowFields(ctx, rec.ID, row)
}

// RemoveRow deletes the row from the current record, persisted immediately.
func (a *App) RemoveRow(ctx context.Context, rowID string) error {
	rec, err := a.currentRecord(ctx)
	if err != nil {
		return err
	}

	if err := a.recordService.RemoveRow(ctx, rec.ID, rowID); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}

// Filter prints only the rows carrying the given symbol code.
func (a *App) Filter(ctx context.Context, symbol string) error {
	rec, err := a.currentRecord(ctx)
	if err != nil {
		return err
	}

	sym := models.ParseSymbol(symbol)
	if !sym.Recognized() {
		printlnFn("Unknown symbol:", symbol)
		printlnFn("Known symbols:", symbolLegend())
		return fmt.Errorf("unknown symbol %q", symbol)
	}

	n := 0
	for _, row := range rec.Rows {
		if row.Symbol == sym {
			printlnFn(formatRow(&row))
			n++
		}
	}
	printlnFn(fmt.Sprintf("%d of %d rows", n, len(rec.Rows)))
	return nil
}

// editRowFields prompts for each row field; empty input keeps the value.
// Field edits go through the debounced pipeline.
func (a *App) editRowFields(ctx context.Context, recID string, row *models.Row) error {
	houseNo, err := getOptionalText(a.reader, "House no", row.HouseNo, os.Stdout)
	if err != nil {
		return err
	}
	date, err := getOptionalText(a.reader, "Date (YYYY-MM-DD)", row.Date, os.Stdout)
	if err != nil {
		return err
	}
	symText, err := getOptionalText(a.reader, "Symbol ("+symbolLegend()+")", string(row.Symbol), os.Stdout)
	if err != nil {
		return err
	}
	sym := models.ParseSymbol(symText)
	if symText != "" && !sym.Recognized() {
		printlnFn("Unrecognized symbol, storing none")
	}
	remarks, err := getOptionalText(a.reader, "Remarks", row.Remarks, os.Stdout)
	if err != nil {
		return err
	}

	patch := models.RowPatch{HouseNo: &houseNo, Date: &date, Symbol: &sym, Remarks: &remarks}
	if err := a.recordService.UpdateRow(recID, row.ID, patch); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}

func findRow(rec *models.Record, rowID string) *models.Row {
	for i := range rec.Rows {
		if rec.Rows[i].ID == rowID {
			return &rec.Rows[i]
		}
	}
	return nil
}

func formatRow(row *models.Row) string {
	return fmt.Sprintf("%-10s %-8s %-12s %-3s %s",
		row.ID, orNA(row.HouseNo), orNA(row.Date), string(row.Symbol), row.Remarks)
}

func symbolLegend() string {
	parts := make([]string, 0, len(models.Symbols))
	for _, s := range models.Symbols {
		parts = append(parts, fmt.Sprintf("%s=%s", s, s.Desc()))
	}
	return strings.Join(parts, ", ")
}

package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"territorykeeper/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getOptionalText = GetOptionalText
var getPassword = GetPassword

// List prints a one-line summary for each local record, newest first.
func (a *App) List(ctx context.Context) error {
	for _, rec := range a.recordService.List(ctx) {
		marker := " "
		if rec.ID == a.current {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s %s  %-20s terr %-6s %d rows  updated %s",
			marker, shortID(rec.ID), orNA(rec.Street), orNA(rec.TerrNo),
			len(rec.Rows), rec.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return nil
}

// New creates a record with the preferred display name as publisher and
// opens it.
func (a *App) New(ctx context.Context) error {
	rec, err := a.recordService.Create(ctx, a.prefsRepo.Get().DisplayName)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if _, err := a.recordService.Open(ctx, rec.ID); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	a.current = rec.ID
	printlnFn("Created record", rec.ID)
	return nil
}

// Open makes the record with the given id (or id prefix) current.
func (a *App) Open(ctx context.Context, id string) error {
	full, err := a.resolveID(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if _, err := a.recordService.Open(ctx, full); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if a.current != "" && a.current != full {
		a.recordService.Close(a.current)
	}
	a.current = full
	return a.Show(ctx)
}

// resolveID expands an id prefix typed by the user to a full record id.
func (a *App) resolveID(ctx context.Context, prefix string) (string, error) {
	if _, err := a.recordService.Get(ctx, prefix); err == nil {
		return prefix, nil
	}
	var match string
	for _, rec := range a.recordService.List(ctx) {
		if len(prefix) > 0 && len(rec.ID) >= len(prefix) && rec.ID[:len(prefix)] == prefix {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = rec.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no record with id %q", prefix)
	}
	return match, nil
}

// Show prints the current record in its text form.
func (a *App) Show(ctx context.Context) error {
	rec, err := a.currentRecord(ctx)
	if err != nil {
		return err
	}
	printlnFn(FormatRecord(rec))
	return nil
}

// Edit prompts for the header fields of the current record. Empty input
// keeps the existing value. Saving goes through the debounced pipeline.
func (a *App) Edit(ctx context.Context) error {
	rec, err := a.currentRecord(ctx)
	if err != nil {
		return err
	}

	street, err := getOptionalText(a.reader, "Street", rec.Street, os.Stdout)
	if err != nil {
		return err
	}
	terrNo, err := getOptionalText(a.reader, "Territory no", rec.TerrNo, os.Stdout)
	if err != nil {
		return err
	}
	publisher, err := getOptionalText(a.reader, "Publisher", rec.PublisherName, os.Stdout)
	if err != nil {
		return err
	}

	patch := models.RecordPatch{Street: &street, TerrNo: &terrNo, PublisherName: &publisher}
	if err := a.recordService.UpdateHeader(rec.ID, patch); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}

// Delete removes the current record after confirmation.
func (a *App) Delete(ctx context.Context) error {
	rec, err := a.currentRecord(ctx)
	if err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete record %s? (y/N)", shortID(rec.ID)), os.Stdout)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "yes" {
		printlnFn("Cancelled")
		return nil
	}

	if err := a.recordService.Delete(ctx, rec.ID); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	a.current = ""
	printlnFn("Deleted")
	return nil
}

// ShowStats prints the symbol counts for the current record.
func (a *App) ShowStats(ctx context.Context) error {
	rec, err := a.currentRecord(ctx)
	if err != nil {
		return err
	}

	stats := models.CalcStats(rec.Rows)
	printlnFn(fmt.Sprintf("Total: %d", stats.Total))
	printlnFn(fmt.Sprintf("  %-3s %-12s %d", models.SymbolNotHome, models.SymbolNotHome.Desc(), stats.NotHome))
	printlnFn(fmt.Sprintf("  %-3s %-12s %d", models.SymbolCallAgain, models.SymbolCallAgain.Desc(), stats.CallAgain))
	printlnFn(fmt.Sprintf("  %-3s %-12s %d", models.SymbolBusy, models.SymbolBusy.Desc(), stats.Busy))
	printlnFn(fmt.Sprintf("  %-3s %-12s %d", models.SymbolChild, models.SymbolChild.Desc(), stats.Child))
	printlnFn(fmt.Sprintf("  %-3s %-12s %d", models.SymbolMan, models.SymbolMan.Desc(), stats.Man))
	printlnFn(fmt.Sprintf("  %-3s %-12s %d", models.SymbolWoman, models.SymbolWoman.Desc(), stats.Woman))
	return nil
}

// currentRecord loads the open record or complains when none is open.
func (a *App) currentRecord(ctx context.Context) (*models.Record, error) {
	if a.current == "" {
		printlnFn("No record open; use 'open <id>' or 'new' first")
		return nil, fmt.Errorf("no record open")
	}
	rec, err := a.recordService.Get(ctx, a.current)
	if err != nil {
		log.Printf("error: %v", err)
		return nil, err
	}
	return rec, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

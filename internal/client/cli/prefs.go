package cli

import (
	"context"
	"log"
	"os"
)

// Prefs edits the stored preferences: the display name used as the default
// publisher on new records, the report API key and the locale. Empty input
// keeps the current value.
func (a *App) Prefs(ctx context.Context) error {
	p := a.prefsRepo.Get()

	var err error
	if p.DisplayName, err = getOptionalText(a.reader, "Display name", p.DisplayName, os.Stdout); err != nil {
		return err
	}
	if p.ReportAPIKey, err = getOptionalText(a.reader, "Report API key", p.ReportAPIKey, os.Stdout); err != nil {
		return err
	}
	if p.Locale, err = getOptionalText(a.reader, "Locale", p.Locale, os.Stdout); err != nil {
		return err
	}

	if err := a.prefsRepo.Set(p); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	printlnFn("Saved")
	return nil
}

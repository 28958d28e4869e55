package cli

import (
	"context"
	"log"

	"territorykeeper/internal/client/services"
)

// newReportService is a test seam so command tests can point the report
// generator at a stub endpoint.
var newReportService = services.NewReportService

// Report generates a narrative markdown report for the current record via
// the configured text-generation endpoint and prints it. The API key comes
// from preferences (see the prefs command).
func (a *App) Report(ctx context.Context) error {
	rec, err := a.currentRecord(ctx)
	if err != nil {
		return err
	}

	apiKey := a.prefsRepo.Get().ReportAPIKey
	if apiKey == "" {
		printlnFn("Set a report API key first with 'prefs'")
	}

	svc := newReportService(a.config.ReportEndpoint, apiKey, a.config.ReportAttempts)

	printlnFn("Generating report...")
	report, err := svc.Generate(ctx, rec)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn(report)
	return nil
}

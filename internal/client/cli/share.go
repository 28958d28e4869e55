package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"territorykeeper/internal/client/client"
)

// Share publishes the current record as an immutable snapshot and prints
// the share code and share URL. Requires a logged-in session.
func (a *App) Share(ctx context.Context) error {
	rec, err := a.currentRecord(ctx)
	if err != nil {
		return err
	}
	if rec.ReadOnly {
		printlnFn("Shared records cannot be re-shared")
		return errors.New("record is read-only")
	}
	if !a.isLoggedIn() {
		printlnFn("Log in first to share records")
		return client.ErrUnauthorized
	}

	res, err := a.shareService.Publish(ctx, rec)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			printlnFn("Server unavailable; your record is safe locally, try again later")
		}
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Share code:", res.ShareID)
	printlnFn("Share URL: ", res.ShareURL)
	return nil
}

// OpenShared resolves a share code or URL and shows the snapshot. The
// resolved record is read-only and is not added to the local store.
// Pending debounced saves are flushed first so local state is settled
// before the view switches away.
func (a *App) OpenShared(ctx context.Context, codeOrURL string) error {
	a.recordService.Flush()

	rec, err := a.shareService.Resolve(ctx, codeOrURL)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Read-only shared record:")
	printlnFn(FormatRecord(rec))
	return nil
}

// Shares lists the share codes the user has published, newest first.
// Requires a logged-in session.
func (a *App) Shares(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first to list published records")
		return client.ErrUnauthorized
	}

	items, err := a.shareService.List(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if len(items) == 0 {
		printlnFn("No published records")
		return nil
	}
	for _, item := range items {
		printlnFn(fmt.Sprintf("%s  %s", item.ShareID, item.SharedAt.Format("2006-01-02 15:04")))
	}
	return nil
}

// ExportURL prints a download link for the archived copy of a snapshot.
func (a *App) ExportURL(ctx context.Context, codeOrURL string) error {
	url, err := a.shareService.ExportURL(ctx, codeOrURL)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	printlnFn(url)
	return nil
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	List(ctx context.Context) error
	New(ctx context.Context) error
	Open(ctx context.Context, id string) error
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Delete(ctx context.Context) error
	AddRow(ctx context.Context) error
	EditRow(ctx context.Context, rowID string) error
	RemoveRow(ctx context.Context, rowID string) error
	Filter(ctx context.Context, symbol string) error
	ShowStats(ctx context.Context) error
	Export(ctx context.Context) error
	Report(ctx context.Context) error
	Share(ctx context.Context) error
	Shares(ctx context.Context) error
	OpenShared(ctx context.Context, codeOrURL string) error
	ExportURL(ctx context.Context, codeOrURL string) error
	Prefs(ctx context.Context) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the territory keeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Record commands (always available, offline included):
//	  - (l)ist               — list local records
//	  - new                  — create a record
//	  - open <id>            — open a record for row commands
//	  - show | text          — print the open record as shareable text
//	  - edit                 — edit the open record's header fields
//	  - delete               — delete the open record
//	  - addrow               — append a row to the open record
//	  - editrow <rowId>      — edit a row
//	  - delrow <rowId>       — remove a row
//	  - filter <symbol>      — show only rows with the given symbol code
//	  - stats                — show symbol counts for the open record
//	  - export               — write the open record to a CSV file
//	  - report               — generate a narrative report
//	  - prefs                — edit display name, report API key, locale
//
//	Sharing commands:
//	  - register | login | logout
//	  - ping                 — check whether the sharing server is reachable
//	  - share                — publish the open record, print code and URL
//	  - shares               — list published share codes, newest first
//	  - shared <code|url>    — open a published snapshot read-only
//	  - exporturl <code|url> — print a download link for the archived copy
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tk> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Record commands: (l)ist, new, open <id>, show, edit, delete, addrow, editrow <rowId>, delrow <rowId>, filter <symbol>, stats, export, report, prefs")
			if a.isLoggedIn() {
				printlnFn("Sharing commands: share, shares, shared <code|url>, exporturl <code|url>, ping, logout, exit")
			} else {
				printlnFn("Sharing commands: register, login, shared <code|url>, ping, exit")
			}

		case "l", "list":
			_ = a.List(ctx)

		case "new":
			_ = a.New(ctx)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <id>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "show", "text":
			_ = a.Show(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "addrow":
			_ = a.AddRow(ctx)

		case "editrow":
			if len(args) == 0 {
				printlnFn("Usage: editrow <rowId>")
				continue
			}
			_ = a.EditRow(ctx, args[0])

		case "delrow":
			if len(args) == 0 {
				printlnFn("Usage: delrow <rowId>")
				continue
			}
			_ = a.RemoveRow(ctx, args[0])

		case "filter":
			if len(args) == 0 {
				printlnFn("Usage: filter <symbol>")
				continue
			}
			_ = a.Filter(ctx, args[0])

		case "stats":
			_ = a.ShowStats(ctx)

		case "export":
			_ = a.Export(ctx)

		case "report":
			_ = a.Report(ctx)

		case "prefs":
			_ = a.Prefs(ctx)

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "ping":
			_ = a.Ping(ctx)

		case "share":
			_ = a.Share(ctx)

		case "shares":
			_ = a.Shares(ctx)

		case "shared":
			if len(args) == 0 {
				printlnFn("Usage: shared <code|url>")
				continue
			}
			_ = a.OpenShared(ctx, args[0])

		case "exporturl":
			if len(args) == 0 {
				printlnFn("Usage: exporturl <code|url>")
				continue
			}
			_ = a.ExportURL(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

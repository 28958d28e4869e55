package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if a.authService.IsLoggedIn() {
		s = a.authService.Email()
	}
	if a.current != "" {
		if s != "" {
			s += " "
		}
		s += "rec:" + shortID(a.current)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// shortID abbreviates record identifiers for the prompt.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to territory keeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

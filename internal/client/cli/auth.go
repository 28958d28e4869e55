package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"territorykeeper/internal/client/client"
	"territorykeeper/internal/common"
)

// Register prompts the user for an email and password and attempts to
// create a new account via the AuthService.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is securely wiped before returning. Any I/O or service error is returned
// unchanged.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, email, string(password)); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			printlnFn("An account with this email already exists")
		}
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Login prompts the user for credentials and authenticates against the
// sharing server. Local record commands work regardless of the outcome;
// only sharing needs the session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, string(password)); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			log.Printf("Server unavailable; local records remain fully usable")
		} else {
			log.Printf("Login unsuccessfull: %s", err.Error())
		}
		return err
	}

	log.Printf("Login successfull")
	return nil
}

// Ping reports whether the sharing server is reachable. Local record
// commands never depend on the outcome.
func (a *App) Ping(ctx context.Context) error {
	if err := a.authService.Ping(ctx); err != nil {
		printlnFn("Server unavailable; local records remain fully usable")
		log.Printf("error: %v", err)
		return err
	}
	printlnFn("Server is up")
	return nil
}

// Logout drops the session tokens. Local data is untouched.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout()
	return nil
}

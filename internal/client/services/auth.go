package services

import (
	"context"

	"territorykeeper/internal/client/client"
)

// AuthService defines the authentication operations the CLI needs.
// Local CRUD never requires authentication; only sharing does.
type AuthService interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) error
	Logout()
	Ping(ctx context.Context) error
	IsLoggedIn() bool
	Email() string
}

type authService struct {
	api   client.Client
	email string
}

func NewAuthService(api client.Client) AuthService {
	return &authService{api: api}
}

func (a *authService) Register(ctx context.Context, email, password string) error {
	if _, err := a.api.Register(ctx, email, password); err != nil {
		return err
	}
	return nil
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	if err := a.api.Login(ctx, email, password); err != nil {
		return err
	}
	a.email = email
	return nil
}

func (a *authService) Logout() {
	a.api.Logout()
	a.email = ""
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}

func (a *authService) IsLoggedIn() bool {
	return a.api.IsAuthenticated()
}

func (a *authService) Email() string {
	return a.email
}

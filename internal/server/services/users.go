package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"territorykeeper/internal/common"
	"territorykeeper/internal/dbx"
	"territorykeeper/internal/server/auth"
	"territorykeeper/internal/server/config"
	"territorykeeper/internal/server/models"
	"territorykeeper/internal/server/repositories/repomanager"
)

// minPasswordLength is the shortest password Register accepts.
const minPasswordLength = 8

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService implements account registration and the token lifecycle.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates an account for the email. The password is stored as a
// bcrypt digest only.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorInvalidLoginPassword)
	}
	if len(password) < minPasswordLength {
		return nil, common.ErrorInvalidPasswordFormat
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and issues a token pair. A wrong email and
// a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidLoginPassword
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorInvalidLoginPassword
	}

	return s.generateTokenPair(ctx, user.ID)
}

// RefreshToken rotates the pair: the presented refresh token is revoked
// and a fresh pair is issued in one transaction.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {

	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var tokenPair *TokenPair

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		tokenPair, err = s.generateTokenPairTx(ctx, tx, token.UserID)
		if err != nil {
			return fmt.Errorf("error generating token pair: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// GetUserIDFromToken validates an access token and returns its subject.
func (s *UserService) GetUserIDFromToken(tokenString string) (string, error) {
	return auth.GetUserIDFromToken(tokenString, s.jwtSecret)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	return s.generateTokenPairTx(ctx, s.db, userID)
}

func (s *UserService) generateTokenPairTx(ctx context.Context, tx dbx.DBTX, userID string) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

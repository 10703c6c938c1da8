package services

import (
	"context"
	"errors"
	"time"

	"fixitnow-chat/config"
	"fixitnow-chat/internal/domain"
	"fixitnow-chat/internal/repository"
	fixitnow_errors "fixitnow-chat/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService validates access tokens minted by the marketplace application
// and resolves them to user records. Signup/login live outside this service;
// it only consumes their credentials.
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: time.Duration(cfg.JWTExpiryMin) * time.Minute,
	}
}

type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a token for the given user. Exposed for the
// surrounding application and for tests.
func (s *AuthService) IssueAccessToken(u domain.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, fixitnow_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fixitnow_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AccessClaims{}, fixitnow_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, fixitnow_errors.ErrUnauthorized
	}
	return *claims, nil
}

// Authenticate resolves a raw token to the user record it belongs to. Any
// failure along the way collapses to ErrUnauthorized: the caller only needs
// to know the credential did not map to a live account.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (domain.User, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return domain.User{}, err
	}
	if claims.Email == "" {
		return domain.User{}, fixitnow_errors.ErrUnauthorized
	}

	u, err := s.userRepo.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, fixitnow_errors.ErrNotFound) {
			return domain.User{}, fixitnow_errors.ErrUnauthorized
		}
		return domain.User{}, err
	}
	return u, nil
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, fixitnow_errors.ErrInvalidInput):
		return 400
	case errors.Is(err, fixitnow_errors.ErrUnauthorized):
		return 401
	case errors.Is(err, fixitnow_errors.ErrForbidden):
		return 403
	case errors.Is(err, fixitnow_errors.ErrNotFound):
		return 404
	case errors.Is(err, fixitnow_errors.ErrConflict):
		return 409
	default:
		return 500
	}
}

type ctxKey string

var userKey ctxKey = "user"

func WithUserContext(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (domain.User, bool) {
	value := ctx.Value(userKey)
	if value == nil {
		return domain.User{}, false
	}
	u, ok := value.(domain.User)
	return u, ok
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/saddleworks/stablecare-backend/internal/platform/envutil"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService guards the admin surface. There is a single operator
// account configured through the environment; no user table exists.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, expiresIn int, err error)
	Verify(tokenString string) error
	AccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	adminEmail   string
	passwordHash string
	secret       []byte
	accessTTL    time.Duration
	now          func() time.Time
}

func NewAuthService(log *logger.Logger) AuthService {
	return &authService{
		log:          log.With("service", "AuthService"),
		adminEmail:   envutil.String("ADMIN_EMAIL", ""),
		passwordHash: envutil.String("ADMIN_PASSWORD_HASH", ""),
		secret:       []byte(envutil.String("JWT_SECRET_KEY", "defaultsecret")),
		accessTTL:    time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 43200)) * time.Second,
		now:          time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, int, error) {
	if s.adminEmail == "" || s.passwordHash == "" {
		s.log.Warn("Admin login attempted without ADMIN_EMAIL/ADMIN_PASSWORD_HASH configured")
		return "", 0, ErrInvalidCredentials
	}
	if email != s.adminEmail {
		return "", 0, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", 0, ErrInvalidCredentials
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, err
	}
	s.log.Info("Admin logged in", "email", email)
	return token, int(s.accessTTL.Seconds()), nil
}

func (s *authService) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

func (s *authService) AccessTTL() time.Duration { return s.accessTTL }

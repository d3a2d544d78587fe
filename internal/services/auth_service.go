package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"rollcall/internal/models"
)

// ErrInvalidToken covers expired, malformed and wrongly-signed tokens alike.
// The verify handler treats it as "link expired" and reissues.
var ErrInvalidToken = errors.New("invalid or expired token")

const bcryptCost = 12

// SessionClaims is what login puts into the bearer token.
type SessionClaims struct {
	UserID int `json:"userId"`
	jwt.RegisteredClaims
}

// verificationClaims mirror what the verification link asserts about the
// account; the id travels in the link path, not in the claims.
type verificationClaims struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService interface {
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) error

	NewVerificationToken(user *models.User) (string, error)
	NewSessionToken(userID int) (string, error)

	// CheckToken validates signature and expiry of a verification token.
	// Any parse failure comes back as ErrInvalidToken.
	CheckToken(token string) error
}

type authService struct {
	secret     []byte
	verifyTTL  time.Duration
	sessionTTL time.Duration
}

func NewAuthService(secret string, verifyTTL, sessionTTL time.Duration) AuthService {
	return &authService{
		secret:     []byte(secret),
		verifyTTL:  verifyTTL,
		sessionTTL: sessionTTL,
	}
}

func (s *authService) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *authService) CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

func (s *authService) NewVerificationToken(user *models.User) (string, error) {
	claims := &verificationClaims{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.verifyTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *authService) NewSessionToken(userID int) (string, error) {
	claims := &SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *authService) CheckToken(tokenStr string) error {
	token, err := jwt.ParseWithClaims(tokenStr, &verificationClaims{}, func(t *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

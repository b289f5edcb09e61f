// Package auth implements the authentication gate: password hashing,
// registration and login validation, and signed session tokens. The
// rest of the app only ever consumes the opaque owner id this package
// resolves from a token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"financas/internal/store"
)

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidCredentials = errors.New("email ou senha incorretos")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// WeakPasswordError explains which strength rule a password failed.
type WeakPasswordError struct{ Reason string }

func (e *WeakPasswordError) Error() string { return e.Reason }

var (
	emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w.-]+\.\w+$`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	digitPattern = regexp.MustCompile(`\d`)
)

// Manager issues and verifies sessions against the user store.
type Manager struct {
	users  store.UserStore
	secret []byte
	ttl    time.Duration
}

func NewManager(users store.UserStore, secret string, ttl time.Duration) *Manager {
	return &Manager{users: users, secret: []byte(secret), ttl: ttl}
}

// TokenTTL is the validity window of issued tokens, also used for the
// remember-me cookie lifetime.
func (m *Manager) TokenTTL() time.Duration { return m.ttl }

// ValidatePassword enforces the registration strength rules: at least 8
// characters with an upper-case letter, a lower-case letter and a digit.
func ValidatePassword(password string) error {
	switch {
	case len(password) < 8:
		return &WeakPasswordError{"Senha deve ter pelo menos 8 caracteres"}
	case !upperPattern.MatchString(password):
		return &WeakPasswordError{"Senha deve conter pelo menos uma letra maiúscula"}
	case !lowerPattern.MatchString(password):
		return &WeakPasswordError{"Senha deve conter pelo menos uma letra minúscula"}
	case !digitPattern.MatchString(password):
		return &WeakPasswordError{"Senha deve conter pelo menos um número"}
	}
	return nil
}

// Register validates the input, hashes the password and creates the
// user. Returns the new user's id; store.ErrEmailTaken propagates when
// the email is already registered.
func (m *Manager) Register(ctx context.Context, email, password, name string) (string, error) {
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id, err := m.users.CreateUser(ctx, store.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Login verifies the credentials and returns a signed session token.
// Both an unknown email and a wrong password yield ErrInvalidCredentials
// so the response does not leak which one was wrong.
func (m *Manager) Login(ctx context.Context, email, password string) (string, error) {
	user, err := m.users.FindUserByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken returns the owner id carried by a valid token.
func (m *Manager) VerifyToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// CurrentUser resolves the token back to the stored user record.
func (m *Manager) CurrentUser(ctx context.Context, tokenString string) (store.User, error) {
	ownerID, err := m.VerifyToken(tokenString)
	if err != nil {
		return store.User{}, err
	}
	return m.users.FindUserByID(ctx, ownerID)
}

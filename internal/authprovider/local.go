package authprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"etalase/internal/apperrors"
	"etalase/internal/models"
	"etalase/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxFailedAttempts = 5
	lockoutWindow     = 15 * time.Minute
	resetTokenTTL     = time.Hour
)

// Local is a self-hosted provider: bcrypt password hashes in the user
// repository and HS256 JWT id tokens.
type Local struct {
	users     repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	failures map[string][]time.Time
}

// NewLocal creates a Local provider.
func NewLocal(users repositories.UserRepository, jwtSecret string, logger *zap.Logger) *Local {
	return &Local{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
		logger:    logger,
		now:       time.Now,
		failures:  make(map[string][]time.Time),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func plausibleEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

// SignIn checks the password and issues an id token.
func (p *Local) SignIn(ctx context.Context, email, password string) (*Account, error) {
	email = normalizeEmail(email)
	if !plausibleEmail(email) {
		return nil, &Error{Code: CodeInvalidEmail}
	}
	if p.lockedOut(email) {
		return nil, &Error{Code: CodeTooManyAttempts}
	}

	user, err := p.users.GetByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, &Error{Code: CodeEmailNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		p.recordFailure(email)
		return nil, &Error{Code: CodeInvalidPassword}
	}
	p.clearFailures(email)
	return p.account(user)
}

// SignUp registers a new email/password account.
func (p *Local) SignUp(ctx context.Context, email, password, displayName string) (*Account, error) {
	email = normalizeEmail(email)
	if !plausibleEmail(email) {
		return nil, &Error{Code: CodeInvalidEmail}
	}
	if len(password) < 6 {
		return nil, &Error{Code: CodeWeakPassword}
	}
	existing, err := p.users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, &Error{Code: CodeEmailExists}
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		Email:        &email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if err := p.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, &Error{Code: CodeEmailExists, Err: err}
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return p.account(user)
}

// SignInAnonymously creates a credential-less account.
func (p *Local) SignInAnonymously(ctx context.Context) (*Account, error) {
	user := &models.User{Anonymous: true, DisplayName: "Guest"}
	if err := p.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create anonymous user: %w", err)
	}
	return p.account(user)
}

// SendPasswordReset issues a short-lived reset token for the account.
// Delivery is out of scope for the self-hosted provider; the token is logged
// at debug level only.
func (p *Local) SendPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !plausibleEmail(email) {
		return &Error{Code: CodeInvalidEmail}
	}
	user, err := p.users.GetByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return &Error{Code: CodeEmailNotFound}
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := p.sign(jwt.MapClaims{
		"user_id": user.ID,
		"purpose": "password_reset",
		"exp":     p.now().Add(resetTokenTTL).Unix(),
		"iat":     p.now().Unix(),
	})
	if err != nil {
		return err
	}
	p.logger.Debug("password reset issued", zap.String("user_id", user.ID), zap.String("token", token))
	return nil
}

// SignOut is a no-op: local id tokens expire on their own.
func (p *Local) SignOut(context.Context, *Account) error { return nil }

// ValidateToken parses and validates an id token, returning its claims.
func (p *Local) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func (p *Local) account(user *models.User) (*Account, error) {
	acct := &Account{UID: user.ID, Anonymous: user.Anonymous}
	if user.Email != nil {
		acct.Email = *user.Email
	}
	token, err := p.sign(jwt.MapClaims{
		"user_id":   user.ID,
		"email":     acct.Email,
		"anonymous": user.Anonymous,
		"exp":       p.now().Add(p.tokenTTL).Unix(),
		"iat":       p.now().Unix(),
	})
	if err != nil {
		return nil, err
	}
	acct.IDToken = token
	return acct, nil
}

func (p *Local) sign(claims jwt.MapClaims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

func (p *Local) lockedOut(email string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.recent(email)) >= maxFailedAttempts
}

// recent prunes failures outside the lockout window. Caller holds mu.
func (p *Local) recent(email string) []time.Time {
	cutoff := p.now().Add(-lockoutWindow)
	kept := p.failures[email][:0]
	for _, t := range p.failures[email] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(p.failures, email)
		return nil
	}
	p.failures[email] = kept
	return kept
}

func (p *Local) recordFailure(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[email] = append(p.recent(email), p.now())
}

func (p *Local) clearFailures(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failures, email)
}

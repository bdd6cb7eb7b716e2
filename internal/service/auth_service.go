package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"delivery_kitchen/internal/models"
	"delivery_kitchen/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"k8s.io/utils/clock"
)

const (
	tokenIssuer = "delivery-kitchen"
	tokenTTL    = 12 * time.Hour // one dispatcher shift

	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores the rest
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,31}$`)

var (
	ErrInvalidUsername    = errors.New("username must be 3-32 chars of a-z, 0-9, '.', '_' or '-'")
	ErrWeakPassword       = fmt.Errorf("password must be %d-%d bytes", minPasswordLen, maxPasswordLen)
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingSigningKey  = errors.New("auth.signing_key is not configured")

	ErrUsernameTaken = repository.ErrUsernameTaken
)

// AuthService registers dispatchers and issues the bearer tokens that carry
// their identity into the kitchen API.
type AuthService struct {
	dispatchers repository.Dispatchers
	signingKey  []byte
	clock       clock.PassiveClock
}

func NewAuthService(dispatchers repository.Dispatchers, signingKey string) *AuthService {
	return &AuthService{
		dispatchers: dispatchers,
		signingKey:  []byte(signingKey),
		clock:       clock.RealClock{},
	}
}

// dispatcherClaims identify the dispatcher by id (subject) and username.
type dispatcherClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// SignUp registers a dispatcher. Usernames are case-insensitive.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (models.Dispatcher, error) {
	username = normalizeUsername(username)
	if !usernamePattern.MatchString(username) {
		return models.Dispatcher{}, ErrInvalidUsername
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return models.Dispatcher{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Dispatcher{}, fmt.Errorf("hash password: %w", err)
	}

	d := models.Dispatcher{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now().UTC(),
	}
	if d.ID, err = s.dispatchers.Create(ctx, d); err != nil {
		return models.Dispatcher{}, err
	}
	return d, nil
}

// SignIn checks the credentials and returns a signed token. Unknown users and
// wrong passwords yield the same error.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (string, error) {
	d, err := s.dispatchers.GetByUsername(ctx, normalizeUsername(username))
	if errors.Is(err, repository.ErrDispatcherNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(models.Identity{DispatcherID: d.ID, Username: d.Username})
}

// ParseToken verifies a token and returns the dispatcher it was issued to.
func (s *AuthService) ParseToken(accessToken string) (models.Identity, error) {
	if len(s.signingKey) == 0 {
		return models.Identity{}, ErrMissingSigningKey
	}

	var claims dispatcherClaims
	_, err := jwt.ParseWithClaims(accessToken, &claims,
		func(*jwt.Token) (any, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.Username == "" {
		return models.Identity{}, fmt.Errorf("%w: missing dispatcher", ErrInvalidToken)
	}
	return models.Identity{DispatcherID: id, Username: claims.Username}, nil
}

func (s *AuthService) issueToken(who models.Identity) (string, error) {
	if len(s.signingKey) == 0 {
		return "", ErrMissingSigningKey
	}
	now := s.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &dispatcherClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(who.DispatcherID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Username: who.Username,
	})
	return token.SignedString(s.signingKey)
}

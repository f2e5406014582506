package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/George1161/the-legit-website/config"
	"github.com/George1161/the-legit-website/errs"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminRole       = "admin"
	adminIssuer     = "the-legit-backend"
	DefaultTokenTTL = 12 * time.Hour
)

// AdminClaims are carried by admin bearer tokens.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminAuth checks the configured admin credential and issues HS256 tokens.
// A zero AdminAuth is disabled and rejects everything.
type AdminAuth struct {
	email        string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAdminAuth(email, passwordHash, secret string, ttl time.Duration) AdminAuth {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return AdminAuth{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}
}

func NewAdminAuthFromConfig(c map[string]string) AdminAuth {
	return NewAdminAuth(
		config.GetString(c, "ADMIN_EMAIL", ""),
		config.GetString(c, "ADMIN_PASSWORD_HASH", ""),
		config.GetString(c, "ADMIN_JWT_SECRET", ""),
		time.Duration(config.GetInt(c, "ADMIN_TOKEN_TTL_MINUTES", int(DefaultTokenTTL/time.Minute)))*time.Minute,
	)
}

func (a AdminAuth) Enabled() bool {
	return a.email != "" && len(a.passwordHash) > 0 && len(a.secret) > 0
}

// Login verifies the credential and returns a signed token and its expiry.
func (a AdminAuth) Login(email, password string) (string, time.Time, error) {
	if !a.Enabled() {
		return "", time.Time{}, errs.NewAdminDisabledError()
	}

	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(strings.TrimSpace(email))), []byte(a.email)) == 1
	// always run bcrypt so a wrong email costs the same as a wrong password
	passwordErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !emailOK || passwordErr != nil {
		return "", time.Time{}, errs.NewInvalidCredentialsError()
	}

	now := a.now()
	expiresAt := now.Add(a.ttl)
	claims := AdminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.email,
			Issuer:    adminIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, errs.NewInternalErrorWithCause("sign admin token", err)
	}
	return token, expiresAt, nil
}

// Verify parses a bearer token and checks that it grants the admin role.
func (a AdminAuth) Verify(tokenString string) (*AdminClaims, error) {
	if !a.Enabled() {
		return nil, errs.NewAdminDisabledError()
	}
	if tokenString == "" {
		return nil, errs.NewMissingTokenError()
	}

	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(adminIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}
	if claims.Role != adminRole || claims.Subject != a.email {
		return nil, errs.NewInvalidTokenError(errors.New("token does not grant admin access"))
	}
	return claims, nil
}

// HashPassword produces the value expected in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

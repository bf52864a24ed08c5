package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"diskmanager/internal/logging"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "diskmanager"

// AuthService manages JWT token generation and validation
type AuthService struct {
	secretKey   string
	tokenExpiry time.Duration
	now         func() time.Time
}

// CustomClaims represents the JWT claims structure
type CustomClaims struct {
	ServerName string `json:"server_name"`
	UserAgent  string `json:"user_agent"`
	jwt.RegisteredClaims
}

// NewAuthService creates the service. An empty secretKey is loaded from
// keyFile, generated and persisted there when missing.
func NewAuthService(secretKey string, keyFile string, tokenExpiry time.Duration) (*AuthService, error) {
	logger := logging.NewLogger("auth")

	secretKey = strings.TrimSpace(secretKey)
	if len(secretKey) == 0 {
		var err error
		secretKey, err = loadOrCreateKey(keyFile)
		if err != nil {
			return nil, err
		}
		logger.WithField("file", keyFile).Debug("using persisted secret key")
	}

	if len(secretKey) < 32 {
		logger.WithField("length", len(secretKey)).
			Warn("secret key is shorter than the 32 bytes recommended for HMAC-SHA256")
	}

	if tokenExpiry <= 0 {
		tokenExpiry = 90 * 24 * time.Hour
	}

	return &AuthService{
		secretKey:   secretKey,
		tokenExpiry: tokenExpiry,
		now:         time.Now,
	}, nil
}

func loadOrCreateKey(keyFile string) (string, error) {
	if data, err := os.ReadFile(keyFile); err == nil && len(strings.TrimSpace(string(data))) > 0 {
		return strings.TrimSpace(string(data)), nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("could not read secret key: %w", err)
	}

	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("could not generate secret key: %w", err)
	}
	secretKey := hex.EncodeToString(randomBytes)

	if err := os.MkdirAll(filepath.Dir(keyFile), 0700); err != nil {
		return "", fmt.Errorf("could not create secret key directory: %w", err)
	}
	if err := os.WriteFile(keyFile, []byte(secretKey), 0600); err != nil {
		return "", fmt.Errorf("could not persist secret key: %w", err)
	}
	logging.NewLogger("auth").WithField("file", keyFile).Info("generated and persisted secret key")
	return secretKey, nil
}

// GenerateToken creates a new JWT token with server details
func (a *AuthService) GenerateToken(serverName string) (string, error) {
	now := a.now()

	claims := CustomClaims{
		ServerName: serverName,
		UserAgent:  "diskmanager-client",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.secretKey))
}

// ValidateToken verifies and parses a JWT token
func (a *AuthService) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.secretKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(a.now))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// TokenExpiry returns when a token generated now will expire
func (a *AuthService) TokenExpiry() time.Time {
	return a.now().Add(a.tokenExpiry)
}

package middleware

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-card-indexer/internal/api/shared/errors"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/logger"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	CALLER_KEY contextKey = "caller"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
}

// Claims are the session token claims; the subject is the user id
type Claims struct {
	jwt.RegisteredClaims
	WalletAddress string `json:"wallet_address"`
}

// Authenticator validates bearer tokens against a parsed key
type Authenticator struct {
	publicKey *rsa.PublicKey
}

// NewAuthenticator parses the configured public key once
func NewAuthenticator(cfg AuthConfig) (*Authenticator, error) {
	if cfg.JWTPublicKey == "" {
		return nil, errors.New("JWT public key not configured")
	}
	publicKey, err := parseRSAPublicKey(cfg.JWTPublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}
	return &Authenticator{publicKey: publicKey}, nil
}

// Authenticate validates the Authorization header and returns the caller
func (a *Authenticator) Authenticate(authHeader string) (domain.Caller, error) {
	if authHeader == "" {
		return domain.Caller{}, errors.New("missing Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return domain.Caller{}, errors.New("invalid Authorization header format")
	}

	claims, err := a.validateJWT(parts[1])
	if err != nil {
		return domain.Caller{}, err
	}

	address := domain.NormalizeAddress(claims.WalletAddress)
	if !domain.IsValidAddress(address) {
		return domain.Caller{}, errors.New("token carries no valid wallet address")
	}
	if claims.Subject == "" {
		return domain.Caller{}, errors.New("token carries no subject")
	}

	return domain.Caller{UserID: claims.Subject, WalletAddress: address}, nil
}

// Auth returns a gin middleware that resolves the caller from a bearer token
func Auth(a *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := a.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Response{
				Error: apierrors.NewUnauthorizedError("Authentication failed", err.Error()),
			})
			return
		}

		c.Set(string(CALLER_KEY), caller)
		logger.DebugCtx(c.Request.Context(), "JWT authentication successful",
			zap.String("path", c.Request.URL.Path),
			zap.String("subject", caller.UserID),
		)

		c.Next()
	}
}

// CallerFromContext returns the authenticated caller
func CallerFromContext(c *gin.Context) (domain.Caller, bool) {
	v, ok := c.Get(string(CALLER_KEY))
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := v.(domain.Caller)
	return caller, ok
}

// validateJWT validates a JWT token with RSA signature and returns claims
func (a *Authenticator) validateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is RSA
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// parseRSAPublicKey parses an RSA public key from PEM format
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	// Try parsing as PKIX (most common format)
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// Try parsing as PKCS1 format
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}

	return rsaKey, nil
}

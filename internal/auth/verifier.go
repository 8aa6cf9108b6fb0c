// Package auth verifies and issues the bearer tokens that identify socket
// connections.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"quizblog/gateway/internal/metrics"
	"quizblog/gateway/internal/models"
)

// RevocationList reports whether a token id was revoked before expiry.
type RevocationList interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Verifier struct {
	secret  []byte
	revoked RevocationList
	log     *zap.Logger
}

// NewVerifier accepts a nil RevocationList, in which case revocation is not checked.
func NewVerifier(secret string, revoked RevocationList, log *zap.Logger) *Verifier {
	return &Verifier{secret: []byte(secret), revoked: revoked, log: log}
}

// Verify checks signature, expiry and revocation. An empty token yields a nil
// identity and no error.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*models.Identity, error) {
	if tokenString == "" {
		return nil, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrSigningMethod, token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrMissingSubject
	}

	if v.revoked != nil && claims.ID != "" {
		revoked, err := v.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			// A revocation store outage must not lock everyone out.
			v.log.Warn("revocation check failed", zap.String("jti", claims.ID), zap.Error(err))
		}
		if revoked {
			return nil, ErrRevokedToken
		}
	}

	return claims.Identity(), nil
}

// Identify is Verify with failures downgraded to an anonymous connection.
func (v *Verifier) Identify(ctx context.Context, tokenString string) *models.Identity {
	identity, err := v.Verify(ctx, tokenString)
	switch {
	case err != nil:
		metrics.AuthResults.WithLabelValues("rejected").Inc()
		v.log.Debug("token rejected, continuing anonymously", zap.Error(err))
		return nil
	case identity == nil:
		metrics.AuthResults.WithLabelValues("anonymous").Inc()
	default:
		metrics.AuthResults.WithLabelValues("authenticated").Inc()
	}
	return identity
}

// TokenFromRequest reads the bearer token from the "token" query parameter or
// the Authorization header.
func TokenFromRequest(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

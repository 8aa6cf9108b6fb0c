package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quizblog/gateway/internal/metrics"
	"quizblog/gateway/internal/models"
)

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

var ana = models.Identity{UserID: "u1", Email: "ana@x.com", Name: "Ana", Role: "Admin"}

func TestVerify_RoundTrip(t *testing.T) {
	tok, err := NewIssuer("secret", time.Hour).Issue(ana)
	require.NoError(t, err)

	id, err := NewVerifier("secret", nil, zap.NewNop()).Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, ana, *id)
	assert.True(t, id.IsAdmin())
}

func TestVerify_EmptyTokenIsAnonymous(t *testing.T) {
	id, err := NewVerifier("secret", nil, zap.NewNop()).Verify(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, id)
}

func TestVerify_Failures(t *testing.T) {
	good, err := NewIssuer("secret", time.Hour).Issue(ana)
	require.NoError(t, err)

	expiredIssuer := NewIssuer("secret", time.Minute)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredIssuer.Issue(ana)
	require.NoError(t, err)

	noSubject, err := NewIssuer("secret", time.Hour).Issue(models.Identity{Name: "ghost"})
	require.NoError(t, err)

	v := NewVerifier("other-secret", nil, zap.NewNop())
	_, err = v.Verify(context.Background(), good)
	assert.ErrorIs(t, err, ErrInvalidToken)

	v = NewVerifier("secret", nil, zap.NewNop())
	_, err = v.Verify(context.Background(), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = v.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(context.Background(), noSubject)
	assert.ErrorIs(t, err, ErrMissingSubject)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), noExpiry)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)

	assert.Nil(t, v.Identify(context.Background(), expired))
}

func TestVerify_Revocation(t *testing.T) {
	tok, err := NewIssuer("secret", time.Hour).Issue(ana)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(tok, &Claims{})
	require.NoError(t, err)
	jti := parsed.Claims.(*Claims).ID

	v := NewVerifier("secret", &fakeRevocations{revoked: map[string]bool{jti: true}}, zap.NewNop())
	_, err = v.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, ErrRevokedToken)

	// store outage fails open
	v = NewVerifier("secret", &fakeRevocations{err: errors.New("redis down")}, zap.NewNop())
	id, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws?token=abc", nil)
	assert.Equal(t, "abc", TokenFromRequest(r))

	r = httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "Bearer xyz")
	assert.Equal(t, "xyz", TokenFromRequest(r))

	r = httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "Basic xyz")
	assert.Empty(t, TokenFromRequest(r))
}

func TestIdentify_CountsOutcomes(t *testing.T) {
	v := NewVerifier("secret", nil, zap.NewNop())
	good, err := NewIssuer("secret", time.Hour).Issue(ana)
	require.NoError(t, err)

	count := func(result string) float64 {
		return testutil.ToFloat64(metrics.AuthResults.WithLabelValues(result))
	}
	rejected, anonymous, authenticated := count("rejected"), count("anonymous"), count("authenticated")

	assert.Nil(t, v.Identify(context.Background(), "garbage"))
	assert.Nil(t, v.Identify(context.Background(), ""))
	require.NotNil(t, v.Identify(context.Background(), good))

	assert.Equal(t, rejected+1, count("rejected"))
	assert.Equal(t, anonymous+1, count("anonymous"))
	assert.Equal(t, authenticated+1, count("authenticated"))
}

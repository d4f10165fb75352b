package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTSigner_SignVerify(t *testing.T) {
	signer := NewJWTSigner("secret", 24*time.Hour)

	token, expiresAt, err := signer.Sign("user-1", "Bob Smith")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, 2*time.Second)
	assert.False(t, strings.HasPrefix(token, "Bearer "))

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Bob Smith", claims.Name)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTSigner_TokensAreUnique(t *testing.T) {
	signer := NewJWTSigner("secret", time.Hour)

	a, _, err := signer.Sign("user-1", "Bob")
	require.NoError(t, err)
	b, _, err := signer.Sign("user-1", "Bob")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestJWTSigner_Verify_Rejects(t *testing.T) {
	signer := NewJWTSigner("secret", time.Hour)
	token, _, err := signer.Sign("user-1", "Bob")
	require.NoError(t, err)

	expired := NewJWTSigner("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Sign("user-1", "Bob")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "user-1",
	})
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		signer  *JWTSigner
		token   string
		wantErr error
	}{
		{"empty", signer, "", ErrInvalidToken},
		{"garbage", signer, "not.a.jwt", ErrInvalidToken},
		{"wrong secret", NewJWTSigner("other", time.Hour), token, ErrInvalidToken},
		{"tampered", signer, token[:len(token)-2] + "xx", ErrInvalidToken},
		{"bearer prefix left on", signer, "Bearer " + token, ErrInvalidToken},
		{"expired", signer, expiredToken, ErrTokenExpired},
		{"alg none", signer, noneToken, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.signer.Verify(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWTToken_RoundTrip(t *testing.T) {
	token, err := GenerateJWTToken("test-issuer", AudienceSession, 123, 7, time.Hour, "secret-key")
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)
	assert.Equal(t, token.SignedString, token.String())

	parsed, err := ValidateAndParseJWTToken(token.SignedString, "secret-key", "test-issuer", AudienceSession)
	require.NoError(t, err)
	assert.Equal(t, int64(123), parsed.UserID)
	assert.Equal(t, int64(7), parsed.SessionVersion)
	assert.WithinDuration(t, token.ExpiresAt, parsed.ExpiresAt, time.Second)
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		audience string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", AudienceSession, time.Hour, "key"},
		{"empty audience", "iss", "", time.Hour, "key"},
		{"zero duration", "iss", AudienceSession, 0, "key"},
		{"empty key", "iss", AudienceSession, time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, tt.audience, 1, 1, tt.duration, tt.key)
			assert.ErrorIs(t, err, ErrInvalidTokenParams)
		})
	}
}

func TestValidateAndParseJWTToken_Rejects(t *testing.T) {
	token, err := GenerateJWTToken("iss", AudienceSession, 1, 1, time.Hour, "key")
	require.NoError(t, err)

	_, err = ValidateAndParseJWTToken(token.SignedString, "other-key", "iss", AudienceSession)
	assert.Error(t, err, "wrong key")

	_, err = ValidateAndParseJWTToken(token.SignedString, "key", "other-iss", AudienceSession)
	assert.Error(t, err, "wrong issuer")

	_, err = ValidateAndParseJWTToken(token.SignedString, "key", "iss", AudienceReset)
	assert.Error(t, err, "reset audience must not accept a session token")

	_, err = ValidateAndParseJWTToken("garbage", "key", "iss", AudienceSession)
	assert.Error(t, err)
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	token, err := GenerateJWTToken("iss", AudienceSession, 1, 1, time.Nanosecond, "key")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	_, err = ValidateAndParseJWTToken(token.SignedString, "key", "iss", AudienceSession)
	assert.Error(t, err)
}

func TestParseBearerToken(t *testing.T) {
	tok, err := ParseBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	tok, err = ParseBearerToken("  bearer   xyz ")
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		_, err := ParseBearerToken(h)
		assert.Error(t, err, h)
	}
}

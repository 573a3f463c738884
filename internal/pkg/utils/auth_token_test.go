package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setKeys(t *testing.T, secret, signing string, ttl time.Duration) {
	t.Helper()
	viper.Set(constants.ViperSecretKey, secret)
	viper.Set(constants.ViperTokenSigningKey, signing)
	viper.Set(constants.ViperTokenTTLKey, ttl)
	t.Cleanup(viper.Reset)
}

func TestAuthTokenRoundTrip(t *testing.T) {
	setKeys(t, "s3cret", "", time.Hour)

	token, err := GenerateAuthToken(&AuthTokenWrapper{Secret: "s3cret"})
	require.NoError(t, err)

	parsed, err := ParseAuthToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", parsed.Secret)
	assert.Greater(t, parsed.ExpiresAt, parsed.IssuedAt)
}

func TestParseAuthTokenRejects(t *testing.T) {
	t.Run("other key", func(t *testing.T) {
		setKeys(t, "s3cret", "key-a", time.Hour)
		token, err := GenerateAuthToken(&AuthTokenWrapper{Secret: "s3cret"})
		require.NoError(t, err)

		viper.Set(constants.ViperTokenSigningKey, "key-b")
		_, err = ParseAuthToken(token)
		assert.ErrorIs(t, err, constants.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		setKeys(t, "s3cret", "", time.Hour)
		wrapper := &AuthTokenWrapper{
			Secret:         "s3cret",
			StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, wrapper).SignedString([]byte("s3cret"))
		require.NoError(t, err)

		_, err = ParseAuthToken(token)
		assert.ErrorIs(t, err, constants.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		setKeys(t, "s3cret", "", time.Hour)
		_, err := ParseAuthToken("not-a-token")
		assert.ErrorIs(t, err, constants.ErrUnauthorized)
	})
}

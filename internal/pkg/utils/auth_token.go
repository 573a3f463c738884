package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/spf13/viper"
)

type AuthTokenWrapper struct {
	Secret string `json:"secret"`
	jwt.StandardClaims
}

// signingKey falls back to the admin secret when no dedicated key is configured.
func signingKey() []byte {
	if key := viper.GetString(constants.ViperTokenSigningKey); key != "" {
		return []byte(key)
	}
	return []byte(viper.GetString(constants.ViperSecretKey))
}

func GenerateAuthToken(wrapper *AuthTokenWrapper) (string, error) {
	now := time.Now()
	wrapper.IssuedAt = now.Unix()
	if ttl := viper.GetDuration(constants.ViperTokenTTLKey); ttl > 0 {
		wrapper.ExpiresAt = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, wrapper)
	signed, err := token.SignedString(signingKey())
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}

	return signed, nil
}

func ParseAuthToken(tokenString string) (*AuthTokenWrapper, error) {
	wrapper := &AuthTokenWrapper{}
	token, err := jwt.ParseWithClaims(tokenString, wrapper, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return signingKey(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, constants.ErrUnauthorized
	}

	return wrapper, nil
}

package auth

import (
	"context"
	"crypto/subtle"

	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
	"github.com/lankasolar/solarcalc/internal/pkg/utils"
)

type Service struct {
	secret string
}

func NewAuthService(secret string) *Service {
	return &Service{secret: secret}
}

// LoginAdmin issues an admin token when the secret matches. An empty configured secret disables admin access.
func (svc *Service) LoginAdmin(ctx context.Context, request *dto.AdminLoginRequest) (string, error) {
	if svc.secret == "" {
		logger.Warnf(ctx, "admin login attempted but no admin secret is configured")
		return "", constants.ErrInvalidAdminSecret
	}
	if subtle.ConstantTimeCompare([]byte(request.Secret), []byte(svc.secret)) != 1 {
		return "", constants.ErrInvalidAdminSecret
	}

	authToken, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{Secret: request.Secret})
	if err != nil {
		return "", err
	}

	logger.Debugf(ctx, "admin login succeeded")
	return authToken, nil
}

// Authorize checks an admin token taken from the cookie.
func (svc *Service) Authorize(tokenString string) error {
	token, err := utils.ParseAuthToken(tokenString)
	if err != nil {
		return err
	}

	if svc.secret == "" || subtle.ConstantTimeCompare([]byte(token.Secret), []byte(svc.secret)) != 1 {
		return constants.ErrUnauthorized
	}

	return nil
}

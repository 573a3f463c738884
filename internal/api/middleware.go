package api

import (
	"github.com/labstack/echo/v4"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
)

// RequestLogger puts a logger carrying the request id into the request context.
func RequestLogger(ctx echo.Context, requestID string) {
	req := ctx.Request()
	ctx.Set(constants.CtxKeyRequestID, requestID)
	ctx.SetRequest(req.WithContext(logger.WithFields(req.Context(), constants.CtxKeyRequestID, requestID)))
}

func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		cookie, err := ctx.Cookie(constants.CookieKeySecretToken)
		if err != nil {
			return constants.ErrMissingAdminCookie
		}

		if err := svc.authService.Authorize(cookie.Value); err != nil {
			return err
		}

		return next(ctx)
	}
}

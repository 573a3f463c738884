package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/spf13/viper"
)

func (c *Controller) LoginAdmin(ctx echo.Context) error {
	var req dto.AdminLoginRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	token, err := c.Auth.LoginAdmin(ctx.Request().Context(), &req)
	if err != nil {
		return err
	}

	ctx.SetCookie(&http.Cookie{
		Name:     constants.CookieKeySecretToken,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(viper.GetDuration(constants.ViperTokenTTLKey)),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) LogoutAdmin(ctx echo.Context) error {
	ctx.SetCookie(&http.Cookie{
		Name:     constants.CookieKeySecretToken,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	return ctx.NoContent(http.StatusNoContent)
}

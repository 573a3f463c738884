package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/service/analytics"
	"github.com/lankasolar/solarcalc/internal/service/auth"
	"github.com/lankasolar/solarcalc/internal/service/calculator"
	"github.com/lankasolar/solarcalc/internal/service/coefficients"
	"github.com/lankasolar/solarcalc/internal/service/locations"
	"github.com/lankasolar/solarcalc/internal/service/panels"
	"github.com/lankasolar/solarcalc/internal/service/rates"
	"github.com/lankasolar/solarcalc/internal/service/variables"
)

type Services struct {
	Variables    *variables.Service
	Coefficients *coefficients.Service
	Locations    *locations.Service
	Panels       *panels.Service
	Rates        *rates.Service
	Calculator   *calculator.Service
	Analytics    *analytics.Service
	Auth         *auth.Service
}

type Controller struct {
	Services
}

func NewController(services Services) *Controller {
	return &Controller{Services: services}
}

func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func paramID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", constants.ErrInvalidInput, ctx.Param("id"))
	}
	return id, nil
}

// queryBool reads a boolean query parameter, falling back to def when it is absent.
func queryBool(ctx echo.Context, name string, def bool) (bool, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", constants.ErrInvalidInput, name, raw)
	}
	return v, nil
}

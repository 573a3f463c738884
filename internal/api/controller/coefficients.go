package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
)

func (c *Controller) GetActiveCoefficientSet(ctx echo.Context) error {
	set, err := c.Coefficients.GetActiveCoefficientSet(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, set)
}

func (c *Controller) ListCoefficientSets(ctx echo.Context) error {
	sets, err := c.Coefficients.ListCoefficientSets(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, sets)
}

func (c *Controller) GetCoefficientSet(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	set, err := c.Coefficients.GetCoefficientSet(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, set)
}

func (c *Controller) CreateCoefficientSet(ctx echo.Context) error {
	var req dto.CoefficientSetRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	set, err := c.Coefficients.CreateCoefficientSet(ctx.Request().Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, set)
}

func (c *Controller) UpdateCoefficientSet(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.CoefficientSetRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	set, err := c.Coefficients.UpdateCoefficientSet(ctx.Request().Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, set)
}

func (c *Controller) ActivateCoefficientSet(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	if err := c.Coefficients.ActivateCoefficientSet(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) EvaluateModel(ctx echo.Context) error {
	var req dto.EvaluateRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	resp, err := c.Coefficients.Evaluate(ctx.Request().Context(), req.Values)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, resp)
}

package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
)

func (c *Controller) ListRateTiers(ctx echo.Context) error {
	onlyActive, err := queryBool(ctx, "active", true)
	if err != nil {
		return err
	}

	tiers, err := c.Rates.ListRateTiers(ctx.Request().Context(), onlyActive)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, tiers)
}

func (c *Controller) GetRateTier(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	tier, err := c.Rates.GetRateTier(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, tier)
}

func (c *Controller) CreateRateTier(ctx echo.Context) error {
	var req dto.RateTierRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	tier, err := c.Rates.CreateRateTier(ctx.Request().Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, tier)
}

func (c *Controller) UpdateRateTier(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.RateTierRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	tier, err := c.Rates.UpdateRateTier(ctx.Request().Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, tier)
}

func (c *Controller) DeactivateRateTier(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	if err := c.Rates.DeactivateRateTier(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ImportRateTiers scrapes the tariff page and replaces matching tiers.
func (c *Controller) ImportRateTiers(ctx echo.Context) error {
	var req dto.RateImportRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	tiers, err := c.Rates.ImportRateTiers(ctx.Request().Context(), req.URL)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, tiers)
}

func (c *Controller) EstimateBill(ctx echo.Context) error {
	var req dto.BillRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	bill, err := c.Rates.EstimateBill(ctx.Request().Context(), req.Units)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, bill)
}

package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
)

func (c *Controller) ListPanels(ctx echo.Context) error {
	panels, err := c.Panels.ListPanels(ctx.Request().Context(), ctx.QueryParams().Get("technology"))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, panels)
}

func (c *Controller) GetPanel(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	panel, err := c.Panels.GetPanel(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, panel)
}

func (c *Controller) CreatePanel(ctx echo.Context) error {
	var req dto.PanelRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	panel, err := c.Panels.CreatePanel(ctx.Request().Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, panel)
}

func (c *Controller) UpdatePanel(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.PanelRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	panel, err := c.Panels.UpdatePanel(ctx.Request().Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, panel)
}

func (c *Controller) DeletePanel(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	if err := c.Panels.DeletePanel(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

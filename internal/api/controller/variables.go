package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
)

func (c *Controller) ListVariables(ctx echo.Context) error {
	onlyActive, err := queryBool(ctx, "active", true)
	if err != nil {
		return err
	}

	variables, err := c.Variables.ListVariables(ctx.Request().Context(), onlyActive)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, variables)
}

func (c *Controller) GetVariable(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	variable, err := c.Variables.GetVariable(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, variable)
}

func (c *Controller) CreateVariable(ctx echo.Context) error {
	var req dto.VariableRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	variable, err := c.Variables.CreateVariable(ctx.Request().Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, variable)
}

func (c *Controller) UpdateVariable(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.VariableRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	variable, err := c.Variables.UpdateVariable(ctx.Request().Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, variable)
}

func (c *Controller) DeactivateVariable(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	if err := c.Variables.DeactivateVariable(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

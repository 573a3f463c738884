package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
)

func (c *Controller) ListLocations(ctx echo.Context) error {
	province := ctx.QueryParams().Get("province")
	district := ctx.QueryParams().Get("district")

	opts := store.ListLocationsOpts{}
	if province != "" {
		opts.Province = &province
	}
	if district != "" {
		opts.District = &district
	}

	locations, err := c.Locations.ListLocations(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, locations)
}

func (c *Controller) ListPlaces(ctx echo.Context) error {
	places, err := c.Locations.ListPlaces(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, places)
}

func (c *Controller) GetLocation(ctx echo.Context) error {
	var place domain.Place
	if err := ctx.Bind(&place); err != nil {
		return err
	}

	location, err := c.Locations.GetLocation(ctx.Request().Context(), place)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, location)
}

func (c *Controller) UpsertLocation(ctx echo.Context) error {
	var req dto.LocationRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	location, err := c.Locations.UpsertLocation(ctx.Request().Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, location)
}

func (c *Controller) DeleteLocation(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	if err := c.Locations.DeleteLocation(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

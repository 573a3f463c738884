package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/export"
)

func (c *Controller) Calculate(ctx echo.Context) error {
	var req dto.CalculateRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	calculation, err := c.Calculator.Calculate(ctx.Request().Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, calculation)
}

func (c *Controller) ListCalculations(ctx echo.Context) error {
	var req dto.ListCalculationsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	calculations, err := c.Calculator.ListCalculations(ctx.Request().Context(), req.Limit)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, calculations)
}

func (c *Controller) GetCalculation(ctx echo.Context) error {
	calculation, err := c.Calculator.GetCalculation(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, calculation)
}

func (c *Controller) ExportCalculations(ctx echo.Context) error {
	var req dto.ListCalculationsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	data, err := c.Calculator.ExportXLSX(ctx.Request().Context(), req.Limit)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("calculations-%s.xlsx", time.Now().UTC().Format("20060102"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return ctx.Blob(http.StatusOK, export.ContentTypeXLSX, data)
}

func (c *Controller) GetCalculationReport(ctx echo.Context) error {
	id := ctx.Param("id")
	data, err := c.Calculator.ReportPDF(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "estimate-"+id+".pdf"))
	return ctx.Blob(http.StatusOK, export.ContentTypePDF, data)
}

func (c *Controller) GetAnalytics(ctx echo.Context) error {
	analytics, err := c.Analytics.GetAnalytics(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, analytics)
}

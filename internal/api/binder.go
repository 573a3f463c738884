package api

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
)

// Binder binds path, query and body like echo.DefaultBinder and validates the result.
type Binder struct {
	echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, ctx echo.Context) error {
	if err := b.DefaultBinder.Bind(i, ctx); err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return fmt.Errorf("%w: %v", constants.ErrInvalidInput, he.Message)
		}
		return fmt.Errorf("%w: %s", constants.ErrInvalidInput, err)
	}

	return ctx.Validate(i)
}

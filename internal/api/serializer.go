package api

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
)

// JSONSerializer encodes responses and decodes request bodies with sonic.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(ctx echo.Context, i interface{}, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(ctx.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(ctx echo.Context, i interface{}) error {
	if err := sonic.ConfigStd.NewDecoder(ctx.Request().Body).Decode(i); err != nil {
		return fmt.Errorf("%w: malformed json: %s", constants.ErrInvalidInput, err)
	}
	return nil
}

package webserver

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/spicemart/spicesite/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsoniterSerializer implements echo.JSONSerializer with json-iterator.
type jsoniterSerializer struct{}

func (jsoniterSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsoniterSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := json.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body").SetInternal(err)
	}
	return nil
}

// inputValidator implements echo.Validator with the domain struct rules.
type inputValidator struct{}

func (inputValidator) Validate(i interface{}) error {
	return domain.Validate(i)
}

// Package compose exposes the email selection endpoint.
package compose

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/composer"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
)

var validate = validator.New()

// Register registers compose routes
func Register(g *echo.Group) {
	g.POST("/selection", Selection)
}

// SelectionRequest is the request body for composing an email selection
type SelectionRequest struct {
	Wines []models.WineRecord `json:"wines" validate:"required,min=1,max=2,dive"`
}

// SelectionResponse carries the composed selection and its display preview
type SelectionResponse struct {
	Selection *composer.Selection `json:"selection"`
	Preview   string              `json:"preview"`
}

// Selection merges one or two selected wines into the email-prompt view
func Selection(c echo.Context) error {
	var req SelectionRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	selection, err := composer.Compose(req.Wines)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, SelectionResponse{
		Selection: selection,
		Preview:   composer.Preview(selection),
	})
}

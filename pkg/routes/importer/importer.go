// Package importer exposes the wine list import endpoints.
package importer

import (
	"io"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	importsvc "github.com/atsuyamaru/wine-ec-email-composer/pkg/importer"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
)

var validate = validator.New()

// Register registers import routes
func Register(g *echo.Group) {
	g.POST("", ImportText)
	g.POST("/pdf", ImportPDF)
}

// ImportText runs the import pipeline over pre-extracted wine list text
func ImportText(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ImportRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*importsvc.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := svc.ImportText(ctx, req.Text, req.SourceFile, req.Threshold, req.Debug)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// ImportPDF accepts a multipart PDF upload and runs the import pipeline
func ImportPDF(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "failed to read uploaded file")
	}

	threshold, _ := strconv.ParseFloat(c.FormValue("threshold"), 64)
	debug, _ := strconv.ParseBool(c.FormValue("debug"))

	ctx, svc, err := ectoinject.GetContext[*importsvc.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := svc.ImportPDF(ctx, data, fileHeader.Filename, threshold, debug)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

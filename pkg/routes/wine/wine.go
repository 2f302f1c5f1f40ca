// Package wine exposes the wine library and deduplication endpoints.
package wine

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/atsuyamaru/wine-ec-email-composer/config"
	winerepo "github.com/atsuyamaru/wine-ec-email-composer/internal/repositories/wine"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/dedup"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
)

var validate = validator.New()

// Register registers wine library routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.POST("", Create)
	g.GET("/:id", Get)
	g.PUT("/:id", Update)
	g.DELETE("/:id", Delete)
	g.POST("/deduplicate", Deduplicate)
}

// List returns a page of stored wines
func List(c echo.Context) error {
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, repo, err := ectoinject.GetContext[*winerepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	wines, total, err := repo.List(ctx, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"wines": wines,
		"total": total,
	})
}

// Create adds a wine to the library
func Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CreateWineRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*winerepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	created, err := repo.Create(ctx, req.Record())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// Get returns a wine by ID
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*winerepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	wine, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, wine)
}

// Update replaces a wine's record fields
func Update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req models.CreateWineRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*winerepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	updated, err := repo.Update(ctx, id, req.Record())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// Delete removes a wine from the library
func Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*winerepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Deduplicate runs an ad-hoc deduplication over the posted records without
// touching the library
func Deduplicate(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.DeduplicateRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, cfg, err := ectoinject.GetContext[*config.Config](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if req.Threshold == 0 {
		req.Threshold = cfg.SimilarityThreshold
	}
	req.Debug = req.Debug || cfg.DedupDebug

	ctx, deduplicator, err := ectoinject.GetContext[*dedup.Deduplicator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	wines, trace := deduplicator.Deduplicate(ctx, req.Records, req.Threshold, req.Debug)

	return c.JSON(http.StatusOK, models.DeduplicateResponse{
		Wines: wines,
		Trace: trace,
	})
}

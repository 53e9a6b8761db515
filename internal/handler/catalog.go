package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/repository"
)

// CatalogHandler exposes the public, read-only view of the habit catalog.
type CatalogHandler struct {
	Catalog *repository.CatalogRepo
}

func NewCatalogHandler(catalog *repository.CatalogRepo) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog}
}

// ListTemplates returns all predefined habits, optionally filtered with
// ?type=daily|weekly.  No authentication required; the route sits behind the
// Redis response cache.
func (h *CatalogHandler) ListTemplates(c echo.Context) error {
	cadence := model.Cadence(c.QueryParam("type"))
	if cadence != "" && !cadence.Valid() {
		return fail(c, repository.ErrInvalidCadence)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tpls, err := h.Catalog.List(ctx, cadence)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "habits": tpls})
}

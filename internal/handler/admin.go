package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/repository"
)

// AdminHandler implements the admin-gated account and catalog operations.
// The routes are protected by middleware.AdminAuth; no per-handler
// credential checks are needed here.
type AdminHandler struct {
	Users   *repository.UserRepo
	Catalog *repository.CatalogRepo
}

func NewAdminHandler(users *repository.UserRepo, catalog *repository.CatalogRepo) *AdminHandler {
	return &AdminHandler{Users: users, Catalog: catalog}
}

type idReq struct {
	ID string `json:"_id"`
}

type templateReq struct {
	Name        string `json:"name"`
	Cadence     string `json:"type"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Description string `json:"description"`
}

type adminUserView struct {
	ID       string                `json:"_id"`
	Username string                `json:"username"`
	Email    string                `json:"email"`
	Name     string                `json:"name"`
	Habits   []model.HabitInstance `json:"habits"`
}

// Validate lets the frontend check admin credentials; the middleware does
// the actual work, so reaching the handler already means success.
func (h *AdminHandler) Validate(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteUser removes an account by id.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	var req idReq
	if err := c.Bind(&req); err != nil || req.ID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "_id is required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, req.ID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "user successfully deleted"})
}

// ListUsers returns every account without the credential hashes.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	views := make([]adminUserView, 0, len(users))
	for _, u := range users {
		habits := u.Habits
		if habits == nil {
			habits = []model.HabitInstance{}
		}
		views = append(views, adminUserView{
			ID: u.ID, Username: u.Username, Email: u.Email, Name: u.Name, Habits: habits,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": views})
}

// AddTemplate creates a predefined habit in the catalog.
func (h *AdminHandler) AddTemplate(c echo.Context) error {
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tpl, err := h.Catalog.Add(ctx, model.HabitTemplate{
		Name:        req.Name,
		Cadence:     model.Cadence(req.Cadence),
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Description: req.Description,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": tpl})
}

// RemoveTemplate deletes a predefined habit from the catalog.  Instances
// already assigned from it carry their own copies and are unaffected.
func (h *AdminHandler) RemoveTemplate(c echo.Context) error {
	var req idReq
	if err := c.Bind(&req); err != nil || req.ID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "_id is required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Catalog.Remove(ctx, req.ID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "habit successfully removed"})
}

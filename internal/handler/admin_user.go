package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autostrada/auction-api/internal/model"
	"github.com/autostrada/auction-api/internal/repository"
)

// AdminUserHandler serves the admin user-management and analytics
// endpoints.
type AdminUserHandler struct {
	Users         *repository.UserRepo
	AnalyticsRepo *repository.AnalyticsRepo
}

func NewAdminUserHandler(u *repository.UserRepo, a *repository.AnalyticsRepo) *AdminUserHandler {
	return &AdminUserHandler{Users: u, AnalyticsRepo: a}
}

type adminUserResp struct {
	ID         uint64 `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	IsActive   bool   `json:"is_active"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
}

func toAdminUserResp(u model.User) adminUserResp {
	return adminUserResp{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(u.Role),
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List returns users, optionally narrowed by ?role=.
func (h *AdminUserHandler) List(c echo.Context) error {
	var role model.Role
	if raw := strings.ToUpper(strings.TrimSpace(c.QueryParam("role"))); raw != "" {
		role = model.Role(raw)
		if !role.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role filter"})
		}
	}
	limit, offset := pagination(c, 50, 200)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx, role, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]adminUserResp, 0, len(users))
	for _, u := range users {
		out = append(out, toAdminUserResp(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out, "limit": limit, "offset": offset})
}

// Get returns one user.
func (h *AdminUserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toAdminUserResp(u))
}

type updateFlagsReq struct {
	IsActive   *bool `json:"is_active"`
	IsVerified *bool `json:"is_verified"`
}

// UpdateFlags toggles a user's active/verified flags.  Omitted fields
// keep their current value.
func (h *AdminUserHandler) UpdateFlags(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req updateFlagsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.IsActive == nil && req.IsVerified == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	isActive, isVerified := u.IsActive, u.IsVerified
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	if req.IsVerified != nil {
		isVerified = *req.IsVerified
	}

	// Deactivating the only remaining admin would lock everyone out.
	if u.Role == model.RoleAdmin && u.IsActive && !isActive {
		n, err := h.Users.CountAdmins(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if n <= 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot deactivate the last admin"})
		}
	}

	if err := h.Users.UpdateFlags(ctx, id, isActive, isVerified); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	u.IsActive, u.IsVerified = isActive, isVerified
	return c.JSON(http.StatusOK, toAdminUserResp(u))
}

// deleteUserGuard applies the account-removal rules to the counts read
// for the target user: the sole remaining admin is protected and live
// auctions block deletion.  It returns the HTTP status to reject with
// and the error message, or 0 when deletion may proceed.
func deleteUserGuard(role model.Role, adminCount, liveAuctions int) (int, string) {
	if role == model.RoleAdmin && adminCount <= 1 {
		return http.StatusBadRequest, "cannot delete the last admin"
	}
	if liveAuctions > 0 {
		return http.StatusConflict, "user has live auctions"
	}
	return 0, ""
}

// Delete removes a user account.  Guards: the last admin can never be
// deleted (400) and a user with live auctions blocks deletion (409).
// Finished auctions survive with their seller reference cleared.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	adminCount := 0
	if u.Role == model.RoleAdmin {
		adminCount, err = h.Users.CountAdmins(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}
	live, err := h.Users.CountLiveAuctions(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if code, msg := deleteUserGuard(u.Role, adminCount, live); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}

	if err := h.Users.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Analytics returns marketplace aggregates for the admin dashboard.
func (h *AdminUserHandler) Analytics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ov, err := h.AnalyticsRepo.Load(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ov)
}

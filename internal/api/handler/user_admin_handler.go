package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

// UserAdminHandler serves back-office user management.
type UserAdminHandler struct {
	users ports.UserAdminService
}

func NewUserAdminHandler(users ports.UserAdminService) *UserAdminHandler {
	return &UserAdminHandler{users: users}
}

// SendFollowups handles POST /admin/users/followup.
//
// @Summary      Send follow-up emails
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      followupRequest  true  "userIds or userEmails"
// @Success      200   {object}  followupResponse
// @Failure      400   {object}  errorResponse
// @Router       /admin/users/followup [post]
func (h *UserAdminHandler) SendFollowups(c echo.Context) error {
	var req followupRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	result, err := h.users.SendFollowups(c.Request().Context(), ports.FollowupInput{
		UserIDs:    req.UserIDs,
		UserEmails: req.UserEmails,
	})
	if err != nil {
		return err
	}

	items := make([]followupItem, 0, len(result.Results))
	for _, r := range result.Results {
		items = append(items, followupItem{UserID: r.UserID, Email: r.Email, Success: r.Success, Error: r.Error})
	}
	return c.JSON(http.StatusOK, followupResponse{
		Message: result.Message,
		Sent:    result.Sent,
		Failed:  result.Failed,
		Results: items,
	})
}

// DeleteUser handles DELETE /admin/users/:id, removing the user and everything they own.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "User ID"
// @Success      200 {object}  messageResponse
// @Failure      404 {object}  errorResponse
// @Failure      500 {object}  errorResponse
// @Router       /admin/users/{id} [delete]
func (h *UserAdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted"})
}

// ListUsers handles GET /admin/users?search=&page=&limit=.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Username or email fragment"
// @Param        page    query     int     false  "Page (default 1)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Success      200     {object}  usersPageResponse
// @Failure      400     {object}  errorResponse
// @Router       /admin/users [get]
func (h *UserAdminHandler) ListUsers(c echo.Context) error {
	var q listUsersQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}

	page, err := h.users.ListUsers(c.Request().Context(), ports.ListUsersFilter{
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return err
	}
	users := page.Items
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, usersPageResponse{
		Users:      users,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

// UserPayments handles GET /admin/users/:id/payments, newest first.
//
// @Summary      Payments of a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "User ID"
// @Success      200 {object}  paymentsResponse
// @Failure      404 {object}  errorResponse
// @Router       /admin/users/{id}/payments [get]
func (h *UserAdminHandler) UserPayments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	payments, err := h.users.UserPayments(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return c.JSON(http.StatusOK, paymentsResponse{Payments: payments})
}

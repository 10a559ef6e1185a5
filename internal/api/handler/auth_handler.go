package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Goodness-MArcel/oasis/internal/api/middleware"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
	"github.com/Goodness-MArcel/oasis/internal/core/service"
)

const forgotPasswordMessage = "If an account with that email exists, we've sent a password reset link."

// AuthHandler serves the learner account endpoints.
type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieOptions
}

func NewAuthHandler(authService ports.AuthService, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Register creates a learner account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Signup form"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message:  "Account created. Please log in.",
		User:     user,
		Redirect: "/auth",
	})
}

// Login authenticates a learner and sets the user_token cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.set(c, middleware.UserCookie, session.Token, service.UserTokenTTL)
	return c.JSON(http.StatusOK, sessionResponse{
		Token:    session.Token,
		User:     session.User,
		Redirect: "/user/dashboard",
	})
}

// Logout clears the user_token cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.clear(c, middleware.UserCookie)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out", Redirect: "/auth"})
}

// Profile returns the current learner.
//
// @Summary      Current user profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile edits the current learner and re-issues the session token.
//
// @Summary      Update profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /user/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	session, err := h.authService.UpdateProfile(c.Request().Context(), ports.UpdateProfileInput{
		UserID:   claims.UserID,
		Username: req.Username,
		Email:    req.Email,
		Gender:   req.Gender,
	})
	if err != nil {
		return err
	}

	h.cookies.set(c, middleware.UserCookie, session.Token, service.UserTokenTTL)
	return c.JSON(http.StatusOK, sessionResponse{Token: session.Token, User: session.User})
}

// ForgotPassword mails a reset link. Unknown emails get the same answer as known ones.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: forgotPasswordMessage})
}

// ResetPassword completes a reset with a token from the emailed link.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	err := h.authService.ResetPassword(c.Request().Context(), ports.ResetPasswordInput{
		Token:           req.Token,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{
		Message:  "Your password has been reset. Please log in.",
		Redirect: "/auth",
	})
}

// AdminAuthHandler serves back-office login and logout.
type AdminAuthHandler struct {
	adminAuth ports.AdminAuthService
	cookies   CookieOptions
}

func NewAdminAuthHandler(adminAuth ports.AdminAuthService, cookies CookieOptions) *AdminAuthHandler {
	return &AdminAuthHandler{adminAuth: adminAuth, cookies: cookies}
}

// Login authenticates an admin and sets the admin_token cookie.
//
// @Summary      Admin login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      adminLoginRequest  true  "Admin credentials"
// @Success      200   {object}  adminSessionResponse
// @Failure      401   {object}  errorResponse
// @Router       /admin/auth/login [post]
func (h *AdminAuthHandler) Login(c echo.Context) error {
	var req adminLoginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	token, admin, err := h.adminAuth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.set(c, middleware.AdminCookie, token, service.AdminTokenTTL)
	return c.JSON(http.StatusOK, adminSessionResponse{Token: token, Admin: admin, Redirect: "/admin/dashboard"})
}

// Logout clears the admin_token cookie.
//
// @Summary      Admin logout
// @Tags         admin
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /admin/logout [post]
func (h *AdminAuthHandler) Logout(c echo.Context) error {
	h.cookies.clear(c, middleware.AdminCookie)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out", Redirect: "/admin/login"})
}

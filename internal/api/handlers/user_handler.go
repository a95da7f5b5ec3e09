package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/scan2cad/internal/application"
	"github.com/linskybing/scan2cad/internal/config"
	"github.com/linskybing/scan2cad/internal/domain/user"
	"github.com/linskybing/scan2cad/pkg/response"
	"github.com/linskybing/scan2cad/pkg/utils"
)

type UserHandler struct {
	svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param input body user.RegisterInput true "Account details"
// @Success 201 {object} response.MessageResponse "Check your email to verify the account"
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 409 {object} response.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input user.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if _, err := h.svc.Register(c.Request.Context(), input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.MessageResponse{Message: "Account created, check your email to verify it"})
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param input body user.LoginInput true "Credentials"
// @Success 200 {object} user.LoginResponse "JWT token and user info"
// @Failure 401 {object} response.ErrorResponse "Incorrect email or password"
// @Failure 403 {object} response.ErrorResponse "Account not verified"
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input user.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		respondBindError(c, err)
		return
	}
	out, err := h.svc.Login(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		"token",
		out.Token,
		config.TokenTTLHours*3600,
		"/",
		"",
		config.IsProduction,
		true,
	)
	c.JSON(http.StatusOK, out)
}

// Logout godoc
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} response.MessageResponse "Logout successful"
// @Router /auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie(
		"token",
		"",
		-1,
		"/",
		"",
		config.IsProduction,
		true,
	)
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Logout successful"})
}

// VerifyEmail godoc
// @Summary Verify an email address
// @Tags auth
// @Accept json
// @Produce json
// @Param input body user.VerifyEmailInput true "Verification token"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse "Invalid or expired token"
// @Failure 409 {object} response.ErrorResponse "Already verified"
// @Router /auth/verify-email [post]
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	var input user.VerifyEmailInput
	if err := c.ShouldBind(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.svc.VerifyEmail(input.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Email verified"})
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param input body user.ForgotPasswordInput true "Account email"
// @Success 200 {object} response.MessageResponse
// @Router /auth/forgot-password [post]
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var input user.ForgotPasswordInput
	if err := c.ShouldBind(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.svc.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "If the account exists, a reset link was sent"})
}

// ResetPassword godoc
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param input body user.ResetPasswordInput true "Reset token and new password"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse "Invalid or expired token"
// @Router /auth/reset-password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var input user.ResetPasswordInput
	if err := c.ShouldBind(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.svc.ResetPassword(input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Password updated"})
}

// Me godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} user.UserDTO
// @Security BearerAuth
// @Router /auth/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	id, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	usr, err := h.svc.GetUser(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr.DTO())
}

// GetHours godoc
// @Summary Available credit hours
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} user.HoursDTO
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/hours [get]
func (h *UserHandler) GetHours(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.GetHours(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GrantHours godoc
// @Summary Credit or debit hours
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param input body user.GrantHoursInput true "Hours to add; negative to remove"
// @Success 200 {object} user.HoursDTO
// @Failure 409 {object} response.ErrorResponse "Balance would go negative"
// @Security BearerAuth
// @Router /users/{id}/hours [put]
func (h *UserHandler) GrantHours(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	var input user.GrantHoursInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	out, err := h.svc.GrantHours(id, input.Hours)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

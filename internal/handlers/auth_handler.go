package handlers

import (
	"time"

	"github.com/arzan03/PaperBot/internal/config"
	"github.com/arzan03/PaperBot/internal/dto"
	"github.com/arzan03/PaperBot/internal/middleware"
	"github.com/arzan03/PaperBot/internal/services"
	"github.com/arzan03/PaperBot/internal/utils"
	"github.com/arzan03/PaperBot/internal/validators"
	"github.com/gofiber/fiber/v2"
)

const refreshCookie = "refreshToken"

// UserHandler serves the /users routes: account lifecycle and sessions.
type UserHandler struct {
	auth *services.AuthService
	cfg  *config.Config
}

func NewUserHandler(auth *services.AuthService, cfg *config.Config) *UserHandler {
	return &UserHandler{auth: auth, cfg: cfg}
}

func (h *UserHandler) setSession(c *fiber.Ctx, resp *dto.AuthResponse) {
	secure := h.cfg.IsProduction()
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessCookie,
		Value:    resp.AccessToken,
		Expires:  time.Now().Add(h.cfg.AccessTokenExpiry),
		HTTPOnly: true,
		Secure:   secure,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    resp.RefreshToken,
		Expires:  time.Now().Add(h.cfg.RefreshTokenExpiry),
		HTTPOnly: true,
		Secure:   secure,
	})
}

func (h *UserHandler) clearSession(c *fiber.Ctx) {
	c.ClearCookie(middleware.AccessCookie, refreshCookie)
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	req := validators.Parsed[dto.RegisterRequest](c)
	user, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusCreated, fiber.Map{"user": user},
		"Users registered successfully and verification email has been sent on your email.")
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	req := validators.Parsed[dto.LoginRequest](c)
	resp, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	h.setSession(c, resp)
	return utils.Success(c, fiber.StatusOK, resp, "User logged in successfully")
}

func (h *UserHandler) Logout(c *fiber.Ctx) error {
	jti, exp := middleware.AccessToken(c)
	if err := h.auth.Logout(c.UserContext(), middleware.UserID(c), jti, exp); err != nil {
		return err
	}
	h.clearSession(c)
	return utils.Success(c, fiber.StatusOK, fiber.Map{}, "User logged out")
}

// RefreshToken accepts the refresh token from the body or the cookie.
func (h *UserHandler) RefreshToken(c *fiber.Ctx) error {
	raw := validators.Parsed[dto.RefreshTokenRequest](c).RefreshToken
	if raw == "" {
		raw = c.Cookies(refreshCookie)
	}
	resp, err := h.auth.RefreshAccessToken(c.UserContext(), raw)
	if err != nil {
		return err
	}
	h.setSession(c, resp)
	return utils.Success(c, fiber.StatusOK, resp, "Access token refreshed")
}

func (h *UserHandler) VerifyEmail(c *fiber.Ctx) error {
	if _, err := h.auth.VerifyEmail(c.UserContext(), c.Params("verificationToken")); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"isEmailVerified": true}, "Email is verified")
}

func (h *UserHandler) ResendEmailVerification(c *fiber.Ctx) error {
	if err := h.auth.ResendEmailVerification(c.UserContext(), middleware.UserID(c)); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{}, "Mail has been sent to your mail ID")
}

func (h *UserHandler) ForgotPassword(c *fiber.Ctx) error {
	req := validators.Parsed[dto.ForgotPasswordRequest](c)
	if err := h.auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{}, "Password reset mail has been sent on your mail id")
}

func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	req := validators.Parsed[dto.ResetPasswordRequest](c)
	if err := h.auth.ResetPassword(c.UserContext(), c.Params("resetToken"), req.NewPassword); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{}, "Password reset successfully")
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	req := validators.Parsed[dto.ChangePasswordRequest](c)
	if err := h.auth.ChangePassword(c.UserContext(), middleware.UserID(c), req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{}, "Password changed successfully")
}

func (h *UserHandler) CurrentUser(c *fiber.Ctx) error {
	user, err := h.auth.CurrentUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, user, "Current user fetched successfully")
}

func (h *UserHandler) RequestOTP(c *fiber.Ctx) error {
	req := validators.Parsed[dto.OTPRequest](c)
	if err := h.auth.RequestOTP(c.UserContext(), req.Email); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{}, "OTP has been sent on your mail id")
}

func (h *UserHandler) VerifyOTP(c *fiber.Ctx) error {
	req := validators.Parsed[dto.VerifyOTPRequest](c)
	resp, err := h.auth.VerifyOTP(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return err
	}
	h.setSession(c, resp)
	return utils.Success(c, fiber.StatusOK, resp, "OTP verified successfully")
}

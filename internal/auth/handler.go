package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/placefinder/placefinder/internal/httpx"
	"github.com/placefinder/placefinder/internal/middleware"
)

// Handler exposes the account endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"jwt_token"`
}

var editMessages = map[EditKind]string{
	EditUsername: "OK: Username updated successfully.",
	EditEmail:    "OK: Email updated successfully.",
	EditPassword: "OK: Password updated successfully.",
}

// Signup registers a new account.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req SignupInput
	if err := httpx.ParseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.svc.Signup(c.UserContext(), req); err != nil {
		return err
	}
	return httpx.Detail(c, http.StatusCreated, "Created: User created successfully")
}

// Login validates credentials and returns a token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := httpx.ParseBody(c, &req); err != nil {
		return err
	}
	token, err := h.svc.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(loginResponse{Token: token})
}

// ForgottenPassword resets the password for an email address.
func (h *Handler) ForgottenPassword(c *fiber.Ctx) error {
	var req ResetInput
	if err := httpx.ParseBody(c, &req); err != nil {
		return err
	}
	if err := h.svc.ResetPassword(c.UserContext(), req); err != nil {
		return err
	}
	return httpx.Detail(c, http.StatusOK, "OK: Password updated successfully")
}

// EditProfile changes exactly one of username, email or password.
func (h *Handler) EditProfile(c *fiber.Ctx) error {
	var req EditRequest
	if err := httpx.ParseBody(c, &req); err != nil {
		return err
	}
	kind, err := h.svc.EditProfile(c.UserContext(), middleware.UserID(c), req.Intent())
	if err != nil {
		return err
	}
	if kind == EditNone {
		return c.Status(http.StatusOK).JSON(fiber.Map{"status": "No changes were made."})
	}
	return httpx.Detail(c, http.StatusOK, editMessages[kind])
}

// DeleteAccount removes the caller's account.
func (h *Handler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.svc.DeleteAccount(c.UserContext(), middleware.UserID(c)); err != nil {
		return err
	}
	return httpx.Detail(c, http.StatusOK, "OK: Account deleted successfully.")
}

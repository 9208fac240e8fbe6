package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"megano/internal/log"
	"megano/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

type signInReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type signUpReq struct {
	Name     string `json:"name" form:"name"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// POST /api/sign-in
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req signInReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "malformed request")
	}
	sid := ensureSID(c)
	u, err := h.Auth.SignIn(sid, req.Username, req.Password)
	if err != nil {
		log.Security(c, "auth.sign_in.fail", map[string]any{"username": req.Username})
		return fail(c, "auth.sign_in", err)
	}
	c.Locals("user", u)
	log.Audit(c, "auth.sign_in", map[string]any{"username": u.Username})
	return c.JSON(fiber.Map{"username": u.Username})
}

// POST /api/sign-up
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req signUpReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "malformed request")
	}
	sid := ensureSID(c)
	u, err := h.Auth.SignUp(sid, req.Name, req.Username, req.Password)
	if err != nil {
		return fail(c, "auth.sign_up", err)
	}
	c.Locals("user", u)
	log.Audit(c, "auth.sign_up", map[string]any{"username": u.Username})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"username": u.Username})
}

// POST /api/sign-out
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid != "" {
		if err := h.Auth.SignOut(sid); err != nil {
			return err
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.sign_out", nil)
	return c.SendStatus(fiber.StatusOK)
}

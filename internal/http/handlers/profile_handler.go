package handlers

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "megano/internal/log"
	"megano/internal/services"
)

const maxAvatarSize = 2 << 20

var avatarExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

type ProfileHandler struct {
	Profiles *services.ProfileService
	Auth     *services.AuthService
	MediaDir string
}

type profileReq struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

type passwordReq struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
	PasswordReply   string `json:"passwordReply" form:"passwordReply"`
}

// GET /api/profile
func (h *ProfileHandler) View(c *fiber.Ctx) error {
	v, err := h.Profiles.Get(userOf(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(profileView(v))
}

// POST /api/profile
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var req profileReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "malformed request")
	}
	v, err := h.Profiles.Update(userOf(c).ID, services.ProfileUpdate{FullName: req.FullName, Email: req.Email, Phone: req.Phone})
	if err != nil {
		return fail(c, "profile.update", err)
	}
	applog.Audit(c, "profile.update", nil)
	return c.JSON(profileView(v))
}

// POST /api/profile/password
func (h *ProfileHandler) Password(c *fiber.Ctx) error {
	var req passwordReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "malformed request")
	}
	if err := h.Auth.ChangePassword(userOf(c).ID, req.CurrentPassword, req.NewPassword, req.PasswordReply); err != nil {
		return fail(c, "profile.password", err)
	}
	applog.Audit(c, "profile.password", nil)
	return c.SendStatus(fiber.StatusOK)
}

// POST /api/profile/avatar stores the upload under
// MEDIA_DIR/profile/user_<id>/avatar/ and serves it from /media.
func (h *ProfileHandler) Avatar(c *fiber.Ctx) error {
	u := userOf(c)
	fh, err := c.FormFile("avatar")
	if err != nil {
		return badRequest(c, "avatar", "attach an image file")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !avatarExts[ext] {
		return badRequest(c, "avatar", "unsupported image type")
	}
	if fh.Size > maxAvatarSize {
		return badRequest(c, "avatar", "image is too large")
	}

	rel := path.Join("profile", fmt.Sprintf("user_%d", u.ID), "avatar")
	dir := filepath.Join(h.MediaDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		applog.Error(c, "profile.avatar.mkdir", err, nil)
		return err
	}
	name := uuid.NewString() + ext
	if err := c.SaveFile(fh, filepath.Join(dir, name)); err != nil {
		applog.Error(c, "profile.avatar.save", err, nil)
		return err
	}
	v, err := h.Profiles.SetAvatar(u.ID, "/media/"+path.Join(rel, name), u.Username+" avatar")
	if err != nil {
		return err
	}
	applog.Audit(c, "profile.avatar", map[string]any{"file": name})
	return c.JSON(profileView(v))
}

package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rexxDigital/snailmail/types"
)

// UserHandler serves the single fixed profile.
type UserHandler struct {
	profile types.Profile
}

func NewUserHandler(profile types.Profile) *UserHandler {
	return &UserHandler{profile: profile}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	return c.JSON(h.profile)
}

package handlers

import (
	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/gofiber/fiber/v2"
)

type BadgeHandler struct {
	badgeSvc BadgeServiceInterface
}

func NewBadgeHandler(badgeSvc BadgeServiceInterface) *BadgeHandler {
	return &BadgeHandler{
		badgeSvc: badgeSvc,
	}
}

// @Summary List badges
// @Description Badge catalog with the caller's earned flags
// @Tags badges
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.BadgeResponse}
// @Router /api/v1/badges [get]
func (h *BadgeHandler) ListBadges(c *fiber.Ctx) error {
	badges, err := h.badgeSvc.ListBadges(currentUser(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", badges)
}

// @Summary Check for new badges
// @Description Awards every badge the caller now qualifies for and returns the new ids
// @Tags badges
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.CheckBadgesResponse}
// @Router /api/v1/badges/check [post]
func (h *BadgeHandler) CheckBadges(c *fiber.Ctx) error {
	resp, err := h.badgeSvc.CheckBadges(currentUser(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
